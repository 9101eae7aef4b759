package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gobwas/glob"

	"github.com/entrhq/autojoin/pkg/meeting"
)

const (
	// SectionIDMeeting is the identifier for the meeting section
	SectionIDMeeting = "meeting"
)

// MeetingSettings are the stored inputs for a join attempt.
type MeetingSettings struct {
	DisplayName  string
	UserName     string
	UserPassword string
	BaseURL      string
	MeetingID    string
	MeetingURL   string
	AllowedHosts []string
}

// HasTarget reports whether a meeting URL can be built.
func (s MeetingSettings) HasTarget() bool {
	return s.MeetingURL != "" || (s.BaseURL != "" && s.MeetingID != "")
}

// Params converts the settings to meeting.Params.
func (s MeetingSettings) Params() meeting.Params {
	return meeting.Params{
		DisplayName:  s.DisplayName,
		UserName:     s.UserName,
		UserPassword: s.UserPassword,
		MeetingURL:   s.MeetingURL,
		BaseURL:      s.BaseURL,
		MeetingID:    s.MeetingID,
		AllowedHosts: append([]string(nil), s.AllowedHosts...),
	}
}

// MeetingSection stores who joins which meeting.
type MeetingSection struct {
	mu       sync.RWMutex
	settings MeetingSettings
}

// NewMeetingSection creates a meeting section with the default display name.
func NewMeetingSection() *MeetingSection {
	s := &MeetingSection{}
	s.Reset()
	return s
}

func (s *MeetingSection) ID() string    { return SectionIDMeeting }
func (s *MeetingSection) Title() string { return "Meeting" }

func (s *MeetingSection) Description() string {
	return "Meeting to join, the name shown to other participants and optional login credentials."
}

// Data returns the current configuration data.
func (s *MeetingSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hosts := s.settings.AllowedHosts
	if hosts == nil {
		hosts = []string{}
	}
	return map[string]interface{}{
		"display_name":  s.settings.DisplayName,
		"user_name":     s.settings.UserName,
		"user_password": s.settings.UserPassword,
		"base_url":      s.settings.BaseURL,
		"meeting_id":    s.settings.MeetingID,
		"meeting_url":   s.settings.MeetingURL,
		"allowed_hosts": append([]string(nil), hosts...),
	}
}

// SetData updates the configuration from the provided data.
func (s *MeetingSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings
	for key, value := range data {
		var err error
		switch key {
		case "display_name":
			next.DisplayName, err = stringValue(key, value)
		case "user_name":
			next.UserName, err = stringValue(key, value)
		case "user_password":
			next.UserPassword, err = stringValue(key, value)
		case "base_url":
			next.BaseURL, err = stringValue(key, value)
		case "meeting_id":
			next.MeetingID, err = stringValue(key, value)
		case "meeting_url":
			next.MeetingURL, err = stringValue(key, value)
		case "allowed_hosts":
			next.AllowedHosts, err = stringsValue(key, value)
		}
		if err != nil {
			return err
		}
	}
	s.settings = next
	return nil
}

// Validate checks the parts of the section that can be checked without a
// URL. A section with no meeting yet is valid.
func (s *MeetingSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if (strings.TrimSpace(s.settings.UserName) == "") != (s.settings.UserPassword == "") {
		return fmt.Errorf("user_name and user_password must be set together")
	}
	for _, pattern := range s.settings.AllowedHosts {
		if _, err := glob.Compile(strings.ToLower(pattern), '.'); err != nil {
			return fmt.Errorf("invalid allowed_hosts pattern %q: %w", pattern, err)
		}
	}
	if s.settings.HasTarget() {
		if _, err := meeting.NewConfig(s.settings.Params()); err != nil {
			return err
		}
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *MeetingSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = MeetingSettings{DisplayName: meeting.DefaultDisplayName}
}

// Settings returns a copy of the current settings.
func (s *MeetingSection) Settings() MeetingSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.settings
	out.AllowedHosts = append([]string(nil), s.settings.AllowedHosts...)
	return out
}

// Update replaces the settings after validating them.
func (s *MeetingSection) Update(settings MeetingSettings) error {
	s.mu.Lock()
	prev := s.settings
	s.settings = settings
	s.mu.Unlock()

	if err := s.Validate(); err != nil {
		s.mu.Lock()
		s.settings = prev
		s.mu.Unlock()
		return err
	}
	return nil
}
