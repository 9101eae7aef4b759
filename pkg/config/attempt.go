package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AttemptFile is a YAML overlay for a single run, for example:
//
//	meeting:
//	  url: https://meet.jit.si/standup
//	  display_name: Recorder
//	browser:
//	  headless: false
//	  heartbeat_interval: 1m
//
// Fields left out keep the stored settings.
type AttemptFile struct {
	Meeting AttemptMeeting `yaml:"meeting"`
	Browser AttemptBrowser `yaml:"browser"`
}

// AttemptMeeting overrides meeting settings.
type AttemptMeeting struct {
	URL          string   `yaml:"url"`
	BaseURL      string   `yaml:"base_url"`
	MeetingID    string   `yaml:"meeting_id"`
	DisplayName  string   `yaml:"display_name"`
	UserName     string   `yaml:"user_name"`
	UserPassword string   `yaml:"user_password"`
	AllowedHosts []string `yaml:"allowed_hosts"`
}

// AttemptBrowser overrides browser settings.
type AttemptBrowser struct {
	Headless          *bool         `yaml:"headless"`
	Install           *bool         `yaml:"install"`
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`
	ScreenshotPath    string        `yaml:"screenshot_path"`
	NavigateTimeout   time.Duration `yaml:"navigate_timeout"`
	StepTimeout       time.Duration `yaml:"step_timeout"`
	AuthTimeout       time.Duration `yaml:"auth_timeout"`
	MediaTimeout      time.Duration `yaml:"media_timeout"`
}

// LoadAttemptFile reads and parses a YAML attempt file.
func LoadAttemptFile(path string) (*AttemptFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read attempt file: %w", err)
	}

	var f AttemptFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse attempt file %s: %w", path, err)
	}
	return &f, nil
}

func (f *AttemptFile) applyMeeting(s *MeetingSettings) {
	m := f.Meeting
	if m.URL != "" || m.BaseURL != "" || m.MeetingID != "" {
		// A target in the file replaces the stored one as a whole
		s.MeetingURL, s.BaseURL, s.MeetingID = m.URL, m.BaseURL, m.MeetingID
	}
	setString(&s.DisplayName, m.DisplayName)
	if m.UserName != "" || m.UserPassword != "" {
		s.UserName, s.UserPassword = m.UserName, m.UserPassword
	}
	if m.AllowedHosts != nil {
		s.AllowedHosts = append([]string(nil), m.AllowedHosts...)
	}
}

func (f *AttemptFile) applyBrowser(s *BrowserSettings) {
	b := f.Browser
	if b.Headless != nil {
		s.Headless = *b.Headless
	}
	if b.Install != nil {
		s.Install = *b.Install
	}
	setString(&s.ScreenshotPath, b.ScreenshotPath)
	setDuration(&s.HeartbeatInterval, b.HeartbeatInterval)
	setDuration(&s.NavigateTimeout, b.NavigateTimeout)
	setDuration(&s.StepTimeout, b.StepTimeout)
	setDuration(&s.AuthTimeout, b.AuthTimeout)
	setDuration(&s.MediaTimeout, b.MediaTimeout)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}
