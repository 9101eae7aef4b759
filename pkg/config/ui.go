package config

import (
	"fmt"
	"sync"
)

const (
	// SectionIDUI is the identifier for the UI settings section
	SectionIDUI = "ui"

	// MeetingSoftwareJitsi is the only supported meeting software.
	MeetingSoftwareJitsi = "jitsi"
)

// Appearance is the color mode of the settings window.
type Appearance string

const (
	AppearanceSystem Appearance = "System"
	AppearanceDark   Appearance = "Dark"
	AppearanceLight  Appearance = "Light"
)

// Appearances lists the modes in cycling order.
var Appearances = []Appearance{AppearanceSystem, AppearanceDark, AppearanceLight}

// Next returns the mode after a in Appearances.
func (a Appearance) Next() Appearance {
	for i, mode := range Appearances {
		if mode == a {
			return Appearances[(i+1)%len(Appearances)]
		}
	}
	return AppearanceSystem
}

func (a Appearance) valid() bool {
	for _, mode := range Appearances {
		if mode == a {
			return true
		}
	}
	return false
}

// UISection manages settings window preferences.
type UISection struct {
	Appearance      Appearance
	MeetingSoftware string

	// SetupRequired is true until a meeting has been configured. Joining
	// is refused while it is set.
	SetupRequired bool

	mu sync.RWMutex
}

// NewUISection creates a new UI section with first-run settings.
func NewUISection() *UISection {
	return &UISection{
		Appearance:      AppearanceSystem,
		MeetingSoftware: MeetingSoftwareJitsi,
		SetupRequired:   true,
	}
}

// ID returns the section identifier.
func (s *UISection) ID() string {
	return SectionIDUI
}

// Title returns the section title.
func (s *UISection) Title() string {
	return "Interface"
}

// Description returns the section description.
func (s *UISection) Description() string {
	return "Appearance of the settings window and the meeting software in use."
}

// Data returns the current configuration data.
func (s *UISection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"appearance":       string(s.Appearance),
		"meeting_software": s.MeetingSoftware,
		"setup_required":   s.SetupRequired,
	}
}

// SetData updates the configuration from the provided data.
func (s *UISection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		switch key {
		case "appearance":
			mode, err := stringValue(key, value)
			if err != nil {
				return err
			}
			s.Appearance = Appearance(mode)
		case "meeting_software":
			software, err := stringValue(key, value)
			if err != nil {
				return err
			}
			s.MeetingSoftware = software
		case "setup_required":
			required, err := boolValue(key, value)
			if err != nil {
				return err
			}
			s.SetupRequired = required
		default:
			// Ignore unknown keys for forward compatibility
			continue
		}
	}

	return nil
}

// Validate validates the current configuration.
func (s *UISection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.Appearance.valid() {
		return fmt.Errorf("appearance must be one of %v, got %q", Appearances, s.Appearance)
	}
	if s.MeetingSoftware != MeetingSoftwareJitsi {
		return fmt.Errorf("unsupported meeting_software %q", s.MeetingSoftware)
	}
	return nil
}

// Reset resets the section to first-run settings.
func (s *UISection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Appearance = AppearanceSystem
	s.MeetingSoftware = MeetingSoftwareJitsi
	s.SetupRequired = true
}

// GetAppearance returns the current appearance.
func (s *UISection) GetAppearance() Appearance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Appearance
}

// SetAppearance sets the appearance.
func (s *UISection) SetAppearance(a Appearance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Appearance = a
}

// IsSetupRequired reports whether the first-run setup is still pending.
func (s *UISection) IsSetupRequired() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.SetupRequired
}

// SetSetupRequired marks the first-run setup as pending or done.
func (s *UISection) SetSetupRequired(required bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SetupRequired = required
}
