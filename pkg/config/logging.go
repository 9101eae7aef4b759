package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

const (
	// SectionIDLogging is the identifier for the logging section
	SectionIDLogging = "logging"
)

var verbosities = []string{"quiet", "normal", "verbose", "debug"}

// LoggingSettings control the log file, the console and the artifacts.
type LoggingSettings struct {
	Level        string
	Dir          string // empty means ~/.autojoin/logs
	Format       string
	Verbosity    string
	ArtifactsDir string
}

// DefaultLoggingSettings returns the stock logging settings.
func DefaultLoggingSettings() LoggingSettings {
	return LoggingSettings{
		Level:        "info",
		Format:       "text",
		Verbosity:    "normal",
		ArtifactsDir: ".autojoin/artifacts",
	}
}

// LoggingSection stores logging preferences.
type LoggingSection struct {
	mu       sync.RWMutex
	settings LoggingSettings
}

// NewLoggingSection creates a logging section with default settings.
func NewLoggingSection() *LoggingSection {
	return &LoggingSection{settings: DefaultLoggingSettings()}
}

func (s *LoggingSection) ID() string          { return SectionIDLogging }
func (s *LoggingSection) Title() string       { return "Logging" }
func (s *LoggingSection) Description() string { return "Log level and format, console verbosity and artifacts location." }

// Data returns the current configuration data.
func (s *LoggingSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]interface{}{
		"level":         s.settings.Level,
		"dir":           s.settings.Dir,
		"format":        s.settings.Format,
		"verbosity":     s.settings.Verbosity,
		"artifacts_dir": s.settings.ArtifactsDir,
	}
}

// SetData updates the configuration from the provided data.
func (s *LoggingSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings
	for key, value := range data {
		var err error
		switch key {
		case "level":
			next.Level, err = stringValue(key, value)
		case "dir":
			next.Dir, err = stringValue(key, value)
		case "format":
			next.Format, err = stringValue(key, value)
		case "verbosity":
			next.Verbosity, err = stringValue(key, value)
		case "artifacts_dir":
			next.ArtifactsDir, err = stringValue(key, value)
		}
		if err != nil {
			return err
		}
	}
	s.settings = next
	return nil
}

// Validate validates the current configuration.
func (s *LoggingSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := logrus.ParseLevel(s.settings.Level); err != nil {
		return fmt.Errorf("invalid level: %w", err)
	}
	switch strings.ToLower(s.settings.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("format must be text or json, got %q", s.settings.Format)
	}
	for _, v := range verbosities {
		if strings.EqualFold(v, s.settings.Verbosity) {
			return nil
		}
	}
	return fmt.Errorf("verbosity must be one of %s, got %q", strings.Join(verbosities, ", "), s.settings.Verbosity)
}

// Reset resets the section to default configuration.
func (s *LoggingSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = DefaultLoggingSettings()
}

// Settings returns a copy of the current settings.
func (s *LoggingSection) Settings() LoggingSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SetLevel changes the log level.
func (s *LoggingSection) SetLevel(level string) error {
	if _, err := logrus.ParseLevel(level); err != nil {
		return fmt.Errorf("invalid level: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Level = strings.ToLower(level)
	return nil
}
