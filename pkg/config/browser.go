package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/entrhq/autojoin/pkg/browser"
	"github.com/entrhq/autojoin/pkg/join"
)

const (
	// SectionIDBrowser is the identifier for the browser section
	SectionIDBrowser = "browser"

	minHeartbeatInterval = time.Second
)

// BrowserSettings control the browser session and the join timing.
type BrowserSettings struct {
	Headless          bool
	Install           bool
	ViewportWidth     int
	ViewportHeight    int
	NavigateTimeout   time.Duration
	StepTimeout       time.Duration
	AuthTimeout       time.Duration
	MediaTimeout      time.Duration
	HeartbeatInterval time.Duration
	ScreenshotPath    string
}

// DefaultBrowserSettings returns the stock browser settings.
func DefaultBrowserSettings() BrowserSettings {
	t := join.DefaultTimeouts()
	return BrowserSettings{
		Headless:          true,
		Install:           true,
		ViewportWidth:     browser.DefaultViewportWidth,
		ViewportHeight:    browser.DefaultViewportHeight,
		NavigateTimeout:   t.Navigate,
		StepTimeout:       t.Step,
		AuthTimeout:       t.Auth,
		MediaTimeout:      t.Media,
		HeartbeatInterval: join.DefaultHeartbeatInterval,
		ScreenshotPath:    join.DefaultScreenshotPath,
	}
}

// Timeouts returns the step timeouts for the orchestrator.
func (s BrowserSettings) Timeouts() join.Timeouts {
	return join.Timeouts{
		Navigate: s.NavigateTimeout,
		Step:     s.StepTimeout,
		Auth:     s.AuthTimeout,
		Media:    s.MediaTimeout,
	}
}

// SessionOptions returns the options to launch a browser session with.
func (s BrowserSettings) SessionOptions() browser.SessionOptions {
	return browser.SessionOptions{
		Headless: s.Headless,
		Install:  s.Install,
		Viewport: &browser.Viewport{Width: s.ViewportWidth, Height: s.ViewportHeight},
		Timeout:  s.NavigateTimeout,
	}
}

func (s BrowserSettings) validate() error {
	if s.ViewportWidth <= 0 || s.ViewportHeight <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", s.ViewportWidth, s.ViewportHeight)
	}
	for name, d := range map[string]time.Duration{
		"navigate_timeout": s.NavigateTimeout,
		"step_timeout":     s.StepTimeout,
		"auth_timeout":     s.AuthTimeout,
		"media_timeout":    s.MediaTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %v", name, d)
		}
	}
	if s.HeartbeatInterval < minHeartbeatInterval {
		return fmt.Errorf("heartbeat_interval must be at least %v, got %v", minHeartbeatInterval, s.HeartbeatInterval)
	}
	if s.ScreenshotPath == "" {
		return fmt.Errorf("screenshot_path is required")
	}
	return nil
}

// BrowserSection stores how the browser is launched and driven.
type BrowserSection struct {
	mu       sync.RWMutex
	settings BrowserSettings
}

// NewBrowserSection creates a browser section with default settings.
func NewBrowserSection() *BrowserSection {
	return &BrowserSection{settings: DefaultBrowserSettings()}
}

func (s *BrowserSection) ID() string    { return SectionIDBrowser }
func (s *BrowserSection) Title() string { return "Browser" }

func (s *BrowserSection) Description() string {
	return "Browser mode, viewport, step timeouts and the heartbeat screenshot."
}

// Data returns the current configuration data.
func (s *BrowserSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"headless":           s.settings.Headless,
		"install":            s.settings.Install,
		"viewport_width":     s.settings.ViewportWidth,
		"viewport_height":    s.settings.ViewportHeight,
		"navigate_timeout":   s.settings.NavigateTimeout.String(),
		"step_timeout":       s.settings.StepTimeout.String(),
		"auth_timeout":       s.settings.AuthTimeout.String(),
		"media_timeout":      s.settings.MediaTimeout.String(),
		"heartbeat_interval": s.settings.HeartbeatInterval.String(),
		"screenshot_path":    s.settings.ScreenshotPath,
	}
}

// SetData updates the configuration from the provided data.
func (s *BrowserSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings
	for key, value := range data {
		var err error
		switch key {
		case "headless":
			next.Headless, err = boolValue(key, value)
		case "install":
			next.Install, err = boolValue(key, value)
		case "viewport_width":
			next.ViewportWidth, err = intValue(key, value)
		case "viewport_height":
			next.ViewportHeight, err = intValue(key, value)
		case "navigate_timeout":
			next.NavigateTimeout, err = durationValue(key, value)
		case "step_timeout":
			next.StepTimeout, err = durationValue(key, value)
		case "auth_timeout":
			next.AuthTimeout, err = durationValue(key, value)
		case "media_timeout":
			next.MediaTimeout, err = durationValue(key, value)
		case "heartbeat_interval":
			next.HeartbeatInterval, err = durationValue(key, value)
		case "screenshot_path":
			next.ScreenshotPath, err = stringValue(key, value)
		}
		if err != nil {
			return err
		}
	}
	s.settings = next
	return nil
}

// Validate validates the current configuration.
func (s *BrowserSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.validate()
}

// Reset resets the section to default configuration.
func (s *BrowserSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = DefaultBrowserSettings()
}

// Settings returns a copy of the current settings.
func (s *BrowserSection) Settings() BrowserSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}
