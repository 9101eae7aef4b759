package config

import (
	"sync"
)

var (
	// globalManager is the singleton configuration manager instance
	globalManager *Manager
	globalMu      sync.Mutex
)

// New creates a manager over the file at configPath with every autojoin
// section registered and loaded.
func New(configPath string) (*Manager, error) {
	store, err := NewFileStore(configPath)
	if err != nil {
		return nil, err
	}

	manager := NewManager(store)
	for _, section := range []Section{
		NewMeetingSection(),
		NewBrowserSection(),
		NewUISection(),
		NewLoggingSection(),
	} {
		if err := manager.RegisterSection(section); err != nil {
			return nil, err
		}
	}

	if err := manager.LoadAll(); err != nil {
		return nil, err
	}
	return manager, nil
}

// Initialize creates and initializes the global configuration manager.
// This should be called once at application startup.
func Initialize(configPath string) error {
	manager, err := New(configPath)
	if err != nil {
		return err
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	globalManager = manager
	return nil
}

// Global returns the global configuration manager.
// Panics if Initialize has not been called.
func Global() *Manager {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		panic("config not initialized: call config.Initialize first")
	}
	return globalManager
}

// IsInitialized returns true if the global configuration has been initialized.
func IsInitialized() bool {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalManager != nil
}

func sectionOf[T Section](m *Manager, id string) T {
	var zero T
	if m == nil {
		return zero
	}
	section, ok := m.GetSection(id)
	if !ok {
		return zero
	}
	typed, ok := section.(T)
	if !ok {
		return zero
	}
	return typed
}

func globalSection[T Section](id string) T {
	if !IsInitialized() {
		var zero T
		return zero
	}
	return sectionOf[T](Global(), id)
}

// GetMeeting returns the meeting section from global config.
// Returns nil if config is not initialized.
func GetMeeting() *MeetingSection {
	return globalSection[*MeetingSection](SectionIDMeeting)
}

// GetBrowser returns the browser section from global config.
// Returns nil if config is not initialized.
func GetBrowser() *BrowserSection {
	return globalSection[*BrowserSection](SectionIDBrowser)
}

// GetUI returns the UI section from global config.
// Returns nil if config is not initialized.
func GetUI() *UISection {
	return globalSection[*UISection](SectionIDUI)
}

// GetLogging returns the logging section from global config.
// Returns nil if config is not initialized.
func GetLogging() *LoggingSection {
	return globalSection[*LoggingSection](SectionIDLogging)
}

// Meeting returns m's meeting section.
func Meeting(m *Manager) *MeetingSection { return sectionOf[*MeetingSection](m, SectionIDMeeting) }

// Browser returns m's browser section.
func Browser(m *Manager) *BrowserSection { return sectionOf[*BrowserSection](m, SectionIDBrowser) }

// UI returns m's UI section.
func UI(m *Manager) *UISection { return sectionOf[*UISection](m, SectionIDUI) }

// Logging returns m's logging section.
func Logging(m *Manager) *LoggingSection { return sectionOf[*LoggingSection](m, SectionIDLogging) }
