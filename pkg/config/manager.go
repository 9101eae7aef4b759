package config

import (
	"fmt"
	"sync"
)

// Section is one named group of settings persisted in the store.
type Section interface {
	// ID is the key of the section in the store.
	ID() string
	Title() string
	Description() string

	// Data returns the section as plain values suitable for JSON.
	Data() map[string]interface{}

	// SetData applies stored values. Unknown keys are ignored.
	SetData(data map[string]interface{}) error

	Validate() error
	Reset()
}

// Manager binds registered sections to a Store.
type Manager struct {
	store    Store
	sections map[string]Section
	order    []string
	mu       sync.RWMutex
}

// NewManager creates a manager with no sections.
func NewManager(store Store) *Manager {
	return &Manager{
		store:    store,
		sections: make(map[string]Section),
	}
}

// Store returns the underlying store.
func (m *Manager) Store() Store {
	return m.store
}

// RegisterSection adds a section. IDs must be unique.
func (m *Manager) RegisterSection(section Section) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := section.ID()
	if _, exists := m.sections[id]; exists {
		return fmt.Errorf("section %q already registered", id)
	}
	m.sections[id] = section
	m.order = append(m.order, id)
	return nil
}

// GetSection returns the section registered under id.
func (m *Manager) GetSection(id string) (Section, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sections[id]
	return s, ok
}

// GetSections returns all sections in registration order.
func (m *Manager) GetSections() []Section {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Section, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.sections[id])
	}
	return out
}

// LoadAll reloads the store and applies it to every section.
func (m *Manager) LoadAll() error {
	if err := m.store.Load(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	for _, section := range m.GetSections() {
		data, err := m.store.GetSection(section.ID())
		if err != nil {
			return fmt.Errorf("failed to read section %s: %w", section.ID(), err)
		}
		if len(data) == 0 {
			continue
		}
		if err := section.SetData(data); err != nil {
			return fmt.Errorf("invalid %s settings: %w", section.ID(), err)
		}
	}
	return nil
}

// SaveAll validates every section and writes them to disk.
func (m *Manager) SaveAll() error {
	for _, section := range m.GetSections() {
		if err := m.stage(section); err != nil {
			return err
		}
	}
	return m.store.Save()
}

// SaveSection validates and persists a single section.
func (m *Manager) SaveSection(id string) error {
	section, ok := m.GetSection(id)
	if !ok {
		return fmt.Errorf("unknown section %q", id)
	}
	if err := m.stage(section); err != nil {
		return err
	}
	return m.store.Save()
}

func (m *Manager) stage(section Section) error {
	if err := section.Validate(); err != nil {
		return fmt.Errorf("invalid %s settings: %w", section.ID(), err)
	}
	if err := m.store.SetSection(section.ID(), section.Data()); err != nil {
		return fmt.Errorf("failed to store section %s: %w", section.ID(), err)
	}
	return nil
}

// ResetAll restores every section to its defaults. Nothing is saved.
func (m *Manager) ResetAll() {
	for _, section := range m.GetSections() {
		section.Reset()
	}
}
