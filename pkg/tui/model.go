// Package tui implements the settings window: a small bubbletea program that
// edits the stored meeting settings, toggles the appearance and hands control
// back to the caller when the user asks to join.
package tui

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/autojoin/pkg/config"
)

type screen int

const (
	screenMenu screen = iota
	screenSettings
)

// Menu entries in display order.
const (
	itemJoin = iota
	itemSettings
	itemAppearance
	itemQuit
	menuItems
)

// Settings form fields in display order.
const (
	fieldDisplayName = iota
	fieldMeetingURL
	fieldBaseURL
	fieldMeetingID
	fieldUserName
	fieldPassword
	formFields
)

var fieldLabels = [formFields]string{
	fieldDisplayName: "Display name",
	fieldMeetingURL:  "Meeting URL",
	fieldBaseURL:     "Server URL",
	fieldMeetingID:   "Meeting ID",
	fieldUserName:    "User",
	fieldPassword:    "Password",
}

var fieldPlaceholders = [formFields]string{
	fieldDisplayName: "A Streamer Bot",
	fieldMeetingURL:  "https://meet.jit.si/room (or server + id below)",
	fieldBaseURL:     "https://meet.jit.si",
	fieldMeetingID:   "room",
	fieldUserName:    "optional",
	fieldPassword:    "optional",
}

// Model is the settings window state.
type Model struct {
	manager *config.Manager
	keys    keyMap
	styles  styles

	screen screen
	cursor int
	inputs []textinput.Model
	focus  int

	status    string
	statusErr bool

	joinRequested bool
	copyText      func(string) error
	width         int
}

// Option configures a Model.
type Option func(*Model)

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		m.copyText = write
	}
}

// New creates the settings window for the sections held by manager.
func New(manager *config.Manager, opts ...Option) *Model {
	m := &Model{
		manager:  manager,
		keys:     defaultKeyMap(),
		copyText: clipboard.WriteAll,
		inputs:   make([]textinput.Model, formFields),
	}
	for i := range m.inputs {
		input := textinput.New()
		input.Placeholder = fieldPlaceholders[i]
		input.CharLimit = 256
		if i == fieldPassword {
			input.EchoMode = textinput.EchoPassword
		}
		m.inputs[i] = input
	}
	for _, opt := range opts {
		opt(m)
	}
	m.styles = newStyles(m.appearance())
	if config.UI(manager).IsSetupRequired() {
		m.setStatus(false, "Setup required: open Settings and save a meeting before joining.")
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// JoinRequested reports whether the window was closed through Join Meeting.
func (m *Model) JoinRequested() bool {
	return m.joinRequested
}

func (m *Model) appearance() config.Appearance {
	return config.UI(m.manager).GetAppearance()
}

func (m *Model) setStatus(isErr bool, format string, args ...interface{}) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = isErr
}

// Run shows the settings window until the user quits or asks to join. The
// returned bool is true when a join was requested.
func Run(manager *config.Manager, opts ...Option) (bool, error) {
	final, err := tea.NewProgram(New(manager, opts...), tea.WithAltScreen()).Run()
	if err != nil {
		return false, fmt.Errorf("settings window failed: %w", err)
	}
	m, ok := final.(*Model)
	return ok && m.JoinRequested(), nil
}
