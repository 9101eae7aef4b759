package tui

import (
	"errors"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/autojoin/pkg/config"
)

func newManager(t *testing.T) (*config.Manager, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	manager, err := config.New(path)
	require.NoError(t, err)
	return manager, path
}

func keyPress(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m *Model, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestNew_FirstRun(t *testing.T) {
	manager, _ := newManager(t)
	m := New(manager)

	assert.Equal(t, screenMenu, m.screen)
	assert.Contains(t, m.status, "Setup required")
	assert.Contains(t, m.View(), "Join Meeting")
	assert.Contains(t, m.View(), "No meeting configured")
	assert.Contains(t, m.View(), "Appearance: System")
}

func TestJoin_RefusedWhileSetupRequired(t *testing.T) {
	manager, _ := newManager(t)
	m := New(manager)

	cmd := send(m, keyPress(tea.KeyEnter))

	assert.False(t, isQuit(cmd))
	assert.False(t, m.JoinRequested())
	assert.True(t, m.statusErr)
}

func TestSettings_SaveClearsSetupAndPersists(t *testing.T) {
	manager, path := newManager(t)
	m := New(manager)

	send(m, keyPress(tea.KeyDown), keyPress(tea.KeyEnter))
	require.Equal(t, screenSettings, m.screen)
	assert.Equal(t, fieldDisplayName, m.focus)
	assert.Equal(t, "A Streamer Bot", m.inputs[fieldDisplayName].Value())

	send(m, keyPress(tea.KeyTab))
	assert.Equal(t, fieldMeetingURL, m.focus)
	send(m, runes("https://meet.jit.si/standup"))
	assert.Equal(t, "https://meet.jit.si/standup", m.inputs[fieldMeetingURL].Value())

	send(m, keyPress(tea.KeyCtrlS))
	require.Equal(t, screenMenu, m.screen)
	assert.False(t, m.statusErr, m.status)
	assert.False(t, config.UI(manager).IsSetupRequired())

	reloaded, err := config.New(path)
	require.NoError(t, err)
	assert.Equal(t, "https://meet.jit.si/standup", config.Meeting(reloaded).Settings().MeetingURL)
	assert.False(t, config.UI(reloaded).IsSetupRequired())

	cmd := send(m, keyPress(tea.KeyUp), keyPress(tea.KeyEnter))
	assert.True(t, isQuit(cmd))
	assert.True(t, m.JoinRequested())
}

func TestSettings_InvalidInputStaysOnForm(t *testing.T) {
	manager, _ := newManager(t)
	m := New(manager)
	send(m, keyPress(tea.KeyDown), keyPress(tea.KeyEnter))

	m.inputs[fieldMeetingURL].SetValue("ftp://meet.jit.si/x")
	send(m, keyPress(tea.KeyCtrlS))

	assert.Equal(t, screenSettings, m.screen)
	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "Invalid settings")
	assert.True(t, config.UI(manager).IsSetupRequired())
}

func TestSettings_UserWithoutPasswordRejected(t *testing.T) {
	manager, _ := newManager(t)
	m := New(manager)
	send(m, keyPress(tea.KeyDown), keyPress(tea.KeyEnter))

	m.inputs[fieldMeetingURL].SetValue("https://meet.jit.si/x")
	m.inputs[fieldUserName].SetValue("bot")
	send(m, keyPress(tea.KeyCtrlS))

	assert.True(t, m.statusErr)
	assert.Equal(t, "", config.Meeting(manager).Settings().MeetingURL)
}

func TestSettings_EscDiscards(t *testing.T) {
	manager, _ := newManager(t)
	m := New(manager)
	send(m, keyPress(tea.KeyDown), keyPress(tea.KeyEnter))

	m.inputs[fieldMeetingURL].SetValue("https://meet.jit.si/x")
	send(m, keyPress(tea.KeyEsc))

	assert.Equal(t, screenMenu, m.screen)
	assert.Equal(t, "", config.Meeting(manager).Settings().MeetingURL)
}

func TestSettings_TypingQDoesNotQuit(t *testing.T) {
	manager, _ := newManager(t)
	m := New(manager)
	send(m, keyPress(tea.KeyDown), keyPress(tea.KeyEnter))

	cmd := send(m, runes("q"))

	assert.False(t, isQuit(cmd))
	assert.Equal(t, "A Streamer Botq", m.inputs[fieldDisplayName].Value())
	assert.True(t, isQuit(send(m, keyPress(tea.KeyCtrlC))))
}

func TestSettings_FieldFocusWraps(t *testing.T) {
	manager, _ := newManager(t)
	m := New(manager)
	send(m, keyPress(tea.KeyDown), keyPress(tea.KeyEnter))

	send(m, keyPress(tea.KeyShiftTab))
	assert.Equal(t, fieldPassword, m.focus)
	assert.Contains(t, m.View(), "Password")

	m.inputs[fieldPassword].SetValue("hunter2")
	assert.NotContains(t, m.View(), "hunter2")

	send(m, keyPress(tea.KeyTab))
	assert.Equal(t, fieldDisplayName, m.focus)
}

func TestAppearance_CyclesAndPersists(t *testing.T) {
	manager, path := newManager(t)
	m := New(manager)

	send(m, runes("a"))
	assert.Equal(t, config.AppearanceDark, config.UI(manager).GetAppearance())
	assert.Contains(t, m.View(), "Appearance: Dark")

	send(m, keyPress(tea.KeyDown), keyPress(tea.KeyDown), keyPress(tea.KeyEnter))
	assert.Equal(t, config.AppearanceLight, config.UI(manager).GetAppearance())

	reloaded, err := config.New(path)
	require.NoError(t, err)
	assert.Equal(t, config.AppearanceLight, config.UI(reloaded).GetAppearance())
}

func TestCopyMeetingURL(t *testing.T) {
	manager, _ := newManager(t)
	var copied string
	m := New(manager, WithClipboard(func(s string) error {
		copied = s
		return nil
	}))

	send(m, runes("c"))
	assert.True(t, m.statusErr)
	assert.Empty(t, copied)

	require.NoError(t, config.Meeting(manager).Update(config.MeetingSettings{
		DisplayName: "Recorder",
		BaseURL:     "https://meet.jit.si/",
		MeetingID:   "standup",
	}))
	send(m, runes("c"))
	assert.False(t, m.statusErr)
	assert.Equal(t, "https://meet.jit.si/standup", copied)

	m.copyText = func(string) error { return errors.New("no display") }
	send(m, runes("c"))
	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "Clipboard unavailable")
}

func TestMenu_QuitAndCursorBounds(t *testing.T) {
	manager, _ := newManager(t)
	m := New(manager)

	send(m, keyPress(tea.KeyUp))
	assert.Equal(t, 0, m.cursor)

	send(m, runes("j"), runes("j"), runes("j"), runes("j"))
	assert.Equal(t, itemQuit, m.cursor)

	assert.True(t, isQuit(send(m, keyPress(tea.KeyEnter))))
	assert.True(t, isQuit(send(m, runes("q"))))
	assert.False(t, m.JoinRequested())
}

func TestNewStyles(t *testing.T) {
	for _, a := range config.Appearances {
		s := newStyles(a)
		assert.NotEmpty(t, s.header.Render("x"), a)
	}
}
