package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/autojoin/pkg/config"
	"github.com/entrhq/autojoin/pkg/meeting"
)

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if m.screen == screenSettings {
			return m, m.handleFormKey(msg)
		}
		return m, m.handleMenuKey(msg)
	}

	if m.screen == screenSettings {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleMenuKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < menuItems-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Appearance):
		m.cycleAppearance()
	case key.Matches(msg, m.keys.Copy):
		m.copyMeetingURL()
	case key.Matches(msg, m.keys.Select):
		return m.activate()
	}
	return nil
}

func (m *Model) activate() tea.Cmd {
	switch m.cursor {
	case itemJoin:
		return m.join()
	case itemSettings:
		return m.openSettings()
	case itemAppearance:
		m.cycleAppearance()
	case itemQuit:
		return tea.Quit
	}
	return nil
}

// join closes the window with a join request unless setup is pending.
func (m *Model) join() tea.Cmd {
	if config.UI(m.manager).IsSetupRequired() || !config.Meeting(m.manager).Settings().HasTarget() {
		m.setStatus(true, "Setup required: open Settings and save a meeting before joining.")
		return nil
	}
	m.joinRequested = true
	return tea.Quit
}

func (m *Model) cycleAppearance() {
	ui := config.UI(m.manager)
	next := ui.GetAppearance().Next()
	ui.SetAppearance(next)
	m.styles = newStyles(next)

	if err := m.manager.SaveSection(config.SectionIDUI); err != nil {
		m.setStatus(true, "Could not save appearance: %v", err)
		return
	}
	m.setStatus(false, "Appearance set to %s", next)
}

func (m *Model) copyMeetingURL() {
	cfg, err := meeting.NewConfig(config.Meeting(m.manager).Settings().Params())
	if err != nil {
		m.setStatus(true, "No meeting configured")
		return
	}
	if err := m.copyText(cfg.MeetingURL()); err != nil {
		m.setStatus(true, "Clipboard unavailable: %v", err)
		return
	}
	m.setStatus(false, "Copied %s", cfg.MeetingURL())
}

func (m *Model) openSettings() tea.Cmd {
	s := config.Meeting(m.manager).Settings()
	values := [formFields]string{
		fieldDisplayName: s.DisplayName,
		fieldMeetingURL:  s.MeetingURL,
		fieldBaseURL:     s.BaseURL,
		fieldMeetingID:   s.MeetingID,
		fieldUserName:    s.UserName,
		fieldPassword:    s.UserPassword,
	}
	for i := range m.inputs {
		m.inputs[i].SetValue(values[i])
		m.inputs[i].Blur()
	}
	m.screen = screenSettings
	m.status = ""
	return m.focusField(0)
}

func (m *Model) focusField(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = (i + formFields) % formFields
	return m.inputs[m.focus].Focus()
}

func (m *Model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Interrupt):
		return tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.inputs[m.focus].Blur()
		m.screen = screenMenu
		m.setStatus(false, "Changes discarded")
		return nil
	case key.Matches(msg, m.keys.Save):
		m.save()
		return nil
	case key.Matches(msg, m.keys.NextField):
		return m.focusField(m.focus + 1)
	case key.Matches(msg, m.keys.PrevField):
		return m.focusField(m.focus - 1)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return cmd
}

// save validates the form into the meeting section and persists it. A saved
// meeting target clears the setup flag.
func (m *Model) save() {
	section := config.Meeting(m.manager)
	next := section.Settings()
	next.DisplayName = strings.TrimSpace(m.inputs[fieldDisplayName].Value())
	next.MeetingURL = strings.TrimSpace(m.inputs[fieldMeetingURL].Value())
	next.BaseURL = strings.TrimSpace(m.inputs[fieldBaseURL].Value())
	next.MeetingID = strings.TrimSpace(m.inputs[fieldMeetingID].Value())
	next.UserName = strings.TrimSpace(m.inputs[fieldUserName].Value())
	next.UserPassword = m.inputs[fieldPassword].Value()
	if next.DisplayName == "" {
		next.DisplayName = meeting.DefaultDisplayName
	}

	if err := section.Update(next); err != nil {
		m.setStatus(true, "Invalid settings: %v", err)
		return
	}
	config.UI(m.manager).SetSetupRequired(!next.HasTarget())

	for _, id := range []string{config.SectionIDMeeting, config.SectionIDUI} {
		if err := m.manager.SaveSection(id); err != nil {
			m.setStatus(true, "Could not save settings: %v", err)
			return
		}
	}

	m.inputs[m.focus].Blur()
	m.screen = screenMenu
	if next.HasTarget() {
		m.setStatus(false, "Settings saved")
	} else {
		m.setStatus(false, "Settings saved. Add a meeting URL to enable joining.")
	}
}
