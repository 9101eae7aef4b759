package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/entrhq/autojoin/pkg/config"
)

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.header.Render("Autojoin"))
	b.WriteString("\n")
	b.WriteString(m.styles.subtitle.Render(m.subtitle()))
	b.WriteString("\n\n")

	if m.screen == screenSettings {
		b.WriteString(m.styles.box.Render(m.formView()))
		b.WriteString("\n\n")
		b.WriteString(m.helpView(m.keys.formHelp()))
	} else {
		b.WriteString(m.menuView())
		b.WriteString("\n")
		b.WriteString(m.helpView(m.keys.menuHelp()))
	}

	if m.status != "" {
		b.WriteString("\n\n")
		if m.statusErr {
			b.WriteString(m.styles.err.Render("✗ " + m.status))
		} else {
			b.WriteString(m.styles.success.Render("✓ " + m.status))
		}
	}
	b.WriteString("\n")
	return b.String()
}

func (m *Model) subtitle() string {
	s := config.Meeting(m.manager).Settings()
	switch {
	case s.MeetingURL != "":
		return fmt.Sprintf("%s → %s", s.DisplayName, s.MeetingURL)
	case s.HasTarget():
		return fmt.Sprintf("%s → %s/%s", s.DisplayName, strings.TrimRight(s.BaseURL, "/"), s.MeetingID)
	default:
		return "No meeting configured"
	}
}

func (m *Model) menuView() string {
	labels := [menuItems]string{
		itemJoin:       "Join Meeting",
		itemSettings:   "Settings",
		itemAppearance: fmt.Sprintf("Appearance: %s", m.appearance()),
		itemQuit:       "Quit",
	}

	var b strings.Builder
	for i, label := range labels {
		if i == m.cursor {
			b.WriteString(m.styles.selected.Render("› " + label))
		} else {
			b.WriteString(m.styles.item.Render(label))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) formView() string {
	rows := make([]string, 0, formFields)
	for i := range m.inputs {
		label := m.styles.label.Render(fieldLabels[i])
		if i == m.focus {
			label = m.styles.selected.Width(14).Render(fieldLabels[i])
		}
		rows = append(rows, label+" "+m.styles.input.Render(m.inputs[i].View()))
	}
	return strings.Join(rows, "\n")
}

func (m *Model) helpView(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.styles.help.Render(strings.Join(parts, " • "))
}
