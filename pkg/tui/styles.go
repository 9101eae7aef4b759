package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/autojoin/pkg/config"
)

// Color Palette
// Dark values are the primary palette; light values keep the same hues
// readable on a light background.
var (
	salmonPink = lipgloss.AdaptiveColor{Light: "#C2414F", Dark: "#FFB3BA"}
	coralPink  = lipgloss.AdaptiveColor{Light: "#B5524E", Dark: "#FFCCCB"}
	mintGreen  = lipgloss.AdaptiveColor{Light: "#2F855A", Dark: "#A8E6CF"}
	mutedGray  = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#6B7280"}
	textColor  = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#F9FAFB"}
)

// styles holds the rendered styles for one appearance.
type styles struct {
	header   lipgloss.Style
	subtitle lipgloss.Style
	item     lipgloss.Style
	selected lipgloss.Style
	label    lipgloss.Style
	input    lipgloss.Style
	success  lipgloss.Style
	err      lipgloss.Style
	help     lipgloss.Style
	box      lipgloss.Style
}

// pick resolves an adaptive color for a fixed appearance. System keeps the
// adaptive color so the terminal background decides.
func pick(a config.Appearance, c lipgloss.AdaptiveColor) lipgloss.TerminalColor {
	switch a {
	case config.AppearanceDark:
		return lipgloss.Color(c.Dark)
	case config.AppearanceLight:
		return lipgloss.Color(c.Light)
	default:
		return c
	}
}

func newStyles(a config.Appearance) styles {
	accent := pick(a, salmonPink)
	secondary := pick(a, coralPink)
	ok := pick(a, mintGreen)
	muted := pick(a, mutedGray)
	text := pick(a, textColor)

	return styles{
		header: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		subtitle: lipgloss.NewStyle().
			Foreground(muted),
		item: lipgloss.NewStyle().
			Foreground(text).
			PaddingLeft(2),
		selected: lipgloss.NewStyle().
			Foreground(secondary).
			Bold(true),
		label: lipgloss.NewStyle().
			Foreground(muted).
			Width(14),
		input: lipgloss.NewStyle().
			Foreground(text),
		success: lipgloss.NewStyle().
			Foreground(ok),
		err: lipgloss.NewStyle().
			Foreground(accent),
		help: lipgloss.NewStyle().
			Foreground(muted).
			Italic(true),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
	}
}
