// Package presentation renders codefreeze state for terminal hosts: the
// status indicator, the read-only banner, the transient toggle notification
// and violation warnings.
package presentation

import "github.com/charmbracelet/lipgloss"

// Theme holds the colors used by the presentation layer.
type Theme struct {
	Text      string
	Muted     string
	Warning   string
	Prominent string
	Danger    string
}

// DefaultTheme mirrors the warning/prominent pair of a typical editor status bar.
var DefaultTheme = Theme{
	Text:      "#f8f8f2",
	Muted:     "#6272a4",
	Warning:   "#ffb86c",
	Prominent: "#8be9fd",
	Danger:    "#ff5555",
}

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	Locked    lipgloss.Style
	Editable  lipgloss.Style
	Banner    lipgloss.Style
	Border    lipgloss.Style
	Notice    lipgloss.Style
	NoticeOff lipgloss.Style
	Violation lipgloss.Style
	Muted     lipgloss.Style
}

// Styles returns the lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Locked: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Warning)).
			Foreground(lipgloss.Color("#000000")).
			Bold(true).
			Padding(0, 1),

		Editable: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),

		Banner: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Warning)).
			Foreground(lipgloss.Color(t.Text)).
			Bold(true).
			MarginLeft(2),

		Border: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),

		Notice: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Warning)).
			Foreground(lipgloss.Color("#000000")).
			Padding(0, 1),

		NoticeOff: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Prominent)).
			Foreground(lipgloss.Color("#000000")).
			Padding(0, 1),

		Violation: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),
	}
}
