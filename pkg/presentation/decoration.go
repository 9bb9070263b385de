package presentation

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Decorate renders text with the read-only decoration: a warning rule above
// the document and the banner after its first line. Editable documents are
// returned unchanged.
func Decorate(styles Styles, text string, readOnly bool, width int) string {
	if !readOnly {
		return text
	}

	first, rest, hasRest := strings.Cut(text, "\n")
	header := lipgloss.JoinHorizontal(lipgloss.Top, first, styles.Banner.Render(BannerText))

	if width <= 0 {
		width = lipgloss.Width(header)
	}
	var b strings.Builder
	b.WriteString(styles.Border.Render(strings.Repeat("─", width)))
	b.WriteByte('\n')
	b.WriteString(header)
	if hasRest {
		b.WriteByte('\n')
		b.WriteString(rest)
	}
	return b.String()
}
