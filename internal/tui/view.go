package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	listWidth    = 32
	previewLines = 20
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	paneStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#44475a")).
			Padding(0, 1)
)

func (m Model) render() string {
	styles := m.presenter.Styles()

	var b strings.Builder
	b.WriteString(titleStyle.Render("codefreeze"))
	b.WriteString(styles.Muted.Render(m.host.Backing.Root))
	b.WriteString("\n")

	if len(m.docs) == 0 {
		b.WriteString(styles.Muted.Render("  no documents open"))
		b.WriteString("\n")
	} else {
		body := lipgloss.JoinHorizontal(lipgloss.Top,
			paneStyle.Width(listWidth).Render(m.renderList()),
			paneStyle.Width(m.previewWidth()).Render(m.renderPreview()),
		)
		b.WriteString(body)
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) previewWidth() int {
	w := m.width - listWidth - 8
	if w < 20 {
		w = 40
	}
	return w
}

func (m Model) renderList() string {
	lines := make([]string, 0, len(m.docs))
	for i, doc := range m.docs {
		marker := "  "
		if m.host.Service.IsReadOnly(doc.ID()) {
			marker = "🔒"
		}
		dirty := " "
		if m.host.Workspace.Dirty(doc.ID()) {
			dirty = "*"
		}
		line := fmt.Sprintf("%s %s%s", marker, truncate(doc.ID().Base(), listWidth-5), dirty)
		if i == m.selected {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderPreview() string {
	doc, ok := m.current()
	if !ok {
		return ""
	}
	lines := strings.Split(doc.Text(), "\n")
	if len(lines) > previewLines {
		lines = append(lines[:previewLines], "…")
	}
	return m.presenter.Decorate(doc.ID(), strings.Join(lines, "\n"), m.previewWidth()-2)
}

func (m Model) renderStatusBar() string {
	styles := m.presenter.Styles()
	parts := []string{}

	if ind := m.presenter.Indicator.View(); ind != "" {
		parts = append(parts, ind)
	}
	if m.notice != nil {
		style := styles.NoticeOff
		if m.notice.ReadOnly {
			style = styles.Notice
		}
		parts = append(parts, style.Render(m.notice.Text()))
	}
	if m.warning != "" {
		parts = append(parts, styles.Violation.Render("⚠ "+m.warning))
	}
	if m.message != "" {
		parts = append(parts, m.message)
	}
	return strings.Join(parts, "  ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
