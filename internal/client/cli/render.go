package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// view holds the console styles. Styles are bound to the output writer, so
// colors are dropped when it is not a terminal.
type view struct {
	title   lipgloss.Style
	header  lipgloss.Style
	cell    lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	danger  lipgloss.Style
	warning lipgloss.Style
}

func newView(w io.Writer) *view {
	r := lipgloss.NewRenderer(w)
	return &view{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#8b0000")),
		header:  r.NewStyle().Bold(true).Padding(0, 1),
		cell:    r.NewStyle().Padding(0, 1),
		muted:   r.NewStyle().Faint(true),
		success: r.NewStyle().Foreground(lipgloss.Color("#2ecc71")),
		danger:  r.NewStyle().Foreground(lipgloss.Color("#e53935")),
		warning: r.NewStyle().Foreground(lipgloss.Color("#f39c12")),
	}
}

func (v *view) mode(m Mode, text string) string {
	if m == ModeOnline {
		return v.success.Render(text)
	}
	return v.danger.Render(text)
}

// table renders rows under headers with columns sized to their widest cell.
func (v *view) table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, c := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(c))
			}
		}
	}

	var sb strings.Builder
	sep := v.muted.Render("|")
	line := func(style lipgloss.Style, cells []string) {
		parts := make([]string, len(widths))
		for i := range widths {
			c := ""
			if i < len(cells) {
				c = cells[i]
			}
			parts[i] = style.Width(widths[i] + 2).Render(c)
		}
		sb.WriteString(strings.TrimRight(strings.Join(parts, sep), " "))
		sb.WriteString("\n")
	}

	line(v.header, headers)
	total := len(widths) - 1
	for _, w := range widths {
		total += w + 2
	}
	sb.WriteString(v.muted.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")
	for _, row := range rows {
		line(v.cell, row)
	}
	return sb.String()
}
