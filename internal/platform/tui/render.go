package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/learn-liberty/internal/render"
)

// styleFor returns the lipgloss style for c. Highlight colors are bold.
func styleFor(c render.Color) lipgloss.Style {
	style := lipgloss.NewStyle()
	if code := c.ANSI(); code != "" {
		style = style.Foreground(lipgloss.Color(code))
	}
	if c == render.ColorMagenta || c == render.ColorCyan {
		style = style.Bold(true)
	}
	return style
}

// RenderTarget converts a render target to a styled string, one escape sequence per
// same-colored run.
func RenderTarget(t *render.Target) string {
	rows := make([]string, t.Height())
	for y := range rows {
		var sb strings.Builder
		for _, run := range t.Runs(y) {
			sb.WriteString(styleFor(run.Color).Render(run.Text))
		}
		rows[y] = sb.String()
	}
	return strings.Join(rows, "\n")
}
