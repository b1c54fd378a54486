package report

import (
	"github.com/charmbracelet/lipgloss"
)

// styles holds the styles of one Printer, bound to its renderer.
type styles struct {
	title     lipgloss.Style
	border    lipgloss.Style
	header    lipgloss.Style
	completed lipgloss.Style
	available lipgloss.Style
	locked    lipgloss.Style
	failed    lipgloss.Style
	muted     lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title: r.NewStyle().
			Bold(true),

		border: r.NewStyle().
			Foreground(lipgloss.Color("240")),

		header: r.NewStyle().
			Bold(true).
			Padding(0, 1),

		completed: r.NewStyle().
			Foreground(lipgloss.Color("green")).
			Bold(true),

		available: r.NewStyle().
			Foreground(lipgloss.Color("yellow")).
			Bold(true),

		locked: r.NewStyle().
			Foreground(lipgloss.Color("240")),

		failed: r.NewStyle().
			Foreground(lipgloss.Color("red")).
			Bold(true),

		muted: r.NewStyle().
			Foreground(lipgloss.Color("241")),
	}
}
