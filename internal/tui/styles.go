package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/derickschaefer/bidash/internal/render"
)

var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#1a7f37", Dark: "#3fb950"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#cf222e", Dark: "#f85149"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "#6e7781", Dark: "#8b949e"}
	colorAccent = lipgloss.AdaptiveColor{Light: "#0969da", Dark: "#58a6ff"}
	colorBorder = lipgloss.AdaptiveColor{Light: "#d0d7de", Dark: "#30363d"}

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			Width(24)
	cardLabelStyle = lipgloss.NewStyle().Foreground(colorMuted)
	cardValueStyle = lipgloss.NewStyle().Bold(true)

	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(colorMuted)
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).
			Foreground(lipgloss.Color("#ffffff")).Background(colorAccent)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	sqlStyle    = lipgloss.NewStyle().Foreground(colorAccent)
	errorStyle  = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	statusStyle = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
)

// Colorize paints s with the terminal colour for a display class. Text with
// no class is returned unchanged.
func Colorize(c render.Color, s string) string {
	switch c {
	case render.ColorGreen:
		return lipgloss.NewStyle().Foreground(colorGreen).Render(s)
	case render.ColorRed:
		return lipgloss.NewStyle().Foreground(colorRed).Render(s)
	default:
		return s
	}
}
