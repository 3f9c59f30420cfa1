package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
// - Default (white/black): Primary text
// - Accent (soft purple #A78BFA): Highlights, ids, paths
// - Muted (gray): Secondary info, hints
// - No colored success/error/warning - use unicode symbols only

var (
	// Accent style for entity ids, file paths, highlights
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA"))

	// Muted style for secondary info and hints
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	// AccentBold combines accent color with bold
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA")).Bold(true)
)

// SetAccent overrides the accent color, typically from user config.
func SetAccent(color string) {
	if color == "" {
		return
	}
	Accent = Accent.Foreground(lipgloss.Color(color))
	AccentBold = AccentBold.Foreground(lipgloss.Color(color))
}
