// Package tui holds the terminal presentation shared by the virtlist
// commands: output mode detection, colors, and record row rendering.
package tui

import "github.com/charmbracelet/lipgloss"

// Palette.
const (
	ColorHeader    = lipgloss.Color("63")
	ColorLabel     = lipgloss.Color("245")
	ColorValue     = lipgloss.Color("252")
	ColorMuted     = lipgloss.Color("240")
	ColorHighlight = lipgloss.Color("212")
	ColorError     = lipgloss.Color("196")
	ColorOK        = lipgloss.Color("42")
)

// Styles used by row and summary rendering.
//
//nolint:gochecknoglobals // Read-only styles.
var (
	HeaderStyle  = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	LabelStyle   = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle   = lipgloss.NewStyle().Foreground(ColorValue)
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
	InvalidStyle = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	OKStyle      = lipgloss.NewStyle().Foreground(ColorOK)
)
