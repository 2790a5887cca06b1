package tui

import "github.com/charmbracelet/lipgloss"

// Color palette shared by the views.
const (
	ColorHeader  = lipgloss.Color("39")
	ColorLabel   = lipgloss.Color("245")
	ColorValue   = lipgloss.Color("255")
	ColorMuted   = lipgloss.Color("241")
	ColorSuccess = lipgloss.Color("42")
	ColorWarning = lipgloss.Color("214")
	ColorError   = lipgloss.Color("196")
	ColorSpinner = lipgloss.Color("205")
	ColorCursor  = lipgloss.Color("81")
)

// Shared styles.
//
//nolint:gochecknoglobals // Styles are immutable values reused by every view.
var (
	HeaderStyle   = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	LabelStyle    = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle    = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	SubtleStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	SuccessStyle  = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	WarningStyle  = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	ErrorStyle    = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	SpinnerStyle  = lipgloss.NewStyle().Foreground(ColorSpinner)
	HelpStyle     = lipgloss.NewStyle().Foreground(ColorMuted)
	SelectedStyle = lipgloss.NewStyle().Foreground(ColorCursor)
)
