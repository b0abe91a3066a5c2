package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme colors
var (
	PrimaryColor = lipgloss.Color("#E74C3C") // Pi red
	AccentColor  = lipgloss.Color("#3498DB") // Blue
	SuccessColor = lipgloss.Color("#2ECC71") // Green
	WarningColor = lipgloss.Color("#F1C40F") // Yellow
	ErrorColor   = lipgloss.Color("#E74C3C") // Red
	SubtextColor = lipgloss.Color("#B0B0B0") // Light gray
	MutedColor   = lipgloss.Color("#6C6C6C") // Dark gray
)

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SectionStyle = lipgloss.NewStyle().
			Foreground(AccentColor).
			Bold(true).
			MarginTop(1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(SubtextColor).
			Width(18)

	ValueStyle = lipgloss.NewStyle().
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)
)

// PercentStyle colors a usage percentage green/yellow/red.
func PercentStyle(percent float64) lipgloss.Style {
	switch {
	case percent >= 90:
		return ErrorStyle
	case percent >= 70:
		return WarningStyle
	default:
		return SuccessStyle
	}
}
