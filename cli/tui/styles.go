// Package tui provides Bubble Tea TUI components for the depthcap CLI.
//
// TUI rules:
//   - TUI is opt-in only (--tui flag)
//   - run --tui drives a live capture session (s, c, q)
//   - inspect --tui uses the same payload as non-TUI rendering
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/justapithecus/depthcap/types"
)

// Color palette.
var (
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	successColor   = lipgloss.Color("#10B981") // Green
	warningColor   = lipgloss.Color("#F59E0B") // Amber
	errorColor     = lipgloss.Color("#EF4444") // Red
	mutedColor     = lipgloss.Color("#6B7280") // Gray
	highlightColor = lipgloss.Color("#3B82F6") // Blue
)

// Styles for TUI components.
var (
	// TitleStyle for headers and titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	// LabelStyle for field labels.
	LabelStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Width(16)

	// ValueStyle for field values.
	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	// SuccessStyle for success states.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(successColor)

	// WarningStyle for warning states.
	WarningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	// ErrorStyle for error states.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	// BoxStyle for bordered containers.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(1, 2)

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)

	// StatBoxStyle for stat display boxes.
	StatBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(highlightColor).
			Padding(0, 2).
			Width(20).
			Align(lipgloss.Center)

	// StatLabelStyle for stat labels.
	StatLabelStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Align(lipgloss.Center)

	// StatValueStyle for stat values.
	StatValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Align(lipgloss.Center)
)

// ModeStyle returns a style for a capture mode.
func ModeStyle(mode types.CaptureMode) lipgloss.Style {
	switch mode {
	case types.CaptureModeContinuous:
		return WarningStyle.Bold(true)
	case types.CaptureModeSingleShot:
		return WarningStyle
	default:
		return SuccessStyle
	}
}

// StatusStyle returns a style for a controller status line.
func StatusStyle(status string) lipgloss.Style {
	switch {
	case strings.Contains(status, "Error"):
		return ErrorStyle
	case strings.Contains(status, "RGB only"),
		strings.Contains(status, "skipped"),
		strings.Contains(status, "No frame"):
		return WarningStyle
	case strings.Contains(status, "saved"),
		strings.HasPrefix(status, "Stopped"):
		return SuccessStyle
	default:
		return ValueStyle
	}
}
