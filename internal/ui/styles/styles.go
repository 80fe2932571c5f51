// Package styles defines the visual styling for terminal output.
package styles

import "github.com/charmbracelet/lipgloss"

// Color definitions.
var (
	Primary = lipgloss.Color("205") // Pink
	Subtle  = lipgloss.Color("240") // Gray

	// Status colors
	Success = lipgloss.Color("42")  // Green
	Error   = lipgloss.Color("196") // Red
)

// TitleStyle is used for chart captions.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary)

// HelpStyle is used for muted hints such as empty chart placeholders.
var HelpStyle = lipgloss.NewStyle().
	Foreground(Subtle)

// SuccessTextStyle styles the completion status line.
var SuccessTextStyle = lipgloss.NewStyle().
	Foreground(Success)

// ErrorTextStyle styles fetch diagnostics.
var ErrorTextStyle = lipgloss.NewStyle().
	Foreground(Error).
	Bold(true)

// StatusLine renders a one-line message, colored by outcome.
func StatusLine(msg string, ok bool) string {
	if ok {
		return SuccessTextStyle.Render(msg)
	}
	return ErrorTextStyle.Render(msg)
}
