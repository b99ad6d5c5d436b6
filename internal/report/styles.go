// Package report renders compliance results for terminal display.
package report

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	primaryColor = lipgloss.Color("86")  // cyan
	successColor = lipgloss.Color("42")  // green
	warningColor = lipgloss.Color("214") // orange
	errorColor   = lipgloss.Color("196") // red
	subtleColor  = lipgloss.Color("241") // gray
)

// Styles contains the styling definitions for report formatting.
type Styles struct {
	Title    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Subtle   lipgloss.Style
	Normal   lipgloss.Style
	Box      lipgloss.Style
	Critical lipgloss.Style
	Major    lipgloss.Style
	Minor    lipgloss.Style
}

// NewStyles creates a Styles instance with default styling.
func NewStyles() *Styles {
	s := &Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(primaryColor),
		Success: lipgloss.NewStyle().Foreground(successColor),
		Warning: lipgloss.NewStyle().Foreground(warningColor),
		Error:   lipgloss.NewStyle().Foreground(errorColor),
		Subtle:  lipgloss.NewStyle().Foreground(subtleColor),
		Normal:  lipgloss.NewStyle(),
	}

	s.Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(subtleColor).
		Padding(0, 1)

	s.Critical = lipgloss.NewStyle().Bold(true).Foreground(errorColor)
	s.Major = lipgloss.NewStyle().Foreground(warningColor)
	s.Minor = lipgloss.NewStyle().Foreground(subtleColor)

	return s
}
