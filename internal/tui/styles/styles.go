// Package styles holds the lipgloss styles shared by the report, the
// progress view and the history table.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	ColorAccent = lipgloss.Color("#7D56F4")
	ColorGood   = lipgloss.Color("#04B575")
	ColorBad    = lipgloss.Color("#FF5F87")
	ColorWarn   = lipgloss.Color("#FFAF00")
	ColorMuted  = lipgloss.Color("#767676")
	ColorFrame  = lipgloss.Color("#3C3C3C")
)

var (
	Title = lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Padding(0, 1).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(ColorMuted)

	Subtle = lipgloss.NewStyle().Foreground(ColorMuted)
	Value  = lipgloss.NewStyle().Foreground(ColorGood).Bold(true)
	Active = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)

	Error   = lipgloss.NewStyle().Foreground(ColorBad)
	Warn    = lipgloss.NewStyle().Foreground(ColorWarn)
	Success = lipgloss.NewStyle().Foreground(ColorGood).Bold(true)

	// Box frames one report panel.
	Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorFrame).
		Padding(0, 1).
		Margin(0, 1)
)

// Success-rate thresholds, in percent, below which the rate is shown as a
// warning or an error.
const (
	RateWarnBelow  = 99.0
	RateErrorBelow = 95.0
)

// ForRate picks the style for a success rate given in percent.
func ForRate(rate float64) lipgloss.Style {
	switch {
	case rate < RateErrorBelow:
		return Error
	case rate < RateWarnBelow:
		return Warn
	default:
		return Success
	}
}
