package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sprite-ai/ctrev/internal/model"
)

// Color palette.
var (
	colorRed       = lipgloss.Color("#ff5555")
	colorGreen     = lipgloss.Color("#50fa7b")
	colorYellow    = lipgloss.Color("#f1fa8c")
	colorBlue      = lipgloss.Color("#8be9fd")
	colorPurple    = lipgloss.Color("#bd93f9")
	colorDim       = lipgloss.Color("#6272a4")
	colorBgLight   = lipgloss.Color("#343746")
	colorFg        = lipgloss.Color("#f8f8f2")
	colorOrange    = lipgloss.Color("#ffb86c")
	colorBorder    = lipgloss.Color("#44475a")
	colorHighlight = lipgloss.Color("#44475a")
)

// Style definitions.
var (
	// Entry list
	listStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	entryStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	entrySelectedStyle = lipgloss.NewStyle().
				Foreground(colorFg).
				Background(colorHighlight).
				Bold(true)

	entryDismissedStyle = lipgloss.NewStyle().
				Foreground(colorDim).
				Strikethrough(true)

	// Detail pane
	detailStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	detailHeaderStyle = lipgloss.NewStyle().
				Foreground(colorBlue).
				Bold(true).
				Padding(0, 0, 1, 0)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	suggestionStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	excerptStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	excerptMarkStyle = lipgloss.NewStyle().
				Foreground(colorBgLight).
				Background(colorYellow)

	// Verdicts
	verdictApprovedStyle = lipgloss.NewStyle().
				Foreground(colorGreen).
				Bold(true)

	verdictRevisionStyle = lipgloss.NewStyle().
				Foreground(colorOrange).
				Bold(true)

	verdictRejectedStyle = lipgloss.NewStyle().
				Foreground(colorRed).
				Bold(true)

	// Status bar
	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorFg).
			Background(colorBgLight).
			Padding(0, 1)

	// Help
	helpHeaderStyle = lipgloss.NewStyle().
			Foreground(colorPurple).
			Bold(true).
			Padding(0, 0, 1, 0)

	helpBarStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorYellow)
)

// SeverityStyle colors a severity label.
func SeverityStyle(s model.Severity) lipgloss.Style {
	switch s {
	case model.SeverityCritical:
		return lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	case model.SeverityMajor:
		return lipgloss.NewStyle().Foreground(colorOrange)
	case model.SeverityMinor:
		return lipgloss.NewStyle().Foreground(colorYellow)
	default:
		return lipgloss.NewStyle().Foreground(colorBlue)
	}
}

// VerdictStyle colors a verdict label.
func VerdictStyle(v model.Verdict) lipgloss.Style {
	switch v {
	case model.VerdictApproved:
		return verdictApprovedStyle
	case model.VerdictRejected:
		return verdictRejectedStyle
	case model.VerdictNeedsRevision:
		return verdictRevisionStyle
	default:
		return helpBarStyle
	}
}
