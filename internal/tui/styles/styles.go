// Package styles defines the shared lipgloss palette and styles for the
// dashboard. SetTheme swaps the palette between the dark and light themes.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors - the dark palette is the default
	PrimaryColor   = lipgloss.Color("#A78BFA") // Purple
	SecondaryColor = lipgloss.Color("#10B981") // Green
	WarningColor   = lipgloss.Color("#F59E0B") // Amber
	ErrorColor     = lipgloss.Color("#F87171") // Red
	MutedColor     = lipgloss.Color("#9CA3AF") // Gray
	SurfaceColor   = lipgloss.Color("#1F2937") // Dark surface
	TextColor      = lipgloss.Color("#F9FAFB") // Light text
	BorderColor    = lipgloss.Color("#6B7280") // Gray

	// Convenience styles for colors
	Primary   = lipgloss.NewStyle().Foreground(PrimaryColor)
	Secondary = lipgloss.NewStyle().Foreground(SecondaryColor)
	Warning   = lipgloss.NewStyle().Foreground(WarningColor)
	Error     = lipgloss.NewStyle().Foreground(ErrorColor)
	Muted     = lipgloss.NewStyle().Foreground(MutedColor)
	Text      = lipgloss.NewStyle().Foreground(TextColor)

	// Status colors
	StatusIdle         = lipgloss.Color("#60A5FA") // Blue
	StatusComputing    = lipgloss.Color("#10B981") // Green
	StatusDisconnected = lipgloss.Color("#F87171") // Red
	StatusPending      = lipgloss.Color("#9CA3AF") // Gray
	StatusProcessing   = lipgloss.Color("#F59E0B") // Amber
	StatusCompleted    = lipgloss.Color("#A78BFA") // Purple
	StatusFailed       = lipgloss.Color("#F87171") // Red

	// Base styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor)

	PanelTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(SecondaryColor)

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(0, 1)

	PanelActive = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(PrimaryColor).
			Padding(0, 1)

	// Header
	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(BorderColor)

	// Help bar
	HelpBar = lipgloss.NewStyle().
		Foreground(MutedColor)

	HelpKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(SecondaryColor)

	// Notices shown in the status line
	Notice = lipgloss.NewStyle().
		Bold(true).
		Foreground(WarningColor)
)

// SetTheme switches the palette. Unknown names keep the current palette.
func SetTheme(name string) {
	switch name {
	case "dark":
		MutedColor = lipgloss.Color("#9CA3AF")
		SurfaceColor = lipgloss.Color("#1F2937")
		TextColor = lipgloss.Color("#F9FAFB")
		BorderColor = lipgloss.Color("#6B7280")
	case "light":
		MutedColor = lipgloss.Color("#6B7280")
		SurfaceColor = lipgloss.Color("#E5E7EB")
		TextColor = lipgloss.Color("#111827")
		BorderColor = lipgloss.Color("#9CA3AF")
	default:
		return
	}
	rederive()
}

// rederive rebuilds the styles that embed palette colors.
func rederive() {
	Muted = lipgloss.NewStyle().Foreground(MutedColor)
	Text = lipgloss.NewStyle().Foreground(TextColor)
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(0, 1)
	PanelActive = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(0, 1)
	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(BorderColor)
	HelpBar = lipgloss.NewStyle().Foreground(MutedColor)
}

// ClientStatusColor returns the badge color for a client status string.
func ClientStatusColor(status string) lipgloss.Color {
	switch status {
	case "computing":
		return StatusComputing
	case "disconnected":
		return StatusDisconnected
	default:
		return StatusIdle
	}
}

// TaskStatusColor returns the badge color for a task status string.
func TaskStatusColor(status string) lipgloss.Color {
	switch status {
	case "processing":
		return StatusProcessing
	case "completed":
		return StatusCompleted
	case "failed":
		return StatusFailed
	default:
		return StatusPending
	}
}
