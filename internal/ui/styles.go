package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme colors used throughout the UI
const (
	ColorAccent    = "86"  // Cyan/green - for titles, highlights
	ColorHighlight = "205" // Magenta - for active tab, divider while dragging
	ColorDanger    = "196" // Red - for failed runs
	ColorMuted     = "241" // Gray - for dimmed text, hints
	ColorText      = "252" // Light gray - for normal text
	ColorDim       = "238" // Dark gray - for the idle divider
	ColorSurface   = "236" // Background of inactive tabs and buttons
)

// Styles contains shared style definitions used across views.
var Styles = struct {
	Brand lipgloss.Style // Navbar product name

	// Tabs
	Tab       lipgloss.Style // Inactive navbar tab
	TabActive lipgloss.Style // Active navbar tab

	// Pane chrome
	PaneTitle        lipgloss.Style // Pane header of an unfocused pane
	PaneTitleFocused lipgloss.Style // Pane header of the focused pane
	Divider          lipgloss.Style // Split divider
	DividerDragging  lipgloss.Style // Split divider during a drag

	// Output
	Button  lipgloss.Style // Run button
	Error   lipgloss.Style // Failed run output
	Normal  lipgloss.Style // Normal text (text color)
	Muted   lipgloss.Style // Dimmed text (muted color)
	Hint    lipgloss.Style // Footer help text
	Status  lipgloss.Style // Status indicators (accent color)
	Empty   lipgloss.Style // Empty state text (muted, italic)
	HelpKey lipgloss.Style // Key in the help bar
}{
	Brand: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)).
		Padding(0, 1),
	Tab: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Background(lipgloss.Color(ColorSurface)).
		Padding(0, 1),
	TabActive: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorText)).
		Background(lipgloss.Color(ColorHighlight)).
		Padding(0, 1),
	PaneTitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	PaneTitleFocused: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	Divider: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDim)),
	DividerDragging: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true),
	Button: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorText)).
		Background(lipgloss.Color(ColorSurface)).
		Padding(0, 1),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDanger)),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Hint: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Status: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccent)),
	Empty: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Italic(true),
	HelpKey: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true),
}
