package ui

import (
	"codefix/internal/layout"
)

const (
	NavbarHeight = 1
	FooterHeight = 1

	PanelEditor = "editor"
	PanelOutput = "output"
)

// Layout arranges panels and defines focus order.
type Layout interface {
	Panels() []Panel
	FocusOrder() []string // Tab order for focus
}

// splitLayout places the editor and output side by side between the navbar
// and the footer, following the pane split for the active tab.
type splitLayout struct {
	split  layout.Layout
	editor View
	output View
}

// Ensure splitLayout implements Layout.
var _ Layout = splitLayout{}

// mainHeight is the number of rows between navbar and footer.
func mainHeight(height int) int {
	h := height - NavbarHeight - FooterHeight
	if h < 1 {
		return 1
	}
	return h
}

// Panels returns the visible panels, left to right.
func (l splitLayout) Panels() []Panel {
	var panels []Panel
	if l.split.Editor.Visible {
		panels = append(panels, Panel{
			ID:   PanelEditor,
			View: l.editor,
			Bounds: func(width, height int) (int, int, int, int) {
				c := l.split.Columns(width)
				return 0, NavbarHeight, c.Editor, mainHeight(height)
			},
		})
	}
	panels = append(panels, Panel{
		ID:   PanelOutput,
		View: l.output,
		Bounds: func(width, height int) (int, int, int, int) {
			c := l.split.Columns(width)
			return c.Editor + c.Divider, NavbarHeight, c.Output, mainHeight(height)
		},
	})
	return panels
}

// FocusOrder lists the focusable panels.
func (l splitLayout) FocusOrder() []string {
	if l.split.Editor.Visible {
		return []string{PanelEditor, PanelOutput}
	}
	return []string{PanelOutput}
}

// PanelAt returns the panel containing the cell, if any.
func PanelAt(l Layout, x, y, width, height int) (Panel, bool) {
	for _, p := range l.Panels() {
		if p.Contains(x, y, width, height) {
			return p, true
		}
	}
	return Panel{}, false
}
