// Package layout derives pane visibility and widths from the active tab and
// the stored editor width. Everything here is a pure function of its inputs.
package layout

import (
	"math"

	"codefix/internal/drag"
	"codefix/internal/session"
)

// Pane describes one side of the split.
type Pane struct {
	Visible bool
	Percent float64
}

// Layout is the rendering instruction for the main area.
type Layout struct {
	Editor  Pane
	Divider bool
	Output  Pane
}

// Columns are terminal cell widths for each region. Editor+Divider+Output
// equals the total width passed to Layout.Columns.
type Columns struct {
	Editor  int
	Divider int
	Output  int
}

// Compute returns the layout for tab with the editor at editorPercent.
// The test case tab always gives the output the full width.
func Compute(tab session.Tab, editorPercent float64) Layout {
	if !tab.ShowsEditor() {
		return Layout{
			Output: Pane{Visible: true, Percent: 100},
		}
	}
	p := drag.Clamp(editorPercent)
	return Layout{
		Editor:  Pane{Visible: true, Percent: p},
		Divider: true,
		Output:  Pane{Visible: true, Percent: 100 - p},
	}
}

// Columns converts the percentages into cell widths. The divider sits at
// column round(total*percent/100), the same column a pointer at that
// percentage of the width reports, and the output takes what is left. Each
// visible side gets at least one cell when total >= 3.
func (l Layout) Columns(total int) Columns {
	if total < 0 {
		total = 0
	}
	if !l.Divider || total < 3 {
		return Columns{Output: total}
	}
	editor := int(math.Round(float64(total) * l.Editor.Percent / 100))
	if editor < 1 {
		editor = 1
	}
	if editor > total-2 {
		editor = total - 2
	}
	return Columns{Editor: editor, Divider: 1, Output: total - 1 - editor}
}

// DividerAt returns the column of the divider for total, or -1 when the
// divider is hidden.
func (l Layout) DividerAt(total int) int {
	c := l.Columns(total)
	if c.Divider == 0 {
		return -1
	}
	return c.Editor
}

// DividerHit reports whether column x grabs the divider.
func (l Layout) DividerHit(x, total int) bool {
	at := l.DividerAt(total)
	return at >= 0 && x == at
}
