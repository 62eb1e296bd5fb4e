// Package drag tracks the divider drag gesture that resizes the editor and
// output panes.
package drag

const (
	MinPercent     = 20.0
	MaxPercent     = 80.0
	DefaultPercent = 60.0
	// NudgeStep is the keyboard resize increment in percent.
	NudgeStep = 5.0
)

// Clamp limits p to [MinPercent, MaxPercent].
func Clamp(p float64) float64 {
	if p != p { // NaN
		return DefaultPercent
	}
	if p < MinPercent {
		return MinPercent
	}
	if p > MaxPercent {
		return MaxPercent
	}
	return p
}

// Controller holds the layout state mutated by a drag gesture.
// The zero value is not ready; use NewController.
type Controller struct {
	percent  float64
	dragging bool
}

// NewController starts at percent, clamped.
func NewController(percent float64) *Controller {
	return &Controller{percent: Clamp(percent)}
}

// Percent is the editor width as a percentage of the viewport.
func (c *Controller) Percent() float64 {
	return c.percent
}

// Dragging reports whether a gesture is in progress.
func (c *Controller) Dragging() bool {
	return c.dragging
}

// SelectionSuppressed reports whether text selection must be disabled,
// which is exactly while a gesture is in progress.
func (c *Controller) SelectionSuppressed() bool {
	return c.dragging
}

// Begin starts a gesture. Returns false if one is already active, in which
// case the caller must not acquire pointer capture again.
func (c *Controller) Begin() bool {
	if c.dragging {
		return false
	}
	c.dragging = true
	return true
}

// Move updates the width from a pointer position. It is a no-op outside a
// gesture or for a non-positive viewport. Returns true if the width changed.
func (c *Controller) Move(clientX, viewportWidth int) bool {
	if !c.dragging || viewportWidth <= 0 {
		return false
	}
	raw := float64(clientX) / float64(viewportWidth) * 100
	next := Clamp(raw)
	if next == c.percent {
		return false
	}
	c.percent = next
	return true
}

// End finishes a gesture. Returns false if none was active, in which case
// there is no pointer capture to release.
func (c *Controller) End() bool {
	if !c.dragging {
		return false
	}
	c.dragging = false
	return true
}

// Nudge shifts the width by delta percent, clamped. Works outside gestures.
func (c *Controller) Nudge(delta float64) {
	c.percent = Clamp(c.percent + delta)
}

// SetPercent replaces the width, clamped.
func (c *Controller) SetPercent(p float64) {
	c.percent = Clamp(p)
}
