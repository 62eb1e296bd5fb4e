package ui

// BoundsFunc returns the panel's position and size given terminal dimensions.
// Returns x, y, width, height.
type BoundsFunc func(width, height int) (x, y, w, h int)

// Panel hosts a View and knows its bounds within a layout.
type Panel struct {
	ID     string
	View   View
	Bounds BoundsFunc
}

// Contains reports whether the cell (px, py) lies inside the panel for the
// given terminal size.
func (p Panel) Contains(px, py, width, height int) bool {
	if p.Bounds == nil {
		return false
	}
	x, y, w, h := p.Bounds(width, height)
	return px >= x && px < x+w && py >= y && py < y+h
}
