package ui

// FocusManager tracks and rotates focus across panels.
type FocusManager struct {
	Current  string   // ID of the currently focused panel
	Order    []string // Tab order for focus rotation
	OnChange func(from, to string)
}

// Next advances focus to the next panel in order.
// Returns the new current focus ID.
func (f *FocusManager) Next() string {
	if len(f.Order) == 0 {
		return ""
	}
	idx := f.indexOf(f.Current)
	f.move(f.Order[(idx+1)%len(f.Order)])
	return f.Current
}

// Prev moves focus to the previous panel in order.
func (f *FocusManager) Prev() string {
	if len(f.Order) == 0 {
		return ""
	}
	prev := f.indexOf(f.Current) - 1
	if prev < 0 {
		prev = len(f.Order) - 1
	}
	f.move(f.Order[prev])
	return f.Current
}

// SetFocus sets focus to the given panel ID.
// Returns true if the ID exists in order.
func (f *FocusManager) SetFocus(id string) bool {
	if f.indexOf(id) < 0 {
		return false
	}
	f.move(id)
	return true
}

// SetOrder replaces the focus order. Focus stays put if the current panel
// is still present, otherwise it moves to the first panel.
func (f *FocusManager) SetOrder(order []string) {
	f.Order = order
	if len(order) == 0 {
		f.move("")
		return
	}
	if f.indexOf(f.Current) < 0 {
		f.move(order[0])
	}
}

// Is reports whether id is focused.
func (f *FocusManager) Is(id string) bool {
	return f.Current == id
}

func (f *FocusManager) indexOf(id string) int {
	for i, o := range f.Order {
		if o == id {
			return i
		}
	}
	return -1
}

func (f *FocusManager) move(to string) {
	from := f.Current
	f.Current = to
	if f.OnChange != nil && from != to {
		f.OnChange(from, to)
	}
}
