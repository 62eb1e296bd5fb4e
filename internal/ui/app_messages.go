package ui

import "codefix/internal/session"

// RunMsg sends the current code to the active tab's endpoint (ctrl+r, C-x r,
// or a click on the Run button).
type RunMsg struct{}

// SelectTabMsg switches the active tab (f1-f3, C-x 1-3, or a navbar click).
type SelectTabMsg struct {
	Tab session.Tab
}

// ToggleFocusMsg moves keyboard focus between editor and output (C-x o
// forward, shift+tab back).
type ToggleFocusMsg struct {
	Reverse bool
}

// ResizeMsg nudges the editor width by Delta percent (C-x < and C-x >).
type ResizeMsg struct {
	Delta float64
}

// quitMsg releases any active pointer capture before quitting.
type quitMsg struct{}
