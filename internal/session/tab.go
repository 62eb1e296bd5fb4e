package session

import (
	"fmt"
	"strings"
)

// Tab is the active mode. It selects both the visible panes and the
// backend endpoint a run is sent to.
type Tab int

const (
	TabCompletion Tab = iota
	TabDebugging
	TabTestCase
)

// Tabs lists every tab in navbar order.
var Tabs = []Tab{TabCompletion, TabDebugging, TabTestCase}

func (t Tab) String() string {
	switch t {
	case TabCompletion:
		return "completion"
	case TabDebugging:
		return "debugging"
	case TabTestCase:
		return "testcase"
	default:
		return "unknown"
	}
}

// Title is the navbar label.
func (t Tab) Title() string {
	switch t {
	case TabCompletion:
		return "Code Completion"
	case TabDebugging:
		return "Debugging"
	case TabTestCase:
		return "Test Case Generation"
	default:
		return "Unknown"
	}
}

// Endpoint returns the backend path for the tab.
func (t Tab) Endpoint() string {
	switch t {
	case TabCompletion:
		return "/completion"
	case TabDebugging:
		return "/debugging"
	case TabTestCase:
		return "/testcase"
	default:
		return ""
	}
}

// Valid reports whether t is one of the declared tabs.
func (t Tab) Valid() bool {
	return t >= TabCompletion && t <= TabTestCase
}

// ShowsEditor reports whether the editor pane is part of the tab's layout.
func (t Tab) ShowsEditor() bool {
	return t != TabTestCase
}

// ParseTab accepts the String() form of a tab, case-insensitively.
func ParseTab(s string) (Tab, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, t := range Tabs {
		if t.String() == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown tab %q (want completion, debugging or testcase)", s)
}
