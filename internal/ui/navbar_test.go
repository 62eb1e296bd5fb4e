package ui

import (
	"strings"
	"testing"

	"codefix/internal/session"

	"github.com/charmbracelet/lipgloss"
)

func TestNavbar_ZonesCoverTitles(t *testing.T) {
	n := NewNavbarView()
	n.SetSize(120, NavbarHeight)

	view := n.View()
	if w := lipgloss.Width(view); w != 120 {
		t.Errorf("navbar width %d, want 120", w)
	}
	for _, tab := range session.Tabs {
		if !strings.Contains(view, tab.Title()) {
			t.Errorf("navbar missing %q", tab.Title())
		}
	}

	zones := n.zones()
	if len(zones) != len(session.Tabs) {
		t.Fatalf("%d zones, want %d", len(zones), len(session.Tabs))
	}
	for i, z := range zones {
		if i > 0 && z.start <= zones[i-1].end-1 {
			t.Errorf("zone %v overlaps previous", z.tab)
		}
		for _, x := range []int{z.start, z.end - 1} {
			if got, ok := n.TabAt(x); !ok || got != z.tab {
				t.Errorf("TabAt(%d) = %v,%v, want %v", x, got, ok, z.tab)
			}
		}
		if got, ok := n.TabAt(z.start - 1); ok && got == z.tab {
			t.Errorf("separator before %v should not hit it", z.tab)
		}
	}
	if _, ok := n.TabAt(0); ok {
		t.Error("brand should not hit a tab")
	}
}

func TestNavbar_NarrowTerminalDropsCutTabs(t *testing.T) {
	n := NewNavbarView()
	zones := n.zones()
	last := zones[len(zones)-1]

	n.SetSize(last.start+2, NavbarHeight)
	if _, ok := n.TabAt(last.start); ok {
		t.Error("a tab cut off by the terminal edge should not be clickable")
	}
	if got, ok := n.TabAt(zones[0].start); !ok || got != zones[0].tab {
		t.Errorf("first tab should stay clickable, got %v,%v", got, ok)
	}
}
