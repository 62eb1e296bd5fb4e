package ui

import (
	"strings"

	"codefix/internal/session"
	"codefix/internal/ui/textutil"

	tea "github.com/charmbracelet/bubbletea"
)

const brandTitle = "codefix"

// tabZone is the column span [start, end) a tab title occupies on the navbar row.
type tabZone struct {
	tab        session.Tab
	start, end int
}

// NavbarView renders the brand and the mode tabs on a single row.
type NavbarView struct {
	Active session.Tab
	width  int
}

// Ensure NavbarView implements View.
var _ View = (*NavbarView)(nil)

// NewNavbarView creates a navbar with the completion tab active.
func NewNavbarView() *NavbarView {
	return &NavbarView{Active: session.TabCompletion}
}

// Init implements View.
func (n *NavbarView) Init() tea.Cmd { return nil }

// Update implements View. Selection arrives through SelectTabMsg handled by
// the app, so the navbar only tracks its width.
func (n *NavbarView) Update(msg tea.Msg) (View, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		n.width = msg.Width
	}
	return n, nil
}

// SetSize implements Sizer. Height is always NavbarHeight.
func (n *NavbarView) SetSize(width, _ int) {
	n.width = width
}

// View implements View.
func (n *NavbarView) View() string {
	var b strings.Builder
	b.WriteString(Styles.Brand.Render(brandTitle))
	for _, t := range session.Tabs {
		b.WriteString(" ")
		if t == n.Active {
			b.WriteString(Styles.TabActive.Render(t.Title()))
		} else {
			b.WriteString(Styles.Tab.Render(t.Title()))
		}
	}
	if n.width <= 0 {
		return b.String()
	}
	return textutil.FitBlock(b.String(), n.width, NavbarHeight)
}

// zones mirrors the column arithmetic of View.
func (n *NavbarView) zones() []tabZone {
	x := textutil.VisualWidth(brandTitle) + Styles.Brand.GetHorizontalFrameSize()
	out := make([]tabZone, 0, len(session.Tabs))
	for _, t := range session.Tabs {
		x++ // separator
		w := textutil.VisualWidth(t.Title()) + Styles.Tab.GetHorizontalFrameSize()
		out = append(out, tabZone{tab: t, start: x, end: x + w})
		x += w
	}
	return out
}

// TabAt returns the tab whose title covers column x. Titles cut off by a
// narrow terminal do not count.
func (n *NavbarView) TabAt(x int) (session.Tab, bool) {
	for _, z := range n.zones() {
		if n.width > 0 && z.end > n.width {
			break
		}
		if x >= z.start && x < z.end {
			return z.tab, true
		}
	}
	return 0, false
}
