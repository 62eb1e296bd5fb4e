package ui

import (
	"sort"

	"codefix/internal/session"
	"codefix/internal/ui/textutil"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// newHelpModel returns a bubbles/help model styled for the footer.
func newHelpModel() help.Model {
	h := help.New()
	h.Styles.ShortKey = Styles.HelpKey
	h.Styles.ShortDesc = Styles.Hint
	h.Styles.ShortSeparator = Styles.Hint
	h.Styles.Ellipsis = Styles.Hint
	return h
}

// RenderKeybindHelp produces the one-line footer for tab, width cells wide.
// Idle, it lists the direct bindings. After C-x it lists what may follow,
// prefixed by the typed sequence.
func RenderKeybindHelp(keyHandler *KeyHandler, tab session.Tab, width int) string {
	if keyHandler == nil || width <= 0 {
		return ""
	}
	h := newHelpModel()

	currentSeq := keyHandler.CurrentSeq()
	if currentSeq == "" {
		bindings := keyHandler.Registry.DirectHints(tab)
		bindings = append(bindings, key.NewBinding(
			key.WithKeys(LeaderSeq),
			key.WithHelp(LeaderSeq, "more"),
		))
		h.Width = width
		return textutil.FitBlock(h.ShortHelpView(bindings), width, 1)
	}

	hints := keyHandler.Registry.LeaderHints(currentSeq, tab)
	keys := make([]string, 0, len(hints))
	for k := range hints {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bindings := make([]key.Binding, 0, len(keys)+1)
	for _, k := range keys {
		bindings = append(bindings, key.NewBinding(
			key.WithKeys(k),
			key.WithHelp(k, hints[k]),
		))
	}
	bindings = append(bindings, key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	))

	prefix := Styles.Status.Render(currentSeq) + " "
	h.Width = width - lipgloss.Width(prefix)
	return textutil.FitBlock(prefix+h.ShortHelpView(bindings), width, 1)
}
