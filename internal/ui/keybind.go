package ui

import (
	"sort"
	"strings"

	"codefix/internal/session"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// LeaderSeq is how the leader key is written in binding sequences.
const LeaderSeq = "C-x"

// KeybindRegistry maps key sequences to commands.
// Leader sequences are written "C-x r" (ctrl+x, then r). Direct keys use
// tea.KeyMsg.String() notation: "ctrl+r", "f1", "ctrl+c".
type KeybindRegistry struct {
	bindings     map[string]tea.Cmd
	descriptions map[string]string
	tabFilter    map[string][]session.Tab // nil/empty = applies to all tabs
}

// NewKeybindRegistry creates an empty registry.
func NewKeybindRegistry() *KeybindRegistry {
	return &KeybindRegistry{
		bindings:     make(map[string]tea.Cmd),
		descriptions: make(map[string]string),
		tabFilter:    make(map[string][]session.Tab),
	}
}

// Bind registers a key sequence to a command.
// Overwrites any existing binding for the sequence.
func (r *KeybindRegistry) Bind(seq string, cmd tea.Cmd) {
	r.BindWithDesc(seq, cmd, "")
}

// BindWithDesc registers a key sequence with a description for the help bar.
// The binding applies to all tabs.
func (r *KeybindRegistry) BindWithDesc(seq string, cmd tea.Cmd, desc string) {
	r.BindWithDescForTabs(seq, cmd, desc, nil)
}

// BindWithDescForTabs registers a key sequence that only fires (and only
// shows in hints) while one of tabs is active. Nil tabs means all tabs.
func (r *KeybindRegistry) BindWithDescForTabs(seq string, cmd tea.Cmd, desc string, tabs []session.Tab) {
	n := normalizeSeq(seq)
	r.bindings[n] = cmd
	if desc != "" {
		r.descriptions[n] = desc
	}
	if len(tabs) > 0 {
		r.tabFilter[n] = tabs
	}
}

// Lookup returns the command for a key sequence, or nil if not bound.
func (r *KeybindRegistry) Lookup(seq string) tea.Cmd {
	return r.bindings[normalizeSeq(seq)]
}

// LookupForTab is Lookup restricted to bindings active on tab.
func (r *KeybindRegistry) LookupForTab(seq string, tab session.Tab) tea.Cmd {
	n := normalizeSeq(seq)
	if !r.appliesToTab(n, tab) {
		return nil
	}
	return r.bindings[n]
}

// HasPrefix returns true if any binding starts with seq and a space (i.e. more keys follow).
func (r *KeybindRegistry) HasPrefix(seq string) bool {
	prefix := normalizeSeq(seq) + " "
	for k := range r.bindings {
		if strings.HasPrefix(k, prefix) {
			return true
		}
	}
	return false
}

// LeaderHints returns the keys that may follow currentSeq (the leader when
// empty) on tab, mapped to their descriptions.
func (r *KeybindRegistry) LeaderHints(currentSeq string, tab session.Tab) map[string]string {
	out := make(map[string]string)
	prefix := LeaderSeq + " "
	if currentSeq != "" {
		prefix = normalizeSeq(currentSeq) + " "
	}
	for seq, cmd := range r.bindings {
		if cmd == nil || !strings.HasPrefix(seq, prefix) {
			continue
		}
		if !r.appliesToTab(seq, tab) {
			continue
		}
		rest := strings.TrimPrefix(seq, prefix)
		parts := strings.Fields(rest)
		k := rest
		if len(parts) > 0 {
			k = parts[0]
		}
		if r.HasPrefix(prefix + k) {
			out[k] = k + "…"
			continue
		}
		if d, ok := r.descriptions[seq]; ok && d != "" {
			out[k] = d
		} else {
			out[k] = seq
		}
	}
	return out
}

// DirectHints returns the non-leader bindings with descriptions, sorted by
// key, for the idle help bar.
func (r *KeybindRegistry) DirectHints(tab session.Tab) []key.Binding {
	var seqs []string
	for seq, cmd := range r.bindings {
		if cmd == nil || strings.HasPrefix(seq, LeaderSeq+" ") {
			continue
		}
		if _, ok := r.descriptions[seq]; !ok || !r.appliesToTab(seq, tab) {
			continue
		}
		seqs = append(seqs, seq)
	}
	sort.Strings(seqs)
	bindings := make([]key.Binding, 0, len(seqs))
	for _, seq := range seqs {
		bindings = append(bindings, key.NewBinding(
			key.WithKeys(seq),
			key.WithHelp(seq, r.descriptions[seq]),
		))
	}
	return bindings
}

// appliesToTab returns true if the binding applies to the given tab.
func (r *KeybindRegistry) appliesToTab(seq string, tab session.Tab) bool {
	tabs, ok := r.tabFilter[seq]
	if !ok || len(tabs) == 0 {
		return true
	}
	for _, t := range tabs {
		if t == tab {
			return true
		}
	}
	return false
}

// normalizeSeq converts tea key strings to our canonical format.
// "ctrl+x r" -> "C-x r", "f1" -> "f1".
func normalizeSeq(seq string) string {
	parts := strings.Fields(seq)
	for i, p := range parts {
		parts[i] = keyToSeqPart(p)
	}
	return strings.Join(parts, " ")
}

// keyToSeqPart converts a tea key string to our sequence part.
func keyToSeqPart(s string) string {
	if s == "ctrl+x" {
		return LeaderSeq
	}
	return s
}

// KeyHandler manages leader key state and dispatches to the registry.
type KeyHandler struct {
	Registry      *KeybindRegistry
	LeaderKey     string   // "ctrl+x" (tea.KeyMsg.String() format)
	LeaderWaiting bool     // true when waiting for key after leader
	Buffer        []string // accumulated sequence in leader mode
}

// NewKeyHandler creates a handler with ctrl+x as leader. A printable
// leader would collide with typing in the editor.
func NewKeyHandler(reg *KeybindRegistry) *KeyHandler {
	return &KeyHandler{
		Registry:  reg,
		LeaderKey: "ctrl+x",
	}
}

// Handle processes a KeyMsg on tab. Returns (consumed, cmd).
// If consumed is true, the key was handled by the keybind system and should not be passed to views.
func (h *KeyHandler) Handle(msg tea.KeyMsg, tab session.Tab) (consumed bool, cmd tea.Cmd) {
	s := msg.String()

	// Esc cancels leader mode
	if s == "esc" {
		if h.LeaderWaiting {
			h.reset()
			return true, nil
		}
		return false, nil
	}

	if s == h.LeaderKey && !h.LeaderWaiting {
		h.LeaderWaiting = true
		h.Buffer = []string{LeaderSeq}
		return true, nil
	}

	// In leader mode: append key and look up
	if h.LeaderWaiting {
		h.Buffer = append(h.Buffer, keyToSeqPart(s))
		seq := strings.Join(h.Buffer, " ")

		if c := h.Registry.LookupForTab(seq, tab); c != nil {
			h.reset()
			return true, c
		}
		// No exact match; stay in leader mode if a longer binding exists
		if h.Registry.HasPrefix(seq) {
			return true, nil
		}
		h.reset()
		return true, nil
	}

	// Not in leader mode: check direct bindings
	if c := h.Registry.LookupForTab(keyToSeqPart(s), tab); c != nil {
		return true, c
	}

	return false, nil
}

// CurrentSeq is the partially typed leader sequence, or "".
func (h *KeyHandler) CurrentSeq() string {
	if !h.LeaderWaiting {
		return ""
	}
	return strings.Join(h.Buffer, " ")
}

func (h *KeyHandler) reset() {
	h.LeaderWaiting = false
	h.Buffer = nil
}
