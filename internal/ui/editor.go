package ui

import (
	"codefix/internal/ui/textutil"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// paneHeaderHeight is the title row above each pane's body.
const paneHeaderHeight = 1

// EditorView is the code buffer. Keys reach it only while it is focused.
type EditorView struct {
	textarea textarea.Model
	width    int
	height   int
}

// Ensure EditorView implements View, Sizer and Focusable.
var (
	_ View      = (*EditorView)(nil)
	_ Sizer     = (*EditorView)(nil)
	_ Focusable = (*EditorView)(nil)
)

// NewEditorView creates an editor seeded with code.
func NewEditorView(code string) *EditorView {
	ta := textarea.New()
	ta.Placeholder = "Write your code here..."
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.ShowLineNumbers = true
	ta.Prompt = ""
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Text = Styles.Normal
	ta.BlurredStyle.Text = Styles.Muted
	ta.SetValue(code)
	ta.SetWidth(40)
	ta.SetHeight(10)
	return &EditorView{textarea: ta}
}

// Init implements View.
func (e *EditorView) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements View.
func (e *EditorView) Update(msg tea.Msg) (View, tea.Cmd) {
	var cmd tea.Cmd
	e.textarea, cmd = e.textarea.Update(msg)
	return e, cmd
}

// SetSize implements Sizer.
func (e *EditorView) SetSize(width, height int) {
	e.width = width
	e.height = height
	e.textarea.SetWidth(max(width, 1))
	e.textarea.SetHeight(max(height-paneHeaderHeight, 1))
}

// Focus implements Focusable.
func (e *EditorView) Focus() tea.Cmd {
	return e.textarea.Focus()
}

// Blur implements Focusable.
func (e *EditorView) Blur() {
	e.textarea.Blur()
}

// Focused reports whether the editor takes key input.
func (e *EditorView) Focused() bool {
	return e.textarea.Focused()
}

// Value returns the buffer.
func (e *EditorView) Value() string {
	return e.textarea.Value()
}

// SetValue replaces the buffer.
func (e *EditorView) SetValue(code string) {
	e.textarea.SetValue(code)
}

// View implements View.
func (e *EditorView) View() string {
	title := Styles.PaneTitle.Render("Editor")
	if e.textarea.Focused() {
		title = Styles.PaneTitleFocused.Render("Editor")
	}
	body := title + "\n" + e.textarea.View()
	if e.width <= 0 || e.height <= 0 {
		return body
	}
	return textutil.FitBlock(body, e.width, e.height)
}
