package ui

import (
	"context"
	"strings"

	"codefix/internal/drag"
	"codefix/internal/layout"
	"codefix/internal/progress"
	"codefix/internal/session"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

// Options configures NewAppModel.
type Options struct {
	Runner      session.Runner
	Logger      zerolog.Logger
	InitialCode string
	EditorWidth float64 // percent; clamped
}

// AppModel is the root model: navbar, editor | divider | output, footer.
type AppModel struct {
	Coordinator *session.Coordinator
	Drag        *drag.Controller
	KeyHandler  *KeyHandler
	Focus       *FocusManager
	Navbar      *NavbarView
	Editor      *EditorView
	Output      *OutputView

	ctx      context.Context
	cancel   context.CancelFunc
	logger   zerolog.Logger
	width    int
	height   int
	captured bool // all-motion mouse reporting held for a drag
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// NewAppModel creates the root application model. Runs issued from the UI
// use a context derived from ctx that is cancelled on quit.
func NewAppModel(ctx context.Context, opts Options) *AppModel {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	logger := opts.Logger.With().Str("component", "ui").Logger()

	a := &AppModel{
		Coordinator: session.NewCoordinator(opts.Runner, opts.Logger, opts.InitialCode),
		Drag:        drag.NewController(opts.EditorWidth),
		KeyHandler:  NewKeyHandler(newRegistry()),
		Focus:       &FocusManager{},
		Navbar:      NewNavbarView(),
		Editor:      NewEditorView(opts.InitialCode),
		Output:      NewOutputView(),
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger,
	}
	a.Focus.OnChange = func(from, to string) {
		a.logger.Debug().Str("from", from).Str("to", to).Msg("focus changed")
	}
	a.Focus.SetOrder(a.currentLayout().FocusOrder())
	a.Output.SetOutput("", progress.StatusIdle)
	return a
}

// newRegistry binds the application keys.
func newRegistry() *KeybindRegistry {
	withEditor := []session.Tab{session.TabCompletion, session.TabDebugging}
	run := func() tea.Msg { return RunMsg{} }
	quit := func() tea.Msg { return quitMsg{} }
	selectTab := func(t session.Tab) tea.Cmd {
		return func() tea.Msg { return SelectTabMsg{Tab: t} }
	}

	reg := NewKeybindRegistry()
	reg.BindWithDesc("ctrl+r", run, "run")
	reg.BindWithDesc("ctrl+c", quit, "quit")
	reg.BindWithDesc("f1", selectTab(session.TabCompletion), "completion")
	reg.BindWithDesc("f2", selectTab(session.TabDebugging), "debugging")
	reg.BindWithDesc("f3", selectTab(session.TabTestCase), "test cases")

	reg.BindWithDesc("C-x r", run, "run")
	reg.BindWithDesc("C-x 1", selectTab(session.TabCompletion), "completion")
	reg.BindWithDesc("C-x 2", selectTab(session.TabDebugging), "debugging")
	reg.BindWithDesc("C-x 3", selectTab(session.TabTestCase), "test cases")
	reg.BindWithDescForTabs("C-x o", func() tea.Msg { return ToggleFocusMsg{} }, "other pane", withEditor)
	reg.BindWithDescForTabs("shift+tab", func() tea.Msg { return ToggleFocusMsg{Reverse: true} }, "prev pane", withEditor)
	reg.BindWithDescForTabs("C-x <", func() tea.Msg { return ResizeMsg{Delta: -drag.NudgeStep} }, "narrower", withEditor)
	reg.BindWithDescForTabs("C-x >", func() tea.Msg { return ResizeMsg{Delta: drag.NudgeStep} }, "wider", withEditor)
	reg.BindWithDesc("C-x q", quit, "quit")
	return reg
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (a *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: a}
}

// Close tears the model down after the program exits: an active drag is
// ended so its pointer capture is not left held, and outstanding runs are
// cancelled.
func (a *AppModel) Close() {
	if a.Drag.End() {
		a.captured = false
		a.logger.Debug().Msg("drag ended on close")
	}
	a.cancel()
}

// PointerCaptured reports whether all-motion mouse reporting is held.
func (a *AppModel) PointerCaptured() bool {
	return a.captured
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	return tea.Batch(a.Editor.Init(), a.Output.Init(), a.applyFocus())
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil
	case tea.KeyMsg:
		return a, a.handleKey(msg)
	case tea.MouseMsg:
		return a, a.handleMouse(msg)
	case RunMsg:
		return a, a.run()
	case SelectTabMsg:
		return a, a.selectTab(msg.Tab)
	case ToggleFocusMsg:
		if msg.Reverse {
			a.Focus.Prev()
		} else {
			a.Focus.Next()
		}
		return a, a.applyFocus()
	case ResizeMsg:
		a.Drag.Nudge(msg.Delta)
		a.resize()
		return a, nil
	case progress.Event:
		if a.Coordinator.Apply(msg) {
			a.syncOutput()
		}
		return a, nil
	case spinner.TickMsg:
		_, cmd := a.Output.Update(msg)
		return a, cmd
	case quitMsg:
		release := a.endDrag()
		a.cancel()
		return a, tea.Sequence(release, tea.Quit)
	}

	// Anything else (cursor blink) belongs to the editor.
	_, cmd := a.Editor.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	tab := a.Coordinator.State().ActiveTab
	split := a.split()
	cols := split.Columns(a.width)
	h := mainHeight(a.height)

	var main string
	if cols.Editor > 0 {
		dividerStyle := Styles.Divider
		if a.Drag.Dragging() {
			dividerStyle = Styles.DividerDragging
		}
		divider := dividerStyle.Render(strings.TrimSuffix(strings.Repeat("│\n", h), "\n"))
		main = lipgloss.JoinHorizontal(lipgloss.Top, a.Editor.View(), divider, a.Output.View())
	} else {
		main = a.Output.View()
	}

	footer := RenderKeybindHelp(a.KeyHandler, tab, a.width)
	return lipgloss.JoinVertical(lipgloss.Left, a.Navbar.View(), main, footer)
}

func (a *AppModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	tab := a.Coordinator.State().ActiveTab
	if consumed, cmd := a.KeyHandler.Handle(msg, tab); consumed {
		return cmd
	}
	switch {
	case a.Focus.Is(PanelEditor) && !a.Drag.SelectionSuppressed():
		_, cmd := a.Editor.Update(msg)
		a.Coordinator.SetCode(a.Editor.Value())
		return cmd
	case a.Focus.Is(PanelOutput):
		_, cmd := a.Output.Update(msg)
		return cmd
	}
	return nil
}

func (a *AppModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Action {
	case tea.MouseActionMotion:
		if a.Drag.Move(msg.X, a.width) {
			a.resize()
		}
		return nil
	case tea.MouseActionRelease:
		return a.endDrag()
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		_, cmd := a.Output.Update(msg)
		return cmd
	case tea.MouseButtonLeft:
	default:
		return nil
	}

	if msg.Y < NavbarHeight {
		if tab, ok := a.Navbar.TabAt(msg.X); ok {
			return a.selectTab(tab)
		}
		return nil
	}
	if msg.Y < NavbarHeight+mainHeight(a.height) && a.split().DividerHit(msg.X, a.width) {
		return a.beginDrag()
	}

	p, ok := PanelAt(a.currentLayout(), msg.X, msg.Y, a.width, a.height)
	if !ok {
		return nil
	}
	a.Focus.SetFocus(p.ID)
	cmd := a.applyFocus()
	if p.ID == PanelOutput {
		x, y, _, _ := p.Bounds(a.width, a.height)
		if a.Output.RunButtonHit(msg.X-x, msg.Y-y) {
			return tea.Batch(cmd, a.run())
		}
	}
	return cmd
}

// beginDrag starts a resize gesture and acquires pointer capture.
func (a *AppModel) beginDrag() tea.Cmd {
	if !a.Drag.Begin() {
		return nil
	}
	a.Editor.Blur()
	a.captured = true
	a.logger.Debug().Float64("percent", a.Drag.Percent()).Msg("drag started")
	return tea.EnableMouseAllMotion
}

// endDrag finishes a gesture, releasing the capture taken by beginDrag.
func (a *AppModel) endDrag() tea.Cmd {
	if !a.Drag.End() {
		return nil
	}
	a.captured = false
	a.logger.Debug().Float64("percent", a.Drag.Percent()).Msg("drag ended")
	return tea.Batch(tea.EnableMouseCellMotion, a.applyFocus())
}

func (a *AppModel) run() tea.Cmd {
	a.Coordinator.SetCode(a.Editor.Value())
	cmd := a.Coordinator.Run(a.ctx)
	a.logger.Debug().Uint64("seq", a.Coordinator.Seq()).Msg("run issued")
	return tea.Batch(cmd, a.syncOutput())
}

func (a *AppModel) selectTab(tab session.Tab) tea.Cmd {
	if !a.Coordinator.SelectTab(tab) {
		return nil
	}
	a.Navbar.Active = tab
	a.Focus.SetOrder(a.currentLayout().FocusOrder())
	a.resize()
	return a.applyFocus()
}

// applyFocus pushes the focus manager's choice into the views.
func (a *AppModel) applyFocus() tea.Cmd {
	if a.Focus.Is(PanelOutput) {
		a.Editor.Blur()
		return a.Output.Focus()
	}
	a.Output.Blur()
	if a.Focus.Is(PanelEditor) && !a.Drag.SelectionSuppressed() {
		return a.Editor.Focus()
	}
	a.Editor.Blur()
	return nil
}

func (a *AppModel) syncOutput() tea.Cmd {
	return a.Output.SetOutput(a.Coordinator.State().Output, a.Coordinator.Status())
}

func (a *AppModel) split() layout.Layout {
	return layout.Compute(a.Coordinator.State().ActiveTab, a.Drag.Percent())
}

func (a *AppModel) currentLayout() Layout {
	return splitLayout{split: a.split(), editor: a.Editor, output: a.Output}
}

// resize lays the views out for the current size, tab and width.
func (a *AppModel) resize() {
	cols := a.split().Columns(a.width)
	h := mainHeight(a.height)
	a.Navbar.SetSize(a.width, NavbarHeight)
	if cols.Editor > 0 {
		a.Editor.SetSize(cols.Editor, h)
	}
	a.Output.SetSize(cols.Output, h)
}
