package ui

import (
	"strings"

	"codefix/internal/progress"
	"codefix/internal/ui/textutil"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const runButtonLabel = "▶ Run"

// OutputView shows the result of the latest applied run with scrollback,
// and hosts the Run button in its header.
type OutputView struct {
	viewport viewport.Model
	spinner  spinner.Model
	text     string
	status   progress.Status
	focused  bool
	width    int
	height   int
}

// Ensure OutputView implements View, Sizer and Focusable.
var (
	_ View      = (*OutputView)(nil)
	_ Sizer     = (*OutputView)(nil)
	_ Focusable = (*OutputView)(nil)
)

const defaultOutputWidth = 40
const defaultOutputHeight = 10

// NewOutputView creates an empty output pane.
func NewOutputView() *OutputView {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = Styles.Status
	return &OutputView{
		viewport: viewport.New(defaultOutputWidth, defaultOutputHeight),
		spinner:  s,
		status:   progress.StatusIdle,
	}
}

// Init implements View.
func (o *OutputView) Init() tea.Cmd {
	return o.viewport.Init()
}

// Update implements View. Scroll keys and the mouse wheel go to the viewport.
func (o *OutputView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if o.status != progress.StatusPending {
			return o, nil
		}
		var cmd tea.Cmd
		o.spinner, cmd = o.spinner.Update(msg)
		return o, cmd
	case tea.WindowSizeMsg:
		o.SetSize(msg.Width, msg.Height)
		return o, nil
	}

	var cmd tea.Cmd
	o.viewport, cmd = o.viewport.Update(msg)
	return o, cmd
}

// SetSize implements Sizer.
func (o *OutputView) SetSize(width, height int) {
	o.width = width
	o.height = height
	o.viewport.Width = max(width, 1)
	o.viewport.Height = max(height-paneHeaderHeight, 1)
	o.refreshContent()
}

// Focus implements Focusable.
func (o *OutputView) Focus() tea.Cmd {
	o.focused = true
	return nil
}

// Blur implements Focusable.
func (o *OutputView) Blur() {
	o.focused = false
}

// SetOutput replaces the displayed text and run status. Returns the spinner
// tick when a run becomes pending.
func (o *OutputView) SetOutput(text string, status progress.Status) tea.Cmd {
	wasPending := o.status == progress.StatusPending
	textChanged := text != o.text
	statusChanged := status != o.status
	o.text = text
	o.status = status
	if textChanged || statusChanged {
		o.refreshContent()
	}
	if textChanged {
		o.viewport.GotoTop()
	}
	if status == progress.StatusPending && !wasPending {
		return o.spinner.Tick
	}
	return nil
}

// Text returns the displayed output.
func (o *OutputView) Text() string {
	return o.text
}

// RunButtonHit reports whether the pane-relative cell (x, y) is on the Run
// button.
func (o *OutputView) RunButtonHit(x, y int) bool {
	if y != 0 {
		return false
	}
	start, end := o.runButtonSpan()
	return end > start && x >= start && x < end
}

// runButtonSpan is the [start, end) column range of the button, right-aligned
// in the header. Empty when the pane is too narrow to show it with the title.
func (o *OutputView) runButtonSpan() (int, int) {
	w := textutil.VisualWidth(runButtonLabel) + Styles.Button.GetHorizontalFrameSize()
	if o.width < w+lipgloss.Width(o.renderTitle())+1 {
		return 0, 0
	}
	return o.width - w, o.width
}

// View implements View.
func (o *OutputView) View() string {
	header := o.renderHeader()
	body := header + "\n" + o.viewport.View()
	if o.width <= 0 || o.height <= 0 {
		return body
	}
	return textutil.FitBlock(body, o.width, o.height)
}

func (o *OutputView) renderTitle() string {
	title := Styles.PaneTitle.Render("Output")
	if o.focused {
		title = Styles.PaneTitleFocused.Render("Output")
	}
	if o.status == progress.StatusPending {
		title += " " + o.spinner.View() + Styles.Muted.Render("running")
	}
	return title
}

func (o *OutputView) renderHeader() string {
	title := o.renderTitle()
	start, end := o.runButtonSpan()
	if end <= start {
		return title
	}
	gap := strings.Repeat(" ", start-lipgloss.Width(title))
	return title + gap + Styles.Button.Render(runButtonLabel)
}

// refreshContent rewraps the text to the pane width.
func (o *OutputView) refreshContent() {
	if o.text == "" && o.status == progress.StatusIdle {
		o.viewport.SetContent(Styles.Empty.Render("Press ctrl+r or click Run to send the code."))
		return
	}
	style := Styles.Normal
	if o.status == progress.StatusFailed {
		style = Styles.Error
	}
	o.viewport.SetContent(style.Width(max(o.viewport.Width, 1)).Render(o.text))
}
