package session

import (
	"context"
	"time"

	"codefix/internal/progress"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// ErrorMessage is shown in the output pane whenever a run fails.
const ErrorMessage = "❌ Error: Could not connect to backend."

// DefaultCode seeds the editor buffer.
const DefaultCode = "// Write your code here..."

// Runner sends code to the backend endpoint and returns the result text.
type Runner interface {
	Run(ctx context.Context, endpoint, code string) (string, error)
}

// State is the session state visible to the layout and views.
type State struct {
	ActiveTab Tab
	Code      string
	Output    string
}

// Coordinator owns the session state and issues runs.
type Coordinator struct {
	state    State
	status   progress.Status
	seq      uint64 // latest issued run
	applied  uint64 // latest run whose result was applied
	inFlight int
	runner   Runner
	logger   zerolog.Logger
}

// NewCoordinator creates a coordinator on the completion tab with the given
// initial code. A nil runner makes every run fail.
func NewCoordinator(runner Runner, logger zerolog.Logger, initialCode string) *Coordinator {
	return &Coordinator{
		state: State{
			ActiveTab: TabCompletion,
			Code:      initialCode,
		},
		status: progress.StatusIdle,
		runner: runner,
		logger: logger.With().Str("component", "session").Logger(),
	}
}

// State returns a copy of the session state.
func (c *Coordinator) State() State {
	return c.state
}

// Status returns the state of the most recently issued run.
func (c *Coordinator) Status() progress.Status {
	return c.status
}

// Pending reports whether any run is still outstanding.
func (c *Coordinator) Pending() bool {
	return c.inFlight > 0
}

// Seq returns the sequence number of the latest issued run.
func (c *Coordinator) Seq() uint64 {
	return c.seq
}

// SelectTab switches the active tab. Code and output are kept.
// Returns false for a tab outside the declared set.
func (c *Coordinator) SelectTab(tab Tab) bool {
	if !tab.Valid() {
		return false
	}
	if c.state.ActiveTab != tab {
		c.logger.Debug().Stringer("from", c.state.ActiveTab).Stringer("to", tab).Msg("tab selected")
	}
	c.state.ActiveTab = tab
	return true
}

// SetCode replaces the code buffer.
func (c *Coordinator) SetCode(code string) {
	c.state.Code = code
}

// Run marks a new run pending and returns the command that performs it.
// Earlier runs are not cancelled; their results are dropped on arrival.
func (c *Coordinator) Run(ctx context.Context) tea.Cmd {
	c.seq++
	c.inFlight++
	c.status = progress.StatusPending

	seq := c.seq
	endpoint := c.state.ActiveTab.Endpoint()
	code := c.state.Code
	runner := c.runner
	c.logger.Info().Uint64("seq", seq).Str("endpoint", endpoint).Int("code_len", len(code)).Msg("run started")

	return func() tea.Msg {
		return execute(ctx, runner, seq, endpoint, code)
	}
}

// RunSync issues a run and applies its result before returning.
// The returned error is the backend error, if any; output is already set.
func (c *Coordinator) RunSync(ctx context.Context) (string, error) {
	ev, ok := c.Run(ctx)().(progress.Event)
	if !ok {
		return c.state.Output, nil
	}
	c.Apply(ev)
	return c.state.Output, ev.Err
}

// Apply folds a finished run into the state. Returns false when the event
// is not final or belongs to a run older than one already issued or applied.
func (c *Coordinator) Apply(ev progress.Event) bool {
	if !ev.Status.Done() {
		c.logger.Warn().Uint64("seq", ev.Seq).Str("status", string(ev.Status)).Msg("non-final result ignored")
		return false
	}
	if ev.Seq == 0 || ev.Seq > c.seq {
		c.logger.Warn().Uint64("seq", ev.Seq).Msg("result for unknown run ignored")
		return false
	}
	if c.inFlight > 0 {
		c.inFlight--
	}
	if ev.Seq < c.seq || ev.Seq <= c.applied {
		c.logger.Info().Uint64("seq", ev.Seq).Uint64("latest", c.seq).Msg("stale result discarded")
		return false
	}
	c.applied = ev.Seq

	switch ev.Status {
	case progress.StatusResolved:
		c.status = progress.StatusResolved
		c.state.Output = ev.Message
		c.logger.Info().Uint64("seq", ev.Seq).Str("endpoint", ev.Endpoint).Int("result_len", len(ev.Message)).Dur("elapsed", ev.Elapsed).Msg("run resolved")
	default:
		c.status = progress.StatusFailed
		c.state.Output = ErrorMessage
		c.logger.Error().Err(ev.Err).Uint64("seq", ev.Seq).Str("endpoint", ev.Endpoint).Dur("elapsed", ev.Elapsed).Msg("run failed")
	}
	return true
}

func execute(ctx context.Context, runner Runner, seq uint64, endpoint, code string) (ev progress.Event) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			ev = progress.Failed(seq, endpoint, panicError{value: r})
		}
		ev.Elapsed = time.Since(start)
	}()
	if runner == nil {
		return progress.Failed(seq, endpoint, errNoRunner)
	}
	result, err := runner.Run(ctx, endpoint, code)
	if err != nil {
		return progress.Failed(seq, endpoint, err)
	}
	return progress.Resolved(seq, endpoint, result)
}
