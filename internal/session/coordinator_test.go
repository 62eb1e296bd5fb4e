package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"codefix/internal/progress"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	endpoint string
	code     string
}

// fakeRunner records calls and answers with a fixed result or error.
type fakeRunner struct {
	mu     sync.Mutex
	calls  []call
	result string
	err    error
}

func (f *fakeRunner) Run(_ context.Context, endpoint, code string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{endpoint: endpoint, code: code})
	return f.result, f.err
}

type panicRunner struct{}

func (panicRunner) Run(context.Context, string, string) (string, error) {
	panic("kaboom")
}

func newTestCoordinator(r Runner) *Coordinator {
	return NewCoordinator(r, zerolog.Nop(), DefaultCode)
}

func runToEvent(t *testing.T, c *Coordinator) progress.Event {
	t.Helper()
	cmd := c.Run(context.Background())
	require.NotNil(t, cmd)
	ev, ok := cmd().(progress.Event)
	require.True(t, ok, "run command should produce a progress.Event")
	return ev
}

func TestNewCoordinator_Defaults(t *testing.T) {
	c := newTestCoordinator(&fakeRunner{})
	st := c.State()
	assert.Equal(t, TabCompletion, st.ActiveTab)
	assert.Equal(t, DefaultCode, st.Code)
	assert.Empty(t, st.Output)
	assert.Equal(t, progress.StatusIdle, c.Status())
	assert.False(t, c.Pending())
}

func TestSelectTab_KeepsCodeAndOutput(t *testing.T) {
	c := newTestCoordinator(&fakeRunner{result: "ok"})
	c.SetCode("func main() {}")
	_, err := c.RunSync(context.Background())
	require.NoError(t, err)

	for _, tab := range []Tab{TabDebugging, TabTestCase, TabCompletion, TabTestCase} {
		require.True(t, c.SelectTab(tab))
		st := c.State()
		assert.Equal(t, tab, st.ActiveTab)
		assert.Equal(t, "func main() {}", st.Code)
		assert.Equal(t, "ok", st.Output)
	}
}

func TestSelectTab_RejectsUnknownTab(t *testing.T) {
	c := newTestCoordinator(&fakeRunner{})
	assert.False(t, c.SelectTab(Tab(42)))
	assert.Equal(t, TabCompletion, c.State().ActiveTab)
}

func TestRun_UsesActiveTabEndpointAndCode(t *testing.T) {
	tests := []struct {
		tab      Tab
		endpoint string
	}{
		{TabCompletion, "/completion"},
		{TabDebugging, "/debugging"},
		{TabTestCase, "/testcase"},
	}
	for _, tt := range tests {
		t.Run(tt.tab.String(), func(t *testing.T) {
			r := &fakeRunner{result: "ok"}
			c := newTestCoordinator(r)
			c.SelectTab(tt.tab)
			c.SetCode("x := 1")

			_, err := c.RunSync(context.Background())
			require.NoError(t, err)
			require.Len(t, r.calls, 1)
			assert.Equal(t, tt.endpoint, r.calls[0].endpoint)
			assert.Equal(t, "x := 1", r.calls[0].code)
		})
	}
}

func TestRun_SuccessSetsOutput(t *testing.T) {
	c := newTestCoordinator(&fakeRunner{result: "ok"})

	ev := runToEvent(t, c)
	assert.Equal(t, progress.StatusPending, c.Status())
	assert.True(t, c.Pending())
	assert.GreaterOrEqual(t, ev.Elapsed, time.Duration(0))

	assert.True(t, c.Apply(ev))
	assert.Equal(t, "ok", c.State().Output)
	assert.Equal(t, progress.StatusResolved, c.Status())
	assert.False(t, c.Pending())
}

func TestRun_FailureSetsErrorMessage(t *testing.T) {
	c := newTestCoordinator(&fakeRunner{err: errors.New("dial tcp: connection refused")})

	out, err := c.RunSync(context.Background())
	require.Error(t, err)
	assert.Equal(t, ErrorMessage, out)
	assert.Equal(t, ErrorMessage, c.State().Output)
	assert.Equal(t, progress.StatusFailed, c.Status())
}

func TestRun_NilRunnerFails(t *testing.T) {
	c := newTestCoordinator(nil)
	out, err := c.RunSync(context.Background())
	assert.ErrorIs(t, err, errNoRunner)
	assert.Equal(t, ErrorMessage, out)
}

func TestRun_PanicIsContained(t *testing.T) {
	c := newTestCoordinator(panicRunner{})
	assert.NotPanics(t, func() {
		out, err := c.RunSync(context.Background())
		assert.Error(t, err)
		assert.Equal(t, ErrorMessage, out)
	})
}

func TestApply_DiscardsStaleResult(t *testing.T) {
	c := newTestCoordinator(&fakeRunner{result: "first"})
	first := runToEvent(t, c)

	c.runner = &fakeRunner{result: "second"}
	second := runToEvent(t, c)

	// Newest run resolves first, then the older one arrives late.
	assert.True(t, c.Apply(second))
	assert.False(t, c.Apply(first))
	assert.Equal(t, "second", c.State().Output)
	assert.Equal(t, progress.StatusResolved, c.Status())
	assert.False(t, c.Pending())
}

func TestApply_StaleResultKeepsLatestPending(t *testing.T) {
	c := newTestCoordinator(&fakeRunner{result: "first"})
	first := runToEvent(t, c)
	_ = c.Run(context.Background())

	assert.False(t, c.Apply(first))
	assert.Empty(t, c.State().Output)
	assert.Equal(t, progress.StatusPending, c.Status())
	assert.True(t, c.Pending())
}

func TestApply_IgnoresUnknownSeq(t *testing.T) {
	c := newTestCoordinator(&fakeRunner{})
	assert.False(t, c.Apply(progress.Resolved(5, "/completion", "x")))
	assert.False(t, c.Apply(progress.Resolved(0, "/completion", "x")))
	assert.Empty(t, c.State().Output)
	assert.Equal(t, progress.StatusIdle, c.Status())
}

func TestApply_DuplicateIgnored(t *testing.T) {
	c := newTestCoordinator(&fakeRunner{result: "ok"})
	ev := runToEvent(t, c)
	require.True(t, c.Apply(ev))
	c.SetCode("changed")
	assert.False(t, c.Apply(progress.Failed(ev.Seq, ev.Endpoint, errors.New("late"))))
	assert.Equal(t, "ok", c.State().Output)
}

func TestRun_CapturesCodeAtIssueTime(t *testing.T) {
	r := &fakeRunner{result: "ok"}
	c := newTestCoordinator(r)
	c.SetCode("before")
	cmd := c.Run(context.Background())
	c.SetCode("after")
	c.SelectTab(TabDebugging)
	cmd()

	require.Len(t, r.calls, 1)
	assert.Equal(t, "before", r.calls[0].code)
	assert.Equal(t, "/completion", r.calls[0].endpoint)
}

func TestApply_IgnoresNonFinalEvent(t *testing.T) {
	c := newTestCoordinator(&fakeRunner{result: "ok"})
	ev := runToEvent(t, c)

	pending := ev
	pending.Status = progress.StatusPending
	assert.False(t, c.Apply(pending))
	assert.True(t, c.Pending(), "a non-final event must not settle the run")

	assert.True(t, c.Apply(ev))
	assert.Equal(t, "ok", c.State().Output)
}
