package progress

import "time"

// Status is the state of a single run invocation.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusPending  Status = "pending"
	StatusResolved Status = "resolved"
	StatusFailed   Status = "failed"
)

// Done reports whether the status is terminal for a run.
func (s Status) Done() bool {
	return s == StatusResolved || s == StatusFailed
}

// Event reports the outcome of one run back to the UI loop.
// Seq identifies the run that produced it; older sequences are stale.
type Event struct {
	Seq       uint64
	Endpoint  string
	Status    Status
	Message   string // result text on success
	Err       error  // set when Status is StatusFailed
	Timestamp time.Time
	Elapsed   time.Duration // time spent waiting on the backend
}

// Resolved builds a successful completion event.
func Resolved(seq uint64, endpoint, result string) Event {
	return Event{
		Seq:       seq,
		Endpoint:  endpoint,
		Status:    StatusResolved,
		Message:   result,
		Timestamp: time.Now(),
	}
}

// Failed builds a failure event carrying err.
func Failed(seq uint64, endpoint string, err error) Event {
	return Event{
		Seq:       seq,
		Endpoint:  endpoint,
		Status:    StatusFailed,
		Err:       err,
		Timestamp: time.Now(),
	}
}
