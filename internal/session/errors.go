package session

import (
	"errors"
	"fmt"
)

var errNoRunner = errors.New("session: no backend configured")

// panicError turns a runner panic into a failed run.
type panicError struct {
	value any
}

func (p panicError) Error() string {
	return fmt.Sprintf("session: runner panicked: %v", p.value)
}
