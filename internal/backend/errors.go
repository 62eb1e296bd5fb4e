package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport covers connection, DNS, timeout and request-building failures.
	ErrTransport = errors.New("backend unreachable")
	// ErrStatus is matched by every *StatusError.
	ErrStatus = errors.New("backend returned non-ok status")
	// ErrMalformed means the body was not JSON or had no string "result".
	ErrMalformed = errors.New("malformed backend response")
	// ErrTooLarge is wrapped with ErrMalformed when a 2xx body exceeds the
	// read limit.
	ErrTooLarge = errors.New("response too large")
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code   int
	Detail string // "detail" field of a JSON error body, if any
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend status %d: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("backend status %d", e.Code)
}

// Is lets errors.Is(err, ErrStatus) match.
func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}
