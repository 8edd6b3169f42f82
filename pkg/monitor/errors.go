package monitor

import (
	"errors"
	"fmt"
)

var (
	// ErrSnapshotUnavailable marks a tick where no battery report could be read.
	ErrSnapshotUnavailable = errors.New("snapshot unavailable")
	// ErrRender marks a tick whose frame could not be drawn or written.
	ErrRender = errors.New("render failure")
	// ErrAlreadyStarted is returned by Run when the monitor already ran.
	ErrAlreadyStarted = errors.New("monitor already started")
)

// TickError is the error of a single tick. Kind is one of
// ErrSnapshotUnavailable or ErrRender.
type TickError struct {
	Kind error
	Err  error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *TickError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
