package engine

import (
	"errors"
	"fmt"
)

// State is the composer lifecycle state
type State int

const (
	Uninitialized State = iota
	Ready
	Disposed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	case Disposed:
		return "disposed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	ErrAlreadySetUp = errors.New("already set up")
	ErrNotSetUp     = errors.New("not set up")
	ErrDisposed     = errors.New("disposed")
)

// StateError reports an operation called in the wrong lifecycle state
type StateError struct {
	Op    string
	State State
	Err   error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("composer %s: %v (state %s)", e.Op, e.Err, e.State)
}

func (e *StateError) Unwrap() error { return e.Err }
