package app

import (
	"errors"
	"fmt"
)

var (
	ErrSystemFailure  = errors.New("system failure")
	ErrStopped        = errors.New("app stopped")
	ErrAlreadyRunning = errors.New("app already started")
	ErrInvalidStage   = errors.New("invalid stage")
)

// SystemError is returned when a system fails. It is fatal: the driver stops
// and does not retry.
type SystemError struct {
	Stage Stage
	Index int
	Name  string
	Err   error
}

func (e *SystemError) Error() string {
	return fmt.Sprintf("stage %s: system #%d %s: %v", e.Stage, e.Index, e.Name, e.Err)
}

func (e *SystemError) Unwrap() error {
	return e.Err
}

func (e *SystemError) Is(target error) bool {
	return target == ErrSystemFailure
}
