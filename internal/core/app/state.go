package app

import "fmt"

// State is the driver lifecycle: Uninitialized -> Initialized -> Running -> Stopped.
type State uint8

const (
	StateUninitialized State = iota
	StateInitialized
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateInitialized:
		return "Initialized"
	case StateRunning:
		return "Running"
	case StateStopped:
		return "Stopped"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Bus event types published by the driver.
const (
	EventStateChanged = "app.state"
	EventFailure      = "app.failure"
)

// StateChanged is the payload of EventStateChanged.
type StateChanged struct {
	From State
	To   State
}
