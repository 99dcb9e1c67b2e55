package app

import "fmt"

// Stage is a phase of execution. Stages run in declaration order.
type Stage uint8

const (
	// Init runs once when the driver starts up.
	Init Stage = iota
	// Start runs once after Init, before the first tick.
	Start
	// Event runs once per polled input event, with the event installed as
	// an input.Event resource for the duration of the stage.
	Event
	PreDraw
	Draw
	PostDraw

	stageCount
)

var stageNames = [stageCount]string{
	Init:     "Init",
	Start:    "Start",
	Event:    "Event",
	PreDraw:  "PreDraw",
	Draw:     "Draw",
	PostDraw: "PostDraw",
}

func (s Stage) String() string {
	if s < stageCount {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", uint8(s))
}

func (s Stage) Valid() bool {
	return s < stageCount
}

// Stages lists every stage in execution order.
func Stages() []Stage {
	out := make([]Stage, stageCount)
	for i := range out {
		out[i] = Stage(i)
	}
	return out
}

// frameStages run every tick after events have been dispatched.
var frameStages = [...]Stage{PreDraw, Draw, PostDraw}
