package app

import (
	"time"

	"github.com/zeusync/phosphor/internal/core/ecs"
)

// Time is refreshed at the start of every tick.
type Time struct {
	Tick    uint64
	Delta   time.Duration
	Elapsed time.Duration
	Now     time.Time
	started time.Time
}

func (t *Time) advance(now time.Time) {
	if t.started.IsZero() {
		t.started = now
		t.Now = now
	}
	t.Delta = now.Sub(t.Now)
	t.Elapsed = now.Sub(t.started)
	t.Now = now
	t.Tick++
}

// Exit asks the driver to stop once the current tick completes.
type Exit struct {
	Reason string
}

// RequestExit records an exit request. The first reason wins.
func RequestExit(w *ecs.World, reason string) {
	if ecs.HasResource[Exit](w) {
		return
	}
	ecs.AddResource(w, Exit{Reason: reason})
}
