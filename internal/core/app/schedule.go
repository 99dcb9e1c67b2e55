package app

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/zeusync/phosphor/internal/core/ecs"
)

// System is a unit of per-stage work. It borrows the World for the duration
// of the call and must not keep component or resource pointers afterwards.
// A returned error stops the driver.
type System func(w *ecs.World) error

type scheduled struct {
	name string
	fn   System
}

// Schedule holds the systems of every stage in registration order.
type Schedule struct {
	stages [stageCount][]scheduled
}

func (s *Schedule) add(stage Stage, name string, fn System) error {
	if !stage.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidStage, stage)
	}
	if fn == nil {
		return fmt.Errorf("stage %s: nil system %q", stage, name)
	}
	if name == "" {
		name = systemName(fn)
	}
	s.stages[stage] = append(s.stages[stage], scheduled{name: name, fn: fn})
	return nil
}

// Names lists the systems registered to stage.
func (s *Schedule) Names(stage Stage) []string {
	if !stage.Valid() {
		return nil
	}
	out := make([]string, len(s.stages[stage]))
	for i, sys := range s.stages[stage] {
		out[i] = sys.name
	}
	return out
}

func (s *Schedule) Len(stage Stage) int {
	if !stage.Valid() {
		return 0
	}
	return len(s.stages[stage])
}

// systemName derives a readable name from the function symbol, e.g.
// "editor.outline" for github.com/x/internal/editor.outline.
func systemName(fn System) string {
	f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if f == nil {
		return "system"
	}
	name := f.Name()
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// Registrar is the resource through which running systems add further
// systems, typically plugins set up from Init.
type Registrar struct {
	schedule *Schedule
}

// RegisterSystem adds fn to stage from inside a system. A system registered
// to the stage currently running executes later in the same pass.
func RegisterSystem(w *ecs.World, stage Stage, name string, fn System) error {
	r, err := ecs.Resource[Registrar](w)
	if err != nil {
		return err
	}
	return r.schedule.add(stage, name, fn)
}
