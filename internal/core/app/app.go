// Package app drives the World through its stages: Init and Start once, then
// per tick the Event stage for every polled input event followed by PreDraw,
// Draw and PostDraw. Systems run strictly one after another on the calling
// goroutine; the first failing system stops the driver.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zeusync/phosphor/internal/core/ecs"
	"github.com/zeusync/phosphor/internal/core/events/bus"
	"github.com/zeusync/phosphor/internal/core/input"
	"github.com/zeusync/phosphor/internal/core/observability/log"
)

// App owns the World and the schedule. It is driven either by Run or, for
// backends that own the frame loop, by Startup followed by repeated Step.
type App struct {
	world    *ecs.World
	schedule *Schedule
	source   EventSource
	bus      bus.EventBus
	logger   log.Log
	clock    func() time.Time
	tickRate int

	state   State
	pending []error // registration errors surfaced by Startup
}

type Option func(*App)

func WithLogger(l log.Log) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

func WithSource(s EventSource) Option {
	return func(a *App) {
		a.source = s
	}
}

func WithBus(b bus.EventBus) Option {
	return func(a *App) {
		if b != nil {
			a.bus = b
		}
	}
}

// WithWorld drives an existing World instead of a fresh one.
func WithWorld(w *ecs.World) Option {
	return func(a *App) {
		a.world = w
	}
}

// WithTickRate paces Run to hz ticks per second. Zero runs unpaced.
func WithTickRate(hz int) Option {
	return func(a *App) {
		a.tickRate = hz
	}
}

// WithClock replaces time.Now for the Time resource.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		if now != nil {
			a.clock = now
		}
	}
}

func New(opts ...Option) *App {
	a := &App{
		schedule: &Schedule{},
		bus:      bus.New(),
		logger:   log.NewNop(),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.world == nil {
		a.world = ecs.NewWorld(ecs.WithLogger(a.logger))
	}
	if a.source == nil {
		a.source = NewHeadlessSource(0)
	}
	ecs.AddResource(a.world, Registrar{schedule: a.schedule})
	ecs.AddResource(a.world, Time{})
	return a
}

func (a *App) World() *ecs.World {
	return a.world
}

func (a *App) Bus() bus.EventBus {
	return a.bus
}

func (a *App) State() State {
	return a.state
}

func (a *App) Schedule() *Schedule {
	return a.schedule
}

// AddResource installs v keyed by its dynamic type before the driver starts.
func (a *App) AddResource(v any) *App {
	if err := a.world.AddResourceAny(v); err != nil {
		a.pending = append(a.pending, err)
	}
	return a
}

// AddSystem registers fn under a name derived from its symbol.
func (a *App) AddSystem(stage Stage, fn System) *App {
	return a.AddNamedSystem(stage, "", fn)
}

func (a *App) AddNamedSystem(stage Stage, name string, fn System) *App {
	if err := a.schedule.add(stage, name, fn); err != nil {
		a.pending = append(a.pending, err)
	}
	return a
}

// Plugin bundles resources and systems.
type Plugin func(a *App)

func (a *App) AddPlugin(p Plugin) *App {
	p(a)
	return a
}

// Startup runs Init then Start and leaves the driver Running.
func (a *App) Startup() error {
	if a.state != StateUninitialized {
		return ErrAlreadyRunning
	}
	if err := errors.Join(a.pending...); err != nil {
		a.pending = nil
		a.transition(StateStopped)
		return fmt.Errorf("app setup: %w", err)
	}

	if err := a.runStage(Init); err != nil {
		return a.fail(err)
	}
	a.transition(StateInitialized)

	if err := a.runStage(Start); err != nil {
		return a.fail(err)
	}
	a.transition(StateRunning)
	return nil
}

// Step runs one tick. It reports false once the driver has stopped, either
// on request (Exit resource, closed source, Close event) or because a system
// failed, in which case the *SystemError is returned.
func (a *App) Step() (bool, error) {
	if a.state != StateRunning {
		return false, ErrStopped
	}

	if t, ok := ecs.GetResource[Time](a.world); ok {
		t.advance(a.clock())
	} else {
		ecs.AddResource(a.world, Time{})
	}

	events, open := a.source.Poll()
	for _, ev := range events {
		if err := a.dispatch(ev); err != nil {
			return false, a.fail(err)
		}
		if ev.Kind == input.KindClose {
			RequestExit(a.world, "close event")
		}
	}

	for _, stage := range frameStages {
		if err := a.runStage(stage); err != nil {
			return false, a.fail(err)
		}
	}

	if !open {
		RequestExit(a.world, "event source closed")
	}
	if exit, ok := ecs.GetResource[Exit](a.world); ok {
		a.logger.Info("exit requested", log.String("reason", exit.Reason))
		a.Stop()
		return false, nil
	}
	return true, nil
}

// Run starts the driver if needed and ticks until it stops or ctx is done.
// Cancellation is observed between ticks only.
func (a *App) Run(ctx context.Context) error {
	if a.state == StateUninitialized {
		if err := a.Startup(); err != nil {
			return err
		}
	}

	var pace <-chan time.Time
	if a.tickRate > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(a.tickRate))
		defer ticker.Stop()
		pace = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			a.Stop()
			return nil
		default:
		}

		more, err := a.Step()
		if err != nil || !more {
			return err
		}

		if pace != nil {
			select {
			case <-ctx.Done():
				a.Stop()
				return nil
			case <-pace:
			}
		}
	}
}

// Stop moves the driver to Stopped. No stage runs afterwards.
func (a *App) Stop() {
	if a.state == StateStopped {
		return
	}
	a.transition(StateStopped)
}

func (a *App) dispatch(ev input.Event) error {
	ecs.AddResource(a.world, ev)
	defer ecs.TakeResource[input.Event](a.world)
	return a.runStage(Event)
}

// runStage runs the systems of stage in registration order, flushing the
// command buffer after each. The length is re-read every iteration so that
// systems registered during the stage run in the same pass.
func (a *App) runStage(stage Stage) error {
	systems := &a.schedule.stages[stage]
	for i := 0; i < len(*systems); i++ {
		sys := (*systems)[i]
		err := sys.fn(a.world)
		if ferr := a.world.Flush(); ferr != nil {
			err = errors.Join(err, fmt.Errorf("flush commands: %w", ferr))
		}
		if err != nil {
			return &SystemError{Stage: stage, Index: i, Name: sys.name, Err: err}
		}
	}
	return nil
}

func (a *App) fail(err error) error {
	fields := []log.Field{log.Error(err)}
	var se *SystemError
	if errors.As(err, &se) {
		fields = append(fields,
			log.Stringer("stage", se.Stage),
			log.String("system", se.Name),
			log.Int("index", se.Index),
		)
	}
	a.logger.Error("system failed, stopping", fields...)
	if perr := a.bus.Publish(bus.NewEvent(EventFailure, "app", err)); perr != nil {
		a.logger.Warn("failure handler error", log.Error(perr))
	}
	a.transition(StateStopped)
	return err
}

func (a *App) transition(to State) {
	from := a.state
	a.state = to
	a.logger.Debug("state changed",
		log.Stringer("from", from),
		log.Stringer("to", to),
	)
	if err := a.bus.Publish(bus.NewEvent(EventStateChanged, "app", StateChanged{From: from, To: to})); err != nil {
		a.logger.Warn("state handler error", log.Error(err))
	}
}
