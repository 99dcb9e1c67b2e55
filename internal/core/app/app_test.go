package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/phosphor/internal/core/ecs"
	"github.com/zeusync/phosphor/internal/core/events/bus"
	"github.com/zeusync/phosphor/internal/core/input"
)

type trace []string

func record(name string) System {
	return func(w *ecs.World) error {
		t, _ := ecs.GetResource[trace](w)
		*t = append(*t, name)
		return nil
	}
}

func traced(t *testing.T, a *App) *trace {
	t.Helper()
	a.AddResource(trace{})
	tr, ok := ecs.GetResource[trace](a.World())
	require.True(t, ok)
	return tr
}

func TestStageOrder(t *testing.T) {
	a := New(WithSource(NewHeadlessSource(1)))
	tr := traced(t, a)
	a.AddNamedSystem(Start, "A", record("A")).
		AddNamedSystem(Draw, "B", record("B")).
		AddNamedSystem(Start, "C", record("C"))

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, trace{"A", "C", "B"}, *tr)
	assert.Equal(t, StateStopped, a.State())
}

func TestFullTickOrder(t *testing.T) {
	a := New(WithSource(NewScriptedSource([]input.Event{input.RunePress('a'), input.RunePress('b')})))
	tr := traced(t, a)
	for _, s := range Stages() {
		a.AddNamedSystem(s, s.String(), record(s.String()))
	}

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, trace{"Init", "Start", "Event", "Event", "PreDraw", "Draw", "PostDraw"}, *tr)
}

func TestFailureHaltsTick(t *testing.T) {
	boom := errors.New("boom")
	a := New(WithSource(NewHeadlessSource(0)))
	tr := traced(t, a)
	a.AddNamedSystem(PreDraw, "ok", record("pre-ok")).
		AddNamedSystem(PreDraw, "explode", func(*ecs.World) error { return boom }).
		AddNamedSystem(Draw, "draw", record("draw")).
		AddNamedSystem(PostDraw, "post", record("post"))

	err := a.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSystemFailure)
	assert.ErrorIs(t, err, boom)

	var se *SystemError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, PreDraw, se.Stage)
	assert.Equal(t, 1, se.Index)
	assert.Equal(t, "explode", se.Name)

	assert.Equal(t, trace{"pre-ok"}, *tr)
	assert.Equal(t, StateStopped, a.State())

	more, err := a.Step()
	assert.False(t, more)
	assert.ErrorIs(t, err, ErrStopped)
	assert.Equal(t, trace{"pre-ok"}, *tr, "stopped driver runs nothing")
}

func TestInitFailureStopsBeforeStart(t *testing.T) {
	a := New()
	tr := traced(t, a)
	a.AddSystem(Init, func(*ecs.World) error { return errors.New("missing asset") }).
		AddNamedSystem(Start, "start", record("start"))

	err := a.Startup()
	assert.ErrorIs(t, err, ErrSystemFailure)
	assert.Empty(t, *tr)
	assert.Equal(t, StateStopped, a.State())
}

func TestStateTransitionsArePublished(t *testing.T) {
	b := bus.New()
	var seen []StateChanged
	_, err := b.Subscribe(EventStateChanged, func(e bus.Event) error {
		seen = append(seen, e.Data().(StateChanged))
		return nil
	})
	require.NoError(t, err)

	a := New(WithBus(b), WithSource(NewHeadlessSource(2)))
	assert.Equal(t, StateUninitialized, a.State())
	require.NoError(t, a.Startup())
	assert.ErrorIs(t, a.Startup(), ErrAlreadyRunning)

	more, err := a.Step()
	require.NoError(t, err)
	assert.True(t, more)
	more, err = a.Step()
	require.NoError(t, err)
	assert.False(t, more)

	assert.Equal(t, []StateChanged{
		{StateUninitialized, StateInitialized},
		{StateInitialized, StateRunning},
		{StateRunning, StateStopped},
	}, seen)
}

func TestFailureIsPublished(t *testing.T) {
	b := bus.New()
	var failure error
	_, _ = b.Subscribe(EventFailure, func(e bus.Event) error {
		failure = e.Data().(error)
		return nil
	})
	a := New(WithBus(b))
	a.AddSystem(Draw, func(*ecs.World) error { return errors.New("gpu lost") })
	require.NoError(t, a.Startup())
	_, err := a.Step()
	require.Error(t, err)
	assert.ErrorIs(t, failure, ErrSystemFailure)
}

func TestEventIsTransientResource(t *testing.T) {
	events := []input.Event{input.KeyPress(input.KeyTab, 0), input.Resize(80, 24)}
	a := New(WithSource(NewScriptedSource(events)))
	var got []input.Event
	a.AddSystem(Event, func(w *ecs.World) error {
		ev, err := ecs.Resource[input.Event](w)
		if err != nil {
			return err
		}
		got = append(got, *ev)
		return nil
	})
	a.AddSystem(Draw, func(w *ecs.World) error {
		if ecs.HasResource[input.Event](w) {
			return errors.New("event leaked past Event stage")
		}
		return nil
	})

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, events, got)
}

func TestCloseEventStopsAfterTick(t *testing.T) {
	a := New(WithSource(NewScriptedSource(
		[]input.Event{input.Close()},
		[]input.Event{input.RunePress('x')},
	)))
	draws := 0
	a.AddSystem(Draw, func(*ecs.World) error { draws++; return nil })
	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, 1, draws)
	exit, ok := ecs.GetResource[Exit](a.World())
	require.True(t, ok)
	assert.Equal(t, "close event", exit.Reason)
}

func TestRequestExitFromSystem(t *testing.T) {
	a := New()
	ticks := 0
	a.AddSystem(PostDraw, func(w *ecs.World) error {
		ticks++
		if ticks == 3 {
			RequestExit(w, "done")
			RequestExit(w, "ignored")
		}
		return nil
	})
	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, 3, ticks)
	exit, _ := ecs.GetResource[Exit](a.World())
	assert.Equal(t, "done", exit.Reason)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a := New(WithTickRate(1000))
	ticks := 0
	a.AddSystem(Draw, func(*ecs.World) error {
		ticks++
		if ticks == 2 {
			cancel()
		}
		return nil
	})
	require.NoError(t, a.Run(ctx))
	assert.Equal(t, 2, ticks)
	assert.Equal(t, StateStopped, a.State())
}

func TestPluginRegistersFromInit(t *testing.T) {
	a := New(WithSource(NewHeadlessSource(1)))
	tr := traced(t, a)
	plugin := func(w *ecs.World) error {
		if err := RegisterSystem(w, Init, "plugin-late-init", record("late-init")); err != nil {
			return err
		}
		return RegisterSystem(w, Draw, "plugin-draw", record("plugin-draw"))
	}
	a.AddNamedSystem(Init, "plugin", plugin).
		AddNamedSystem(Init, "after", record("after"))

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, trace{"after", "late-init", "plugin-draw"}, *tr)
	assert.Equal(t, []string{"plugin", "after", "plugin-late-init"}, a.Schedule().Names(Init))
}

func TestRegisterSystemWithoutApp(t *testing.T) {
	err := RegisterSystem(ecs.NewWorld(), Draw, "x", record("x"))
	assert.ErrorIs(t, err, ecs.ErrMissingResource)
}

func TestInvalidRegistrationFailsStartup(t *testing.T) {
	a := New()
	a.AddSystem(Stage(42), record("x"))
	a.AddResource(nil)
	err := a.Startup()
	assert.ErrorIs(t, err, ErrInvalidStage)
	assert.ErrorIs(t, err, ecs.ErrNilResource)
	assert.Equal(t, StateStopped, a.State())
}

func TestCommandsFlushedBetweenSystems(t *testing.T) {
	type marker struct{}
	a := New(WithSource(NewHeadlessSource(1)))
	var seen bool
	a.AddSystem(Draw, func(w *ecs.World) error {
		w.Commands().Spawn("queued", marker{})
		return nil
	})
	a.AddSystem(Draw, func(w *ecs.World) error {
		seen = ecs.Count[marker](w) == 1
		return nil
	})
	require.NoError(t, a.Run(context.Background()))
	assert.True(t, seen)
}

func TestFlushFailureIsSystemFailure(t *testing.T) {
	a := New()
	a.AddNamedSystem(Draw, "bad-insert", func(w *ecs.World) error {
		dead := w.Spawn("")
		w.Despawn(dead)
		w.Commands().Insert(dead, 1)
		return nil
	})
	require.NoError(t, a.Startup())
	_, err := a.Step()
	assert.ErrorIs(t, err, ErrSystemFailure)
	assert.ErrorIs(t, err, ecs.ErrEntityNotFound)
}

func TestTimeAdvancesPerTick(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		now = now.Add(16 * time.Millisecond)
		return now
	}
	a := New(WithClock(clock), WithSource(NewHeadlessSource(3)))
	var deltas []time.Duration
	a.AddSystem(PreDraw, func(w *ecs.World) error {
		tm, err := ecs.Resource[Time](w)
		if err != nil {
			return err
		}
		deltas = append(deltas, tm.Delta)
		return nil
	})
	require.NoError(t, a.Run(context.Background()))

	assert.Equal(t, []time.Duration{0, 16 * time.Millisecond, 16 * time.Millisecond}, deltas)
	tm, _ := ecs.GetResource[Time](a.World())
	assert.Equal(t, uint64(3), tm.Tick)
	assert.Equal(t, 32*time.Millisecond, tm.Elapsed)
}

func TestSystemNameFromSymbol(t *testing.T) {
	a := New()
	a.AddSystem(Draw, drawNothing)
	assert.Equal(t, []string{"app.drawNothing"}, a.Schedule().Names(Draw))
}

func drawNothing(*ecs.World) error { return nil }

func TestStageStrings(t *testing.T) {
	assert.Equal(t, []Stage{Init, Start, Event, PreDraw, Draw, PostDraw}, Stages())
	assert.Equal(t, "PostDraw", PostDraw.String())
	assert.Equal(t, "Stage(9)", Stage(9).String())
	assert.Equal(t, "Running", StateRunning.String())
}
