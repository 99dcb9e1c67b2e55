// Package injector wires the process-wide services. Run `go generate` after
// changing the provider set to refresh wire_gen.go.
package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/phosphor/internal/config"
	"github.com/zeusync/phosphor/internal/core/app"
	"github.com/zeusync/phosphor/internal/core/ecs"
	"github.com/zeusync/phosphor/internal/core/events/bus"
	"github.com/zeusync/phosphor/internal/core/observability/log"
	"github.com/zeusync/phosphor/internal/inspect"
)

// Runtime is everything cmd/phosphor needs to start.
type Runtime struct {
	Config    config.Config
	Logger    *log.Logger
	App       *app.App
	Inspector *inspect.Server
}

var Set = wire.NewSet(
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	ProvideBus,
	ProvideWorld,
	ProvideApp,
	ProvideInspector,
	wire.Struct(new(Runtime), "*"),
)

func ProvideLogger(cfg config.Config) (*log.Logger, func(), error) {
	l, err := log.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return l, func() { _ = l.Sync() }, nil
}

func ProvideBus() bus.EventBus {
	return bus.New()
}

func ProvideWorld(l log.Log) *ecs.World {
	return ecs.NewWorld(ecs.WithLogger(l))
}

// ProvideApp builds the driver. The window backend is paced by ebiten, so
// only the other backends get a tick rate.
func ProvideApp(cfg config.Config, l log.Log, b bus.EventBus, w *ecs.World, src app.EventSource) *app.App {
	rate := cfg.Window.TickRate
	if cfg.Backend == config.BackendWindow {
		rate = 0
	}
	return app.New(
		app.WithLogger(l),
		app.WithBus(b),
		app.WithWorld(w),
		app.WithSource(src),
		app.WithTickRate(rate),
	)
}

func ProvideInspector(l log.Log, b bus.EventBus) *inspect.Server {
	return inspect.NewServer(l.With(log.String("component", "inspect")), b)
}
