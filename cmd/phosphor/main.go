package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/profile"

	"github.com/zeusync/phosphor/internal/backend/term"
	"github.com/zeusync/phosphor/internal/backend/window"
	"github.com/zeusync/phosphor/internal/config"
	"github.com/zeusync/phosphor/internal/core/app"
	"github.com/zeusync/phosphor/internal/core/observability/log"
	"github.com/zeusync/phosphor/internal/editor"
	"github.com/zeusync/phosphor/internal/injector"
	"github.com/zeusync/phosphor/internal/inspect"
	"github.com/zeusync/phosphor/internal/scene"
	"github.com/zeusync/phosphor/pkg/concurrent"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	backend := flag.String("backend", "", "override the configured backend (term, window, headless)")
	profileMode := flag.String("profile", "", "write a profile: cpu, mem, block, mutex or trace")
	flag.Parse()

	if err := run(*configPath, *backend, *profileMode); err != nil {
		fmt.Fprintln(os.Stderr, "phosphor:", err)
		os.Exit(1)
	}
}

func run(configPath, backend, profileMode string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if backend != "" {
		cfg.Backend = backend
		if err = cfg.Validate(); err != nil {
			return err
		}
	}

	if mode, ok := profileModes[profileMode]; ok {
		defer profile.Start(mode, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	} else if profileMode != "" {
		return fmt.Errorf("unknown profile mode %q", profileMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cfg.Backend {
	case config.BackendTerm:
		return runTerm(ctx, cfg)
	case config.BackendWindow:
		return runWindow(ctx, cfg)
	default:
		return runHeadless(ctx, cfg)
	}
}

var profileModes = map[string]func(*profile.Profile){
	"cpu":   profile.CPUProfile,
	"mem":   profile.MemProfile,
	"block": profile.BlockProfile,
	"mutex": profile.MutexProfile,
	"trace": profile.TraceProfile,
}

func runHeadless(ctx context.Context, cfg config.Config) error {
	rt, cleanup, err := injector.Build(cfg, app.NewHeadlessSource(cfg.Headless.Ticks))
	if err != nil {
		return err
	}
	defer cleanup()
	setup(rt)
	return supervise(ctx, rt, rt.App.Run)
}

func runTerm(ctx context.Context, cfg config.Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err = screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()

	src := term.NewSource(screen)
	defer src.Close()

	// The terminal belongs to tcell now; log to a file unless told otherwise.
	if len(cfg.Log.Output) == 0 {
		cfg.Log.Output = []string{"phosphor.log"}
	}
	rt, cleanup, err := injector.Build(cfg, src)
	if err != nil {
		return err
	}
	defer cleanup()

	rt.App.AddPlugin(term.Plugin(screen))
	rt.App.AddNamedSystem(app.Start, "main.Preload", preload[term.Art](cfg.Assets.Preload))
	setup(rt)
	return supervise(ctx, rt, rt.App.Run)
}

func runWindow(ctx context.Context, cfg config.Config) error {
	src := window.NewSource()
	rt, cleanup, err := injector.Build(cfg, src)
	if err != nil {
		return err
	}
	defer cleanup()

	game := window.New(rt.App, src, cfg.Window)
	rt.App.AddNamedSystem(app.Start, "main.Preload", preload[window.Texture](cfg.Assets.Preload))
	setup(rt)

	// ebiten owns the main goroutine, so the inspector runs beside it.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	var served chan error
	if cfg.Inspect.Enabled {
		served = make(chan error, 1)
		go func() {
			served <- rt.Inspector.ListenAndServe(ctx, cfg.Inspect.Addr, cfg.Inspect.Path)
		}()
	}

	err = window.Run(ctx, game, cfg.Window)
	cancel()
	if served != nil {
		err = errors.Join(err, <-served)
	}
	rt.Logger.Info("phosphor stopped", log.Stringer("state", rt.App.State()))
	return err
}

// setup installs the config sections and the plugins shared by every
// backend, then spawns the demo scene.
func setup(rt *injector.Runtime) {
	cfg, a := rt.Config, rt.App
	a.AddResource(cfg.Assets)
	a.AddResource(cfg.Window)
	a.AddSystem(app.Init, scene.Plugin)
	if cfg.Editor.Enabled {
		a.AddResource(editor.SceneName(cfg.Editor.Scene))
		a.AddResource(editor.Layout{Name: cfg.Editor.Layout})
		a.AddSystem(app.Init, editor.Plugin)
	}
	if cfg.Inspect.Enabled {
		a.AddPlugin(inspect.Plugin(rt.Inspector, cfg.Inspect.Every))
	}
	spawnDemo(a.World())

	rt.Logger.Info("phosphor starting",
		log.String("backend", cfg.Backend),
		log.Bool("editor", cfg.Editor.Enabled),
		log.Bool("inspect", cfg.Inspect.Enabled),
	)
}

// supervise runs the driver and, when enabled, the inspector until one of
// them stops.
func supervise(ctx context.Context, rt *injector.Runtime, driver concurrent.Task) error {
	tasks := []concurrent.Task{driver}
	if rt.Config.Inspect.Enabled {
		ins := rt.Config.Inspect
		tasks = append(tasks, func(ctx context.Context) error {
			return rt.Inspector.ListenAndServe(ctx, ins.Addr, ins.Path)
		})
	}
	err := concurrent.Supervise(ctx, tasks...)
	rt.Logger.Info("phosphor stopped", log.Stringer("state", rt.App.State()))
	return err
}
