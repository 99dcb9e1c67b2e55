// Package config loads the application configuration. Its sections are
// inserted into the World as resources before the driver starts; the core
// never reads them itself.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/phosphor/internal/core/observability/log"
)

var ErrInvalidConfig = errors.New("invalid config")

// Backend names accepted in Config.Backend.
const (
	BackendTerm     = "term"
	BackendWindow   = "window"
	BackendHeadless = "headless"
)

type Config struct {
	Backend  string     `yaml:"backend"`
	Window   Window     `yaml:"window"`
	Assets   Assets     `yaml:"assets"`
	Editor   Editor     `yaml:"editor"`
	Headless Headless   `yaml:"headless"`
	Log      log.Config `yaml:"log"`
	Inspect  Inspect    `yaml:"inspect"`
}

// Window sizes the ebiten window and paces every backend.
type Window struct {
	Title    string `yaml:"title"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	TickRate int    `yaml:"tick_rate"`
}

type Assets struct {
	// Root is prefixed to asset paths by the backend loaders.
	Root    string   `yaml:"root"`
	Preload []string `yaml:"preload"`
}

type Editor struct {
	Enabled bool   `yaml:"enabled"`
	Layout  string `yaml:"layout"`
	Scene   string `yaml:"scene"`
}

type Headless struct {
	// Ticks bounds a headless run; zero runs until interrupted.
	Ticks int `yaml:"ticks"`
}

type Inspect struct {
	Enabled bool          `yaml:"enabled"`
	Addr    string        `yaml:"addr"`
	Path    string        `yaml:"path"`
	Every   time.Duration `yaml:"every"`
}

func Default() Config {
	return Config{
		Backend: BackendTerm,
		Window: Window{
			Title:    "phosphor",
			Width:    1400,
			Height:   800,
			TickRate: 60,
		},
		Assets: Assets{Root: "assets"},
		Editor: Editor{
			Enabled: true,
			Layout:  "Default",
			Scene:   "untitled",
		},
		Log: log.Config{Level: "info", Encoding: "console"},
		Inspect: Inspect{
			Addr:  "127.0.0.1:7070",
			Path:  "/inspect",
			Every: 250 * time.Millisecond,
		},
	}
}

// Load reads a YAML file over the defaults. An empty path yields Default().
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Decode(f)
}

// Decode reads YAML over the defaults and validates the result. Unknown keys
// are rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	switch c.Backend {
	case BackendTerm, BackendWindow, BackendHeadless:
	default:
		errs = append(errs, fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, c.Backend))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height))
	}
	if c.Window.TickRate < 0 {
		errs = append(errs, fmt.Errorf("%w: negative tick_rate", ErrInvalidConfig))
	}
	if c.Headless.Ticks < 0 {
		errs = append(errs, fmt.Errorf("%w: negative headless.ticks", ErrInvalidConfig))
	}
	if c.Inspect.Enabled {
		if c.Inspect.Addr == "" {
			errs = append(errs, fmt.Errorf("%w: inspect.addr required", ErrInvalidConfig))
		}
		if c.Inspect.Every <= 0 {
			errs = append(errs, fmt.Errorf("%w: inspect.every must be positive", ErrInvalidConfig))
		}
	}
	switch c.Log.Encoding {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("%w: log encoding %q", ErrInvalidConfig, c.Log.Encoding))
	}
	return errors.Join(errs...)
}
