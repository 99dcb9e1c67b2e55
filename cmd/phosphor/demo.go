package main

import (
	"math"

	"github.com/tanema/gween/ease"

	"github.com/zeusync/phosphor/internal/core/app"
	"github.com/zeusync/phosphor/internal/core/asset"
	"github.com/zeusync/phosphor/internal/core/ecs"
	"github.com/zeusync/phosphor/internal/core/observability/log"
	"github.com/zeusync/phosphor/internal/scene"
)

// spawnDemo builds the starter scene: a camera looking down +Z at a few
// animated sprites.
func spawnDemo(w *ecs.World) {
	w.Spawn("camera",
		scene.NewCamera(math.Pi/3, 0.1, 100),
		scene.NewTransform().Pos(scene.V(0, 0, -8)),
	)
	w.Spawn("ship",
		scene.Sprite{Path: "sprites/ship.txt", Glyph: 'A'},
		scene.NewTransform(),
		scene.Color{R: 120, G: 200, B: 255},
		scene.Animate().PingPong(scene.PosY, 1, 1.5, ease.InOutQuad),
	)
	w.Spawn("asteroid",
		scene.Sprite{Path: "sprites/asteroid.png", Glyph: 'o'},
		scene.NewTransform().Pos(scene.V(-4, 1, 6)),
		scene.Color{R: 170, G: 140, B: 110},
		scene.Animate().PingPong(scene.PosX, 4, 6, ease.Linear).PingPong(scene.RotZ, math.Pi, 6, ease.Linear),
	)
	w.Spawn("beacon",
		scene.Sprite{Glyph: '+'},
		scene.NewTransform().Pos(scene.V(3, -1, 2)),
		scene.Color{R: 255, G: 220, B: 60},
		scene.Animate().PingPong(scene.ScaleAll, 2, 0.8, ease.OutSine),
	)
}

// preload is a Start system warming the cache for T. Missing files are
// logged and left for the sprites' glyph fallback.
func preload[T any](paths []string) app.System {
	return func(w *ecs.World) error {
		if len(paths) == 0 || !asset.Registered[T](w) {
			return nil
		}
		if err := asset.Preload[T](w, paths...); err != nil {
			w.Logger().Warn("asset preload incomplete", log.Int("paths", len(paths)), log.Error(err))
		}
		return nil
	}
}
