package scene

import (
	"maps"
	"reflect"

	"github.com/zeusync/phosphor/internal/core/app"
	"github.com/zeusync/phosphor/internal/core/ecs"
	"github.com/zeusync/phosphor/internal/core/observability/log"
	"github.com/zeusync/phosphor/pkg/sequence"
)

// Sprite marks an entity as drawable. Path names an image asset resolved by
// the active backend; entities without one are drawn as Glyph.
type Sprite struct {
	Path  string
	Glyph rune
}

type Color struct {
	R, G, B uint8
}

// DefaultTint is used for sprites without a Color component.
var DefaultTint = Color{191, 191, 191}

// Drawable is one sprite ready for a backend to paint.
type Drawable struct {
	Entity    ecs.Entity
	Sprite    Sprite
	Tint      Color
	Transform Transform
	At        Projection
}

// Visible projects every sprite through the first camera and returns them
// back to front. Missing joins are warned about once per entity and skipped.
func Visible(w *ecs.World, vp Viewport) []Drawable {
	camEntity, cam, ok := ecs.First[Camera](w)
	if !ok {
		warnOnce(w, ecs.Entity{}, "scene will not be rendered (missing camera)")
		return nil
	}
	view, ok := ecs.Get[Transform](w, camEntity)
	if !ok {
		warnOnce(w, camEntity, "scene will not be rendered (missing camera transform)")
		return nil
	}

	queue := sequence.NewDepthQueue[Drawable]()
	for e, sp := range ecs.Query[Sprite](w) {
		tr, ok := ecs.Get[Transform](w, e)
		if !ok {
			warnOnce(w, e, "sprite won't be rendered (missing Transform)")
			continue
		}
		at, ok := cam.Project(*view, tr.Position, vp)
		if !ok {
			continue
		}
		tint := DefaultTint
		if c, ok := ecs.Get[Color](w, e); ok {
			tint = *c
		}
		queue.Push(Drawable{Entity: e, Sprite: *sp, Tint: tint, Transform: *tr, At: at}, at.Depth)
	}
	return queue.Drain()
}

// AnimateTweens is the PreDraw system advancing every Tweens component by the
// tick's delta. Finished components are removed.
func AnimateTweens(w *ecs.World) error {
	var dt float32
	if t, ok := ecs.GetResource[app.Time](w); ok {
		dt = float32(t.Delta.Seconds())
	}
	cmd := w.Commands()
	for e, tw := range ecs.Query[Tweens](w) {
		tr, ok := ecs.Get[Transform](w, e)
		if !ok {
			warnOnce(w, e, "tween won't run (missing Transform)")
			continue
		}
		tw.advance(tr, dt)
		if tw.Done() {
			cmd.Remove(e, reflect.TypeFor[Tweens]())
		}
	}
	return nil
}

// Plugin is an Init system installing the Overlay resource and the tween
// system.
func Plugin(w *ecs.World) error {
	if !ecs.HasResource[Overlay](w) {
		ecs.AddResource(w, Overlay{})
	}
	return app.RegisterSystem(w, app.PreDraw, "scene.AnimateTweens", AnimateTweens)
}

type warning struct {
	entity ecs.Entity
	msg    string
}

// warnings remembers issued warnings. Entries of despawned entities are
// dropped whenever the set doubles in size.
type warnings struct {
	seen    map[warning]struct{}
	pruneAt int
}

const minPrune = 64

func warnOnce(w *ecs.World, e ecs.Entity, msg string) {
	ws, ok := ecs.GetResource[warnings](w)
	if !ok {
		ecs.AddResource(w, warnings{seen: make(map[warning]struct{}), pruneAt: minPrune})
		ws, _ = ecs.GetResource[warnings](w)
	}
	k := warning{entity: e, msg: msg}
	if _, done := ws.seen[k]; done {
		return
	}
	ws.seen[k] = struct{}{}
	if len(ws.seen) >= ws.pruneAt {
		maps.DeleteFunc(ws.seen, func(k warning, _ struct{}) bool {
			return !k.entity.IsZero() && !w.Alive(k.entity)
		})
		ws.pruneAt = max(minPrune, 2*len(ws.seen))
	}

	fields := []log.Field{}
	if !e.IsZero() {
		fields = append(fields, log.Stringer("entity", e))
		if n, ok := ecs.Get[ecs.Name](w, e); ok {
			fields = append(fields, log.String("name", string(*n)))
		}
	}
	w.Logger().Warn(msg, fields...)
}
