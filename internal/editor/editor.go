// Package editor is a keyboard-driven scene editor rendered as text panels.
// Panels render from a live view of the World; any edit they make goes
// through the World's command buffer and lands after the panel returns.
package editor

import (
	"github.com/zeusync/phosphor/internal/core/app"
	"github.com/zeusync/phosphor/internal/core/asset"
	"github.com/zeusync/phosphor/internal/core/ecs"
	"github.com/zeusync/phosphor/internal/scene"
)

// Version is shown in the menu bar.
const Version = "phosphor-editor 0.1"

// Selected is the entity the inspector shows. The zero Entity means none.
type Selected struct {
	Entity ecs.Entity
}

// SceneName is the title shown in the menu bar.
type SceneName string

// Layout requests a panel layout change. It is consumed by the PostDraw
// system, so adding it again re-applies the layout.
type Layout struct {
	Name string
}

// rename holds the inspector's text entry while a rename is in progress.
type rename struct {
	active bool
	target ecs.Entity
	buf    []rune
}

// Plugin is an Init system installing the editor's resources and systems.
func Plugin(w *ecs.World) error {
	if !ecs.HasResource[Selected](w) {
		ecs.AddResource(w, Selected{})
	}
	if !ecs.HasResource[SceneName](w) {
		ecs.AddResource(w, SceneName("untitled"))
	}
	if !ecs.HasResource[scene.Overlay](w) {
		ecs.AddResource(w, scene.Overlay{})
	}
	ecs.AddResource(w, rename{})
	ecs.AddResource(w, DefaultPanels())
	ecs.AddResource(w, Frame{})
	if !asset.Registered[LayoutFile](w) {
		asset.Register[LayoutFile](w, LoadLayoutFile)
	}

	systems := []struct {
		stage app.Stage
		name  string
		fn    app.System
	}{
		{app.Event, "editor.Shortcuts", Shortcuts},
		{app.Draw, "editor.DrawUI", DrawUI},
		{app.PostDraw, "editor.ApplyLayout", ApplyLayout},
	}
	for _, s := range systems {
		if err := app.RegisterSystem(w, s.stage, s.name, s.fn); err != nil {
			return err
		}
	}
	return nil
}

// selected returns the selection if it is still alive.
func selected(w *ecs.World) (ecs.Entity, bool) {
	sel, ok := ecs.GetResource[Selected](w)
	if !ok || sel.Entity.IsZero() {
		return ecs.Entity{}, false
	}
	if !w.Alive(sel.Entity) {
		sel.Entity = ecs.Entity{}
		return ecs.Entity{}, false
	}
	return sel.Entity, true
}

func selectEntity(w *ecs.World, e ecs.Entity) {
	ecs.AddResource(w, Selected{Entity: e})
}

func displayName(w *ecs.World, e ecs.Entity) string {
	if n, ok := ecs.Get[ecs.Name](w, e); ok && *n != "" {
		return string(*n)
	}
	return "entity " + e.String()
}
