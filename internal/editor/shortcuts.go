package editor

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/zeusync/phosphor/internal/core/app"
	"github.com/zeusync/phosphor/internal/core/ecs"
	"github.com/zeusync/phosphor/internal/core/input"
	"github.com/zeusync/phosphor/internal/scene"
	"github.com/zeusync/phosphor/pkg/sequence"
)

// Shortcuts is the Event stage system handling editor keys.
func Shortcuts(w *ecs.World) error {
	ev, ok := ecs.GetResource[input.Event](w)
	if !ok || ev.Kind != input.KindKeyDown {
		return nil
	}
	rn, err := ecs.Resource[rename](w)
	if err != nil {
		return err
	}
	if rn.active {
		editName(w, rn, *ev)
		return nil
	}

	switch {
	case ev.Key == input.KeyTab:
		cycle(w, 1)
	case ev.Key == input.KeyBacktab:
		cycle(w, -1)
	case ev.Key == input.KeyDelete:
		if e, ok := selected(w); ok {
			w.Commands().Despawn(e)
			selectEntity(w, ecs.Entity{})
		}
	case ev.Key == input.KeyEnter:
		if e, ok := selected(w); ok {
			*rn = rename{active: true, target: e, buf: []rune(displayName(w, e))}
		}
	case ev.Key == input.KeyRune && ev.Mod.Has(input.ModCtrl):
		ctrl(w, unicode.ToLower(ev.Rune))
	case ev.Key == input.KeyRune && ev.Mod.Has(input.ModAlt) && ev.Rune >= '1' && ev.Rune <= '9':
		togglePanel(w, int(ev.Rune-'1'))
	}
	return nil
}

func ctrl(w *ecs.World, r rune) {
	switch r {
	case 'n':
		name := fmt.Sprintf("entity %d", w.Len()+1)
		e := w.Commands().Spawn(name, scene.NewTransform())
		selectEntity(w, e)
	case 'l':
		ecs.AddResource(w, Layout{Name: nextLayout(w)})
	case 'q':
		app.RequestExit(w, "editor quit")
	}
}

func editName(w *ecs.World, rn *rename, ev input.Event) {
	switch ev.Key {
	case input.KeyRune:
		if ev.Mod&^input.ModShift == 0 {
			rn.buf = append(rn.buf, ev.Rune)
		}
	case input.KeyBackspace:
		if len(rn.buf) > 0 {
			rn.buf = rn.buf[:len(rn.buf)-1]
		}
	case input.KeyEnter:
		if name := strings.TrimSpace(string(rn.buf)); name != "" && w.Alive(rn.target) {
			w.Commands().Insert(rn.target, ecs.Name(name))
		}
		*rn = rename{}
	case input.KeyEscape:
		*rn = rename{}
	}
}

// cycle moves the selection through the outline, wrapping at both ends.
func cycle(w *ecs.World, dir int) {
	order := outline(w)
	n := order.Count()
	if n == 0 {
		return
	}
	sel, _ := selected(w)
	i := sequence.Index(order, sel)
	switch {
	case i < 0 && dir > 0:
		i = 0
	case i < 0:
		i = n - 1
	default:
		i = ((i+dir)%n + n) % n
	}
	keys := order.Keys()
	selectEntity(w, keys[i])
}

func togglePanel(w *ecs.World, i int) {
	panels, ok := ecs.GetResource[Panels](w)
	if !ok || i >= len(*panels) {
		return
	}
	(*panels)[i].Open = !(*panels)[i].Open
}
