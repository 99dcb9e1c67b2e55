package editor

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/zeusync/phosphor/internal/core/asset"
	"github.com/zeusync/phosphor/internal/core/ecs"
	"github.com/zeusync/phosphor/internal/scene"
	"github.com/zeusync/phosphor/pkg/sequence"
)

// Line is one row of panel output.
type Line struct {
	Text      string
	Highlight bool
}

// UI collects what a panel renders this frame.
type UI struct {
	lines []Line
}

func (u *UI) Text(format string, args ...any) {
	u.lines = append(u.lines, Line{Text: fmt.Sprintf(format, args...)})
}

func (u *UI) Selectable(text string, selected bool) {
	u.lines = append(u.lines, Line{Text: text, Highlight: selected})
}

func (u *UI) Lines() []Line {
	return u.lines
}

// Panel is a titled editor window. Render must not mutate the World
// structurally; edits go through w.Commands().
type Panel struct {
	Title  string
	Open   bool
	Render func(w *ecs.World, ui *UI)
}

type Panels []Panel

func DefaultPanels() Panels {
	return Panels{
		{Title: "Outline", Open: true, Render: outlineRender},
		{Title: "Inspector", Open: true, Render: inspectorRender},
		{Title: "Assets", Open: false, Render: assetsRender},
	}
}

func (p Panels) Find(title string) *Panel {
	for i := range p {
		if p[i].Title == title {
			return &p[i]
		}
	}
	return nil
}

// FramePanel is a rendered panel.
type FramePanel struct {
	Title string
	Lines []Line
}

// Frame is the editor output of the current tick, painted by the backend.
type Frame struct {
	Menu   string
	Panels []FramePanel
}

// DrawUI renders every open panel into the Frame resource and refreshes the
// status overlay.
func DrawUI(w *ecs.World) error {
	panels, err := ecs.Resource[Panels](w)
	if err != nil {
		return err
	}
	frame := Frame{Menu: menuBar(w, *panels)}
	for i := range *panels {
		p := &(*panels)[i]
		if !p.Open || p.Render == nil {
			continue
		}
		ui := &UI{}
		p.Render(w, ui)
		frame.Panels = append(frame.Panels, FramePanel{Title: p.Title, Lines: ui.Lines()})
	}
	ecs.AddResource(w, frame)

	if o, ok := ecs.GetResource[scene.Overlay](w); ok {
		o.Set("editor", status(w))
	}
	return nil
}

func menuBar(w *ecs.World, panels Panels) string {
	var b strings.Builder
	b.WriteString("File  Windows")
	for i, p := range panels {
		mark := " "
		if p.Open {
			mark = "x"
		}
		fmt.Fprintf(&b, " [%s]%d:%s", mark, i+1, p.Title)
	}
	name := ""
	if n, ok := ecs.GetResource[SceneName](w); ok {
		name = string(*n)
	}
	fmt.Fprintf(&b, "  |  %s  |  %s", name, Version)
	return b.String()
}

func status(w *ecs.World) string {
	if rn, ok := ecs.GetResource[rename](w); ok && rn.active {
		return "rename: " + string(rn.buf) + "_"
	}
	if e, ok := selected(w); ok {
		return fmt.Sprintf("selected: %s (%s)", displayName(w, e), e)
	}
	return "tab: select  ctrl+n: add  del: delete  enter: rename  ctrl+q: quit"
}

// outline returns named entities in outline order.
func outline(w *ecs.World) *sequence.Pairs[ecs.Entity, *ecs.Name] {
	return sequence.Of(ecs.Query[ecs.Name](w))
}

func outlineRender(w *ecs.World, ui *UI) {
	sel, _ := selected(w)
	outline(w).Each(func(e ecs.Entity, n *ecs.Name) {
		ui.Selectable(string(*n), e == sel)
	})
	ui.Text("+ Add Entity (ctrl+n)")
}

func inspectorRender(w *ecs.World, ui *UI) {
	e, ok := selected(w)
	if !ok {
		ui.Text("no entity selected.")
		return
	}

	if rn, ok := ecs.GetResource[rename](w); ok && rn.active {
		ui.Selectable("name: "+string(rn.buf)+"_", true)
	} else {
		ui.Text("name: %s", displayName(w, e))
	}
	ui.Text("id: %s", e)

	for _, t := range w.ComponentTypes(e) {
		if t == reflect.TypeFor[ecs.Name]() {
			continue
		}
		v, _ := w.ComponentAny(e, t)
		ui.Text("%s", describe(t, v))
	}
}

func describe(t reflect.Type, v any) string {
	switch c := v.(type) {
	case *scene.Transform:
		p, r, s := c.Position, c.Rotation, c.Scale
		return fmt.Sprintf("Transform pos(%.2f %.2f %.2f) rot(%.2f %.2f %.2f) scale(%.2f %.2f %.2f)",
			p.X, p.Y, p.Z, r.X, r.Y, r.Z, s.X, s.Y, s.Z)
	case *scene.Camera:
		return fmt.Sprintf("Camera fov %.2f clip %.1f..%.1f", c.FOV, c.Near, c.Far)
	case *scene.Sprite:
		if c.Path != "" {
			return "Sprite " + c.Path
		}
		return fmt.Sprintf("Sprite %q", c.Glyph)
	default:
		return t.String()
	}
}

func assetsRender(w *ecs.World, ui *UI) {
	c := asset.CacheOf(w)
	st := c.Stats()
	ui.Text("%d cached  hits %d  misses %d  failures %d", c.Len(), st.Hits, st.Misses, st.Failures)
	for _, k := range c.Keys() {
		ui.Text("%016x %s", k.ID(), k)
	}
}
