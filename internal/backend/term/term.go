// Package term renders the scene and the editor into a tcell screen.
package term

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/zeusync/phosphor/internal/config"
	"github.com/zeusync/phosphor/internal/core/app"
	"github.com/zeusync/phosphor/internal/core/asset"
	"github.com/zeusync/phosphor/internal/core/ecs"
	"github.com/zeusync/phosphor/internal/core/input"
	"github.com/zeusync/phosphor/internal/editor"
	"github.com/zeusync/phosphor/internal/scene"
)

// CellAspect is the width to height ratio of a terminal cell, used to keep
// projected shapes square.
const CellAspect = 2.0

const panelWidth = 32

// Screen is the World resource holding the terminal.
type Screen struct {
	tcell.Screen
}

// Art is a multi-line text sprite.
type Art struct {
	Lines []string
}

func (a Art) Clone() Art {
	return Art{Lines: slices.Clone(a.Lines)}
}

// LoadArt reads a text sprite relative to the configured asset root.
func LoadArt(w *ecs.World, path string) (Art, error) {
	if a, ok := ecs.GetResource[config.Assets](w); ok && a.Root != "" {
		path = filepath.Join(a.Root, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Art{}, err
	}
	text := strings.TrimRight(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	return Art{Lines: strings.Split(text, "\n")}, nil
}

// Plugin installs the screen and the terminal systems. The screen must be
// initialized by the caller.
func Plugin(screen tcell.Screen) app.Plugin {
	return func(a *app.App) {
		a.AddResource(Screen{Screen: screen})
		a.AddNamedSystem(app.Init, "term.Setup", Setup)
		a.AddNamedSystem(app.Event, "term.Resize", Resize)
		a.AddNamedSystem(app.Draw, "term.DrawScene", DrawScene)
		a.AddNamedSystem(app.PostDraw, "term.Present", Present)
	}
}

func Setup(w *ecs.World) error {
	if !asset.Registered[Art](w) {
		asset.Register[Art](w, LoadArt)
	}
	return nil
}

func Resize(w *ecs.World) error {
	ev, ok := ecs.GetResource[input.Event](w)
	if !ok || ev.Kind != input.KindResize {
		return nil
	}
	scr, err := ecs.Resource[Screen](w)
	if err != nil {
		return err
	}
	scr.Sync()
	return nil
}

// DrawScene clears the screen and paints every visible sprite, far ones
// first so near ones overwrite them.
func DrawScene(w *ecs.World) error {
	scr, err := ecs.Resource[Screen](w)
	if err != nil {
		return err
	}
	scr.Clear()
	width, height := scr.Size()
	vp := scene.Viewport{Width: width, Height: height, Aspect: CellAspect}

	for _, d := range scene.Visible(w, vp) {
		style := tcell.StyleDefault.Foreground(rgb(d.Tint))
		x, y := int(d.At.X), int(d.At.Y)
		if d.Sprite.Path != "" {
			if art, ok := asset.TryLoad[Art](w, d.Sprite.Path); ok {
				paintArt(scr, x, y, art, style)
				continue
			}
		}
		glyph := d.Sprite.Glyph
		if glyph == 0 {
			glyph = '*'
		}
		scr.SetContent(x, y, glyph, nil, style)
	}
	return nil
}

// Present paints the editor frame and the overlay, then flushes the screen.
func Present(w *ecs.World) error {
	scr, err := ecs.Resource[Screen](w)
	if err != nil {
		return err
	}
	width, height := scr.Size()
	base := tcell.StyleDefault

	if f, ok := ecs.GetResource[editor.Frame](w); ok && (f.Menu != "" || len(f.Panels) > 0) {
		fill(scr, 0, 0, width, base.Reverse(true))
		text(scr, 1, 0, width-1, f.Menu, base.Reverse(true))
		row := 1
		for _, p := range f.Panels {
			if row >= height {
				break
			}
			text(scr, 0, row, panelWidth, "["+p.Title+"]", base.Bold(true))
			row++
			for _, l := range p.Lines {
				if row >= height {
					break
				}
				st := base
				if l.Highlight {
					st = st.Reverse(true)
				}
				text(scr, 1, row, panelWidth-1, l.Text, st)
				row++
			}
		}
	}

	if o, ok := ecs.GetResource[scene.Overlay](w); ok {
		lines := o.Lines()
		for i, l := range lines {
			text(scr, 0, height-len(lines)+i, width, l, base.Dim(true))
		}
	}
	scr.Show()
	return nil
}

func paintArt(scr *Screen, cx, cy int, art Art, style tcell.Style) {
	top := cy - len(art.Lines)/2
	for i, line := range art.Lines {
		runes := []rune(line)
		left := cx - len(runes)/2
		for j, r := range runes {
			if r != ' ' {
				scr.SetContent(left+j, top+i, r, nil, style)
			}
		}
	}
}

// text writes s at (x, y), clipped to limit cells.
func text(scr *Screen, x, y, limit int, s string, style tcell.Style) {
	if y < 0 {
		return
	}
	i := 0
	for _, r := range s {
		if i >= limit {
			return
		}
		scr.SetContent(x+i, y, r, nil, style)
		i++
	}
}

func fill(scr *Screen, x, y, n int, style tcell.Style) {
	for i := range n {
		scr.SetContent(x+i, y, ' ', nil, style)
	}
}

func rgb(c scene.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
