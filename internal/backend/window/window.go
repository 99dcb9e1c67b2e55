// Package window runs the driver inside an ebiten window. Each ebiten Update
// is one driver tick; Draw shows the canvas that tick painted.
package window

import (
	"context"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/zeusync/phosphor/internal/config"
	"github.com/zeusync/phosphor/internal/core/app"
	"github.com/zeusync/phosphor/internal/core/asset"
	"github.com/zeusync/phosphor/internal/core/ecs"
	"github.com/zeusync/phosphor/internal/editor"
	"github.com/zeusync/phosphor/internal/scene"
)

// Height of a debug-font text row, in pixels.
const lineHeight = 16

var clearColor = color.RGBA{R: 20, G: 20, B: 26, A: 255}

// Canvas is the World resource the Draw and PostDraw systems paint into.
type Canvas struct {
	*ebiten.Image
}

// Texture is an image asset.
type Texture struct {
	*ebiten.Image
}

func LoadTexture(w *ecs.World, path string) (Texture, error) {
	if a, ok := ecs.GetResource[config.Assets](w); ok && a.Root != "" {
		path = filepath.Join(a.Root, path)
	}
	img, _, err := ebitenutil.NewImageFromFile(path)
	if err != nil {
		return Texture{}, err
	}
	return Texture{Image: img}, nil
}

// Game implements ebiten.Game on top of the driver.
type Game struct {
	ctx    context.Context
	app    *app.App
	source *Source
	canvas *ebiten.Image
	width  int
	height int
}

// New builds the adapter and installs the canvas and window systems. a must
// have been created WithSource(source).
func New(a *app.App, source *Source, cfg config.Window) *Game {
	g := &Game{
		app:    a,
		source: source,
		canvas: ebiten.NewImage(cfg.Width, cfg.Height),
		width:  cfg.Width,
		height: cfg.Height,
	}
	a.AddResource(Canvas{Image: g.canvas})
	a.AddNamedSystem(app.Init, "window.Setup", Setup)
	a.AddNamedSystem(app.Draw, "window.DrawScene", DrawScene)
	a.AddNamedSystem(app.PostDraw, "window.Present", Present)
	return g
}

func NewSource() *Source {
	return &Source{}
}

func (g *Game) Update() error {
	if g.ctx != nil && g.ctx.Err() != nil {
		g.app.Stop()
		return ebiten.Termination
	}
	if g.app.State() == app.StateUninitialized {
		if err := g.app.Startup(); err != nil {
			return err
		}
	}
	g.source.collect()
	more, err := g.app.Step()
	if err != nil {
		return err
	}
	if !more {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.DrawImage(g.canvas, nil)
}

func (g *Game) Layout(int, int) (int, int) {
	return g.width, g.height
}

// Run opens the window and blocks until the driver stops, the window is
// closed or ctx is done. It must be called from the main goroutine.
func Run(ctx context.Context, g *Game, cfg config.Window) error {
	g.ctx = ctx
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowClosingHandled(true)
	if cfg.TickRate > 0 {
		ebiten.SetTPS(cfg.TickRate)
	}
	err := ebiten.RunGame(g)
	g.app.Stop()
	return err
}

func Setup(w *ecs.World) error {
	if !asset.Registered[Texture](w) {
		asset.Register[Texture](w, LoadTexture)
	}
	return nil
}

// DrawScene clears the canvas and draws every visible sprite back to front.
// Sprites are one world unit wide.
func DrawScene(w *ecs.World) error {
	c, err := ecs.Resource[Canvas](w)
	if err != nil {
		return err
	}
	c.Fill(clearColor)
	b := c.Bounds()
	vp := scene.Viewport{Width: b.Dx(), Height: b.Dy(), Aspect: 1}

	for _, d := range scene.Visible(w, vp) {
		tint := color.RGBA{R: d.Tint.R, G: d.Tint.G, B: d.Tint.B, A: 255}
		if d.Sprite.Path != "" {
			if tex, ok := asset.TryLoad[Texture](w, d.Sprite.Path); ok {
				drawTexture(c.Image, tex, d, tint)
				continue
			}
		}
		glyph := d.Sprite.Glyph
		if glyph == 0 {
			glyph = '*'
		}
		ebitenutil.DebugPrintAt(c.Image, string(glyph), int(d.At.X)-3, int(d.At.Y)-lineHeight/2)
	}
	return nil
}

func drawTexture(dst *ebiten.Image, tex Texture, d scene.Drawable, tint color.Color) {
	size := tex.Bounds().Size()
	if size.X == 0 || size.Y == 0 {
		return
	}
	unit := d.At.Scale / float64(size.X)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-float64(size.X)/2, -float64(size.Y)/2)
	op.GeoM.Rotate(d.Transform.Rotation.Z)
	op.GeoM.Scale(unit*d.Transform.Scale.X, unit*d.Transform.Scale.Y)
	op.GeoM.Translate(d.At.X, d.At.Y)
	op.ColorScale.ScaleWithColor(tint)
	dst.DrawImage(tex.Image, op)
}

// Present prints the editor frame and the overlay over the scene.
func Present(w *ecs.World) error {
	c, err := ecs.Resource[Canvas](w)
	if err != nil {
		return err
	}
	var lines []string
	if f, ok := ecs.GetResource[editor.Frame](w); ok {
		lines = frameLines(*f)
	}
	if len(lines) > 0 {
		ebitenutil.DebugPrintAt(c.Image, strings.Join(lines, "\n"), 4, 4)
	}
	if o, ok := ecs.GetResource[scene.Overlay](w); ok {
		ol := o.Lines()
		y := c.Bounds().Dy() - len(ol)*lineHeight - 4
		ebitenutil.DebugPrintAt(c.Image, strings.Join(ol, "\n"), 4, y)
	}
	return nil
}

func frameLines(f editor.Frame) []string {
	if f.Menu == "" && len(f.Panels) == 0 {
		return nil
	}
	out := []string{f.Menu, ""}
	for _, p := range f.Panels {
		out = append(out, "["+p.Title+"]")
		for _, l := range p.Lines {
			prefix := "  "
			if l.Highlight {
				prefix = "> "
			}
			out = append(out, prefix+l.Text)
		}
		out = append(out, "")
	}
	return out
}
