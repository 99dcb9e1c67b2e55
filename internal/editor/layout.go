package editor

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/phosphor/internal/config"
	"github.com/zeusync/phosphor/internal/core/asset"
	"github.com/zeusync/phosphor/internal/core/ecs"
	"github.com/zeusync/phosphor/internal/core/observability/log"
	"github.com/zeusync/phosphor/internal/scene"
)

// LayoutFile lists the panels a layout opens. Layouts live under
// <assets root>/layouts/<name>.yaml.
type LayoutFile struct {
	Open []string `yaml:"open"`
}

func (l LayoutFile) Clone() LayoutFile {
	return LayoutFile{Open: slices.Clone(l.Open)}
}

// Built-in layouts used when no file overrides them.
var presets = map[string]LayoutFile{
	"Default": {Open: []string{"Outline", "Inspector"}},
	"Minimal": {Open: []string{"Outline"}},
	"Assets":  {Open: []string{"Outline", "Inspector", "Assets"}},
}

var layoutOrder = []string{"Default", "Minimal", "Assets"}

func layoutPath(name string) string {
	return "layouts/" + name + ".yaml"
}

// LoadLayoutFile is the asset loader for LayoutFile.
func LoadLayoutFile(w *ecs.World, path string) (LayoutFile, error) {
	if a, ok := ecs.GetResource[config.Assets](w); ok && a.Root != "" {
		path = filepath.Join(a.Root, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return LayoutFile{}, err
	}
	var lf LayoutFile
	if err = yaml.Unmarshal(data, &lf); err != nil {
		return LayoutFile{}, fmt.Errorf("decode layout %s: %w", path, err)
	}
	return lf, nil
}

// ApplyLayout is the PostDraw system consuming a pending Layout request.
// Unreadable layout files fall back to the built-in preset of that name.
func ApplyLayout(w *ecs.World) error {
	req, ok := ecs.TakeResource[Layout](w)
	if !ok {
		return nil
	}
	panels, err := ecs.Resource[Panels](w)
	if err != nil {
		return err
	}

	lf, err := asset.Load[LayoutFile](w, layoutPath(req.Name))
	if err != nil {
		preset, known := presets[req.Name]
		if !known {
			w.Logger().Warn("unknown layout, keeping current panels",
				log.String("layout", req.Name),
				log.Error(err),
			)
			return nil
		}
		w.Logger().Warn("layout file unavailable, using built-in preset",
			log.String("layout", req.Name),
			log.Error(err),
		)
		lf = preset
	}

	for i := range *panels {
		p := &(*panels)[i]
		p.Open = slices.Contains(lf.Open, p.Title)
	}
	ecs.AddResource(w, current(req.Name))
	if o, ok := ecs.GetResource[scene.Overlay](w); ok {
		o.Set("layout", "layout: "+req.Name)
	}
	return nil
}

// current records the last applied layout name.
type current string

func nextLayout(w *ecs.World) string {
	name := layoutOrder[len(layoutOrder)-1]
	if c, ok := ecs.GetResource[current](w); ok {
		name = string(*c)
	}
	i := slices.Index(layoutOrder, name)
	return layoutOrder[(i+1)%len(layoutOrder)]
}
