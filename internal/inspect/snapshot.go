// Package inspect streams JSON snapshots of the World to websocket clients.
package inspect

import (
	"fmt"

	"github.com/zeusync/phosphor/internal/core/app"
	"github.com/zeusync/phosphor/internal/core/asset"
	"github.com/zeusync/phosphor/internal/core/ecs"
)

type Snapshot struct {
	Tick      uint64       `json:"tick"`
	ElapsedMS int64        `json:"elapsed_ms"`
	Entities  []EntityInfo `json:"entities"`
	Resources []string     `json:"resources"`
	Assets    []AssetInfo  `json:"assets"`
}

type EntityInfo struct {
	ID         string   `json:"id"`
	Name       string   `json:"name,omitempty"`
	Components []string `json:"components"`
}

type AssetInfo struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Path string `json:"path"`
}

// Take describes the World without changing it.
func Take(w *ecs.World) Snapshot {
	s := Snapshot{
		Entities:  []EntityInfo{},
		Resources: []string{},
		Assets:    []AssetInfo{},
	}
	if t, ok := ecs.GetResource[app.Time](w); ok {
		s.Tick = t.Tick
		s.ElapsedMS = t.Elapsed.Milliseconds()
	}

	for e := range w.Entities() {
		info := EntityInfo{ID: e.String(), Components: []string{}}
		if n, ok := ecs.Get[ecs.Name](w, e); ok {
			info.Name = string(*n)
		}
		for _, t := range w.ComponentTypes(e) {
			info.Components = append(info.Components, t.String())
		}
		s.Entities = append(s.Entities, info)
	}

	for _, t := range w.ResourceTypes() {
		s.Resources = append(s.Resources, t.String())
	}

	// CacheOf would install an empty cache; only report one that exists.
	if ecs.HasResource[asset.Cache](w) {
		for _, k := range asset.CacheOf(w).Keys() {
			s.Assets = append(s.Assets, AssetInfo{
				ID:   fmt.Sprintf("%016x", k.ID()),
				Type: k.Type.String(),
				Path: k.Path,
			})
		}
	}
	return s
}
