package inspect

import (
	"encoding/json"
	"time"

	"github.com/zeusync/phosphor/internal/core/app"
	"github.com/zeusync/phosphor/internal/core/ecs"
	"github.com/zeusync/phosphor/internal/core/events/bus"
)

type publisher struct {
	server *Server
	every  time.Duration
	last   time.Time
	sent   bool
}

// Plugin broadcasts a snapshot from PostDraw at most once per every, and
// closes the server when the driver stops.
func Plugin(s *Server, every time.Duration) app.Plugin {
	return func(a *app.App) {
		p := &publisher{server: s, every: every}
		a.AddNamedSystem(app.PostDraw, "inspect.Publish", p.publish)
		_, _ = a.Bus().Subscribe(app.EventStateChanged, func(ev bus.Event) error {
			if sc, ok := ev.Data().(app.StateChanged); ok && sc.To == app.StateStopped {
				s.Close()
			}
			return nil
		})
	}
}

func (p *publisher) publish(w *ecs.World) error {
	var now time.Time
	if t, ok := ecs.GetResource[app.Time](w); ok {
		now = t.Now
	}
	if p.sent && now.Sub(p.last) < p.every {
		return nil
	}
	data, err := json.Marshal(Take(w))
	if err != nil {
		return err
	}
	p.server.Broadcast(data)
	p.last = now
	p.sent = true
	return nil
}
