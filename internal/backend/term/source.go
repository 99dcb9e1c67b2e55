package term

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/zeusync/phosphor/internal/core/input"
)

// Source drains terminal events without blocking the driver. A goroutine
// forwards tcell events into a buffered channel; Poll takes whatever has
// arrived since the previous tick.
type Source struct {
	events chan tcell.Event
	quit   chan struct{}
	once   sync.Once
}

func NewSource(screen tcell.Screen) *Source {
	s := &Source{
		events: make(chan tcell.Event, 64),
		quit:   make(chan struct{}),
	}
	go screen.ChannelEvents(s.events, s.quit)
	return s
}

func (s *Source) Poll() ([]input.Event, bool) {
	var out []input.Event
	for {
		select {
		case ev, ok := <-s.events:
			if !ok {
				return out, false
			}
			if in, ok := Translate(ev); ok {
				out = append(out, in)
			}
		default:
			return out, true
		}
	}
}

// Close stops forwarding. The next Poll after the channel drains reports the
// source closed.
func (s *Source) Close() {
	s.once.Do(func() { close(s.quit) })
}
