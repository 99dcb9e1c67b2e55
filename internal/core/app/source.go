package app

import "github.com/zeusync/phosphor/internal/core/input"

// EventSource feeds input to the driver. Poll returns the events gathered
// since the previous call and must not block. A false open means the source
// is exhausted and the driver stops after the current tick.
type EventSource interface {
	Poll() (events []input.Event, open bool)
}

// SourceFunc adapts a function to EventSource.
type SourceFunc func() ([]input.Event, bool)

func (f SourceFunc) Poll() ([]input.Event, bool) {
	return f()
}

// ScriptedSource replays one batch of events per tick and closes after the
// last batch.
type ScriptedSource struct {
	batches [][]input.Event
	next    int
}

func NewScriptedSource(batches ...[]input.Event) *ScriptedSource {
	return &ScriptedSource{batches: batches}
}

func (s *ScriptedSource) Poll() ([]input.Event, bool) {
	if s.next >= len(s.batches) {
		return nil, false
	}
	b := s.batches[s.next]
	s.next++
	return b, s.next < len(s.batches)
}

// HeadlessSource produces no input. With a positive limit it closes after
// that many ticks; otherwise it never closes.
type HeadlessSource struct {
	limit int
	polls int
}

func NewHeadlessSource(ticks int) *HeadlessSource {
	return &HeadlessSource{limit: ticks}
}

func (s *HeadlessSource) Poll() ([]input.Event, bool) {
	s.polls++
	return nil, s.limit <= 0 || s.polls < s.limit
}
