package bus

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNilHandler = errors.New("bus: nil handler")

type notification struct {
	kind   string
	source string
	at     time.Time
	data   any
}

func (n notification) Type() string         { return n.kind }
func (n notification) Source() string       { return n.source }
func (n notification) Timestamp() time.Time { return n.at }
func (n notification) Data() any            { return n.data }

// NewEvent stamps an event with the current time.
func NewEvent(kind, source string, data any) Event {
	return notification{kind: kind, source: source, at: time.Now(), data: data}
}

type handle struct {
	id      uuid.UUID
	kind    string
	handler EventHandler
	owner   *bus

	mu     sync.Mutex
	active bool
}

func (h *handle) ID() string        { return h.id.String() }
func (h *handle) EventType() string { return h.kind }

func (h *handle) IsActive() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

func (h *handle) Cancel() error {
	h.mu.Lock()
	if !h.active {
		h.mu.Unlock()
		return nil
	}
	h.active = false
	h.mu.Unlock()
	h.owner.drop(h)
	return nil
}

type bus struct {
	mu     sync.RWMutex
	routes map[string][]*handle
}

func New() EventBus {
	return &bus{routes: make(map[string][]*handle)}
}

func (b *bus) Subscribe(eventType string, handler EventHandler) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	h := &handle{id: uuid.New(), kind: eventType, handler: handler, owner: b, active: true}
	b.mu.Lock()
	b.routes[eventType] = append(b.routes[eventType], h)
	b.mu.Unlock()
	return h, nil
}

func (b *bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return nil
	}
	return sub.Cancel()
}

func (b *bus) Subscribers(eventType string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.routes[eventType])
}

func (b *bus) drop(h *handle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	left := slices.DeleteFunc(b.routes[h.kind], func(o *handle) bool { return o == h })
	if len(left) == 0 {
		delete(b.routes, h.kind)
		return
	}
	b.routes[h.kind] = left
}

func (b *bus) Publish(event Event) error {
	b.mu.RLock()
	targets := slices.Clone(b.routes[event.Type()])
	b.mu.RUnlock()

	// Handlers run unlocked so they can subscribe or cancel.
	var errs []error
	for _, h := range targets {
		if !h.IsActive() {
			continue
		}
		if err := h.handler(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *bus) PublishBatch(events ...Event) error {
	var errs []error
	for _, e := range events {
		errs = append(errs, b.Publish(e))
	}
	return errors.Join(errs...)
}
