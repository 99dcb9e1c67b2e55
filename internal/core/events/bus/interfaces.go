package bus

import "time"

// EventBus carries application lifecycle notifications: driver state
// changes, system failures and inspector sessions.
//
// Delivery is synchronous. Publish runs the handlers of Event.Type() in the
// publishing goroutine, in subscription order, and joins their errors.
// Methods are safe for concurrent use: the inspector publishes from its HTTP
// goroutines while the driver publishes from the tick loop.
type EventBus interface {
	Publish(event Event) error
	// PublishBatch publishes events in order and joins the errors of all of them.
	PublishBatch(events ...Event) error
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels sub. A nil sub is ignored.
	Unsubscribe(sub Subscription) error
	// Subscribers reports how many active handlers eventType has.
	Subscribers(eventType string) int
}

// Event is an immutable notification.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

type EventHandler func(event Event) error

// Subscription is a handler bound to one event type.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel removes the handler. Later calls do nothing.
	Cancel() error
}
