package bus

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversPayload(t *testing.T) {
	b := New()
	var got Event
	_, err := b.Subscribe("app.state", func(e Event) error {
		got = e
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, b.Publish(NewEvent("app.state", "app", 123)))
	require.NotNil(t, got)
	assert.Equal(t, 123, got.Data())
	assert.Equal(t, "app", got.Source())
	assert.False(t, got.Timestamp().IsZero())

	assert.NoError(t, b.Publish(NewEvent("nobody.listens", "app", nil)))
}

func TestDeliveryFollowsSubscribeOrder(t *testing.T) {
	b := New()
	var order []int
	for i := range 5 {
		_, _ = b.Subscribe("tick", func(Event) error {
			order = append(order, i)
			return nil
		})
	}
	_ = b.Publish(NewEvent("tick", "t", nil))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
	assert.Equal(t, 5, b.Subscribers("tick"))
}

func TestHandlerErrorsAreJoined(t *testing.T) {
	b := New()
	e1 := errors.New("first")
	e2 := errors.New("second")
	_, _ = b.Subscribe("x", func(Event) error { return e1 })
	_, _ = b.Subscribe("x", func(Event) error { return nil })
	_, _ = b.Subscribe("x", func(Event) error { return e2 })

	err := b.Publish(NewEvent("x", "src", nil))
	assert.ErrorIs(t, err, e1)
	assert.ErrorIs(t, err, e2)

	err = b.PublishBatch(NewEvent("y", "src", nil), NewEvent("x", "src", nil))
	assert.ErrorIs(t, err, e1, "batch keeps going past quiet events")
	assert.NoError(t, b.PublishBatch(NewEvent("y", "src", nil)))
}

func TestCancelStopsDelivery(t *testing.T) {
	b := New()
	count := 0
	sub, err := b.Subscribe("e", func(Event) error { count++; return nil })
	require.NoError(t, err)
	assert.NotEmpty(t, sub.ID())
	assert.Equal(t, "e", sub.EventType())
	assert.True(t, sub.IsActive())

	_ = b.Publish(NewEvent("e", "s", nil))
	require.NoError(t, b.Unsubscribe(sub))
	assert.NoError(t, sub.Cancel())
	assert.NoError(t, b.Unsubscribe(nil))
	_ = b.Publish(NewEvent("e", "s", nil))

	assert.Equal(t, 1, count)
	assert.False(t, sub.IsActive())
	assert.Zero(t, b.Subscribers("e"))
}

func TestCancelInsideHandler(t *testing.T) {
	b := New()
	calls := 0
	var sub Subscription
	sub, _ = b.Subscribe("once", func(Event) error {
		calls++
		return sub.Cancel()
	})
	_ = b.Publish(NewEvent("once", "s", nil))
	_ = b.Publish(NewEvent("once", "s", nil))
	assert.Equal(t, 1, calls)
}

func TestSubscribeInsideHandlerWaitsForNextPublish(t *testing.T) {
	b := New()
	late := 0
	_, _ = b.Subscribe("grow", func(Event) error {
		_, err := b.Subscribe("grow", func(Event) error { late++; return nil })
		return err
	})
	_ = b.Publish(NewEvent("grow", "s", nil))
	assert.Zero(t, late)
	_ = b.Publish(NewEvent("grow", "s", nil))
	assert.Equal(t, 1, late)
}

func TestNilHandlerRejected(t *testing.T) {
	_, err := New().Subscribe("x", nil)
	assert.ErrorIs(t, err, ErrNilHandler)
}

func TestConcurrentPublishers(t *testing.T) {
	b := New()
	var mu sync.Mutex
	seen := 0
	_, _ = b.Subscribe("inspect.session", func(Event) error {
		mu.Lock()
		seen++
		mu.Unlock()
		return nil
	})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				_ = b.Publish(NewEvent("inspect.session", "inspect", nil))
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 400, seen)
}
