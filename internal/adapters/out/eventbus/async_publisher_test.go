package eventbus_test

import (
	"sync"
	"testing"
	"time"

	"dispatch/internal/adapters/out/eventbus"
	"dispatch/internal/core/domain/events"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testEvent(t *testing.T) events.Event {
	t.Helper()
	return events.NewDeliveryCreated(
		kernel.NewUUID(), kernel.NewUUID(), delivery.PriorityMedium, time.Now().UTC())
}

func TestAsyncPublisher_DeliversToAllSubscribers(t *testing.T) {
	publisher := eventbus.NewAsyncPublisher(16, nil, nil)

	var mu sync.Mutex
	var first, second []string

	publisher.Subscribe(func(event events.Event) {
		mu.Lock()
		defer mu.Unlock()
		first = append(first, event.EventName())
	})
	publisher.Subscribe(func(event events.Event) {
		mu.Lock()
		defer mu.Unlock()
		second = append(second, event.EventName())
	})

	publisher.Publish(testEvent(t))
	publisher.Publish(testEvent(t))
	publisher.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"delivery.created", "delivery.created"}, first)
	assert.Equal(t, []string{"delivery.created", "delivery.created"}, second)
}

func TestAsyncPublisher_PreservesPublishOrder(t *testing.T) {
	publisher := eventbus.NewAsyncPublisher(16, nil, nil)

	var mu sync.Mutex
	var seen []string
	publisher.Subscribe(func(event events.Event) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, event.EventName())
	})

	deliveryID := kernel.NewUUID()
	at := time.Now().UTC()
	publisher.Publish(events.NewDeliveryStatusChanged(
		deliveryID, delivery.StatusPending, delivery.StatusAssigned, at))
	publisher.Publish(events.NewDeliveryAssigned(deliveryID, kernel.NewUUID(), at))
	publisher.Close()

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"delivery.status_changed", "delivery.assigned"}, seen)
}

func TestAsyncPublisher_FullBufferDropsAndCounts(t *testing.T) {
	dropped := metrics.NewEventsDroppedTotal()

	release := make(chan struct{})
	publisher := eventbus.NewAsyncPublisher(1, nil, dropped)
	publisher.Subscribe(func(events.Event) {
		<-release
	})

	// First event occupies the worker, second fills the buffer; everything
	// past that is dropped without blocking the caller.
	publisher.Publish(testEvent(t))
	for range 10 {
		publisher.Publish(testEvent(t))
	}

	close(release)
	publisher.Close()

	assert.Positive(t, testutil.ToFloat64(dropped))
}

func TestAsyncPublisher_PublishAfterCloseDrops(t *testing.T) {
	dropped := metrics.NewEventsDroppedTotal()
	publisher := eventbus.NewAsyncPublisher(4, nil, dropped)
	publisher.Close()

	publisher.Publish(testEvent(t))

	assert.Equal(t, 1.0, testutil.ToFloat64(dropped))
}

func TestAsyncPublisher_CloseDrainsBufferedEvents(t *testing.T) {
	publisher := eventbus.NewAsyncPublisher(16, nil, nil)

	var mu sync.Mutex
	count := 0
	publisher.Subscribe(func(events.Event) {
		mu.Lock()
		defer mu.Unlock()
		count++
	})

	for range 5 {
		publisher.Publish(testEvent(t))
	}
	publisher.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 5, count)
}
