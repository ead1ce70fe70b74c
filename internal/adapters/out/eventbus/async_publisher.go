// Package eventbus provides the in-process asynchronous event publisher.
package eventbus

import (
	"log/slog"
	"sync"

	"dispatch/internal/core/domain/events"

	"github.com/prometheus/client_golang/prometheus"
)

// Handler consumes a published domain event. Handlers run on the publisher's
// worker goroutine and should not block for long.
type Handler func(event events.Event)

// AsyncPublisher fans domain events out to subscribers from a single worker
// goroutine fed by a bounded buffer. Publish never blocks: when the buffer
// is full the event is dropped and counted. Dispatch state is already
// committed by the time an event is published, so a drop loses a
// notification, never a state change.
type AsyncPublisher struct {
	buffer  chan events.Event
	logger  *slog.Logger
	dropped prometheus.Counter

	mu       sync.RWMutex
	handlers []Handler
	closed   bool

	done chan struct{}
}

// NewAsyncPublisher creates a publisher with the given buffer capacity and
// starts its worker goroutine.
func NewAsyncPublisher(
	bufferSize int,
	logger *slog.Logger,
	dropped prometheus.Counter,
) *AsyncPublisher {
	if bufferSize < 1 {
		bufferSize = 1
	}

	p := &AsyncPublisher{
		buffer:  make(chan events.Event, bufferSize),
		logger:  logger,
		dropped: dropped,
		done:    make(chan struct{}),
	}

	go p.run()
	return p
}

// Subscribe registers a handler for all subsequent events.
func (p *AsyncPublisher) Subscribe(handler Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers = append(p.handlers, handler)
}

// Publish queues the event for delivery. Fire and forget: a full buffer or a
// closed publisher drops the event.
func (p *AsyncPublisher) Publish(event events.Event) {
	// The read lock also guards against Close closing the buffer between
	// the closed check and the send.
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.drop(event)
		return
	}

	select {
	case p.buffer <- event:
	default:
		p.drop(event)
	}
}

// Close stops accepting events, delivers what is already buffered, and waits
// for the worker to finish.
func (p *AsyncPublisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		<-p.done
		return
	}
	p.closed = true
	p.mu.Unlock()

	close(p.buffer)
	<-p.done
}

func (p *AsyncPublisher) run() {
	defer close(p.done)

	for event := range p.buffer {
		p.mu.RLock()
		handlers := p.handlers
		p.mu.RUnlock()

		for _, handler := range handlers {
			handler(event)
		}
	}
}

func (p *AsyncPublisher) drop(event events.Event) {
	if p.dropped != nil {
		p.dropped.Inc()
	}
	if p.logger != nil {
		p.logger.Warn("dropping domain event", "event", event.EventName())
	}
}
