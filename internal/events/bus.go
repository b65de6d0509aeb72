package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/ottworks/streamserve/internal/logger"
)

// EventBus defines the interface for the event bus system
type EventBus interface {
	// PublishAsync publishes an event without blocking the caller
	PublishAsync(event Event) error

	// Subscribe registers a handler for the given event types. An empty type
	// list subscribes to all events. The returned id is used to unsubscribe.
	Subscribe(handler EventHandler, types ...EventType) string

	// Unsubscribe removes a subscription
	Unsubscribe(id string)

	// Start starts the dispatch loop
	Start(ctx context.Context) error

	// Stop stops the event bus and waits for in-flight dispatches
	Stop(ctx context.Context) error
}

type subscription struct {
	id      string
	types   map[EventType]bool // empty means all
	handler EventHandler
}

// Bus is the in-process EventBus implementation. Events are queued on a
// buffered channel and dispatched sequentially by a single goroutine, so
// handlers never run concurrently with each other.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]*subscription
	queue       chan Event
	nextID      int
	started     bool
	done        chan struct{}
}

// NewBus creates an event bus with the given queue depth
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &Bus{
		subscribers: make(map[string]*subscription),
		queue:       make(chan Event, bufferSize),
	}
}

// Start begins dispatching queued events
func (b *Bus) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.started {
		b.mu.Unlock()
		return fmt.Errorf("event bus already started")
	}
	b.started = true
	b.done = make(chan struct{})
	b.mu.Unlock()

	go b.dispatchLoop()
	return nil
}

// Stop closes the queue and waits for the dispatcher to drain it
func (b *Bus) Stop(ctx context.Context) error {
	b.mu.Lock()
	if !b.started {
		b.mu.Unlock()
		return nil
	}
	b.started = false
	close(b.queue)
	done := b.done
	b.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishAsync queues an event for delivery. Returns an error when the bus is
// stopped or the queue is full; events are never silently reordered.
func (b *Bus) PublishAsync(event Event) error {
	// The lock is held across the send so Stop cannot close the queue
	// between the started check and the enqueue. The send never blocks.
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.started {
		return fmt.Errorf("event bus not started")
	}

	select {
	case b.queue <- event:
		return nil
	default:
		return fmt.Errorf("event queue full, dropping event %s", event.Type)
	}
}

// Subscribe registers a handler for the given event types
func (b *Bus) Subscribe(handler EventHandler, types ...EventType) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := fmt.Sprintf("sub-%d", b.nextID)

	typeSet := make(map[EventType]bool, len(types))
	for _, t := range types {
		typeSet[t] = true
	}

	b.subscribers[id] = &subscription{id: id, types: typeSet, handler: handler}
	return id
}

// Unsubscribe removes a subscription
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subscribers, id)
}

func (b *Bus) dispatchLoop() {
	defer close(b.done)

	for event := range b.queue {
		b.mu.RLock()
		subs := make([]*subscription, 0, len(b.subscribers))
		for _, s := range b.subscribers {
			if len(s.types) == 0 || s.types[event.Type] {
				subs = append(subs, s)
			}
		}
		b.mu.RUnlock()

		for _, s := range subs {
			b.deliver(s, event)
		}
	}
}

func (b *Bus) deliver(s *subscription, event Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("event handler panic for %s (subscription %s): %v", event.Type, s.id, r)
		}
	}()
	s.handler(event)
}

// Global event bus, set once during server startup.

var (
	globalBus EventBus
	globalMu  sync.RWMutex
)

// SetGlobalEventBus registers the system-wide event bus
func SetGlobalEventBus(bus EventBus) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalBus = bus
}

// GetGlobalEventBus returns the system-wide event bus, which may be nil before
// server startup completes
func GetGlobalEventBus() EventBus {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalBus
}
