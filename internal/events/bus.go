package events

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Handler processes a published event. Handlers run synchronously on the
// emitter's goroutine and must not block: anything slow (network writes,
// channel sends to clients) belongs behind a buffered channel with a
// non-blocking send.
type Handler func(*Event)

// Bus is the in-process publish/subscribe hub connecting services to the
// stream handlers. Subscriptions are per event type and cannot be removed;
// subscribers that outlive their interest simply ignore events.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	log      zerolog.Logger
}

// NewBus creates a new event bus
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
		log:      log.With().Str("component", "event_bus").Logger(),
	}
}

// Subscribe registers a handler for an event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Emit publishes an event to all handlers registered for its type
func (b *Bus) Emit(eventType EventType, module string, data interface{}) {
	event := &Event{
		Type:      eventType,
		Module:    module,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	// Copy the handler list so a Subscribe during dispatch cannot race
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[eventType]))
	copy(handlers, b.handlers[eventType])
	b.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}

	b.log.Debug().
		Str("type", string(eventType)).
		Str("module", module).
		Int("handlers", len(handlers)).
		Msg("Emitting event")

	for _, handler := range handlers {
		handler(event)
	}
}

// SubscriberCount returns the number of handlers for an event type
func (b *Bus) SubscriberCount(eventType EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.handlers[eventType])
}
