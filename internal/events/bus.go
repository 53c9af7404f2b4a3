// Package events provides the synchronous publish/subscribe channel that
// connects perception-detected changes to the arbitration engine and the
// dispatcher. One Bus is constructed at process start and passed explicitly
// to every component that needs it.
package events

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType is the canonical tag of a cross-cutting notification.
type EventType string

const (
	HealthDamage   EventType = "health_damage"
	FoodDecrease   EventType = "food_decrease"
	ThreatDetected EventType = "threat_detected"
	PlayerDetected EventType = "player_detected"
	ChatReceived   EventType = "chat_received"
	AgentDeath     EventType = "agent_death"
	Disconnected   EventType = "disconnected"
)

// ChatMessage is the payload of chat_received events.
type ChatMessage struct {
	Username string
	Message  string
}

// Event is a transient notification. Payloads are opaque to the bus.
type Event struct {
	ID        string
	Type      EventType
	Payload   any
	Timestamp time.Time
}

// Handler receives events for a subscribed type.
type Handler func(Event)

// Bus delivers events synchronously, in subscriber registration order, on
// the emitter's goroutine. A panicking handler is logged and skipped;
// delivery to the remaining handlers continues.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[EventType][]Handler
	logger      *slog.Logger
}

// NewBus creates an empty bus.
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		subscribers: make(map[EventType][]Handler),
		logger:      logger.With("component", "events"),
	}
}

// Subscribe registers a handler for an event type. Registration order is
// delivery order.
func (b *Bus) Subscribe(t EventType, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[t] = append(b.subscribers[t], h)
}

// Emit delivers payload to every subscriber of t before returning.
func (b *Bus) Emit(t EventType, payload any) {
	b.mu.RLock()
	handlers := b.subscribers[t]
	b.mu.RUnlock()

	ev := Event{
		ID:        uuid.NewString(),
		Type:      t,
		Payload:   payload,
		Timestamp: time.Now(),
	}
	for _, h := range handlers {
		b.deliver(ev, h)
	}
}

func (b *Bus) deliver(ev Event, h Handler) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				"event", string(ev.Type),
				"panic", fmt.Sprint(r))
		}
	}()
	h(ev)
}
