// Package event provides an in-process publish/subscribe bus. Services
// publish domain events (order created, status changed) without knowing
// who consumes them; the WebSocket feed and metrics subscribe at boot.
package event

import "sync"

// Handler receives the payload published under a topic.
type Handler func(payload any)

// Bus fans published events out to subscribed handlers.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: map[string][]Handler{}}
}

// Subscribe registers handler under topic. Handlers run in registration
// order.
func (b *Bus) Subscribe(topic string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], handler)
}

// Publish delivers payload to every handler of topic, synchronously on the
// caller's goroutine. Handlers must not block.
func (b *Bus) Publish(topic string, payload any) {
	b.mu.RLock()
	hs := make([]Handler, len(b.handlers[topic]))
	copy(hs, b.handlers[topic])
	b.mu.RUnlock()

	for _, h := range hs {
		h(payload)
	}
}

// PublishAsync delivers payload concurrently and returns immediately.
func (b *Bus) PublishAsync(topic string, payload any) {
	b.mu.RLock()
	hs := make([]Handler, len(b.handlers[topic]))
	copy(hs, b.handlers[topic])
	b.mu.RUnlock()

	for _, h := range hs {
		go h(payload)
	}
}
