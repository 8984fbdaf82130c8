package event

import "sync"

// Handler receives published events.
type Handler func(Event)

// Bus fans events out to subscribers. Publish dispatches synchronously
// in subscription order; handlers must not block.
//
// Bus is safe for concurrent use, although the engine publishes from a
// single goroutine.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]*subscription
	closed bool
}

// subscription is one registered handler with an optional type filter.
type subscription struct {
	id      int
	bus     *Bus
	types   map[Type]bool // nil means all types
	handler Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]*subscription)}
}

// Subscribe registers a handler for the given event types.
// An empty type list subscribes to all events.
func (b *Bus) Subscribe(types []Type, h Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &subscription{id: b.nextID, bus: b, handler: h}
	b.nextID++

	if len(types) > 0 {
		sub.types = make(map[Type]bool, len(types))
		for _, t := range types {
			sub.types[t] = true
		}
	}

	if !b.closed {
		b.subs[sub.id] = sub
	}
	return sub
}

// SubscribeAll registers a handler for every event type.
func (b *Bus) SubscribeAll(h Handler) Subscription {
	return b.Subscribe(nil, h)
}

// Publish delivers an event to every matching subscriber, in
// subscription order. Publishing on a closed bus is a no-op.
func (b *Bus) Publish(evt Event) {
	b.mu.RLock()
	matched := make([]*subscription, 0, len(b.subs))
	for id := 0; id < b.nextID; id++ {
		sub, ok := b.subs[id]
		if !ok {
			continue
		}
		if sub.types == nil || sub.types[evt.Type] {
			matched = append(matched, sub)
		}
	}
	b.mu.RUnlock()

	for _, sub := range matched {
		sub.handler(evt)
	}
}

// Close shuts down the bus and drops all subscriptions.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.subs = make(map[int]*subscription)
}

// Subscription represents an active subscription.
type Subscription interface {
	// Unsubscribe removes the subscription.
	Unsubscribe()
}

// Unsubscribe implements Subscription.
func (s *subscription) Unsubscribe() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	delete(s.bus.subs, s.id)
}
