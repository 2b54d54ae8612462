package contract

import (
	"sync"

	"github.com/bikepoint/sprocket/schema"
)

// Event is a notification published on the Bus. Payload shape depends on the
// topic: TopicCartUpdated carries a []schema.CartItem snapshot,
// TopicNetworkChange carries a schema.NetworkStatus, TopicCartReset carries
// nil.
type Event struct {
	Topic   schema.EventTopic
	Payload any
}

// Bus is a small in-process publish/subscribe hub. It replaces the browser
// original's DOM custom events as the sole cross-component notification
// mechanism, so subscription and payload shape live in one typed place.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[schema.EventTopic]map[int]func(Event)
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[schema.EventTopic]map[int]func(Event))}
}

// Subscribe registers fn for a topic and returns an unsubscribe function.
// Unsubscribing twice is safe.
func (b *Bus) Subscribe(topic schema.EventTopic, fn func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]func(Event))
	}
	id := b.nextID
	b.nextID++
	b.subs[topic][id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[topic], id)
	}
}

// Publish delivers an event to all current subscribers of its topic,
// synchronously and in unspecified order.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	fns := make([]func(Event), 0, len(b.subs[event.Topic]))
	for _, fn := range b.subs[event.Topic] {
		fns = append(fns, fn)
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(event)
	}
}
