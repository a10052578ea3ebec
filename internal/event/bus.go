package event

import "sync"

type Handler func(payload interface{})

// Bus is an in-process pub/sub. Delivery is synchronous: the simulation is
// a single sequential control thread and consumers must observe a day's
// events before the next day starts.
type Bus struct {
	handlers map[string][]Handler
	mu       sync.RWMutex
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
	}
}

func (b *Bus) Subscribe(event string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[event] = append(b.handlers[event], handler)
}

func (b *Bus) Publish(event string, payload interface{}) {
	b.mu.RLock()
	hs := b.handlers[event]
	b.mu.RUnlock()

	for _, h := range hs {
		h(payload)
	}
}
