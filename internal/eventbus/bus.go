// Package eventbus implements a small synchronous publish/subscribe bus used
// to decouple auth state transitions from the components observing them.
//
// A Bus is constructed once at the composition root and injected into
// whatever needs it; there is no package-level instance.
package eventbus

import (
	"context"
	"sync"

	"github.com/stormbuddi/mobile/internal/logging"
)

// Handler receives the payload passed to Emit. Payload may be nil.
type Handler func(payload any)

type subscription struct {
	handler Handler
}

// Bus dispatches events to subscribers synchronously, in registration order.
// All methods are safe for concurrent use.
type Bus struct {
	mu       sync.Mutex
	handlers map[string][]*subscription
	log      logging.Logger
}

func New(log logging.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]*subscription),
		log:      log,
	}
}

// Subscribe registers handler for the named event and returns an unsubscribe
// function. The returned function removes exactly this registration; calling
// it more than once is a no-op.
func (b *Bus) Subscribe(name string, handler Handler) func() {
	sub := &subscription{handler: handler}

	b.mu.Lock()
	b.handlers[name] = append(b.handlers[name], sub)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.remove(name, sub)
		})
	}
}

func (b *Bus) remove(name string, sub *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[name]
	for i, s := range subs {
		if s == sub {
			b.handlers[name] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.handlers[name]) == 0 {
		delete(b.handlers, name)
	}
}

// Emit invokes every handler currently registered for name, in registration
// order, passing payload. A panicking handler is recovered and logged and
// does not prevent the remaining handlers from running. Emitting an event
// nobody subscribed to is a no-op.
func (b *Bus) Emit(name string, payload any) {
	b.mu.Lock()
	subs := make([]*subscription, len(b.handlers[name]))
	copy(subs, b.handlers[name])
	b.mu.Unlock()

	for _, sub := range subs {
		b.invoke(name, sub, payload)
	}
}

func (b *Bus) invoke(name string, sub *subscription, payload any) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error(context.Background(), "event handler panicked", "event", name, "panic", r)
		}
	}()
	sub.handler(payload)
}
