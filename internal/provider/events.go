package provider

import (
	"sync"
)

// Broadcaster fans session change events out to subscribers. Provider
// implementations embed one and call Emit on every lifecycle transition, so
// invalidation is pushed to the application, never polled.
type Broadcaster struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Event)
}

// Subscription is the handle returned by Subscribe. Unsubscribe is safe to
// call more than once; only the first call releases the listener.
type Subscription struct {
	once   sync.Once
	cancel func()
}

func (s *Subscription) Unsubscribe() {
	s.once.Do(s.cancel)
}

func (b *Broadcaster) Subscribe(fn func(Event)) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs == nil {
		b.subs = make(map[int]func(Event))
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = fn

	return &Subscription{cancel: func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}}
}

// Emit delivers ev to every subscriber synchronously; ordering across
// subscribers is not guaranteed. Listeners must not block.
func (b *Broadcaster) Emit(ev Event) {
	b.mu.RLock()
	fns := make([]func(Event), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}
