// Package notify is an in-process observer registry.
//
// Publish never blocks: each subscriber owns a buffered channel and a
// delivery that does not fit is dropped and counted. Consumers that must not
// miss state changes pair a subscription with a polling backstop.
package notify

import (
	"sync"
	"sync/atomic"
)

// DefaultBuffer is the channel capacity used when Subscribe is given 0.
const DefaultBuffer = 16

// Bus fans published values out to every live subscription.
type Bus[T any] struct {
	mu     sync.Mutex
	subs   map[uint64]*Subscription[T]
	nextID uint64
	closed bool
}

// Subscription receives values published after it was created.
type Subscription[T any] struct {
	id      uint64
	bus     *Bus[T]
	ch      chan T
	once    sync.Once
	dropped atomic.Int64
}

// NewBus creates an empty bus.
func NewBus[T any]() *Bus[T] {
	return &Bus[T]{subs: make(map[uint64]*Subscription[T])}
}

// Subscribe registers a new subscriber with the given channel capacity.
// On a closed bus the returned subscription's channel is already closed.
func (b *Bus[T]) Subscribe(buffer int) *Subscription[T] {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	s := &Subscription[T]{bus: b, ch: make(chan T, buffer)}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		s.once.Do(func() { close(s.ch) })
		return s
	}
	b.nextID++
	s.id = b.nextID
	b.subs[s.id] = s
	return s
}

// Publish delivers v to every subscriber without blocking and returns the
// number of subscribers that received it.
func (b *Bus[T]) Publish(v T) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	delivered := 0
	for _, s := range b.subs {
		select {
		case s.ch <- v:
			delivered++
		default:
			s.dropped.Add(1)
		}
	}
	return delivered
}

// Len returns the number of live subscriptions.
func (b *Bus[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close closes every subscription channel. Later Publish calls are no-ops.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, s := range b.subs {
		delete(b.subs, id)
		s.once.Do(func() { close(s.ch) })
	}
}

// C returns the delivery channel. It is closed by Close on either side.
func (s *Subscription[T]) C() <-chan T {
	return s.ch
}

// Dropped returns how many deliveries did not fit in the buffer.
func (s *Subscription[T]) Dropped() int64 {
	return s.dropped.Load()
}

// Close unregisters the subscription. Safe to call more than once.
func (s *Subscription[T]) Close() {
	s.bus.mu.Lock()
	delete(s.bus.subs, s.id)
	s.bus.mu.Unlock()
	s.once.Do(func() { close(s.ch) })
}
