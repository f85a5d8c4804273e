// Package signal provides a small synchronous notification primitive.
//
// A Signal delivers every emitted value to all connected slots, on the
// emitting goroutine, in the order the slots were connected. Emit does
// not return until every slot has returned. Slots that need to do slow
// work should hand it off to their own goroutine.
package signal

import (
	"sync"
	"sync/atomic"
)

// Signal fans a value out to connected slots.
//
// The zero value is ready to use. A Signal must not be copied after
// first use.
type Signal[T any] struct {
	mu    sync.Mutex
	conns []*Connection[T]
}

// Connection represents a single slot's subscription to a Signal.
type Connection[T any] struct {
	fn       func(T)
	detached atomic.Bool

	sig *Signal[T]
}

// Connect registers fn as a slot. It returns a Connection that can be
// used to disconnect the slot later. fn must not be nil.
func (s *Signal[T]) Connect(fn func(T)) *Connection[T] {
	c := &Connection[T]{fn: fn, sig: s}

	s.mu.Lock()
	s.conns = append(s.conns, c)
	s.mu.Unlock()

	return c
}

// Emit invokes every connected slot with v, synchronously and in
// connection order. Slots connected while Emit is running are not
// invoked for this emission.
func (s *Signal[T]) Emit(v T) {
	s.mu.Lock()
	snapshot := make([]*Connection[T], len(s.conns))
	copy(snapshot, s.conns)
	s.mu.Unlock()

	// Invoke outside the lock so slots may connect or disconnect.
	for _, c := range snapshot {
		if c.detached.Load() {
			continue
		}
		c.fn(v)
	}
}

// Len reports the number of connected slots.
func (s *Signal[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Disconnect removes the slot from its Signal. It is safe to call more
// than once and safe to call from within the slot itself. After
// Disconnect returns the slot will not be invoked again, including for
// an emission already in progress on another goroutine that has not
// yet reached this slot.
func (c *Connection[T]) Disconnect() {
	if c == nil || c.detached.Swap(true) {
		return
	}

	s := c.sig
	s.mu.Lock()
	for i, other := range s.conns {
		if other == c {
			s.conns = append(s.conns[:i], s.conns[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
}
