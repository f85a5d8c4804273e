package camera

import (
	"sync"
)

// Subscription represents a registered camera event callback.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Cancel unregisters the callback. Safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

// subscriberList is an ordered set of camera callbacks. Dispatch is
// synchronous and in subscription order, on the goroutine that
// produced the event; a slow callback delays event processing behind
// it.
type subscriberList struct {
	mu   sync.Mutex
	next uint64
	subs []subscriber
}

type subscriber struct {
	id uint64
	fn func(*Camera)
}

func (l *subscriberList) add(fn func(*Camera)) *Subscription {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.next
	l.next++
	l.subs = append(l.subs, subscriber{id: id, fn: fn})

	return &Subscription{cancel: func() { l.remove(id) }}
}

func (l *subscriberList) remove(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, sub := range l.subs {
		if sub.id == id {
			l.subs = append(l.subs[:i], l.subs[i+1:]...)
			return
		}
	}
}

// notify invokes every subscriber with cam. The list is snapshotted
// first, so callbacks may subscribe or cancel without deadlocking.
func (l *subscriberList) notify(cam *Camera) {
	l.mu.Lock()
	subs := make([]subscriber, len(l.subs))
	copy(subs, l.subs)
	l.mu.Unlock()

	for _, sub := range subs {
		sub.fn(cam)
	}
}
