// Package events routes domain events through ordered chains of handlers
// that each derive a new snapshot from the previous one.
package events

import (
	"slices"
	"sync"

	"finmanager/internal/core"
	"finmanager/internal/state"
)

// Handler derives a new snapshot from an event and the current snapshot.
type Handler func(evt core.Event, s state.Snapshot) state.Snapshot

// Bus dispatches events by channel name. Handlers run in subscription order
// and each receives the snapshot returned by the one before it.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{subscribers: make(map[string][]Handler)}
}

// Subscribe appends h to the channel's handler chain. Subscribing the same
// handler twice runs it twice.
func (b *Bus) Subscribe(channel string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[channel] = append(b.subscribers[channel], h)
}

// Publish folds the event through every handler subscribed to its channel,
// starting from s. With no subscribers s is returned as is.
func (b *Bus) Publish(evt core.Event, s state.Snapshot) state.Snapshot {
	b.mu.RLock()
	chain := slices.Clone(b.subscribers[evt.Channel()])
	b.mu.RUnlock()

	for _, h := range chain {
		s = h(evt, s)
	}
	return s
}

// Channels lists channels with at least one subscriber, sorted.
func (b *Bus) Channels() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.subscribers))
	for name := range b.subscribers {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Subscribers returns the number of handlers on a channel.
func (b *Bus) Subscribers(channel string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[channel])
}
