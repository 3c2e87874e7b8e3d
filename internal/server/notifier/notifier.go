// Package notifier fans snapshot refresh events out to stream subscribers.
package notifier

import (
	"sync"

	"github.com/leapstack-labs/atlas/pkg/core"
)

// Buffer is the per-subscriber queue length. A subscriber that falls further
// behind misses events until it drains.
const Buffer = 8

// Notifier broadcasts refreshed snapshot headers to every subscriber.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan core.SnapshotHeader]struct{}
}

// New creates an empty notifier.
func New() *Notifier {
	return &Notifier{listeners: make(map[chan core.SnapshotHeader]struct{})}
}

// Subscribe returns a channel of refresh events. Callers must Unsubscribe.
func (n *Notifier) Subscribe() chan core.SnapshotHeader {
	ch := make(chan core.SnapshotHeader, Buffer)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes ch.
func (n *Notifier) Unsubscribe(ch chan core.SnapshotHeader) {
	n.mu.Lock()
	if _, ok := n.listeners[ch]; ok {
		delete(n.listeners, ch)
		close(ch)
	}
	n.mu.Unlock()
}

// Broadcast delivers h to every subscriber without blocking.
func (n *Notifier) Broadcast(h core.SnapshotHeader) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for ch := range n.listeners {
		select {
		case ch <- h:
		default:
		}
	}
}

// Len returns the number of subscribers.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}
