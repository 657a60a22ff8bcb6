package analysis

import "sync"

// Broker fans progress snapshots out to subscribers keyed by database path.
// Delivery is fire-and-forget: a subscriber that cannot keep up misses
// snapshots rather than slowing the scan.
type Broker struct {
	mu   sync.RWMutex
	subs map[string][]chan Snapshot
}

// NewBroker creates an empty Broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[string][]chan Snapshot)}
}

// Subscribe returns a channel that receives snapshots for path until
// Unsubscribe is called with it.
func (b *Broker) Subscribe(path string) chan Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Snapshot, 16)
	b.subs[path] = append(b.subs[path], ch)
	return ch
}

// Unsubscribe removes and closes a channel previously returned by
// Subscribe. Unknown channels are a no-op.
func (b *Broker) Unsubscribe(path string, ch chan Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[path]
	for i, sub := range subs {
		if sub == ch {
			b.subs[path] = append(subs[:i], subs[i+1:]...)
			close(ch)
			break
		}
	}
	if len(b.subs[path]) == 0 {
		delete(b.subs, path)
	}
}

// Publish delivers snap to every subscriber for its path without blocking.
// Sends happen under the read lock, so a channel can never be closed
// mid-send by a concurrent Unsubscribe.
func (b *Broker) Publish(snap Snapshot) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs[snap.Path] {
		select {
		case ch <- snap:
		default: // subscriber full, drop
		}
	}
}
