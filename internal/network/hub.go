package network

import (
	"sync"

	"delve-server/internal/domain"
	"delve-server/pkg/api"
)

// Broadcaster fans snapshots out to per-entity subscriber channels. The
// simulation goroutine publishes; transport goroutines (websocket
// clients, in-process bots) consume.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[domain.EntityID]chan api.ServerResponse
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[domain.EntityID]chan api.ServerResponse),
	}
}

// Register opens a personal channel for the entity. A previous
// subscription under the same ID is closed: the newest connection wins.
func (b *Broadcaster) Register(id domain.EntityID) chan api.ServerResponse {
	b.mu.Lock()
	defer b.mu.Unlock()

	if old, ok := b.subscribers[id]; ok {
		close(old)
	}

	ch := make(chan api.ServerResponse, 64)
	b.subscribers[id] = ch
	return ch
}

// Unregister drops the subscription and closes its channel, unless the
// ID has already been re-registered with a different channel.
func (b *Broadcaster) Unregister(id domain.EntityID, ch chan api.ServerResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if current, ok := b.subscribers[id]; ok && current == ch {
		close(current)
		delete(b.subscribers, id)
	}
}

// SendTo delivers a snapshot to one subscriber. Slow consumers drop
// frames instead of stalling the simulation.
func (b *Broadcaster) SendTo(id domain.EntityID, msg api.ServerResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if ch, ok := b.subscribers[id]; ok {
		select {
		case ch <- msg:
		default:
		}
	}
}

// HasSubscriber reports whether anyone is listening for the entity.
// The engine skips snapshot building for entities nobody watches.
func (b *Broadcaster) HasSubscriber(id domain.EntityID) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[id]
	return ok
}

// SubscriberCount returns the number of live subscriptions.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
