package event

import (
	"context"
	"errors"
	"sync"

	"github.com/shandysiswandi/kora/internal/wallet/entity"
)

var ErrBusClosed = errors.New("event bus is closed")

// StateChanged tells subscribers that the wallet state moved to Version.
type StateChanged struct {
	Version uint64      `json:"version"`
	View    entity.View `json:"view"`
	Reason  string      `json:"reason"`
}

// Bus fans every published event out to all current subscribers.
//
// Publish never blocks: a subscriber whose buffer is full loses its oldest
// pending event, so a slow reader still ends up with the latest version.
type Bus struct {
	mu     sync.RWMutex
	closed bool
	nextID uint64
	subs   map[uint64]chan StateChanged
}

func NewBus() *Bus {
	return &Bus{
		subs: make(map[uint64]chan StateChanged),
	}
}

func (b *Bus) Publish(ctx context.Context, event StateChanged) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}

	for _, ch := range b.subs {
		deliver(ch, event)
	}

	return nil
}

func deliver(ch chan StateChanged, event StateChanged) {
	for {
		select {
		case ch <- event:
			return
		default:
		}

		select {
		case <-ch:
		default:
		}
	}
}

// Subscribe registers a new listener. The returned func unsubscribes and closes the channel.
func (b *Bus) Subscribe(buffer int) (<-chan StateChanged, func()) {
	if buffer < 1 {
		buffer = 1
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan StateChanged, buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
}

// Subscribers returns the number of registered listeners.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
