package service

import "sync"

const subscriberBuffer = 8

// broadcaster fans values out to subscribers. A subscriber that falls behind
// loses its oldest pending values, never the latest one.
type broadcaster[T any] struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan T
}

func newBroadcaster[T any]() *broadcaster[T] {
	return &broadcaster[T]{subs: make(map[int]chan T)}
}

// subscribe registers a subscriber. The initial values are queued before
// anything published later.
func (b *broadcaster[T]) subscribe(initial ...T) (<-chan T, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan T, subscriberBuffer)
	for _, v := range initial {
		pushLatest(ch, v)
	}
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
}

func (b *broadcaster[T]) publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		pushLatest(ch, v)
	}
}

func pushLatest[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	// full: drop the oldest value
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}
