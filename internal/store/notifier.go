package store

import "sync"

const subscriberBuffer = 16

// changeNotifier fans committed changes out to subscribers. A subscriber
// that is not keeping up loses events, never blocks the writer: any pending
// event already tells it to reload.
type changeNotifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan ChangeEvent
}

func newChangeNotifier() *changeNotifier {
	return &changeNotifier{subs: make(map[int]chan ChangeEvent)}
}

func (n *changeNotifier) subscribe() (<-chan ChangeEvent, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	ch := make(chan ChangeEvent, subscriberBuffer)
	n.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.subs, id)
			close(ch)
		})
	}
}

func (n *changeNotifier) publish(event ChangeEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
