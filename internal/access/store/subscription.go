package store

import (
	"sync"

	"github.com/allisson/rolegate/internal/access/domain"
)

// Subscription is a live registration on a Store.
//
// Snapshots are queued without bound and delivered in order by a dedicated goroutine,
// so a slow reader never blocks Replace and never misses a replacement.
type Subscription struct {
	id    uint64
	store *Store
	out   chan domain.RoleSet

	mu    sync.Mutex
	queue []domain.RoleSet
	wake  chan struct{}

	done   chan struct{}
	exited chan struct{}
	once   sync.Once
}

func newSubscription(store *Store, id uint64) *Subscription {
	return &Subscription{
		id:     id,
		store:  store,
		out:    make(chan domain.RoleSet),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
}

// C returns the delivery channel. It is closed once the subscription ends.
func (sub *Subscription) C() <-chan domain.RoleSet {
	return sub.out
}

// Unsubscribe releases the subscription. Pending snapshots are discarded and the
// delivery goroutine has exited by the time Unsubscribe returns. Safe to call more
// than once and after the store was closed.
func (sub *Subscription) Unsubscribe() {
	sub.store.remove(sub.id)
	sub.stop()
}

func (sub *Subscription) stop() {
	sub.once.Do(func() {
		close(sub.done)
	})
	<-sub.exited
}

func (sub *Subscription) enqueue(set domain.RoleSet) {
	sub.mu.Lock()
	sub.queue = append(sub.queue, set)
	sub.mu.Unlock()

	select {
	case sub.wake <- struct{}{}:
	default:
	}
}

func (sub *Subscription) pump() {
	defer close(sub.exited)
	defer close(sub.out)

	for {
		sub.mu.Lock()
		if len(sub.queue) == 0 {
			sub.mu.Unlock()
			select {
			case <-sub.wake:
				continue
			case <-sub.done:
				return
			}
		}
		next := sub.queue[0]
		sub.queue[0] = domain.RoleSet{}
		sub.queue = sub.queue[1:]
		sub.mu.Unlock()

		select {
		case sub.out <- next:
		case <-sub.done:
			return
		}
	}
}
