package usecase

import (
	"sync"

	"github.com/allisson/rolegate/internal/access/domain"
	"github.com/allisson/rolegate/internal/access/service"
	"github.com/allisson/rolegate/internal/access/store"
)

// VisibilityFeed turns a role store subscription into flag bags, one per snapshot and
// in the same order. Since each bag is derived from the snapshot it follows, a reader
// never sees a bag from an older role set after a newer one.
type VisibilityFeed struct {
	sub      *store.Subscription
	resolver service.VisibilityResolver
	out      chan domain.FlagBag
	done     chan struct{}
	exited   chan struct{}
	once     sync.Once
}

// NewVisibilityFeed subscribes to roles. The first bag reflects the current snapshot.
func NewVisibilityFeed(roles *store.Store, resolver service.VisibilityResolver) (*VisibilityFeed, error) {
	sub, err := roles.Subscribe()
	if err != nil {
		return nil, err
	}

	feed := &VisibilityFeed{
		sub:      sub,
		resolver: resolver,
		out:      make(chan domain.FlagBag),
		done:     make(chan struct{}),
		exited:   make(chan struct{}),
	}
	go feed.run()
	return feed, nil
}

// C returns the bag channel. It is closed when the feed is closed or the store is torn down.
func (f *VisibilityFeed) C() <-chan domain.FlagBag {
	return f.out
}

// Close stops the feed and releases the subscription. Safe to call more than once.
func (f *VisibilityFeed) Close() {
	f.once.Do(func() {
		close(f.done)
	})
	f.sub.Unsubscribe()
	<-f.exited
}

func (f *VisibilityFeed) run() {
	defer close(f.exited)
	defer close(f.out)

	for roles := range f.sub.C() {
		select {
		case f.out <- f.resolver.Resolve(roles):
		case <-f.done:
			return
		}
	}
}
