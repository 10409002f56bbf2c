package feed

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"homelibrary-backend/internal/infrastructure/events"
)

// streamBuffer: slow stream consumers drop deltas beyond this, they can
// always resync from Snapshot.
const streamBuffer = 16

// Subscriber drives the reconciler from the catalog bus and fans each
// delta out to attached stream consumers and per-book watchers.
type Subscriber struct {
	bus     *events.Bus
	rec     *Reconciler
	watcher *Watcher

	mu      sync.Mutex
	streams map[chan events.CatalogDelta]struct{}
}

func NewSubscriber(bus *events.Bus, rec *Reconciler, watcher *Watcher) *Subscriber {
	return &Subscriber{
		bus:     bus,
		rec:     rec,
		watcher: watcher,
		streams: make(map[chan events.CatalogDelta]struct{}),
	}
}

// Run consumes catalog deltas until ctx is cancelled.
// A dropped subscription is transient: log and resubscribe, the snapshot
// keeps whatever state it had.
func (s *Subscriber) Run(ctx context.Context) {
	for {
		for delta := range s.bus.SubscribeCatalog(ctx) {
			s.rec.Apply(delta)
			s.watcher.Dispatch(delta)
			s.fanOut(delta)
		}

		if ctx.Err() != nil {
			return
		}

		log.Warn().Msg("Catalog stream interrupted, resubscribing")
		select {
		case <-ctx.Done():
			return
		case <-time.After(2 * time.Second):
		}
	}
}

// Stream attaches a consumer. The release func MUST be called when the
// consumer goes away or the subscriber leaks the channel forever.
func (s *Subscriber) Stream() (<-chan events.CatalogDelta, func()) {
	ch := make(chan events.CatalogDelta, streamBuffer)

	s.mu.Lock()
	s.streams[ch] = struct{}{}
	s.mu.Unlock()

	release := func() {
		s.mu.Lock()
		delete(s.streams, ch)
		s.mu.Unlock()
	}
	return ch, release
}

func (s *Subscriber) fanOut(delta events.CatalogDelta) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for ch := range s.streams {
		select {
		case ch <- delta:
		default:
			// Consumer is not keeping up, drop.
		}
	}
}
