package feed

import (
	"errors"
	"sync"

	"homelibrary-backend/internal/infrastructure/events"
)

// ErrAlreadyWatched: một book chỉ có một active watch handle.
// The previous handle must be released before attaching again.
var ErrAlreadyWatched = errors.New("book already has an active watch")

// WatchHandle is one live per-book subscription. Release detaches it;
// releasing twice is safe.
type WatchHandle struct {
	bookID  string
	ch      chan events.CatalogDelta
	watcher *Watcher
	once    sync.Once
}

// Deltas delivers events for the watched book. Closed on Release.
func (h *WatchHandle) Deltas() <-chan events.CatalogDelta {
	return h.ch
}

func (h *WatchHandle) Release() {
	h.once.Do(func() {
		h.watcher.detach(h.bookID, h)
	})
}

// Watcher routes catalog deltas to per-book handles.
type Watcher struct {
	mu     sync.Mutex
	active map[string]*WatchHandle
}

func NewWatcher() *Watcher {
	return &Watcher{
		active: make(map[string]*WatchHandle),
	}
}

// Attach registers a watch for one book id.
// Fails if a handle for the id is still attached.
func (w *Watcher) Attach(bookID string) (*WatchHandle, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.active[bookID]; ok {
		return nil, ErrAlreadyWatched
	}

	h := &WatchHandle{
		bookID:  bookID,
		ch:      make(chan events.CatalogDelta, streamBuffer),
		watcher: w,
	}
	w.active[bookID] = h
	return h, nil
}

// Dispatch routes a delta to the handle watching its book, if any.
func (w *Watcher) Dispatch(delta events.CatalogDelta) {
	w.mu.Lock()
	h, ok := w.active[delta.BookID]
	w.mu.Unlock()

	if !ok {
		return
	}

	select {
	case h.ch <- delta:
	default:
	}
}

func (w *Watcher) detach(bookID string, h *WatchHandle) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.active[bookID] == h {
		delete(w.active, bookID)
	}
	close(h.ch)
}
