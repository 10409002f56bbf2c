package feed

import (
	"sync"

	bookmodel "homelibrary-backend/internal/domains/book/model"
	"homelibrary-backend/internal/infrastructure/events"
)

// Reconciler maintains an ordered snapshot of the catalog from a stream
// of deltas. Order is arrival order: new books append, updates stay in
// place. A key->position index keeps every apply O(1) except removal.
//
// Deltas for unknown ids are tolerated: a changed or removed event whose
// book was never added is silently dropped. The stream gives no ordering
// guarantee across reconnects, so the reconciler must never panic on a
// delta it did not expect.
type Reconciler struct {
	mu    sync.RWMutex
	books []*bookmodel.Book
	index map[string]int // book id -> position in books
}

func NewReconciler() *Reconciler {
	return &Reconciler{
		index: make(map[string]int),
	}
}

// Apply folds one delta into the snapshot.
func (r *Reconciler) Apply(delta events.CatalogDelta) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch delta.Op {
	case events.OpAdded:
		if delta.Book == nil {
			return
		}
		// Duplicate added (replayed event): update in place, keep position.
		if pos, ok := r.index[delta.BookID]; ok {
			r.books[pos] = delta.Book
			return
		}
		r.books = append(r.books, delta.Book)
		r.index[delta.BookID] = len(r.books) - 1

	case events.OpChanged:
		if delta.Book == nil {
			return
		}
		pos, ok := r.index[delta.BookID]
		if !ok {
			return
		}
		r.books[pos] = delta.Book

	case events.OpRemoved:
		pos, ok := r.index[delta.BookID]
		if !ok {
			return
		}
		r.books = append(r.books[:pos], r.books[pos+1:]...)
		delete(r.index, delta.BookID)
		for i := pos; i < len(r.books); i++ {
			r.index[r.books[i].ID.String()] = i
		}
	}
}

// Snapshot returns the current feed rows in arrival order.
func (r *Reconciler) Snapshot() []bookmodel.BookSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := make([]bookmodel.BookSummary, len(r.books))
	for i, b := range r.books {
		rows[i] = b.ToSummary()
	}
	return rows
}

// Len returns the number of books in the snapshot.
func (r *Reconciler) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.books)
}
