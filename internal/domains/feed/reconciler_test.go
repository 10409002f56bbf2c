package feed

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookmodel "homelibrary-backend/internal/domains/book/model"
	"homelibrary-backend/internal/infrastructure/events"
)

func newBook(title string) *bookmodel.Book {
	return &bookmodel.Book{ID: uuid.New(), Title: title}
}

func added(b *bookmodel.Book) events.CatalogDelta {
	return events.CatalogDelta{Op: events.OpAdded, BookID: b.ID.String(), Book: b}
}

func changed(b *bookmodel.Book) events.CatalogDelta {
	return events.CatalogDelta{Op: events.OpChanged, BookID: b.ID.String(), Book: b}
}

func removed(id string) events.CatalogDelta {
	return events.CatalogDelta{Op: events.OpRemoved, BookID: id}
}

func titles(rows []bookmodel.BookSummary) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Title
	}
	return out
}

func TestAddedAppendsInArrivalOrder(t *testing.T) {
	r := NewReconciler()

	r.Apply(added(newBook("A")))
	r.Apply(added(newBook("B")))
	r.Apply(added(newBook("C")))

	assert.Equal(t, []string{"A", "B", "C"}, titles(r.Snapshot()))
}

func TestAddChangeRemoveLifecycle(t *testing.T) {
	r := NewReconciler()
	b := newBook("Dune")

	r.Apply(added(b))
	require.Equal(t, 1, r.Len())

	edited := &bookmodel.Book{ID: b.ID, Title: "Dune (revised)"}
	r.Apply(changed(edited))
	assert.Equal(t, []string{"Dune (revised)"}, titles(r.Snapshot()))

	r.Apply(removed(b.ID.String()))
	assert.Equal(t, 0, r.Len())
}

// A replayed added event must update in place, not create a second row.
func TestDuplicateAddedUpdatesInPlace(t *testing.T) {
	r := NewReconciler()
	a, b := newBook("A"), newBook("B")

	r.Apply(added(a))
	r.Apply(added(b))

	again := &bookmodel.Book{ID: a.ID, Title: "A2"}
	r.Apply(added(again))

	assert.Equal(t, []string{"A2", "B"}, titles(r.Snapshot()))
}

func TestChangedForUnknownBookIsDropped(t *testing.T) {
	r := NewReconciler()
	r.Apply(added(newBook("A")))

	r.Apply(changed(newBook("ghost")))

	assert.Equal(t, []string{"A"}, titles(r.Snapshot()))
}

func TestRemovedForUnknownBookIsNoop(t *testing.T) {
	r := NewReconciler()
	r.Apply(added(newBook("A")))

	r.Apply(removed(uuid.NewString()))

	assert.Equal(t, 1, r.Len())
}

// Removing from the middle must keep later rows addressable by id.
func TestRemovalReindexesTail(t *testing.T) {
	r := NewReconciler()
	a, b, c := newBook("A"), newBook("B"), newBook("C")

	r.Apply(added(a))
	r.Apply(added(b))
	r.Apply(added(c))

	r.Apply(removed(b.ID.String()))
	assert.Equal(t, []string{"A", "C"}, titles(r.Snapshot()))

	edited := &bookmodel.Book{ID: c.ID, Title: "C2"}
	r.Apply(changed(edited))
	assert.Equal(t, []string{"A", "C2"}, titles(r.Snapshot()))
}

func TestNilBookPayloadIsDropped(t *testing.T) {
	r := NewReconciler()

	r.Apply(events.CatalogDelta{Op: events.OpAdded, BookID: uuid.NewString()})
	r.Apply(events.CatalogDelta{Op: events.OpChanged, BookID: uuid.NewString()})

	assert.Equal(t, 0, r.Len())
}
