package feed

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homelibrary-backend/internal/infrastructure/events"
)

func TestAttachDispatchRelease(t *testing.T) {
	w := NewWatcher()
	b := newBook("Dune")

	h, err := w.Attach(b.ID.String())
	require.NoError(t, err)

	w.Dispatch(changed(b))

	delta := <-h.Deltas()
	assert.Equal(t, events.OpChanged, delta.Op)
	assert.Equal(t, b.ID.String(), delta.BookID)

	h.Release()
	_, open := <-h.Deltas()
	assert.False(t, open)
}

func TestSecondAttachRequiresRelease(t *testing.T) {
	w := NewWatcher()
	id := uuid.NewString()

	h, err := w.Attach(id)
	require.NoError(t, err)

	_, err = w.Attach(id)
	assert.ErrorIs(t, err, ErrAlreadyWatched)

	h.Release()

	h2, err := w.Attach(id)
	require.NoError(t, err)
	h2.Release()
}

func TestReleaseTwiceIsSafe(t *testing.T) {
	w := NewWatcher()

	h, err := w.Attach(uuid.NewString())
	require.NoError(t, err)

	h.Release()
	h.Release()
}

func TestDispatchUnwatchedBookIsNoop(t *testing.T) {
	w := NewWatcher()
	w.Dispatch(removed(uuid.NewString()))
}
