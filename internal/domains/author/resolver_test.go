package author

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"homelibrary-backend/internal/domains/author/model"
)

func namedFetch(names map[uuid.UUID]string) FetchAuthor {
	return func(ctx context.Context, id uuid.UUID) (*model.Author, error) {
		name, ok := names[id]
		if !ok {
			return nil, nil
		}
		return &model.Author{ID: id, FullName: name}, nil
	}
}

func TestResolveNames_EmptyInput(t *testing.T) {
	got := ResolveNames(context.Background(), nil, namedFetch(nil))
	assert.Equal(t, []string{UnknownAuthors}, got)

	got = ResolveNames(context.Background(), []uuid.UUID{}, namedFetch(nil))
	assert.Equal(t, []string{UnknownAuthors}, got)
}

func TestResolveNames_PreservesInputOrder(t *testing.T) {
	a1, a2, a3 := uuid.New(), uuid.New(), uuid.New()
	names := map[uuid.UUID]string{a1: "First", a2: "Second", a3: "Third"}

	// earlier positions complete later
	delays := map[uuid.UUID]time.Duration{
		a1: 30 * time.Millisecond,
		a2: 15 * time.Millisecond,
		a3: 0,
	}
	fetch := func(ctx context.Context, id uuid.UUID) (*model.Author, error) {
		time.Sleep(delays[id])
		return &model.Author{ID: id, FullName: names[id]}, nil
	}

	got := ResolveNames(context.Background(), []uuid.UUID{a1, a2, a3}, fetch)
	assert.Equal(t, []string{"First", "Second", "Third"}, got)
}

func TestResolveNames_MissingAuthorGetsPlaceholder(t *testing.T) {
	a1, missing := uuid.New(), uuid.New()
	fetch := namedFetch(map[uuid.UUID]string{a1: "Known Author"})

	got := ResolveNames(context.Background(), []uuid.UUID{a1, missing}, fetch)
	assert.Equal(t, []string{"Known Author", UnknownAuthor}, got)
}

func TestResolveNames_FetchErrorGetsPlaceholder(t *testing.T) {
	a1, a2 := uuid.New(), uuid.New()
	fetch := func(ctx context.Context, id uuid.UUID) (*model.Author, error) {
		if id == a2 {
			return nil, errors.New("connection reset")
		}
		return &model.Author{ID: id, FullName: "Survivor"}, nil
	}

	got := ResolveNames(context.Background(), []uuid.UUID{a2, a1}, fetch)
	assert.Equal(t, []string{UnknownAuthor, "Survivor"}, got)
}

func TestResolveNames_DuplicateIDsGetDistinctSlots(t *testing.T) {
	a1 := uuid.New()
	fetch := namedFetch(map[uuid.UUID]string{a1: "Twice"})

	got := ResolveNames(context.Background(), []uuid.UUID{a1, a1}, fetch)
	assert.Equal(t, []string{"Twice", "Twice"}, got)
}

func TestResolveNames_OutputLengthMatchesInput(t *testing.T) {
	ids := make([]uuid.UUID, 17)
	for i := range ids {
		ids[i] = uuid.New()
	}
	// every fetch fails
	fetch := func(ctx context.Context, id uuid.UUID) (*model.Author, error) {
		return nil, errors.New("down")
	}

	got := ResolveNames(context.Background(), ids, fetch)
	assert.Len(t, got, 17)
	for _, name := range got {
		assert.Equal(t, UnknownAuthor, name)
	}
}
