package author

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"homelibrary-backend/internal/domains/author/model"
)

// Placeholder labels substituted when a reference cannot be resolved.
const (
	UnknownAuthor  = "unknown author"
	UnknownAuthors = "unknown authors"
)

// FetchAuthor loads one author by id. nil author with nil error means
// the reference is dangling.
type FetchAuthor func(ctx context.Context, id uuid.UUID) (*model.Author, error)

// ResolveNames resolves an ordered list of author ids into display names.
//
// Contract:
//   - output[i] always corresponds to ids[i], no matter in which order the
//     concurrent fetches complete
//   - empty/nil input yields the single "unknown authors" placeholder
//   - a missing author or a failed fetch yields "unknown author" in that
//     slot; resolution never fails as a whole
//   - duplicate ids each occupy their own slot
//
// The result is returned only after every fetch has settled.
func ResolveNames(ctx context.Context, ids []uuid.UUID, fetch FetchAuthor) []string {
	if len(ids) == 0 {
		return []string{UnknownAuthors}
	}

	// Slot per input position: concurrent completions cannot reorder output.
	names := make([]string, len(ids))

	g := new(errgroup.Group)
	for i, id := range ids {
		g.Go(func() error {
			a, err := fetch(ctx, id)
			if err != nil || a == nil || a.FullName == "" {
				names[i] = UnknownAuthor
				return nil
			}
			names[i] = a.FullName
			return nil
		})
	}
	// goroutines never return errors - placeholders absorb every failure
	g.Wait()

	return names
}
