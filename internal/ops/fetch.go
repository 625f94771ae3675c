package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/strlens/strlens/internal/analysis"
	"github.com/strlens/strlens/internal/errors"
	"github.com/strlens/strlens/internal/store"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	// Identifier is a content hash, or — when no entry has that id — the
	// exact original string, which resolves through its own hash.
	Identifier string
}

// FetchOutput contains the result of the Fetch operation.
type FetchOutput struct {
	Entry store.Entry `json:"entry"`
}

// Fetch retrieves a stored string by content hash, falling back to an
// exact-value lookup. Ids are content hashes, so the fallback is just a
// second Get with the identifier's own hash.
func Fetch(ctx context.Context, database *sql.DB, input FetchInput) (*FetchOutput, error) {
	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" {
		return nil, errors.NewInvalidRequest("identifier is required")
	}

	entry, err := store.Get(ctx, database, identifier)
	if errors.Is(err, errors.ErrNotFound) {
		// The raw value may contain leading/trailing whitespace the trim
		// removed; try both forms before giving up.
		entry, err = store.Get(ctx, database, analysis.Hash(identifier))
		if errors.Is(err, errors.ErrNotFound) && identifier != input.Identifier {
			entry, err = store.Get(ctx, database, analysis.Hash(input.Identifier))
		}
	}
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.NewNotFound(identifier)
		}
		return nil, err
	}

	return &FetchOutput{Entry: *entry}, nil
}
