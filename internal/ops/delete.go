package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/strlens/strlens/internal/analysis"
	"github.com/strlens/strlens/internal/errors"
	"github.com/strlens/strlens/internal/store"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	// ID is a content hash, or — when no entry has that id — the exact
	// original string, which resolves through its own hash.
	ID string
}

// DeleteOutput contains the result of the Delete operation. ID is the
// content hash of the entry that was removed.
type DeleteOutput struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// Delete removes a stored string by content hash, falling back to an
// exact-value lookup the same way Fetch does.
func Delete(ctx context.Context, database *sql.DB, input DeleteInput) (*DeleteOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	candidates := []string{id, analysis.Hash(id)}
	if input.ID != id {
		// The raw value may carry whitespace the trim removed
		candidates = append(candidates, analysis.Hash(input.ID))
	}
	for _, candidate := range candidates {
		existed, err := store.Delete(ctx, database, candidate)
		if err != nil {
			return nil, err
		}
		if existed {
			return &DeleteOutput{
				Deleted: true,
				ID:      candidate,
			}, nil
		}
	}

	return nil, errors.NewNotFound(id)
}
