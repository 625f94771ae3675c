package ops

import (
	"context"
	"database/sql"

	"github.com/strlens/strlens/internal/filter"
	"github.com/strlens/strlens/internal/store"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Predicates filter.Predicates
	Limit      int // default: 100, max: 500
	Offset     int // default: 0
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []store.Entry     `json:"items"`
	Pagination Pagination        `json:"pagination"`
	Filters    filter.Predicates `json:"filters_applied"`
}

// List retrieves stored strings matching the given predicates, in insertion
// order. Predicates are validated before any filtering runs; empty
// predicates match every entry.
func List(ctx context.Context, database *sql.DB, input ListInput) (*ListOutput, error) {
	if err := input.Predicates.Validate(); err != nil {
		return nil, err
	}

	entries, err := store.List(ctx, database)
	if err != nil {
		return nil, err
	}

	matched := applyFilter(entries, input.Predicates)
	page, pagination := paginate(matched, input.Limit, input.Offset)

	return &ListOutput{
		Items:      page,
		Pagination: pagination,
		Filters:    input.Predicates,
	}, nil
}
