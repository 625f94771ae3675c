package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/strlens/strlens/internal/errors"
	"github.com/strlens/strlens/internal/filter"
	"github.com/strlens/strlens/internal/nlq"
	"github.com/strlens/strlens/internal/store"
)

// QueryInput contains parameters for the Query operation.
type QueryInput struct {
	Query  string // required (a blank query is a missing parameter)
	Limit  int    // default: 100, max: 500
	Offset int    // default: 0
}

// Interpretation echoes what the translator understood, for transparency.
// Diagnostic only; matching is driven solely by Predicates.
type Interpretation struct {
	Original   string            `json:"original"`
	Predicates filter.Predicates `json:"predicates"`
	Fragments  []nlq.Fragment    `json:"recognized_fragments"`
}

// QueryOutput contains the result of the Query operation.
type QueryOutput struct {
	Items       []store.Entry  `json:"items"`
	Pagination  Pagination     `json:"pagination"`
	Interpreted Interpretation `json:"interpreted_query"`
}

// Query filters stored strings by a natural-language phrase. Text with no
// recognizable pattern yields empty predicates, which match everything —
// that is a success, not an error. Translated predicates still go through
// construction-time validation so that contradictory phrasing ("longer than
// 9 and shorter than 3") surfaces as INVALID_PREDICATE rather than a
// silently empty result.
func Query(ctx context.Context, database *sql.DB, input QueryInput) (*QueryOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, errors.NewInvalidRequest("query is required")
	}

	translated := nlq.Translate(input.Query)
	if err := translated.Predicates.Validate(); err != nil {
		return nil, err
	}

	entries, err := store.List(ctx, database)
	if err != nil {
		return nil, err
	}

	matched := applyFilter(entries, translated.Predicates)
	page, pagination := paginate(matched, input.Limit, input.Offset)

	return &QueryOutput{
		Items:      page,
		Pagination: pagination,
		Interpreted: Interpretation{
			Original:   input.Query,
			Predicates: translated.Predicates,
			Fragments:  translated.Fragments,
		},
	}, nil
}
