package ops

import (
	"github.com/strlens/strlens/internal/filter"
	"github.com/strlens/strlens/internal/store"
)

// Pagination limits
const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// applyFilter evaluates predicates against entries, preserving the store's
// insertion order and never deduplicating.
func applyFilter(entries []store.Entry, preds filter.Predicates) []store.Entry {
	matched := []store.Entry{}
	for _, e := range entries {
		if preds.Matches(e.Properties) {
			matched = append(matched, e)
		}
	}
	return matched
}

// paginate slices matched entries by limit/offset after applying defaults
// and bounds, and builds the pagination metadata.
func paginate(matched []store.Entry, limit, offset int) ([]store.Entry, Pagination) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset = max(offset, 0)

	total := len(matched)
	start := min(offset, total)
	end := min(start+limit, total)
	page := matched[start:end]

	return page, Pagination{
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+len(page) < total,
		Total:   total,
	}
}
