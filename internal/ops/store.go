package ops

import (
	"context"
	"database/sql"
	"time"
	"unicode/utf8"

	"github.com/strlens/strlens/internal/analysis"
	"github.com/strlens/strlens/internal/config"
	"github.com/strlens/strlens/internal/errors"
	"github.com/strlens/strlens/internal/store"
)

// StoreInput contains parameters for the Store operation.
type StoreInput struct {
	Value string // the string to analyze and store; may be empty
}

// StoreOutput contains the result of the Store operation.
type StoreOutput struct {
	Entry    store.Entry `json:"entry"`
	Replaced bool        `json:"replaced"`
}

// Store analyzes a string and stores the result keyed by content hash.
// Resubmitting an identical string is a safe wholesale replace: same id,
// identical properties, fresh created_at.
func Store(ctx context.Context, database *sql.DB, cfg *config.Config, input StoreInput) (*StoreOutput, error) {
	if chars := utf8.RuneCountInString(input.Value); chars > cfg.MaxValueChars {
		return nil, errors.NewValueTooLarge(cfg.MaxValueChars, chars)
	}

	props := analysis.Analyze(input.Value)

	replaced := false
	if _, err := store.Get(ctx, database, props.ContentHash); err == nil {
		replaced = true
	} else if !errors.Is(err, errors.ErrNotFound) {
		return nil, err
	}

	entry := store.Entry{
		ID:         props.ContentHash,
		Value:      input.Value,
		Properties: props,
		CreatedAt:  time.Now().Unix(),
	}

	if err := store.Put(ctx, database, &entry); err != nil {
		return nil, err
	}

	return &StoreOutput{
		Entry:    entry,
		Replaced: replaced,
	}, nil
}
