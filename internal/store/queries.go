package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/strlens/strlens/internal/analysis"
	"github.com/strlens/strlens/internal/errors"
)

// Entry is a stored string together with its derived properties.
// id is always the content hash of value.
type Entry struct {
	ID         string              `json:"id"`
	Value      string              `json:"value"`
	Properties analysis.Properties `json:"properties"`
	CreatedAt  int64               `json:"created_at"`
}

// Put inserts or replaces an entry. Resubmitting the same string replaces
// the row wholesale (fresh created_at, identical properties) but keeps its
// original insertion position.
func Put(ctx context.Context, db *sql.DB, e *Entry) error {
	freqJSON, err := json.Marshal(e.Properties.CharacterFrequency)
	if err != nil {
		return errors.NewInternal(err)
	}

	query := `
		INSERT INTO strings (
			id, value, length, is_palindrome, unique_characters,
			word_count, frequency_json, position, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM strings), ?)
		ON CONFLICT(id) DO UPDATE SET created_at = excluded.created_at
	`

	_, err = db.ExecContext(ctx, query,
		e.ID, e.Value, e.Properties.Length, boolToInt(e.Properties.IsPalindrome),
		e.Properties.UniqueCharacters, e.Properties.WordCount,
		string(freqJSON), e.CreatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	return nil
}

// Get retrieves an entry by its content hash.
func Get(ctx context.Context, db *sql.DB, id string) (*Entry, error) {
	query := `
		SELECT id, value, length, is_palindrome, unique_characters,
			word_count, frequency_json, created_at
		FROM strings
		WHERE id = ?
	`

	row := db.QueryRowContext(ctx, query, id)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return e, nil
}

// List returns all entries in insertion order.
func List(ctx context.Context, db *sql.DB) ([]Entry, error) {
	query := `
		SELECT id, value, length, is_palindrome, unique_characters,
			word_count, frequency_json, created_at
		FROM strings
		ORDER BY position ASC
	`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return entries, nil
}

// Delete removes an entry by id. Returns whether the entry existed.
func Delete(ctx context.Context, db *sql.DB, id string) (bool, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM strings WHERE id = ?`, id)
	if err != nil {
		return false, errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, errors.NewInternal(err)
	}

	return rowsAffected > 0, nil
}

// Count returns the number of stored entries.
func Count(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM strings`).Scan(&n); err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

// scanner abstracts over *sql.Row and *sql.Rows for scanEntry.
type scanner interface {
	Scan(dest ...any) error
}

// scanEntry scans a row into an Entry. The content hash is the row id,
// so it is not stored in a separate column.
func scanEntry(s scanner) (*Entry, error) {
	var e Entry
	var isPalindrome int
	var freqJSON string

	err := s.Scan(
		&e.ID, &e.Value, &e.Properties.Length, &isPalindrome,
		&e.Properties.UniqueCharacters, &e.Properties.WordCount,
		&freqJSON, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Properties.IsPalindrome = isPalindrome != 0
	e.Properties.ContentHash = e.ID

	freq := make(map[string]int)
	if err := json.Unmarshal([]byte(freqJSON), &freq); err != nil {
		return nil, err
	}
	e.Properties.CharacterFrequency = freq

	return &e, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
