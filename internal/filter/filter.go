// Package filter defines the structured, composable representation of
// filter criteria over analyzed strings, and the evaluator that applies
// them. An absent (nil) field means "no constraint on this dimension";
// the zero Predicates matches every entry.
package filter

import (
	"fmt"
	"unicode/utf8"

	"github.com/strlens/strlens/internal/analysis"
	"github.com/strlens/strlens/internal/errors"
)

// Predicates is a conjunction of optional filter criteria. All present
// fields must hold for an entry to match.
type Predicates struct {
	IsPalindrome      *bool   `json:"is_palindrome,omitempty"`
	MinLength         *int    `json:"min_length,omitempty"`
	MaxLength         *int    `json:"max_length,omitempty"`
	WordCount         *int    `json:"word_count,omitempty"`
	MinWordCount      *int    `json:"min_word_count,omitempty"`
	ContainsCharacter *string `json:"contains_character,omitempty"`
}

// IsEmpty reports whether no constraint is set (the identity filter).
func (p Predicates) IsEmpty() bool {
	return p.IsPalindrome == nil && p.MinLength == nil && p.MaxLength == nil &&
		p.WordCount == nil && p.MinWordCount == nil && p.ContainsCharacter == nil
}

// Validate checks predicate values at construction time, before any
// filtering runs. Malformed values are never silently truncated or ignored.
func (p Predicates) Validate() error {
	if p.ContainsCharacter != nil {
		if utf8.RuneCountInString(*p.ContainsCharacter) != 1 {
			return errors.NewInvalidPredicate("contains_character",
				fmt.Sprintf("must be exactly one character, got %q", *p.ContainsCharacter))
		}
	}
	for _, bound := range []struct {
		name  string
		value *int
	}{
		{"min_length", p.MinLength},
		{"max_length", p.MaxLength},
		{"word_count", p.WordCount},
		{"min_word_count", p.MinWordCount},
	} {
		if bound.value != nil && *bound.value < 0 {
			return errors.NewInvalidPredicate(bound.name,
				fmt.Sprintf("must be non-negative, got %d", *bound.value))
		}
	}
	if p.MinLength != nil && p.MaxLength != nil && *p.MinLength > *p.MaxLength {
		return errors.NewInvalidPredicate("min_length",
			fmt.Sprintf("min_length %d cannot be greater than max_length %d", *p.MinLength, *p.MaxLength))
	}
	return nil
}

// Matches reports whether the property bundle satisfies every present
// predicate field. Character containment is a case-sensitive lookup in the
// frequency map; any case normalization is the translator's concern.
func (p Predicates) Matches(props analysis.Properties) bool {
	if p.IsPalindrome != nil && props.IsPalindrome != *p.IsPalindrome {
		return false
	}
	if p.MinLength != nil && props.Length < *p.MinLength {
		return false
	}
	if p.MaxLength != nil && props.Length > *p.MaxLength {
		return false
	}
	if p.WordCount != nil && props.WordCount != *p.WordCount {
		return false
	}
	if p.MinWordCount != nil && props.WordCount < *p.MinWordCount {
		return false
	}
	if p.ContainsCharacter != nil {
		if props.CharacterFrequency[*p.ContainsCharacter] < 1 {
			return false
		}
	}
	return true
}
