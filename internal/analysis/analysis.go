package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Properties is the fixed set of derived attributes computed from a single
// input string. It is a pure function of the input: analyzing the same string
// twice yields identical Properties.
type Properties struct {
	// Length is the character count (runes, not bytes)
	Length int `json:"length"`

	// IsPalindrome reports whether the string equals its character-reverse.
	// Comparison is case-insensitive but whitespace-sensitive: spaces and
	// punctuation count as characters.
	IsPalindrome bool `json:"is_palindrome"`

	// UniqueCharacters is the number of distinct characters (case-sensitive)
	UniqueCharacters int `json:"unique_characters"`

	// WordCount is the number of whitespace-delimited non-empty tokens
	WordCount int `json:"word_count"`

	// ContentHash is the SHA-256 hex digest of the exact input bytes.
	// Used as the storage key.
	ContentHash string `json:"content_hash"`

	// CharacterFrequency maps each character to its occurrence count.
	// Case-sensitive; all characters including whitespace are counted.
	CharacterFrequency map[string]int `json:"character_frequency"`
}

// Analyze computes the property bundle for a string. It is total: every
// input, including the empty string, produces a well-defined result.
func Analyze(value string) Properties {
	return Properties{
		Length:             utf8.RuneCountInString(value),
		IsPalindrome:       IsPalindrome(value),
		UniqueCharacters:   uniqueCharacters(value),
		WordCount:          WordCount(value),
		ContentHash:        Hash(value),
		CharacterFrequency: CharacterFrequency(value),
	}
}

// Hash returns the SHA-256 hex digest of the exact input string.
func Hash(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// IsPalindrome reports whether the string's rune sequence equals its reverse,
// ignoring case but keeping whitespace and punctuation significant.
func IsPalindrome(value string) bool {
	runes := []rune(strings.Map(unicode.ToLower, value))
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		if runes[i] != runes[j] {
			return false
		}
	}
	return true
}

// WordCount returns the number of whitespace-delimited non-empty tokens.
func WordCount(value string) int {
	return len(strings.Fields(value))
}

// CharacterFrequency returns per-character occurrence counts. The map is
// keyed by the character itself (one rune per key) so it survives JSON
// round-trips, where map keys must be strings.
func CharacterFrequency(value string) map[string]int {
	freq := make(map[string]int)
	for _, r := range value {
		freq[string(r)]++
	}
	return freq
}

func uniqueCharacters(value string) int {
	seen := make(map[rune]struct{})
	for _, r := range value {
		seen[r] = struct{}{}
	}
	return len(seen)
}
