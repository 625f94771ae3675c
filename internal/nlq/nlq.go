// Package nlq translates informal natural-language filter phrases into
// structured predicates. It is a best-effort heuristic matcher over a fixed
// table of phrase rules, not a grammar: rules are evaluated independently in
// declared priority order, the first match per predicate field wins, and
// unmatched text is simply ignored. A query with no recognizable pattern
// yields empty predicates (which match everything) — never an error.
package nlq

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/strlens/strlens/internal/filter"
)

// Fragment records one recognized phrase and the predicate field it set.
// Purely diagnostic; it never affects matching.
type Fragment struct {
	Phrase string `json:"phrase"`
	Field  string `json:"field"`
}

// Result is the outcome of a translation: the predicates to evaluate plus
// the ordered list of fragments that were actually understood.
type Result struct {
	Predicates filter.Predicates `json:"predicates"`
	Fragments  []Fragment        `json:"recognized_fragments"`
}

// rule maps one recognizable phrase pattern to a predicate field. apply
// fills only fields that are still unset and reports the field label it
// set; returning ok=false means the rule declined (field taken, or the
// captured value was unusable) and contributes nothing.
type rule struct {
	re    *regexp.Regexp
	apply func(ps *filter.Predicates, m []string) (field string, ok bool)
}

// rules in priority order. Negated forms precede their positive forms, and
// word-count phrasing precedes the length comparisons so that shared digits
// ("more than 3 words") resolve to the word rule, not the length rule.
var rules = []rule{
	// Palindrome phrasing
	{
		re: regexp.MustCompile(`\b(?:not|non)[\s-]*palindrom\w*`),
		apply: func(ps *filter.Predicates, m []string) (string, bool) {
			return "is_palindrome", setBool(&ps.IsPalindrome, false)
		},
	},
	{
		re: regexp.MustCompile(`palindrom\w*`),
		apply: func(ps *filter.Predicates, m []string) (string, bool) {
			return "is_palindrome", setBool(&ps.IsPalindrome, true)
		},
	},

	// Word-count phrasing
	{
		re: regexp.MustCompile(`\bmore than one word\b|\bmultiple words\b`),
		apply: func(ps *filter.Predicates, m []string) (string, bool) {
			return "min_word_count", setInt(&ps.MinWordCount, 2)
		},
	},
	{
		re: regexp.MustCompile(`\bmore than (\d+) words?\b`),
		apply: func(ps *filter.Predicates, m []string) (string, bool) {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return "", false
			}
			return "min_word_count", setInt(&ps.MinWordCount, n+1)
		},
	},
	{
		re: regexp.MustCompile(`\bat least (\d+) words?\b`),
		apply: func(ps *filter.Predicates, m []string) (string, bool) {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return "", false
			}
			return "min_word_count", setInt(&ps.MinWordCount, n)
		},
	},
	{
		// "more than one word" contains "one word"; a recognized multi-word
		// bound suppresses the single-word reading.
		re: regexp.MustCompile(`\bsingle[\s-]*word\b|\bone[\s-]*word\b`),
		apply: func(ps *filter.Predicates, m []string) (string, bool) {
			if ps.MinWordCount != nil {
				return "", false
			}
			return "word_count", setInt(&ps.WordCount, 1)
		},
	},
	{
		// Same suppression: "at least 3 words" already consumed these digits.
		re: regexp.MustCompile(`\b(\d+)[\s-]*words?\b`),
		apply: func(ps *filter.Predicates, m []string) (string, bool) {
			if ps.MinWordCount != nil {
				return "", false
			}
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return "", false
			}
			return "word_count", setInt(&ps.WordCount, n)
		},
	},

	// Length comparisons. The character unit is optional ("longer than 10"
	// is accepted) but a trailing word unit rejects the length reading.
	// "no more than N" is folded into the more-than rule because regexp has
	// no lookbehind to keep the two patterns from overlapping.
	{
		re: regexp.MustCompile(`\b(no\s+)?(?:longer|more)\s+than\s+(\d+)(?:\s+(characters?|chars?|words?))?\b`),
		apply: func(ps *filter.Predicates, m []string) (string, bool) {
			n, ok := lengthBound(m[2], m[3])
			if !ok {
				return "", false
			}
			if m[1] != "" {
				return "max_length", setInt(&ps.MaxLength, n)
			}
			return "min_length", setInt(&ps.MinLength, n+1)
		},
	},
	{
		re: regexp.MustCompile(`\b(?:shorter|less|fewer)\s+than\s+(\d+)(?:\s+(characters?|chars?|words?))?\b`),
		apply: func(ps *filter.Predicates, m []string) (string, bool) {
			n, ok := lengthBound(m[1], m[2])
			if !ok || n < 1 {
				return "", false
			}
			return "max_length", setInt(&ps.MaxLength, n-1)
		},
	},
	{
		re: regexp.MustCompile(`\bat least (\d+)(?:\s+(characters?|chars?|words?))?\b`),
		apply: func(ps *filter.Predicates, m []string) (string, bool) {
			n, ok := lengthBound(m[1], m[2])
			if !ok {
				return "", false
			}
			return "min_length", setInt(&ps.MinLength, n)
		},
	},
	{
		re: regexp.MustCompile(`\bat most (\d+)(?:\s+(characters?|chars?|words?))?\b`),
		apply: func(ps *filter.Predicates, m []string) (string, bool) {
			n, ok := lengthBound(m[1], m[2])
			if !ok {
				return "", false
			}
			return "max_length", setInt(&ps.MaxLength, n)
		},
	},
	{
		re: regexp.MustCompile(`\bexactly (\d+)\s+(?:characters?|chars?)\b`),
		apply: func(ps *filter.Predicates, m []string) (string, bool) {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return "", false
			}
			setMin := setInt(&ps.MinLength, n)
			setMax := setInt(&ps.MaxLength, n)
			return "min_length,max_length", setMin || setMax
		},
	},

	// Character containment. Captures only a single alphabetic token; a
	// longer word after the article simply fails to match.
	{
		re: regexp.MustCompile(`\bcontain(?:s|ing)?(?:\s+the)?(?:\s+an?)?(?:\s+(?:letter|character|char))?\s+([a-z])\b`),
		apply: func(ps *filter.Predicates, m []string) (string, bool) {
			return "contains_character", setString(&ps.ContainsCharacter, m[1])
		},
	},
	{
		re: regexp.MustCompile(`\bwith(?:\s+the)?\s+(?:letter|character|char)\s+([a-z])\b`),
		apply: func(ps *filter.Predicates, m []string) (string, bool) {
			return "contains_character", setString(&ps.ContainsCharacter, m[1])
		},
	},
	{
		re: regexp.MustCompile(`\bhas\s+an?\s+([a-z])\b`),
		apply: func(ps *filter.Predicates, m []string) (string, bool) {
			return "contains_character", setString(&ps.ContainsCharacter, m[1])
		},
	},
	{
		// Folk heuristic carried over from the first version of the service:
		// "first vowel" means the letter a.
		re: regexp.MustCompile(`\bfirst vowel\b`),
		apply: func(ps *filter.Predicates, m []string) (string, bool) {
			return "contains_character", setString(&ps.ContainsCharacter, "a")
		},
	},
}

// Translate scans free-form query text for known phrase patterns and builds
// the corresponding predicates. Matching is case-insensitive; captured
// letters are recorded lower-cased.
func Translate(query string) Result {
	q := strings.ToLower(query)

	res := Result{Fragments: []Fragment{}}
	for _, r := range rules {
		// Every occurrence gets a chance: a declined leftmost match must not
		// shadow a usable later one ("more than 3 words and longer than 10
		// characters" declines the first length match but not the second).
		// The set-if-unset guards in apply keep the first accepted
		// occurrence per field authoritative.
		for _, loc := range r.re.FindAllStringSubmatchIndex(q, -1) {
			field, ok := r.apply(&res.Predicates, submatches(q, loc))
			if !ok {
				continue
			}
			res.Fragments = append(res.Fragments, Fragment{
				Phrase: q[loc[0]:loc[1]],
				Field:  field,
			})
		}
	}
	return res
}

// lengthBound parses the numeric capture of a length rule, rejecting the
// match when the optional unit turned out to be a word count.
func lengthBound(digits, unit string) (int, bool) {
	if strings.HasPrefix(unit, "word") {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// submatches expands one submatch-index slice into substrings.
// Absent optional groups become "".
func submatches(s string, loc []int) []string {
	m := make([]string, len(loc)/2)
	for i := range m {
		if loc[2*i] >= 0 {
			m[i] = s[loc[2*i]:loc[2*i+1]]
		}
	}
	return m
}

func setBool(dst **bool, v bool) bool {
	if *dst != nil {
		return false
	}
	*dst = &v
	return true
}

func setInt(dst **int, v int) bool {
	if *dst != nil {
		return false
	}
	*dst = &v
	return true
}

func setString(dst **string, v string) bool {
	if *dst != nil {
		return false
	}
	*dst = &v
	return true
}
