// Package fuzzy finds the known spelling closest to a mistyped option or
// sub-parser name. clasp uses it to attach "did you mean" suggestions to
// unknown-token errors.
package fuzzy

import (
	"sort"
	"strings"
	"unicode"
)

// Matcher ranks candidates by edit distance to an input.
type Matcher struct {
	maxDistance int
	minLength   int
}

// NewMatcher creates a matcher accepting candidates within maxDistance
// edits of the input.
func NewMatcher(maxDistance int) *Matcher {
	return &Matcher{
		maxDistance: maxDistance,
		minLength:   2, // no suggestions for a single character
	}
}

// Match is one ranked candidate.
type Match struct {
	Value    string
	Distance int
	Prefix   int // length of the shared prefix, dashes excluded
}

// FindBest returns the closest candidate, or "" when none is near enough.
func (m *Matcher) FindBest(input string, candidates []string) string {
	matches := m.FindMatches(input, candidates)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Value
}

// FindMatches returns every candidate within the distance limit, closest
// first. Ties go to the longer shared prefix, then to candidate order.
// Comparison ignores case and leading dashes; exact matches are skipped.
func (m *Matcher) FindMatches(input string, candidates []string) []Match {
	in := normalize(input)
	if len(in) < m.minLength {
		return nil
	}

	var matches []Match
	for _, candidate := range candidates {
		c := normalize(candidate)
		if len(c) == 0 || equal(in, c) {
			continue
		}
		d := m.distance(in, c)
		if d > m.maxDistance {
			continue
		}
		matches = append(matches, Match{Value: candidate, Distance: d, Prefix: commonPrefix(in, c)})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Prefix > matches[j].Prefix
	})
	return matches
}

func normalize(s string) []rune {
	return []rune(strings.ToLower(strings.TrimLeft(s, "-")))
}

func equal(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// distance is the Levenshtein distance of a and b, cut short at
// maxDistance+1.
func (m *Matcher) distance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	if abs(len(a)-len(b)) > m.maxDistance {
		return m.maxDistance + 1
	}
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	cur := make([]int, len(a)+1)
	for i := range prev {
		prev[i] = i
	}

	for i := 1; i <= len(b); i++ {
		cur[0] = i
		rowMin := i
		for j := 1; j <= len(a); j++ {
			cost := 1
			if a[j-1] == b[i-1] {
				cost = 0
			}
			cur[j] = min(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
			if cur[j] < rowMin {
				rowMin = cur[j]
			}
		}
		if rowMin > m.maxDistance {
			return m.maxDistance + 1
		}
		prev, cur = cur, prev
	}
	return prev[len(a)]
}

func commonPrefix(a, b []rune) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if unicode.ToLower(a[i]) != unicode.ToLower(b[i]) {
			return i
		}
	}
	return n
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// FindBest returns the candidate closest to input within maxDistance
// edits, or "".
func FindBest(input string, candidates []string, maxDistance int) string {
	return NewMatcher(maxDistance).FindBest(input, candidates)
}

// FindSuggestions returns up to limit candidates, closest first.
func FindSuggestions(input string, candidates []string, maxDistance, limit int) []string {
	matches := NewMatcher(maxDistance).FindMatches(input, candidates)
	if limit >= 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Value)
	}
	return out
}
