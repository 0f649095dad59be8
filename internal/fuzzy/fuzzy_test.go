//nolint:testpackage // using package name 'fuzzy' to access unexported fields for testing
package fuzzy

import (
	"testing"
)

func TestMatcher_FindBest(t *testing.T) {
	matcher := NewMatcher(2)

	tests := []struct {
		name       string
		input      string
		candidates []string
		expected   string
	}{
		{
			name:       "missing letter in long option",
			input:      "--strng",
			candidates: []string{"--string", "--short", "--verbose"},
			expected:   "--string",
		},
		{
			name:       "truncated long option",
			input:      "--verbos",
			candidates: []string{"--string", "--verbose"},
			expected:   "--verbose",
		},
		{
			name:       "sub-parser name",
			input:      "cmd3",
			candidates: []string{"cmd1", "build"},
			expected:   "cmd1",
		},
		{
			name:       "exact match excluded",
			input:      "help",
			candidates: []string{"help"},
			expected:   "",
		},
		{
			name:       "too far",
			input:      "xyz",
			candidates: []string{"help", "version"},
			expected:   "",
		},
		{
			name:       "single character",
			input:      "-x",
			candidates: []string{"-v", "--x1"},
			expected:   "",
		},
		{
			name:       "case insensitive",
			input:      "HEP",
			candidates: []string{"help", "version"},
			expected:   "help",
		},
		{
			name:       "longer prefix wins a tie",
			input:      "cmd",
			candidates: []string{"cxd", "cme"},
			expected:   "cme",
		},
		{
			name:       "candidate order breaks a full tie",
			input:      "ab",
			candidates: []string{"ax", "ay"},
			expected:   "ax",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := matcher.FindBest(tt.input, tt.candidates)
			if result != tt.expected {
				t.Errorf("FindBest(%q, %v) = %q, want %q", tt.input, tt.candidates, result, tt.expected)
			}
		})
	}
}

func TestMatcher_FindMatchesOrdered(t *testing.T) {
	matcher := NewMatcher(2)
	matches := matcher.FindMatches("hep", []string{"version", "heap", "help", "deep"})
	if len(matches) < 2 {
		t.Fatalf("expected at least 2 matches, got %d", len(matches))
	}
	for i := 1; i < len(matches); i++ {
		if matches[i-1].Distance > matches[i].Distance {
			t.Errorf("matches not ordered by distance: %+v", matches)
		}
	}
	for _, m := range matches {
		if m.Value == "version" {
			t.Errorf("unexpected match %q", m.Value)
		}
		if m.Distance > matcher.maxDistance {
			t.Errorf("distance %d exceeds max %d", m.Distance, matcher.maxDistance)
		}
	}
}

func TestMatcher_Distance(t *testing.T) {
	matcher := NewMatcher(10)

	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"abc", "ab", 1},
		{"abc", "axc", 1},
		{"kitten", "sitting", 3},
		{"héllo", "hello", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			got := matcher.distance([]rune(tt.a), []rune(tt.b))
			if got != tt.expected {
				t.Errorf("distance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestMatcher_EarlyTermination(t *testing.T) {
	matcher := NewMatcher(2)
	got := matcher.distance([]rune("short"), []rune("verylongstring"))
	if got != matcher.maxDistance+1 {
		t.Errorf("expected cut-off distance %d, got %d", matcher.maxDistance+1, got)
	}
}

func TestFindSuggestions(t *testing.T) {
	got := FindSuggestions("--colr", []string{"--color", "--colour", "--cols", "--debug"}, 2, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 suggestions, got %v", got)
	}
	if got[0] != "--color" {
		t.Errorf("expected --color first, got %v", got)
	}

	if got := FindSuggestions("--colr", []string{"--debug"}, 2, 3); len(got) != 0 {
		t.Errorf("expected no suggestions, got %v", got)
	}
}

func BenchmarkFindBest(b *testing.B) {
	candidates := []string{"--string", "--short", "--verbose", "--version", "--output", "--input"}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = FindBest("--verbos", candidates, 2)
	}
}
