//nolint:testpackage // using package name 'fuzzy' to access unexported helpers for testing
package fuzzy

import (
	"testing"
)

func TestRanker_Best(t *testing.T) {
	r := NewRanker(2)

	tests := []struct {
		name       string
		input      string
		candidates []string
		expected   string
	}{
		{
			name:       "exact match excluded",
			input:      "build",
			candidates: []string{"build", "test", "deploy"},
			expected:   "",
		},
		{
			name:       "simple typo",
			input:      "biuld",
			candidates: []string{"build", "test", "deploy"},
			expected:   "build",
		},
		{
			name:       "too far",
			input:      "xyz",
			candidates: []string{"build", "test"},
			expected:   "",
		},
		{
			name:       "too short",
			input:      "b",
			candidates: []string{"build", "bu"},
			expected:   "",
		},
		{
			name:       "case insensitive",
			input:      "TEST",
			candidates: []string{"tests", "deploy"},
			expected:   "tests",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Best(tt.input, tt.candidates)
			if got != tt.expected {
				t.Errorf("Best(%q, %v) = %q, want %q", tt.input, tt.candidates, got, tt.expected)
			}
		})
	}
}

func TestRanker_Trim(t *testing.T) {
	r := NewRanker(2).Trim("-")
	got := r.Best("--verbos", []string{"--verbose", "--version", "-v"})
	if got != "--verbose" {
		t.Errorf("Expected --verbose, got %q", got)
	}
}

func TestRanker_RankOrdering(t *testing.T) {
	ranked := NewRanker(2).Rank("stat", []string{"start", "status", "stop"})
	if len(ranked) == 0 {
		t.Fatal("Expected matches")
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i-1].Score < ranked[i].Score {
			t.Errorf("Expected descending scores, got %v", ranked)
		}
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b  string
		limit int
		want  int
	}{
		{"", "abc", -1, 3},
		{"abc", "abc", -1, 0},
		{"kitten", "sitting", -1, 3},
		{"kitten", "sitting", 1, 2},
		{"a", "abcdef", 2, 3},
		{"héllo", "hello", -1, 1},
	}
	for _, tt := range tests {
		if got := Distance(tt.a, tt.b, tt.limit); got != tt.want {
			t.Errorf("Distance(%q, %q, %d) = %d, want %d", tt.a, tt.b, tt.limit, got, tt.want)
		}
	}
}

func TestSuggestOption(t *testing.T) {
	options := []string{"--keyword", "-k", "--count"}
	if got := SuggestOption("--keywrd=foo", "-", options); got != "--keyword" {
		t.Errorf("Expected --keyword, got %q", got)
	}
	if got := SuggestOption("--zzzzzz", "-", options); got != "" {
		t.Errorf("Expected no suggestion, got %q", got)
	}
}
