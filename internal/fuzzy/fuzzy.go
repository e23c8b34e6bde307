// Package fuzzy ranks declared option strings and subcommand names against a
// mistyped token. Used by clap for "did you mean" hints on unrecognized
// options and unknown subcommands.
package fuzzy

import (
	"sort"
	"strings"
)

// DefaultDistance is the edit distance used by Suggest.
const DefaultDistance = 2

// Ranker scores candidates by edit distance with bonuses for shared prefixes
// and similar length.
type Ranker struct {
	maxDistance int
	minLength   int
	trim        string
}

// NewRanker creates a ranker accepting candidates up to maxDistance edits away.
func NewRanker(maxDistance int) *Ranker {
	return &Ranker{
		maxDistance: maxDistance,
		minLength:   2,
	}
}

// Trim sets characters stripped from the front of both input and candidates
// before comparing, so "--verbos" and "--verbose" compare as "verbos"/"verbose".
func (r *Ranker) Trim(prefixChars string) *Ranker {
	r.trim = prefixChars
	return r
}

// Candidate is one ranked suggestion.
type Candidate struct {
	Value    string
	Distance int
	Score    float64
}

// Best returns the highest ranked candidate or "" when none is close enough.
func (r *Ranker) Best(input string, candidates []string) string {
	ranked := r.Rank(input, candidates)
	if len(ranked) == 0 {
		return ""
	}
	return ranked[0].Value
}

// Rank returns candidates within the distance limit, best first. Exact
// (case-insensitive) matches are not suggestions and are skipped.
func (r *Ranker) Rank(input string, candidates []string) []Candidate {
	in := strings.ToLower(strings.TrimLeft(input, r.trim))
	if len(in) < r.minLength {
		return nil
	}

	var out []Candidate
	for _, c := range candidates {
		cand := strings.ToLower(strings.TrimLeft(c, r.trim))
		if cand == in || cand == "" {
			continue
		}
		d := Distance(in, cand, r.maxDistance)
		if d > r.maxDistance {
			continue
		}
		out = append(out, Candidate{Value: c, Distance: d, Score: score(in, cand, d)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score == out[j].Score {
			return out[i].Distance < out[j].Distance
		}
		return out[i].Score > out[j].Score
	})
	return out
}

func score(a, b string, distance int) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}
	s := 1 - float64(distance)/float64(longest)

	shortest := min(len(a), len(b))
	if p := commonPrefix(a, b); p > 0 && shortest > 0 {
		s += float64(p) / float64(shortest) * 0.3
	}

	diff := len(a) - len(b)
	if diff < 0 {
		diff = -diff
	}
	s += (1 - float64(diff)/float64(longest)) * 0.2

	if s > 1 {
		s = 1
	}
	return s
}

func commonPrefix(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// Distance computes the Levenshtein distance between a and b over runes. Once
// every cell of a row exceeds limit it stops and returns limit+1; a negative
// limit disables the cutoff.
func Distance(a, b string, limit int) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(ra) == 0 {
		return len(rb)
	}
	if limit >= 0 && len(rb)-len(ra) > limit {
		return limit + 1
	}

	prev := make([]int, len(ra)+1)
	cur := make([]int, len(ra)+1)
	for i := range prev {
		prev[i] = i
	}

	for i := 1; i <= len(rb); i++ {
		cur[0] = i
		rowMin := i
		for j := 1; j <= len(ra); j++ {
			cost := 1
			if ra[j-1] == rb[i-1] {
				cost = 0
			}
			cur[j] = min(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
			rowMin = min(rowMin, cur[j])
		}
		if limit >= 0 && rowMin > limit {
			return limit + 1
		}
		prev, cur = cur, prev
	}
	return prev[len(ra)]
}

// Suggest returns the closest candidate using DefaultDistance.
func Suggest(input string, candidates []string) string {
	return NewRanker(DefaultDistance).Best(input, candidates)
}

// SuggestOption ranks an option-looking token against declared option
// strings. Any "=value" suffix is ignored and prefix characters are trimmed.
func SuggestOption(token, prefixChars string, options []string) string {
	if i := strings.IndexByte(token, '='); i >= 0 {
		token = token[:i]
	}
	return NewRanker(DefaultDistance).Trim(prefixChars).Best(token, options)
}
