// Package fuzzy ranks declared option names against a mistyped one.
// Used by the getopt parser to attach a "did you mean" hint to
// unrecognized long options.
package fuzzy

import (
	"sort"
	"strings"
)

// Matcher finds option names within a bounded edit distance.
type Matcher struct {
	maxDistance int
	minLength   int
}

// NewMatcher creates a matcher that accepts candidates up to maxDistance
// edits away from the input.
func NewMatcher(maxDistance int) *Matcher {
	return &Matcher{
		maxDistance: maxDistance,
		minLength:   2, // one-letter options are never suggested for
	}
}

// Match is a ranked candidate.
type Match struct {
	Name     string
	Distance int
	Prefix   int // length of the common prefix with the input
}

// Closest returns the best candidate for input, or "" when nothing is close.
func (m *Matcher) Closest(input string, candidates []string) string {
	matches := m.Rank(input, candidates)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Name
}

// Rank returns every candidate within reach of input, best first. Exact
// matches (ignoring case) and candidates shorter than two letters are skipped.
func (m *Matcher) Rank(input string, candidates []string) []Match {
	if len(input) < m.minLength {
		return nil
	}
	input = strings.ToLower(input)

	var matches []Match
	seen := make(map[string]bool, len(candidates))
	for _, candidate := range candidates {
		if len(candidate) < m.minLength || seen[candidate] {
			continue
		}
		seen[candidate] = true

		lowered := strings.ToLower(candidate)
		if lowered == input {
			continue
		}
		distance := m.distance(input, lowered)
		if distance > m.maxDistance {
			continue
		}
		matches = append(matches, Match{
			Name:     candidate,
			Distance: distance,
			Prefix:   commonPrefix(input, lowered),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Prefix > matches[j].Prefix
	})
	return matches
}

// distance is the Levenshtein distance between a and b, cut short at
// maxDistance+1 once no alignment can stay within the bound.
func (m *Matcher) distance(a, b string) int {
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

	previous := make([]int, len(a)+1)
	current := make([]int, len(a)+1)
	for i := range previous {
		previous[i] = i
	}

	for i := 1; i <= len(b); i++ {
		current[0] = i
		rowMin := i
		for j := 1; j <= len(a); j++ {
			cost := 1
			if a[j-1] == b[i-1] {
				cost = 0
			}
			current[j] = min(current[j-1]+1, previous[j]+1, previous[j-1]+cost)
			rowMin = min(rowMin, current[j])
		}
		if rowMin > m.maxDistance {
			return m.maxDistance + 1
		}
		previous, current = current, previous
	}

	return previous[len(a)]
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

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// FindBestOption returns the closest option name to input.
func FindBestOption(input string, names []string, maxDistance int) string {
	return NewMatcher(maxDistance).Closest(input, names)
}

// FindSuggestions returns up to limit option names close to input.
func FindSuggestions(input string, names []string, maxDistance, limit int) []string {
	matches := NewMatcher(maxDistance).Rank(input, names)
	suggestions := make([]string, 0, min(len(matches), limit))
	for _, match := range matches {
		if len(suggestions) == limit {
			break
		}
		suggestions = append(suggestions, match.Name)
	}
	return suggestions
}
