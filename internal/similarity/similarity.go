// Package similarity provides the single string-similarity primitive shared by
// every venue and author matcher.
package similarity

import (
	"github.com/hbollon/go-edlib"
)

// FuzzyThreshold is the global acceptance threshold for fuzzy matches.
const FuzzyThreshold = 0.90

// Score returns the Jaro-Winkler similarity of a and b in [0, 1].
// Jaro alignment is symmetric; the Winkler prefix bonus rewards a shared
// prefix of up to four runes. Empty input always scores 0.
func Score(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	return float64(edlib.JaroWinklerSimilarity(a, b))
}

// Match is the best-scoring candidate from Best.
type Match struct {
	Index int // position in the candidate slice, -1 when nothing scored
	Score float64
}

// Best scores query against every candidate and returns the highest score.
// Ties keep the first candidate seen.
func Best(query string, candidates []string) Match {
	best := Match{Index: -1}
	for i, c := range candidates {
		s := Score(query, c)
		if s > best.Score {
			best = Match{Index: i, Score: s}
		}
	}
	return best
}

// Accept reports whether a score clears the global fuzzy threshold.
func Accept(score float64) bool {
	return score >= FuzzyThreshold
}
