package resolver

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Similarity scores how alike two symptom tokens are, in [0, 1].
// It is pluggable so the matching algorithm can be swapped without touching
// the resolver's staging.
type Similarity interface {
	Score(a, b string) float64
}

// EditSimilarity scores tokens by Levenshtein distance normalized against
// the longer token: identical tokens score 1, disjoint tokens approach 0.
type EditSimilarity struct{}

// Score implements Similarity.
func (EditSimilarity) Score(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 1
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(longest)
}
