// Package suggest finds close matches for misspelled command and argument names.
package suggest

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// MaxDistance is the largest edit distance still offered as a suggestion.
const MaxDistance = 2

// Distance returns the Levenshtein distance between a and b.
func Distance(a, b string) int {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	return dmp.DiffLevenshtein(diffs)
}

// Closest returns the candidate nearest to target within MaxDistance.
// Ties keep the earliest candidate. Exact matches are not suggestions.
func Closest(target string, candidates []string) (string, bool) {
	best, bestDistance := "", MaxDistance+1
	for _, c := range candidates {
		if c == target {
			continue
		}
		if d := Distance(target, c); d < bestDistance {
			best, bestDistance = c, d
		}
	}
	return best, best != ""
}
