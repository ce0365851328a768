// Package editdist provides the edit-distance primitives the matching
// engine builds on: plain Levenshtein distance, Damerau-Levenshtein
// distance (adjacent transpositions included), and a partial-ratio
// helper used by the shortform relaxation in the similarity stage.
package editdist

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// Levenshtein returns the classic edit distance (insertions, deletions,
// substitutions) between a and b.
func Levenshtein(a, b string) int {
	return matchr.Levenshtein(a, b)
}

// Damerau returns the Damerau-Levenshtein distance between a and b,
// counting adjacent transpositions as a unit-cost operation alongside
// insertions, deletions and substitutions.
func Damerau(a, b string) int {
	return matchr.DamerauLevenshtein(a, b)
}

// PartialRatio approximates rapidfuzz's fuzz.partial_ratio: it finds the
// best-aligned substring of the longer string against the shorter one
// and scores the pair on a 0-100 scale, where 100 means the shorter
// string occurs (or nearly occurs) verbatim inside the longer one.
//
// This is used only for the shortform relaxation in the pairwise token
// similarity function (§4.5 step 5a), where a short phonetic code needs
// a secondary signal before it is allowed to promote a match to a
// perfect score.
func PartialRatio(a, b string) float64 {
	if len(a) == 0 || len(b) == 0 {
		if len(a) == len(b) {
			return 100
		}
		return 0
	}

	shorter, longer := a, b
	if len(a) > len(b) {
		shorter, longer = b, a
	}

	best := 0.0
	ls := len(shorter)
	ll := len(longer)
	for start := 0; start <= ll-ls || start == 0; start++ {
		end := start + ls
		if end > ll {
			end = ll
		}
		window := longer[start:end]
		dist := matchr.Levenshtein(shorter, window)
		maxLen := ls
		if len(window) > maxLen {
			maxLen = len(window)
		}
		ratio := 100.0
		if maxLen > 0 {
			ratio = 100.0 * (1 - float64(dist)/float64(maxLen))
		}
		if ratio > best {
			best = ratio
		}
		if end == ll {
			break
		}
	}
	return best
}

// TokenContainmentRatio is a convenience wrapper applying PartialRatio
// over lower-cased inputs, matching the original implementation's use
// of fuzz.partial_ratio(val_1.lower(), val_2.lower()).
func TokenContainmentRatio(a, b string) float64 {
	return PartialRatio(strings.ToLower(a), strings.ToLower(b))
}
