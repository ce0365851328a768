package match

import (
	"strings"

	"biograph-match-engine/internal/match/editdist"
	"biograph-match-engine/internal/match/phonetic"
)

// tokenDistance computes the pairwise similarity of two raw token
// values as a *distance* in [0,1] (0 = perfect match), combining
// Double-Metaphone phonetic similarity with Damerau-Levenshtein
// similarity on the lowercased originals. shortformAllowed enables the
// shortened-name relaxation (e.g. "Alex" vs "Alexander").
//
// Grounded on get_doublemetaphone_matching_score in
// automatic_matching_functions.py.
func tokenDistance(a, b string, shortformAllowed bool) float64 {
	minLen := minInt(len([]rune(a)), len([]rune(b)))
	if minLen == 0 {
		return 0
	}

	dmA := phonetic.DoubleMetaphone(a)
	dmB := phonetic.DoubleMetaphone(b)

	minPrimaryLen := maxInt(minInt(len(dmA.Primary), len(dmB.Primary)), 1)
	minAltLen := maxInt(minInt(len(dmA.Alternate), len(dmB.Alternate)), 1)

	simPrimary := maxFloat(1-float64(editdist.Levenshtein(dmA.Primary, dmB.Primary))/float64(minPrimaryLen), 0)
	simAlt := maxFloat(1-float64(editdist.Levenshtein(dmA.Alternate, dmB.Alternate))/float64(minAltLen), 0)

	lowerA, lowerB := strings.ToLower(a), strings.ToLower(b)
	simDamerau := maxFloat(1-float64(editdist.Damerau(lowerA, lowerB))/float64(minLen), 0)

	if shortformAllowed && isPrefixPair(dmA.Primary, dmB.Primary, minPrimaryLen) &&
		isPrefixPair(dmA.Alternate, dmB.Alternate, minAltLen) {
		if minPrimaryLen <= 2 || minAltLen <= 2 {
			if editdist.TokenContainmentRatio(lowerA, lowerB) >= 85 {
				simPrimary, simAlt = 1, 1
			}
		} else {
			simPrimary, simAlt = 1, 1
		}
	}

	m := (simPrimary + simAlt) / 2
	if m < 1 {
		return 1 - (m+simDamerau)/2
	}
	return 1 - (3*m+simDamerau)/4
}

// isPrefixPair reports whether the shorter of two phonetic codes is a
// prefix of the longer one and that prefix spans the shorter code's
// full, floor-1 length. This stands in for the original's
// difflib.SequenceMatcher matching-blocks check ("the first matching
// block covers the full length of the shorter code and the second
// matching block is empty"), which in practice fires exactly when one
// code is a literal prefix of the other.
func isPrefixPair(a, b string, minLen int) bool {
	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == 0 {
		return minLen <= 1
	}
	return strings.HasPrefix(longer, shorter)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
