package match

import (
	"math"
	"sort"

	"biograph-match-engine/internal/match/editdist"
)

// exactMatchEpsilon is the ceiling under which a kept distance is
// treated as an exact/near-exact match, grounded on the
// `> 0.001` guard in match_against_local_data: a disregard-bag member
// is only dropped from aggregation when its best distance is not
// already this close to perfect.
const exactMatchEpsilon = 0.001

// matchBags compares two NameBags (local, external) under an optional
// DisregardBag and returns the FieldResult for one multi-value field
// (§4.6). shortformAllowed enables the shortened-name relaxation in
// the underlying pairwise similarity.
//
// Grounded on match_against_local_data in
// automatic_matching_functions.py.
func matchBags(field string, local, external NameBag, disregard DisregardBag, shortformAllowed bool) FieldResult {
	largerBag, smallerBag := external, local
	largerIsLocal := false
	if len(local) > len(external) {
		largerBag, smallerBag = local, external
		largerIsLocal = true
	}

	largerKeys := sortedKeys(largerBag)
	smallerKeys := sortedKeys(smallerBag)
	largerOriginals := sortedOriginals(largerBag)
	smallerOriginals := sortedOriginals(smallerBag)

	largerNormScores := bestDistances(largerKeys, smallerKeys, shortformAllowed)
	smallerNormScores := bestDistances(smallerKeys, largerKeys, shortformAllowed)
	largerOrigScores := bestDistances(largerOriginals, smallerOriginals, shortformAllowed)
	smallerOrigScores := bestDistances(smallerOriginals, largerOriginals, shortformAllowed)

	disregardNorm := disregard.Keys()
	disregardOrig := disregard.Originals()

	largerNormKept := applyDisregard(largerKeys, largerNormScores, disregardNorm)
	smallerNormKept := applyDisregard(smallerKeys, smallerNormScores, disregardNorm)
	largerOrigKept := applyDisregard(largerOriginals, largerOrigScores, disregardOrig)
	smallerOrigKept := applyDisregard(smallerOriginals, smallerOrigScores, disregardOrig)

	largerScore := sideScore(largerNormKept, largerOrigKept)
	smallerScore := sideScore(smallerNormKept, smallerOrigKept)

	lengthDiff := len(largerKeys) - len(smallerKeys)

	var composite float64
	if len(local) == len(external) {
		composite = (smallerScore + largerScore) / 2
	} else {
		composite = (4*smallerScore + largerScore) / 5
	}

	disregardedTokens := collectDisregarded(largerKeys, disregardNorm)
	disregardedTokens = append(disregardedTokens, collectDisregarded(smallerKeys, disregardNorm)...)

	return FieldResult{
		Field:            field,
		Compared:         true,
		Score:            composite,
		Local:            local.Originals(),
		External:         external.Originals(),
		Disregarded:      disregardedTokens,
		SmallerSideScore: smallerScore,
		LargerSideScore:  largerScore,
		SmallerIsLocal:   !largerIsLocal,
		LengthDifference: lengthDiff,
	}
}

// bestDistances computes, for every key in subject, its minimum
// tokenDistance against candidates, short-circuiting to 0 the moment
// an exact (Damerau-Levenshtein zero) match against any candidate is
// found.
func bestDistances(subject, candidates []string, shortformAllowed bool) map[string]float64 {
	result := make(map[string]float64, len(subject))
	for _, s := range subject {
		if hasExactMatch(s, candidates) {
			result[s] = 0
			continue
		}
		best := 1.0
		for _, c := range candidates {
			d := tokenDistance(s, c, shortformAllowed)
			if d < best {
				best = d
			}
			if d == 0 {
				break
			}
		}
		if len(candidates) == 0 {
			best = 1
		}
		result[s] = best
	}
	return result
}

func hasExactMatch(s string, candidates []string) bool {
	for _, c := range candidates {
		if editdist.Damerau(s, c) == 0 {
			return true
		}
	}
	return false
}

// applyDisregard filters out disregard-bag members from the kept
// distance set, unless doing so would empty the side entirely or the
// member's best distance is already near-perfect.
func applyDisregard(keys []string, scores map[string]float64, disregard []string) []float64 {
	disregardSet := make(map[string]bool, len(disregard))
	for _, d := range disregard {
		disregardSet[d] = true
	}

	matching := 0
	for _, k := range keys {
		if disregardSet[k] {
			matching++
		}
	}

	kept := make([]float64, 0, len(keys))
	for _, k := range keys {
		if len(disregard) > 0 && matching < len(keys) {
			if disregardSet[k] && scores[k] > exactMatchEpsilon {
				continue
			}
		}
		kept = append(kept, scores[k])
	}
	if len(kept) == 0 {
		// never aggregate over an empty side: fall back to the
		// unfiltered distances rather than produce a NaN mean/max.
		for _, k := range keys {
			kept = append(kept, scores[k])
		}
	}
	return kept
}

func collectDisregarded(keys []string, disregard []string) []string {
	disregardSet := make(map[string]bool, len(disregard))
	for _, d := range disregard {
		disregardSet[d] = true
	}
	var out []string
	for _, k := range keys {
		if disregardSet[k] {
			out = append(out, k)
		}
	}
	return out
}

// sideScore folds the normalized- and original-surface kept distances
// for one side into a single cosine-shaped score.
func sideScore(normalized, original []float64) float64 {
	meanNorm, maxNorm := meanMax(normalized)
	meanOrig, maxOrig := meanMax(original)
	x := (8*meanNorm + 4*maxNorm + 2*meanOrig + maxOrig) / 15
	return math.Cos(math.Pi * x)
}

func meanMax(values []float64) (mean, max float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	return sum / float64(len(sorted)), sorted[len(sorted)-1]
}

func sortedKeys(bag NameBag) []string {
	keys := bag.Keys()
	sort.Strings(keys)
	return keys
}

func sortedOriginals(bag NameBag) []string {
	originals := bag.Originals()
	sort.Strings(originals)
	return originals
}
