package match

import "testing"

func TestMatchBagsIdenticalSingleTokenBagsIsPerfect(t *testing.T) {
	local := NameBag{"anna": {"Anna"}}
	external := NameBag{"anna": {"Anna"}}

	result := matchBags("forenames", local, external, nil, true)

	if result.Score != 1 {
		t.Errorf("Score = %v, want 1", result.Score)
	}
	if result.SmallerSideScore != 1 || result.LargerSideScore != 1 {
		t.Errorf("side scores = %v/%v, want 1/1", result.SmallerSideScore, result.LargerSideScore)
	}
	if result.LengthDifference != 0 {
		t.Errorf("LengthDifference = %d, want 0", result.LengthDifference)
	}
}

func TestMatchBagsCompletelyDisjointBagsScoresLow(t *testing.T) {
	local := NameBag{"anna": {"Anna"}}
	external := NameBag{"zzz": {"Zzz"}}

	result := matchBags("forenames", local, external, nil, true)

	if result.Score > 0 {
		t.Errorf("Score = %v, want <= 0 for disjoint bags", result.Score)
	}
}

func TestMatchBagsEqualSizeTieGoesToExternalAsLarger(t *testing.T) {
	local := NameBag{"anna": {"Anna"}}
	external := NameBag{"anne": {"Anne"}}

	result := matchBags("forenames", local, external, nil, true)

	if !result.SmallerIsLocal {
		t.Errorf("SmallerIsLocal = false, want true (equal-size tie designates external as the larger side)")
	}
	if result.LengthDifference != 0 {
		t.Errorf("LengthDifference = %d, want 0", result.LengthDifference)
	}
}

func TestMatchBagsStrictlyLargerLocalSideIsDesignatedLarger(t *testing.T) {
	local := NameBag{"anna": {"Anna"}, "anne": {"Anne"}}
	external := NameBag{"anna": {"Anna"}}

	result := matchBags("forenames", local, external, nil, true)

	if result.SmallerIsLocal {
		t.Errorf("SmallerIsLocal = true, want false (local has strictly more tokens, so it is the larger side)")
	}
	if result.LengthDifference != 1 {
		t.Errorf("LengthDifference = %d, want 1", result.LengthDifference)
	}
}

func TestMatchBagsDisregardDoesNotEmptyASide(t *testing.T) {
	local := NameBag{"israel": {"Israel"}}
	external := NameBag{"israel": {"Israel"}}
	disregard := DisregardBag{"israel": {"Israel"}}

	result := matchBags("forenames", local, external, disregard, true)

	if result.Score != 1 {
		t.Errorf("Score = %v, want 1 (exact match, disregard should not hollow out the only token)", result.Score)
	}
}

func TestApplyDisregardKeepsNearExactMatchesDespiteDisregardSet(t *testing.T) {
	keys := []string{"israel", "anna"}
	scores := map[string]float64{"israel": 0, "anna": 0.4}
	kept := applyDisregard(keys, scores, []string{"israel"})

	if len(kept) != 2 {
		t.Fatalf("applyDisregard dropped a near-exact disregard match, kept %v", kept)
	}
}
