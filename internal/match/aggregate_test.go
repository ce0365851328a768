package match

import "testing"

func TestScoreIdenticalRecordsIsPerfectMatch(t *testing.T) {
	record := Record{
		Forenames: []string{"Anna"},
		Surnames:  []string{"Musterfrau"},
		BirthDate: []string{"1910-05-12"},
	}

	report := Score(record, record, Disregard{})

	if report.AbsoluteScore != 70 {
		t.Errorf("AbsoluteScore = %v, want 70", report.AbsoluteScore)
	}
	if report.RelativeScore != 1.0 {
		t.Errorf("RelativeScore = %v, want 1.0", report.RelativeScore)
	}
	if !report.AutomaticallyMatched {
		t.Errorf("AutomaticallyMatched = false, want true")
	}
}

func TestScoreDayMonthSwapStaysPositiveButImperfect(t *testing.T) {
	local := Record{
		Forenames: []string{"Anna"},
		Surnames:  []string{"Musterfrau"},
		BirthDate: []string{"1910-05-12"},
	}
	external := Record{
		Forenames: []string{"Anna"},
		Surnames:  []string{"Musterfrau"},
		BirthDate: []string{"1910-12-05"},
	}

	report := Score(local, external, Disregard{})

	if report.Forenames.Score != 1 {
		t.Errorf("Forenames.Score = %v, want 1", report.Forenames.Score)
	}
	if report.Surnames.Score != 1 {
		t.Errorf("Surnames.Score = %v, want 1", report.Surnames.Score)
	}
	if report.BirthDate.Score <= 0 || report.BirthDate.Score >= 1 {
		t.Errorf("BirthDate.Score = %v, want in (0,1)", report.BirthDate.Score)
	}
	if !report.AutomaticallyMatched {
		t.Errorf("AutomaticallyMatched = false, want true")
	}
}

func TestScoreUmlautSurnameMatchesAsciiTransliteration(t *testing.T) {
	local := Record{Surnames: []string{"Müller"}}
	external := Record{Surnames: []string{"Mueller"}}

	report := Score(local, external, Disregard{})

	if report.Surnames.Score != 1 {
		t.Errorf("Surnames.Score = %v, want 1", report.Surnames.Score)
	}
}

func TestScoreShortformForenameIsHighlySimilar(t *testing.T) {
	local := Record{Forenames: []string{"Alex"}}
	external := Record{Forenames: []string{"Alexander"}}

	report := Score(local, external, Disregard{})

	if report.Forenames.Score < 0.9 {
		t.Errorf("Forenames.Score = %v, want >= 0.9", report.Forenames.Score)
	}
}

func TestScoreDateRangeExcludingCounterpartIsNegative(t *testing.T) {
	local := Record{BirthDate: []string{">1940-01-01"}}
	external := Record{BirthDate: []string{"1935-06-01"}}

	report := Score(local, external, Disregard{})

	if report.BirthDate.Score != -1 {
		t.Errorf("BirthDate.Score = %v, want -1", report.BirthDate.Score)
	}
	if report.AutomaticallyMatched {
		t.Errorf("AutomaticallyMatched = true, want false")
	}
}

func TestScoreBirthPlaceUsesSmallerSideOverride(t *testing.T) {
	local := Record{BirthPlace: []string{"München"}}
	external := Record{BirthPlace: []string{"München / Bayern / Deutsches Reich"}}
	disregard := Disregard{BirthPlace: []string{"Deutsches", "Reich"}}

	report := Score(local, external, disregard)

	if report.BirthPlace.Score != 1 {
		t.Errorf("BirthPlace.Score = %v, want 1", report.BirthPlace.Score)
	}
}

func TestScoreSurnamesDisregardIsAppliedBySurnameDisregardField(t *testing.T) {
	local := Record{Surnames: []string{"Cohen"}}
	external := Record{Surnames: []string{"Cohen-Levy"}}
	disregard := Disregard{Surnames: []string{"Levy"}}

	report := Score(local, external, disregard)

	if report.Surnames.Score != 1 {
		t.Errorf("Surnames.Score = %v, want 1", report.Surnames.Score)
	}
}

func TestScoreDeathPlaceUsesDeathPlaceDisregardField(t *testing.T) {
	local := Record{DeathPlace: []string{"Dachau"}}
	external := Record{DeathPlace: []string{"Dachau / Bayern / Deutsches Reich"}}
	disregard := Disregard{DeathPlace: []string{"Deutsches", "Reich"}}

	report := Score(local, external, disregard)

	if report.DeathPlace.Score != 1 {
		t.Errorf("DeathPlace.Score = %v, want 1", report.DeathPlace.Score)
	}
}

func TestScoreMissingSideNeutrality(t *testing.T) {
	base := Record{
		Forenames: []string{"Anna"},
		Surnames:  []string{"Musterfrau"},
	}
	withExtra := base
	withExtra.DeathPlace = []string{"Dachau"}

	external := Record{
		Forenames: []string{"Anna"},
		Surnames:  []string{"Musterfrau"},
	}

	baseReport := Score(base, external, Disregard{})
	extraReport := Score(withExtra, external, Disregard{})

	if baseReport.AbsoluteScore != extraReport.AbsoluteScore {
		t.Errorf("AbsoluteScore changed when adding a one-sided field: %v -> %v", baseReport.AbsoluteScore, extraReport.AbsoluteScore)
	}
	if extraReport.MaxScoreReachableEither <= baseReport.MaxScoreReachableEither {
		t.Errorf("MaxScoreReachableEither did not increase: %v -> %v", baseReport.MaxScoreReachableEither, extraReport.MaxScoreReachableEither)
	}
}

func TestScoreDisregardStability(t *testing.T) {
	local := Record{Forenames: []string{"Anna"}}
	external := Record{Forenames: []string{"Anna"}}

	plain := Score(local, external, Disregard{})
	withUnrelatedDisregard := Score(local, external, Disregard{Forenames: []string{"Ruth"}})

	if plain.Forenames.Score != withUnrelatedDisregard.Forenames.Score {
		t.Errorf("Forenames.Score changed from unrelated disregard entry: %v -> %v", plain.Forenames.Score, withUnrelatedDisregard.Forenames.Score)
	}
}

func TestScoreFieldResultsStayInBounds(t *testing.T) {
	local := Record{
		Forenames:  []string{"Anna", "Anne"},
		Surnames:   []string{"Musterfrau", "Levy"},
		BirthPlace: []string{"München", "Bayern"},
		BirthDate:  []string{"1910-05-12"},
		DeathPlace: []string{"Dachau"},
		DeathDate:  []string{"1944-**-**"},
	}
	external := Record{
		Forenames:  []string{"Hannah"},
		Surnames:   []string{"Schmidt"},
		BirthPlace: []string{"Berlin"},
		BirthDate:  []string{"1912-01-01"},
		DeathPlace: []string{"Auschwitz"},
		DeathDate:  []string{"1944-07-**"},
	}

	report := Score(local, external, Disregard{})
	for _, fr := range report.Fields() {
		if fr.Score < -1 || fr.Score > 1 {
			t.Errorf("field %s score %v out of [-1,1]", fr.Field, fr.Score)
		}
	}
	if report.AbsoluteScore > report.MaxScoreReachable {
		t.Errorf("AbsoluteScore %v exceeds MaxScoreReachable %v", report.AbsoluteScore, report.MaxScoreReachable)
	}
}
