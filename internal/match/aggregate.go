package match

// Per-field max score contributions (§4.8), grounded on
// FORENAME_MAX_SCORE_CONTRIBUTION et al. in
// automatic_matching_functions.py.
const (
	forenameMaxScore   = 25.0
	surnameMaxScore    = 25.0
	birthPlaceMaxScore = 10.0
	birthDateMaxScore  = 20.0
	deathPlaceMaxScore = 10.0
	deathDateMaxScore  = 10.0

	minRequiredScoreForAutoMatching             = 60.0
	minTotalScoreForMatchWithPerfectRelative    = 50.0

	// MatchingAlgorithmVersion is the stable identifier carried on
	// every MatchReport, matching AUTOMATIC_MATCHING_ALGORITHM_VERSION_STRING.
	MatchingAlgorithmVersion = "2.7"
)

// Record is one side's raw field values, keyed exactly like the
// Python get_matching_score input: forenames/surnames/birth_place are
// free-form strings later tokenized into NameBags; birth_date and
// death_date are raw date strings consumed directly by the date
// matcher.
type Record struct {
	Forenames  []string
	Surnames   []string
	BirthPlace []string
	BirthDate  []string
	DeathPlace []string
	DeathDate  []string
}

// Disregard carries the optional values that must not, by themselves,
// count as a positive contribution for the corresponding multi-value
// field.
type Disregard struct {
	Forenames  []string
	Surnames   []string
	BirthPlace []string
	DeathPlace []string
}

// DefaultDisregard returns the original implementation's example
// convenience defaults (TTP_MATCHING_DEFAULT_DISREGARD_VALUES):
// forenames "Israel"/"Sarah"/"Sara" and birth place
// "Deutsches"/"Reich", two values so common in the source data that
// their presence alone should not drive an auto-match. Callers opt in
// explicitly; Score never applies a disregard set implicitly.
func DefaultDisregard() Disregard {
	return Disregard{
		Forenames:  []string{"Israel", "Sarah", "Sara"},
		BirthPlace: []string{"Deutsches", "Reich"},
	}
}

// Score compares a local and an external record and produces the
// complete MatchReport (§4.8). disregard may be the zero value (no
// values disregarded) or DefaultDisregard(), or any caller-supplied
// set.
func Score(local, external Record, disregard Disregard) MatchReport {
	var report MatchReport
	report.MatchingAlgorithmVersion = MatchingAlgorithmVersion

	var absoluteScore float64
	var maxScoreReachable float64
	var maxScoreReachableEither float64

	scoreMultiValue := func(field string, localValues, externalValues, disregardValues []string,
		isSurname, shortformAllowed bool, maxScore float64, preferSmallerSide bool) FieldResult {

		localBag := BuildNameBag(localValues, isSurname)
		externalBag := BuildNameBag(externalValues, isSurname)
		disregardBag := BuildNameBag(disregardValues, isSurname)

		result := FieldResult{Field: field}
		if len(localBag) > 0 {
			result.Local = localBag.Originals()
		}
		if len(externalBag) > 0 {
			result.External = externalBag.Originals()
		}

		if len(localBag) > 0 && len(externalBag) > 0 {
			result = matchBags(field, localBag, externalBag, disregardBag, shortformAllowed)
			if preferSmallerSide {
				result.Score = result.SmallerSideScore
			}
			result.MaxAbsoluteScore = maxScore
			result.AbsoluteScore = result.Score * maxScore
			maxScoreReachable += maxScore
			absoluteScore += result.AbsoluteScore
		}
		if len(localBag) > 0 || len(externalBag) > 0 {
			maxScoreReachableEither += maxScore
		}
		return result
	}

	scoreDateField := func(field string, localValues, externalValues []string, maxScore float64) FieldResult {
		result := FieldResult{Field: field, Local: localValues, External: externalValues}
		if len(localValues) > 0 && len(externalValues) > 0 {
			result = MatchDates(field, localValues, externalValues)
			result.MaxAbsoluteScore = maxScore
			result.AbsoluteScore = result.Score * maxScore
			maxScoreReachable += maxScore
			absoluteScore += result.AbsoluteScore
		}
		if len(localValues) > 0 || len(externalValues) > 0 {
			maxScoreReachableEither += maxScore
		}
		return result
	}

	report.Forenames = scoreMultiValue("forenames", local.Forenames, external.Forenames, disregard.Forenames, false, true, forenameMaxScore, false)
	report.Surnames = scoreMultiValue("surnames", local.Surnames, external.Surnames, disregard.Surnames, true, false, surnameMaxScore, false)
	report.BirthPlace = scoreMultiValue("birth_place", local.BirthPlace, external.BirthPlace, disregard.BirthPlace, false, true, birthPlaceMaxScore, true)
	report.BirthDate = scoreDateField("birth_date", local.BirthDate, external.BirthDate, birthDateMaxScore)
	report.DeathPlace = scoreMultiValue("death_place", local.DeathPlace, external.DeathPlace, disregard.DeathPlace, false, true, deathPlaceMaxScore, true)
	report.DeathDate = scoreDateField("death_date", local.DeathDate, external.DeathDate, deathDateMaxScore)

	report.AbsoluteScore = absoluteScore
	report.MaxScoreReachable = maxScoreReachable
	report.MaxScoreReachableEither = maxScoreReachableEither

	if maxScoreReachable > 0 {
		report.RelativeScore = absoluteScore / maxScoreReachable
	}
	if maxScoreReachableEither > 0 {
		report.TotalRelativeScore = absoluteScore / maxScoreReachableEither
	}

	report.AutomaticallyMatched = absoluteScore >= minRequiredScoreForAutoMatching
	if report.TotalRelativeScore == 1 && absoluteScore >= minTotalScoreForMatchWithPerfectRelative {
		report.AutomaticallyMatched = true
	}

	return report
}
