package match

import (
	"math"
	"strconv"
	"strings"
	"time"

	"biograph-match-engine/internal/match/editdist"
)

// monthDayWeights/monthDayMultipliers and yearWeights/yearMultipliers
// are the prefix-penalty tables from get_date_sequences /
// match_date_against_local_date: index 0 is the canonical sequence
// (no penalty, multiplier 1); later indices are degraded variants
// (day/month swap, OCR normalization, fuzzy widening) penalized by a
// fixed weight and scaled edit distance.
var (
	monthDayWeights     = [5]float64{0, 0.5, 0.75, 0, 0}
	monthDayMultipliers = [5]float64{1, 6, 6, 6, 6}
	yearWeights         = [2]float64{0, 0.75}
	yearMultipliers     = [2]float64{1, 2}
)

// dateComparisonByTimedeltaMaxDays is the divisor that turns an
// absolute day difference into a [0,1]-ish timedelta_score.
const dateComparisonByTimedeltaMaxDays = 4.0

// FuzzyDate is one parsed date component triple, prior to threshold or
// sequence derivation (§3).
type FuzzyDate struct {
	Year  string // digits only, threshold sign stripped
	Month string // 2-char digit string, or a fuzzy marker such as "**"
	Day   string // 2-char digit string, or a fuzzy marker such as "**"
}

type parsedDate struct {
	date        FuzzyDate
	hasDateTime bool
	from, to    time.Time
	monthDaySeq [5]string
	yearSeq     [2]string
}

type dateThresholds struct {
	min *time.Time
	max *time.Time
}

// DateSet is a parsed collection of raw date strings: the enumerable
// dates plus any open-ended threshold bounds contributed by `<`/`>`
// forms (§3).
type DateSet struct {
	dates      []parsedDate
	thresholds dateThresholds
}

// parseDateComponents splits one raw date string into year/month/day,
// requiring exactly 3 hyphen-separated components with the year 4-5
// chars and month/day 2 chars each.
func parseDateComponents(raw string) (year, month, day string, ok bool) {
	parts := strings.Split(raw, "-")
	if len(parts) != 3 {
		return "", "", "", false
	}
	year, month, day = parts[0], parts[1], parts[2]
	if l := len(year); l != 4 && l != 5 {
		return "", "", "", false
	}
	if len(month) != 2 || len(day) != 2 {
		return "", "", "", false
	}
	return year, month, day, true
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// coerceForDateMath fills a fuzzy month/day with "01" for range
// arithmetic and reports how far the resulting envelope should be
// widened: a fuzzy month widens by a year, a fuzzy day (with a real
// month) widens by a month, and a real day/month pair widens to the
// end of that calendar day.
func coerceForDateMath(month, day string) (monthDigits, dayDigits string, addYears, addMonths int, addEndOfDay bool) {
	monthDigits = month
	if !isAllDigits(month) {
		monthDigits = "01"
		addYears = 1
	} else if len(month) == 1 {
		monthDigits = "0" + month
	}

	dayDigits = day
	if !isAllDigits(day) {
		dayDigits = "01"
		if addYears == 0 {
			addMonths = 1
		}
	} else {
		if len(day) == 1 {
			dayDigits = "0" + day
		}
		addEndOfDay = true
	}
	return
}

// ParseDateSet parses a list of raw date strings into the enumerable
// dates and any open-ended thresholds they imply (§4.7 parsing rules).
func ParseDateSet(raws []string) DateSet {
	var set DateSet
	for _, raw := range raws {
		year, month, day, ok := parseDateComponents(raw)
		if !ok {
			continue
		}

		monthDigits, dayDigits, addYears, addMonths, addEndOfDay := coerceForDateMath(month, day)

		switch {
		case strings.HasPrefix(year, ">"):
			yearDigits := year[1:]
			if !isAllDigits(yearDigits) {
				continue
			}
			from, ok := buildTime(yearDigits, monthDigits, dayDigits)
			if !ok {
				continue
			}
			if set.thresholds.min == nil || from.Before(*set.thresholds.min) {
				t := from
				set.thresholds.min = &t
			}
		case strings.HasPrefix(year, "<"):
			yearDigits := year[1:]
			if !isAllDigits(yearDigits) {
				continue
			}
			from, ok := buildTime(yearDigits, monthDigits, dayDigits)
			if !ok {
				continue
			}
			envelopeEnd := widen(from, addYears, addMonths, addEndOfDay)
			if set.thresholds.max == nil || envelopeEnd.After(*set.thresholds.max) {
				t := envelopeEnd
				set.thresholds.max = &t
			}
		case isAllDigits(year):
			from, ok := buildTime(year, monthDigits, dayDigits)
			if !ok {
				continue
			}
			to := widen(from, addYears, addMonths, addEndOfDay)
			pd := parsedDate{
				date:        FuzzyDate{Year: year, Month: month, Day: day},
				hasDateTime: true,
				from:        from,
				to:          to,
			}
			pd.monthDaySeq, pd.yearSeq = dateSequences(pd.date)
			set.dates = append(set.dates, pd)
		default:
			continue
		}
	}
	return set
}

// daysInMonth returns the number of calendar days in the given month
// of the given year, accounting for leap years.
func daysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// buildTime parses year/month/day into a time.Time, rejecting any
// combination that is not a real calendar date (§4.7 case 3) the same
// way the original source's datetime.datetime(...) construction,
// wrapped in try/except: pass, silently drops an out-of-range day
// rather than letting it roll over into the following month.
func buildTime(year, month, day string) (time.Time, bool) {
	y, err1 := strconv.Atoi(year)
	m, err2 := strconv.Atoi(month)
	d, err3 := strconv.Atoi(day)
	if err1 != nil || err2 != nil || err3 != nil || m < 1 || m > 12 || d < 1 || d > daysInMonth(y, m) {
		return time.Time{}, false
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC), true
}

func widen(from time.Time, addYears, addMonths int, addEndOfDay bool) time.Time {
	to := from.AddDate(addYears, addMonths, 0)
	if addEndOfDay {
		to = to.Add(23*time.Hour + 59*time.Minute)
	}
	return to
}

// dateSequences computes the month/day and year degraded-match
// sequences for one parsed date, mirroring get_date_sequences.
func dateSequences(d FuzzyDate) ([5]string, [2]string) {
	normalizedYear := ocr7to1(d.Year)
	if n, err1 := strconv.Atoi(normalizedYear); err1 == nil {
		if y, err2 := strconv.Atoi(d.Year); err2 == nil {
			if abs(n-y) > 10 {
				normalizedYear = d.Year
			}
		}
	}
	normalizedMonth := ocr7to1(d.Month)
	normalizedDay := ocr7to1(d.Day)

	monthDay := [5]string{
		d.Month + "-" + d.Day,
		d.Day + "-" + d.Month,
		normalizedMonth + "-" + normalizedDay,
		d.Month + "-**",
		"**-**",
	}

	year := [2]string{d.Year, swapLastTwoDigits(d.Year)}
	return monthDay, year
}

func ocr7to1(s string) string {
	return strings.ReplaceAll(s, "7", "1")
}

func swapLastTwoDigits(year string) string {
	if len(year) < 4 {
		return year
	}
	return year[:2] + string(year[3]) + string(year[2])
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// MatchDates compares two lists of raw date strings and returns the
// FieldResult for a date field (§4.7).
func MatchDates(field string, localRaw, externalRaw []string) FieldResult {
	local := ParseDateSet(localRaw)
	external := ParseDateSet(externalRaw)

	base := FieldResult{Field: field, Local: localRaw, External: externalRaw}

	localIsRange := local.thresholds.min != nil || local.thresholds.max != nil
	externalIsRange := external.thresholds.min != nil || external.thresholds.max != nil

	if localIsRange && externalIsRange {
		return rangeVsRange(base, local.thresholds, external.thresholds)
	}

	if localIsRange && !externalIsRange {
		return rangeVsDates(base, local.thresholds, external.dates, false)
	}
	if externalIsRange && !localIsRange {
		return rangeVsDates(base, external.thresholds, local.dates, true)
	}

	if len(local.dates) > 0 && len(external.dates) > 0 {
		return datesVsDates(base, local.dates, external.dates)
	}

	base.Compared = true
	base.Info = "Could not compare"
	base.Score = 0
	return base
}

// daterangeAsString renders a threshold pair the way daterange_as_string
// does in the original source: a closed range as "min <= X <= max", an
// open-ended one as "min <= X" or "X <= max", and an empty pair as " - ".
func daterangeAsString(t dateThresholds) string {
	switch {
	case t.min != nil && t.max != nil:
		return t.min.Format("2006-01-02") + " <= X <= " + t.max.Format("2006-01-02")
	case t.min != nil:
		return t.min.Format("2006-01-02") + " <= X"
	case t.max != nil:
		return "X <= " + t.max.Format("2006-01-02")
	default:
		return " - "
	}
}

// rangeVsRange handles case 1: both sides are pure open-ended ranges.
// The disjointness check uses strict inequality, reproduced as-is from
// the original (§9): two ranges that exactly touch at a boundary count
// as overlapping, not disjoint. On a disjoint verdict, Info carries the
// same '!'/'!>' exceeded-range markers as match_date_against_local_date.
func rangeVsRange(base FieldResult, local, external dateThresholds) FieldResult {
	compared := false
	var localMarker, externalMarker string

	if local.min != nil && external.max != nil {
		compared = true
		if local.min.After(*external.max) {
			localMarker, externalMarker = "!> ", "! "
		}
	}
	if local.max != nil && external.min != nil {
		compared = true
		if local.max.Before(*external.min) {
			localMarker, externalMarker = "! ", "!> "
		}
	}

	base.Compared = true
	switch {
	case compared && localMarker == "":
		base.Score = 1
		base.Info = "local: " + daterangeAsString(local) + "; external: " + daterangeAsString(external)
	case compared:
		base.Score = -1
		base.Info = "local: " + localMarker + daterangeAsString(local) + "; external: " + externalMarker + daterangeAsString(external)
	default:
		base.Info = "Could not compare"
		base.Score = 0
	}
	return base
}

// rangeVsDates handles case 2: one side is a pure range, the other
// enumerable. rangeIsExternal indicates which side owns the threshold.
// Info lists each compared date against the range, marking the ones
// that fall outside it with '!', the same diagnostic shape as
// datetime_range_matches_date's match/non_match entries.
func rangeVsDates(base FieldResult, thresholds dateThresholds, dates []parsedDate, rangeIsExternal bool) FieldResult {
	base.Compared = true
	if len(dates) == 0 {
		base.Info = "Could not compare"
		base.Score = 0
		return base
	}

	rangeLabel, dateLabel := "local", "external"
	if rangeIsExternal {
		rangeLabel, dateLabel = "external", "local"
	}

	anyMatch := false
	anyCompared := false
	var notes []string
	for _, d := range dates {
		if !d.hasDateTime {
			continue
		}
		anyCompared = true
		matched := false
		switch {
		case thresholds.min != nil && thresholds.max != nil:
			matched = !thresholds.min.After(d.to) && !thresholds.max.Before(d.from)
		case thresholds.min != nil:
			matched = !thresholds.min.After(d.to) || !thresholds.min.After(d.from)
		case thresholds.max != nil:
			matched = !thresholds.max.Before(d.to) || !thresholds.max.Before(d.from)
		}
		dateStr := d.yearSeq[0] + "-" + d.monthDaySeq[0]
		if matched {
			anyMatch = true
			notes = append(notes, dateLabel+": "+dateStr)
		} else {
			notes = append(notes, dateLabel+": !"+dateStr)
		}
	}

	if !anyCompared {
		base.Info = "Could not compare"
		base.Score = 0
		return base
	}

	base.Info = rangeLabel + ": " + daterangeAsString(thresholds) + "; " + strings.Join(notes, ", ")
	if anyMatch {
		base.Score = 1
		return base
	}
	base.Score = -1
	return base
}

// datesVsDates handles case 3: both sides have enumerable dates. Every
// local/external pair is scored and the best (minimum distance) pair
// wins.
func datesVsDates(base FieldResult, local, external []parsedDate) FieldResult {
	base.Compared = true

	best := math.Inf(1)
	found := false
	for _, l := range local {
		for _, e := range external {
			pairScore := scoreDatePair(l, e)
			if pairScore < best {
				best = pairScore
				found = true
			}
		}
	}

	if !found {
		base.Info = "Could not compare"
		base.Score = 0
		return base
	}

	base.Score = math.Cos(best * math.Pi)
	return base
}

func scoreDatePair(local, external parsedDate) float64 {
	monthDayDist := damerauSeqs(external.monthDaySeq[0], local.monthDaySeq[:])
	minMonthDay := math.Inf(1)
	for i, d := range monthDayDist {
		v := float64(d)*monthDayMultipliers[i] + monthDayWeights[i]
		if v < minMonthDay {
			minMonthDay = v
		}
	}

	yearDist := damerauSeqs(external.yearSeq[0], local.yearSeq[:])
	minYear := math.Inf(1)
	for i, d := range yearDist {
		v := float64(d)*yearMultipliers[i] + yearWeights[i]
		if v < minYear {
			minYear = v
		}
	}

	stringScore := minMonthDay + minYear
	if stringScore > 3 {
		stringScore = 3
	}
	stringScore /= 3

	timedeltaScore := 1.0
	if local.hasDateTime && external.hasDateTime {
		deltaDays := int(local.from.Sub(external.from).Hours() / 24)
		if deltaDays < 0 {
			deltaDays = -deltaDays
		}
		timedeltaScore = float64(deltaDays) / dateComparisonByTimedeltaMaxDays
		if deltaDays > 10 {
			stringScore += float64(deltaDays) / 35600
		}
	}

	pairScore := stringScore
	if timedeltaScore < pairScore {
		pairScore = timedeltaScore
	}
	if pairScore > 1 {
		pairScore = 1
	}
	return pairScore
}

func damerauSeqs(target string, seqs []string) []int {
	out := make([]int, len(seqs))
	for i, s := range seqs {
		out[i] = editdist.Damerau(target, s)
	}
	return out
}
