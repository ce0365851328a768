// Package match implements the biographical record matching engine: a
// pure scoring function comparing two person records across six
// fields (forenames, surnames, birth place, birth date, death place,
// death date) and producing a weighted MatchReport.
//
// The package performs no I/O and holds no state across calls; every
// exported function is safe to call concurrently from many goroutines
// on disjoint inputs. It is grounded on
// TracingThePast/automatic_matching's automatic_matching_functions.py,
// ported into the constructor/struct idiom of
// himacharan128-Payment-Reconciliation-Engine's internal/processor
// package.
package match

// Token is a single value recovered from a raw field string: the text
// as it appeared in the source record, and the form left after
// orthographic normalization.
type Token struct {
	Original   string
	Normalized string
}

// NameBag groups tokens by their normalized form, preserving every
// original spelling that collapsed to it. Keys are unique; each
// value slice is non-empty.
type NameBag map[string][]string

// DisregardBag is a NameBag of normalized forms whose presence must
// not, by itself, contribute positively to a field match (e.g. overly
// common forenames).
type DisregardBag = NameBag

// Keys returns the normalized keys of a bag in map-iteration order.
// Callers that need deterministic output should sort the result.
func (b NameBag) Keys() []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	return keys
}

// Originals flattens every original spelling across all keys.
func (b NameBag) Originals() []string {
	originals := make([]string, 0, len(b))
	for _, group := range b {
		originals = append(originals, group...)
	}
	return originals
}

// FieldResult is the per-field outcome of comparing one local value
// against one external value. Score lies in [-1, 1] for multi-value
// fields (cosine-shaped) or is a plain similarity in that same range
// for dates. AbsoluteScore is Score scaled by MaxAbsoluteScore and is
// only meaningful when Compared is true.
type FieldResult struct {
	Field            string
	Compared         bool
	Score            float64
	AbsoluteScore    float64
	MaxAbsoluteScore float64
	Local            []string
	External         []string
	Disregarded      []string
	SmallerSideScore float64
	LargerSideScore  float64
	SmallerIsLocal   bool
	LengthDifference int

	// Info carries a human-readable diagnostic: the literal
	// "Could not compare" when a date field had nothing comparable
	// on one side, or, for a date field with at least one range
	// operand, a rendered threshold/date comparison (daterange_as_string)
	// marking any excluded value with '!'. Unset for non-date fields.
	Info string
}

// MatchReport is the complete output of comparing one local record
// against one external record.
type MatchReport struct {
	Forenames   FieldResult
	Surnames    FieldResult
	BirthPlace  FieldResult
	BirthDate   FieldResult
	DeathPlace  FieldResult
	DeathDate   FieldResult

	AbsoluteScore           float64
	RelativeScore           float64
	TotalRelativeScore      float64
	MaxScoreReachable       float64
	MaxScoreReachableEither float64
	AutomaticallyMatched    bool
	MatchingAlgorithmVersion string
}

// Fields returns the six FieldResults in the fixed, documented order
// used for weighting and report rendering.
func (r *MatchReport) Fields() []*FieldResult {
	return []*FieldResult{&r.Forenames, &r.Surnames, &r.BirthPlace, &r.BirthDate, &r.DeathPlace, &r.DeathDate}
}
