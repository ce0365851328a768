// Package phonetic provides the Double-Metaphone phonetic coding used
// by the matching engine's token similarity stage (§4.4): a
// (primary, alternate) code pair capturing the pronunciation
// ambiguity inherent in European-derived surnames and forenames.
//
// Grounded on github.com/antzucaro/matchr's DoubleMetaphone, the same
// library the matching engine already depends on for Levenshtein and
// Damerau-Levenshtein distance (internal/match/editdist), and used the
// same way _examples/other_examples/a457a045_MrWong99-glyphoxa's
// phonetic matcher calls it: codesForTokens there takes the
// (primary, secondary) pair straight from matchr.DoubleMetaphone with
// no reimplementation of the algorithm itself.
package phonetic

import "github.com/antzucaro/matchr"

// Code is the (primary, alternate) Double-Metaphone pair for a token.
// The two codes are identical when the pronunciation is unambiguous.
type Code struct {
	Primary   string
	Alternate string
}

// DoubleMetaphone computes the (primary, alternate) codes for word.
// A zero-length input yields two empty codes (§7: "Zero-length input
// string to phonetic coder: similarity returns 0").
func DoubleMetaphone(word string) Code {
	if len(word) == 0 {
		return Code{}
	}
	primary, alternate := matchr.DoubleMetaphone(word)
	return Code{Primary: primary, Alternate: alternate}
}
