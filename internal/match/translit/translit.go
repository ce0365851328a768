// Package translit implements the Transliterator component (§4.1): a
// deterministic projection of arbitrary Unicode text to a lowercased,
// accent-stripped ASCII form. It is the only component that performs
// locale-sensitive transformation; every later stage assumes plain
// ASCII letters and digits.
//
// The reference implementation (TracingThePast/automatic_matching)
// builds this from an ICU transliterator rule
// ("Any-Latin; Latin-ASCII; IPA-XSampa; NFD; [:Nonspacing Mark:]
// Remove; NFC; Lower();"). Go has no ICU binding in the retrieval
// pack, so this is rebuilt from golang.org/x/text primitives plus a
// small supplementary rule table for the handful of Latin-family
// letters that do not separate into base+combining-mark form under
// NFD (ß, æ, œ, ø, ð, þ, ł, đ, ŋ, ħ, ı, and the Slavic digraph
// letters). Generic any-script transliteration (Cyrillic, Greek, Han,
// Arabic, ...) is not performed: letters of those scripts pass through
// with only accent stripping and lowercasing applied.
package translit

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ligatureTable holds the Latin-family letters that survive NFD
// decomposition intact (no combining mark to strip) and therefore need
// an explicit ASCII-folding rule. This is the "Latin-ASCII" half of the
// ICU transliterator chain; it is a working implementation, not a
// transcription of the original's self-test replacement map (see §9
// design notes: that map is reference documentation, not ground truth).
var ligatureTable = map[rune]string{
	'ß': "ss",
	'æ': "ae",
	'Æ': "AE",
	'œ': "oe",
	'Œ': "OE",
	'ø': "o",
	'Ø': "O",
	'ð': "d",
	'Ð': "D",
	'þ': "th",
	'Þ': "Th",
	'ł': "l",
	'Ł': "L",
	'đ': "d",
	'Đ': "D",
	'ŋ': "ng",
	'Ŋ': "Ng",
	'ħ': "h",
	'Ħ': "H",
	'ı': "i",
	'ĳ': "ij",
	'Ĳ': "IJ",
	'ǳ': "dz",
	'ǆ': "dz",
	'ǉ': "lj",
	'ǌ': "nj",
}

// accentFold strips non-spacing combining marks via NFD decomposition
// followed by NFC recomposition, the Unicode-native equivalent of
// ICU's "NFD; [:Nonspacing Mark:] Remove; NFC;" stage.
var accentFold = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Transliterate projects s to a lowercased, accent-stripped ASCII-ish
// form. It applies, in order: the ligature table (any-script-to-Latin /
// Latin-to-ASCII substitutes for non-decomposing letters), NFD
// decomposition, nonspacing-mark removal, NFC recomposition, and
// lowercasing.
func Transliterate(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if repl, ok := ligatureTable[r]; ok {
			sb.WriteString(repl)
			continue
		}
		sb.WriteRune(r)
	}

	folded, _, err := transform.String(accentFold, sb.String())
	if err != nil {
		// transform.String only errors on encoding faults; our input is
		// already valid UTF-8 text from the caller's field values, so we
		// fall back to the pre-fold string rather than lose the field.
		folded = sb.String()
	}

	return strings.ToLower(folded)
}
