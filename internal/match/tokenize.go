package match

import (
	"strings"

	"biograph-match-engine/internal/match/translit"
)

// splitFieldValue breaks one raw field string into candidate tokens.
// ':' '(' ')' are deleted first; the remainder is split on the first
// matching alternative, at each position, of "; ", ", ", "/ ", "-", " ",
// mirroring re.split('; |, |/ |-| ', val) in the original.
func splitFieldValue(value string) []string {
	cleaned := strings.NewReplacer(":", "", "(", "", ")", "").Replace(value)

	var tokens []string
	var current strings.Builder
	flush := func() {
		tokens = append(tokens, current.String())
		current.Reset()
	}

	runes := []rune(cleaned)
	for i := 0; i < len(runes); {
		switch {
		case matchesAt(runes, i, "; "), matchesAt(runes, i, ", "), matchesAt(runes, i, "/ "):
			flush()
			i += 2
		case runes[i] == '-' || runes[i] == ' ':
			flush()
			i++
		default:
			current.WriteRune(runes[i])
			i++
		}
	}
	flush()

	filtered := tokens[:0]
	for _, t := range tokens {
		if t != "" {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

func matchesAt(runes []rune, pos int, lit string) bool {
	litRunes := []rune(lit)
	if pos+len(litRunes) > len(runes) {
		return false
	}
	for i, r := range litRunes {
		if runes[pos+i] != r {
			return false
		}
	}
	return true
}

// keepToken applies the tokenizer's length-based filter: drop empty
// tokens, single-character tokens, and two-character tokens ending in
// '.' (acronyms such as "J.").
func keepToken(raw string) bool {
	n := len([]rune(raw))
	if n == 0 {
		return false
	}
	if n == 1 {
		return false
	}
	if n == 2 && strings.HasSuffix(raw, ".") {
		return false
	}
	return true
}

// BuildNameBag tokenizes one or more raw field values into a NameBag,
// applying the transliteration + normalization pipeline (§4.1, §4.2) to
// derive each token's normalized key. isSurname enables the
// surname-specific normalization rules.
func BuildNameBag(values []string, isSurname bool) NameBag {
	bag := NameBag{}
	for _, value := range values {
		for _, raw := range splitFieldValue(value) {
			if !keepToken(raw) {
				continue
			}
			transliterated := translit.Transliterate(raw)
			normalized := normalizeString(transliterated, isSurname)
			bag[normalized] = append(bag[normalized], raw)
		}
	}
	return bag
}
