package match

import "strings"

// normalizeString applies the orthographic rewrite pipeline of §4.2 to an
// already-transliterated ASCII string. value must already be lowercase
// ASCII (the caller runs translit.Transliterate first); is_surname
// enables the surname-only suffix rewrites.
//
// Grounded on normalize_string() in
// automatic_matching/automatic_matching_functions.py, reproduced with
// Go string operations in place of the original's regexes. Step 4 (c
// before h/q/s/z) is implemented per its stated intent rather than the
// original's regex, whose lookahead placement (?=h|q|s|z)c never
// actually matches anything; §9 does not flag this rule as one of the
// behaviors to reproduce bug-for-bug, so the working rule is used.
func normalizeString(value string, isSurname bool) string {
	if isSurname {
		value = stripSurnameSuffixes(value)
	}

	value = strings.ReplaceAll(value, "ae", "a")
	value = strings.ReplaceAll(value, "oe", "o")
	value = collapseUE(value)

	value = strings.ReplaceAll(value, "th", "t")
	value = strings.ReplaceAll(value, "ck", "k")
	value = strings.ReplaceAll(value, "ph", "f")
	value = strings.ReplaceAll(value, "j", "i")
	value = strings.ReplaceAll(value, "y", "i")
	value = strings.ReplaceAll(value, "w", "v")

	value = collapseCBeforeConsonantGroup(value)

	if !isSurname {
		value = strings.ReplaceAll(value, "tz", "z")
	}

	return collapseDoubledLetters(value)
}

// stripSurnameSuffixes applies the trailing-suffix rewrites that only
// apply to surnames: owa/ova stripped, sohns/sohn collapsed to
// sons/son, and a trailing a rewritten to i when preceded by sk or ck.
func stripSurnameSuffixes(value string) string {
	switch {
	case strings.HasSuffix(value, "owa"):
		value = strings.TrimSuffix(value, "owa")
	case strings.HasSuffix(value, "ova"):
		value = strings.TrimSuffix(value, "ova")
	}

	switch {
	case strings.HasSuffix(value, "sohns"):
		value = strings.TrimSuffix(value, "sohns") + "sons"
	case strings.HasSuffix(value, "sohn"):
		value = strings.TrimSuffix(value, "sohn") + "son"
	}

	if strings.HasSuffix(value, "a") && len(value) >= 3 {
		stem := value[:len(value)-1]
		if strings.HasSuffix(stem, "sk") || strings.HasSuffix(stem, "ck") {
			value = stem + "i"
		}
	}

	return value
}

// collapseUE rewrites every "ue" to "u" except where it is immediately
// preceded by "a" (so "aue" is left alone).
func collapseUE(value string) string {
	var sb strings.Builder
	sb.Grow(len(value))
	for i := 0; i < len(value); i++ {
		if i+1 < len(value) && value[i] == 'u' && value[i+1] == 'e' {
			if i > 0 && value[i-1] == 'a' {
				sb.WriteByte(value[i])
				continue
			}
			sb.WriteByte('u')
			i++
			continue
		}
		sb.WriteByte(value[i])
	}
	return sb.String()
}

// collapseCBeforeConsonantGroup rewrites a "c" to "k" when immediately
// followed by "h", "q", "s", or "z".
func collapseCBeforeConsonantGroup(value string) string {
	var sb strings.Builder
	sb.Grow(len(value))
	for i := 0; i < len(value); i++ {
		if value[i] == 'c' && i+1 < len(value) {
			switch value[i+1] {
			case 'h', 'q', 's', 'z':
				sb.WriteByte('k')
				continue
			}
		}
		sb.WriteByte(value[i])
	}
	return sb.String()
}

// collapseDoubledLetters collapses two consecutive identical ASCII
// letters to one, mirroring Python's re.sub(r'([a-zA-Z])\1', r'\1', ...):
// a single non-overlapping left-to-right pass, so a run of three (e.g.
// "aaa") collapses only its first pair ("aa" -> "aaa" becomes "aa", not
// "a").
func collapseDoubledLetters(value string) string {
	var sb strings.Builder
	sb.Grow(len(value))
	for i := 0; i < len(value); i++ {
		if i+1 < len(value) && value[i] == value[i+1] && isASCIILetter(value[i]) {
			sb.WriteByte(value[i])
			i++
			continue
		}
		sb.WriteByte(value[i])
	}
	return sb.String()
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
