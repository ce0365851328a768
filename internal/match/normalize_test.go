package match

import "testing"

func TestNormalizeStringSurnameSuffixes(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"kowalowa", "koval"},
		{"abrahamsohns", "abrahamsons"},
		{"abrahamsohn", "abrahamson"},
	}
	for _, c := range cases {
		got := normalizeString(c.in, true)
		if got != c.want {
			t.Errorf("normalizeString(%q, true) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeStringLetterRewrites(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"thomas", "tomas"},
		{"stock", "stok"},
		{"phillip", "filip"},
		{"jakob", "iakob"},
		{"mary", "mari"},
		{"wagner", "vagner"},
		{"facs", "faks"},
	}
	for _, c := range cases {
		got := normalizeString(c.in, false)
		if got != c.want {
			t.Errorf("normalizeString(%q, false) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeStringMergesUmlautDigraph(t *testing.T) {
	if got := normalizeString("mueller", true); got != "muler" {
		t.Errorf(`normalizeString("mueller", true) = %q, want "muler"`, got)
	}
	if got := normalizeString("aue", false); got != "aue" {
		t.Errorf(`normalizeString("aue", false) = %q, want "aue" (ue preceded by a is left alone)`, got)
	}
}

func TestNormalizeStringIsIdempotent(t *testing.T) {
	inputs := []string{"mueller", "kowalowa", "thomas", "abrahamsohns"}
	for _, in := range inputs {
		for _, isSurname := range []bool{true, false} {
			once := normalizeString(in, isSurname)
			twice := normalizeString(once, isSurname)
			if once != twice {
				t.Errorf("normalizeString not idempotent for %q (surname=%v): %q -> %q", in, isSurname, once, twice)
			}
		}
	}
}

func TestNormalizeStringTzOnlyCollapsesForNonSurnames(t *testing.T) {
	if got := normalizeString("tzar", false); got != "zar" {
		t.Errorf("normalizeString(tzar, false) = %q, want zar", got)
	}
	if got := normalizeString("tzar", true); got != "tzar" {
		t.Errorf("normalizeString(tzar, true) = %q, want tzar (tz->z only applies to non-surnames)", got)
	}
}
