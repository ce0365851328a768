package translit

import "testing"

func TestTransliterateStripsCombiningMarks(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Müller", "muller"},
		{"MÜLLER", "muller"},
		{"Kraków", "krakow"},
		{"Łódź", "lodz"},
		{"café", "cafe"},
	}
	for _, c := range cases {
		if got := Transliterate(c.in); got != c.want {
			t.Errorf("Transliterate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTransliterateAppliesLigatureTable(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Straße", "strasse"},
		{"Øresund", "oresund"},
		{"Þingvellir", "thingvellir"},
	}
	for _, c := range cases {
		if got := Transliterate(c.in); got != c.want {
			t.Errorf("Transliterate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTransliterateIsIdempotentOnPlainASCII(t *testing.T) {
	for _, in := range []string{"anna", "Musterfrau", "dachau"} {
		if got := Transliterate(in); got != Transliterate(got) {
			t.Errorf("Transliterate not idempotent for %q", in)
		}
	}
}
