package phonetic

import "testing"

func TestDoubleMetaphoneHomophonousNamesShareAPrimaryCode(t *testing.T) {
	pairs := [][2]string{
		{"Catherine", "Katherine"},
		{"Smith", "Smythe"},
		{"Stephen", "Steven"},
	}
	for _, p := range pairs {
		a, b := DoubleMetaphone(p[0]), DoubleMetaphone(p[1])
		if a.Primary != b.Primary {
			t.Errorf("DoubleMetaphone(%q).Primary = %q, DoubleMetaphone(%q).Primary = %q, want equal", p[0], a.Primary, p[1], b.Primary)
		}
	}
}

func TestDoubleMetaphoneDistinctNamesProduceDifferentCodes(t *testing.T) {
	a := DoubleMetaphone("Smith")
	b := DoubleMetaphone("Jones")
	if a.Primary == b.Primary {
		t.Errorf("expected Smith and Jones to have different primary codes, both got %q", a.Primary)
	}
}

func TestDoubleMetaphoneEmptyInputYieldsEmptyCode(t *testing.T) {
	code := DoubleMetaphone("")
	if code.Primary != "" || code.Alternate != "" {
		t.Errorf("DoubleMetaphone(\"\") = %+v, want zero value", code)
	}
}

func TestDoubleMetaphoneIsCaseInsensitive(t *testing.T) {
	lower := DoubleMetaphone("muller")
	upper := DoubleMetaphone("MULLER")
	if lower.Primary != upper.Primary {
		t.Errorf("DoubleMetaphone is case sensitive: %q vs %q", lower.Primary, upper.Primary)
	}
}
