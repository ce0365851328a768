package render

import (
	"strings"
	"testing"

	"biograph-match-engine/internal/match"
)

func TestReportIncludesFieldLabelsAndVerdict(t *testing.T) {
	report := match.Score(
		match.Record{Forenames: []string{"Anna"}, Surnames: []string{"Musterfrau"}, BirthDate: []string{"1910-05-12"}},
		match.Record{Forenames: []string{"Anna"}, Surnames: []string{"Musterfrau"}, BirthDate: []string{"1910-05-12"}},
		match.Disregard{},
	)

	html := Report(report)

	for _, label := range fieldLabels {
		if !strings.Contains(html, label) {
			t.Errorf("Report output missing field label %q", label)
		}
	}
	if !strings.Contains(html, "Meets criteria: ✅︎") {
		t.Errorf("Report output missing automatic-match verdict marker")
	}
	if !strings.Contains(html, "<table>") || !strings.Contains(html, "</table>") {
		t.Errorf("Report output is not a well-formed table fragment: %s", html)
	}
}

func TestReportMarksUnmatchedVerdict(t *testing.T) {
	report := match.Score(match.Record{Forenames: []string{"Anna"}}, match.Record{Forenames: []string{"Zelda"}}, match.Disregard{})

	html := Report(report)
	if !strings.Contains(html, "Meets criteria: ❌") {
		t.Errorf("Report output missing non-match verdict marker")
	}
}

func TestFieldCellMarksUncomparedFieldsWithDashes(t *testing.T) {
	fr := &match.FieldResult{Field: "death_date"}
	cell := fieldCell(10, fr)
	if !strings.Contains(cell, "---") {
		t.Errorf("fieldCell for an uncompared field should render placeholder dashes, got: %s", cell)
	}
}
