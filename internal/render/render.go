// Package render produces the HTML comparison table used by the
// /api/match/:id/report.html endpoint: one color-coded bar chart per
// scored field plus an overall verdict row, built with plain string
// concatenation rather than html/template, matching the manual
// markup-building style of get_results_as_html /
// comparison_html_table_cell / comparison_html_bar_chart in
// automatic_matching_functions.py.
package render

import (
	"fmt"
	"math"
	"strings"

	"biograph-match-engine/internal/match"
)

// Report renders a single MatchReport as a standalone HTML fragment: a
// table with one row summarizing the verdict and one column per field.
func Report(report match.MatchReport) string {
	var b strings.Builder
	b.WriteString(`<table><tr style="text-align: center;">`)
	b.WriteString(`<th style="text-align: center;">Score</th>`)
	for _, label := range fieldLabels {
		b.WriteString(`<th style="text-align: center;">` + label + `</th>`)
	}
	b.WriteString("</tr><tr>")

	b.WriteString(verdictCell(report))
	for i, fr := range report.Fields() {
		b.WriteString(fieldCell(fieldMaxScores[i], fr))
	}
	b.WriteString("</tr></table>")
	return b.String()
}

var fieldLabels = []string{"Forenames", "Surnames", "Birth place", "Birth date", "Death place", "Death date"}

// fieldMaxScores mirrors the fixed order of MatchReport.Fields().
var fieldMaxScores = []float64{25.0, 25.0, 10.0, 20.0, 10.0, 10.0}

func verdictCell(report match.MatchReport) string {
	matched := "❌"
	if report.AutomaticallyMatched {
		matched = "✅︎"
	}
	var b strings.Builder
	b.WriteString(`<td class="comparison" style="background-color: transparent; color: #000; min-width: 120px; max-width: 140px; vertical-align: bottom;">`)
	b.WriteString(`<div style="display: flex; flex-wrap: nowrap; flex-direction: column; align-items: stretch; border-radius: 4px; overflow: hidden; border: 1px solid #ccc;">`)
	b.WriteString(fmt.Sprintf(`<div style="padding: 4px 6px; text-align: center;">Meets criteria: %s</div>`, matched))
	b.WriteString(relativeBarChart(report.MaxScoreReachable, report.AbsoluteScore, report.RelativeScore))
	b.WriteString("</div></td>")
	return b.String()
}

func fieldCell(maxAbsoluteScore float64, fr *match.FieldResult) string {
	background, color := "#555", "#fff"
	if fr.Compared {
		background, color = "transparent", "#000"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf(`<td class="comparison" style="background-color: %s; color: %s; min-width: 120px; max-width: 140px; vertical-align: bottom;">`, background, color))
	b.WriteString(`<div style="display: flex; flex-wrap: nowrap; flex-direction: column; align-items: stretch; border-radius: 4px; overflow: hidden; border: 1px solid #ccc;">`)

	switch {
	case fr.Info != "":
		b.WriteString(fmt.Sprintf(`<div style="padding: 4px 6px;">%s</div>`, fr.Info))
	case len(fr.Local) > 0 || len(fr.External) > 0:
		external := dashIfEmpty(strings.Join(fr.External, ", "))
		local := dashIfEmpty(strings.Join(fr.Local, ", "))
		b.WriteString(fmt.Sprintf(`<div style="padding: 4px 6px;">%s</div><div style="background-color: rgba(0, 169, 176, 0.3); padding: 4px 6px;">%s</div>`, external, local))
	default:
		b.WriteString(`<div style="padding: 4px 6px;">---</div><div style="background-color: rgba(0, 169, 176, 0.3); padding: 4px 6px;">---</div>`)
	}

	if fr.Compared {
		b.WriteString(scoreBarChart(maxAbsoluteScore, fr.Score, fr.AbsoluteScore))
	} else {
		b.WriteString(scoreBarChart(maxAbsoluteScore, 0, 0))
	}
	b.WriteString("</div></td>")
	return b.String()
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// barColor reproduces the original's red/green gradient: green rises
// and red falls as the score's [0,1]-mapped percentage approaches 1.
func barColor(percentage float64) (r, g, bl float64) {
	g = 200 * math.Sqrt(math.Sin(percentage*math.Pi/2))
	r = 255 * math.Sqrt(math.Cos(percentage*math.Pi/2))
	return r, g, 0
}

// scoreBarChart draws a single-field bar anchored at the chart's
// center, extending left (negative score) or right (positive score).
func scoreBarChart(maxAbsoluteScore, score, absoluteScore float64) string {
	percentage := (1 + score) / 2
	r, g, bl := barColor(percentage)

	textAnchor, textStart := "end", "-4"
	if score < 0 {
		textAnchor, textStart = "start", "4"
	}

	var b strings.Builder
	b.WriteString(`<div style="white-space:nowrap; border-top: 2px solid #ccc; background-color: #888; text-align: center; overflow: hidden;">`)
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" style="width: 100%; min-height: 16px; margin-bottom: -3px;" viewBox="-100 0 200 30">`)
	b.WriteString(`<line x1="0" y1="0" x2="0" y2="30" stroke-width="2" stroke="#000"/>`)
	if score != 0 {
		b.WriteString(fmt.Sprintf(`<line x1="%v" y1="15" x2="0" y2="15" stroke-width="30" stroke="rgb(%.0f, %.0f, %.0f)"/>`, score*100, r, g, bl))
	}
	b.WriteString(fmt.Sprintf(`<text text-anchor="%s" x="%s" y="21" font-size="16" font-weight="bold"> %.2f / %v </text>`, textAnchor, textStart, absoluteScore, maxAbsoluteScore))
	b.WriteString("</svg></div>")
	return b.String()
}

// relativeBarChart draws the overall-verdict bar, which spans the full
// chart width in proportion to relativeScore rather than anchoring at
// the center.
func relativeBarChart(maxAbsoluteScore, absoluteScore, relativeScore float64) string {
	r, g, bl := barColor(relativeScore)

	var b strings.Builder
	b.WriteString(`<div style="white-space:nowrap; border-top: 2px solid #ccc; background-color: #888; text-align: center; overflow: hidden;">`)
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" style="width: 100%; min-height: 16px; margin-bottom: -3px;" viewBox="-100 0 200 30">`)
	b.WriteString(fmt.Sprintf(`<line x1="-100" y1="15" x2="%v" y2="15" stroke-width="30" stroke="rgb(%.0f, %.0f, %.0f)"/>`, -100+relativeScore*200, r, g, bl))
	b.WriteString(fmt.Sprintf(`<text text-anchor="middle" x="0" y="21" font-size="16" font-weight="bold">%.2f / %v (%.2f %%)</text>`, absoluteScore, maxAbsoluteScore, 100*relativeScore))
	b.WriteString("</svg></div>")
	return b.String()
}
