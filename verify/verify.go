// Package verify derives answers from a document's canonical facts, or
// refuses. Answer is a pure function of its inputs: no hidden state, no
// I/O, no randomness. The same question against the same fact set always
// yields the same answer or the same refusal.
package verify

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fwojciec/veridoc"
)

// RefuseReason is the fixed, machine-checkable reason returned when no
// matcher succeeds. Callers may request a friendlier phrasing from a
// Phraser, but the canonical reason never changes.
const RefuseReason = "no canonical fact derives this answer"

// Patterns for parsing (numeric value, unit symbol) from free text.
// Longer unit symbols sort first inside each alternation (mAh before Ah,
// µA before A) so the longest symbol wins.
var (
	pinPattern      = regexp.MustCompile(`pin\s+(?:number\s+)?(\d+)`)
	voltagePattern  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:VOLTS|VOLT|V)\b`)
	currentPattern  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(µA|mA|A)\b`)
	capacityPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(mAh|Ah|Wh)\b`)
)

// matcher tries to derive an answer; ok is false when the rule does not
// apply or no candidate fact survives. Matchers never fail on malformed
// data; they skip the offending candidate.
type matcher func(question string, set veridoc.FactSet) (veridoc.Verdict, bool)

// chain is the fixed rule order. The order is part of the engine's
// contract: it resolves ties between rules that both apply.
var chain = []matcher{
	pinLookup,
	maxVoltage,
	maxCurrent,
	maxCapacity,
	unitByIntent,
	literalLookup,
}

// Answer runs the matcher chain over the fact set; the first matcher to
// succeed wins. When none succeeds it returns a refusal with RefuseReason.
func Answer(question string, set veridoc.FactSet) veridoc.Verdict {
	q := strings.ToLower(strings.TrimSpace(question))
	for _, m := range chain {
		if v, ok := m(q, set); ok {
			return v
		}
	}
	return veridoc.Refusal(RefuseReason)
}

// pinLookup resolves "pin N" or "pin number N" questions. Bijections are
// searched first, trying N as either side of the mapping; then grids, where
// a cell whose value equals N is the pin-number cell and the adjacent cell
// (col+1, falling back to col-1) holds the pin name.
func pinLookup(q string, set veridoc.FactSet) (veridoc.Verdict, bool) {
	m := pinPattern.FindStringSubmatch(q)
	if m == nil {
		return veridoc.Verdict{}, false
	}
	n := m[1]

	for _, b := range set.Bijections {
		if right, ok := b.GetRight(n); ok {
			return veridoc.Answered(right, proofFor(b.Origin, b.Page, b.BBox, b.ID, veridoc.SourceBijection)), true
		}
		if left, ok := b.GetLeft(n); ok {
			return veridoc.Answered(left, proofFor(b.Origin, b.Page, b.BBox, b.ID, veridoc.SourceBijection)), true
		}
	}

	for _, g := range set.Grids {
		for row := 0; row < g.Rows; row++ {
			for col := 0; col < g.Cols; col++ {
				cell := g.GetCell(row, col)
				if cell == nil || cell.Value != n {
					continue
				}
				origin := g.Origin
				if cell.Origin != nil {
					origin = cell.Origin
				}
				var name *veridoc.GridCell
				if col+1 < g.Cols {
					name = g.GetCell(row, col+1)
				}
				if name == nil && col > 0 {
					name = g.GetCell(row, col-1)
				}
				answer := cell.Value
				if name != nil {
					answer = name.Value
				}
				return veridoc.Answered(answer, proofFor(origin, g.Page, g.BBox, g.ID, veridoc.SourceGrid)), true
			}
		}
	}

	return veridoc.Verdict{}, false
}

// maxVoltage answers "max voltage" questions. Units with an explicit V
// unit of measure and a numeric value are preferred; only when none exist
// does it fall back to regex-parsing voltages out of each unit's text.
func maxVoltage(q string, set veridoc.FactSet) (veridoc.Verdict, bool) {
	if !wantsMax(q) {
		return veridoc.Verdict{}, false
	}
	if !strings.Contains(q, "voltage") && !strings.Contains(q, "v ") && !strings.Contains(q, " v") {
		return veridoc.Verdict{}, false
	}

	var best *veridoc.Unit
	bestVal := 0.0
	structured := false
	for _, u := range set.Units {
		if !isUOM(u.UnitOfMeasure, "V", "VOLT", "VOLTS") {
			continue
		}
		v, err := strconv.ParseFloat(u.Value, 64)
		if err != nil {
			continue
		}
		if best == nil || v > bestVal {
			best, bestVal = u, v
		}
	}
	if best != nil {
		structured = true
	}

	if best == nil {
		for _, u := range set.Units {
			for _, v := range parseValues(voltagePattern, u.Text()) {
				if best == nil || v.value > bestVal {
					best, bestVal = u, v.value
				}
			}
		}
	}
	if best == nil {
		return veridoc.Verdict{}, false
	}

	answer := formatNum(bestVal) + " V"
	if structured {
		answer = strings.TrimSpace(best.Value + " " + best.UnitOfMeasure)
		if !strings.HasSuffix(answer, "V") {
			answer = formatNum(bestVal) + " V"
		}
	}
	return veridoc.Answered(answer, unitProof(best)), true
}

// maxCurrent answers "max current" questions from structured A/mA/µA units
// and regex-parsed currents, considered together.
func maxCurrent(q string, set veridoc.FactSet) (veridoc.Verdict, bool) {
	if !wantsMax(q) {
		return veridoc.Verdict{}, false
	}
	if !strings.Contains(q, "current") && !strings.Contains(q, " a ") && !strings.Contains(q, " amper") {
		return veridoc.Verdict{}, false
	}
	return maxQuantity(set, currentPattern, []string{"A", "MA", "µA"}, normalizeCurrentSymbol)
}

// maxCapacity answers "max capacity" questions from structured mAh/Ah/Wh
// units and regex-parsed capacities, considered together.
func maxCapacity(q string, set veridoc.FactSet) (veridoc.Verdict, bool) {
	if !wantsMax(q) && !strings.Contains(q, "nominal") {
		return veridoc.Verdict{}, false
	}
	if !strings.Contains(q, "capacity") && !strings.Contains(q, "mah") &&
		!strings.Contains(q, " ah ") && !strings.Contains(q, " wh ") {
		return veridoc.Verdict{}, false
	}
	return maxQuantity(set, capacityPattern, []string{"MAH", "AH", "WH"}, nil)
}

// maxQuantity collects numeric candidates from structured units and from
// regex-parsed unit text, then answers with the maximum. Ties resolve to
// the first-encountered candidate in iteration order.
func maxQuantity(set veridoc.FactSet, pattern *regexp.Regexp, uoms []string, normSym func(string) string) (veridoc.Verdict, bool) {
	var best *veridoc.Unit
	bestVal := 0.0
	bestSym := ""
	consider := func(u *veridoc.Unit, v float64, sym string) {
		if best == nil || v > bestVal {
			best, bestVal, bestSym = u, v, sym
		}
	}
	for _, u := range set.Units {
		if isUOM(u.UnitOfMeasure, uoms...) {
			if v, err := strconv.ParseFloat(u.Value, 64); err == nil {
				consider(u, v, u.UnitOfMeasure)
			}
		}
		for _, p := range parseValues(pattern, u.Text()) {
			sym := p.symbol
			if normSym != nil {
				sym = normSym(sym)
			}
			consider(u, p.value, sym)
		}
	}
	if best == nil {
		return veridoc.Verdict{}, false
	}
	answer := strings.TrimSpace(formatNum(bestVal) + " " + bestSym)
	return veridoc.Answered(answer, unitProof(best)), true
}

// intentBonus constants weight structurally-typed matches over text-parsed
// ones. The exact values are a tuning policy, not a contract; only the
// resulting total order over a fixed fact set is load-bearing.
const (
	structuredBonus = 10
	parsedBonus     = 5
)

// stopWords are excluded from keyword-overlap scoring.
var stopWords = map[string]bool{
	"what": true, "is": true, "the": true, "of": true, "this": true, "document": true,
}

var wordPattern = regexp.MustCompile(`[a-z0-9.]+`)

// unitByIntent handles questions that imply a quantity class (voltage,
// current, capacity) without an explicit "max". Every unit is scored by
// keyword overlap with the question plus a bonus for structured matches;
// the highest score wins, ties broken by coordinate order (top-to-bottom,
// left-to-right).
func unitByIntent(q string, set veridoc.FactSet) (veridoc.Verdict, bool) {
	wantsVoltage := containsAny(q, "voltage", "volt", " v ")
	wantsCurrent := containsAny(q, "current", " amper", " a ")
	wantsCapacity := containsAny(q, "capacity", "mah", " ah ", " wh ")
	if !wantsVoltage && !wantsCurrent && !wantsCapacity {
		return veridoc.Verdict{}, false
	}

	words := questionWords(q)

	type candidate struct {
		score  int
		answer string
		unit   *veridoc.Unit
	}
	var best *candidate
	consider := func(c candidate) {
		if best == nil {
			best = &c
			return
		}
		if c.score > best.score {
			best = &c
			return
		}
		if c.score == best.score && beforeInReadingOrder(c.unit, best.unit) {
			best = &c
		}
	}

	type quantity struct {
		wanted  bool
		uoms    []string
		pattern *regexp.Regexp
		normSym func(string) string
		defSym  string
	}
	quantities := []quantity{
		{wantsVoltage, []string{"V", "VOLT", "VOLTS"}, voltagePattern, nil, "V"},
		{wantsCurrent, []string{"A", "MA", "µA"}, currentPattern, normalizeCurrentSymbol, ""},
		{wantsCapacity, []string{"MAH", "AH", "WH"}, capacityPattern, nil, ""},
	}

	for _, u := range set.Units {
		text := strings.ToLower(u.Text())
		overlap := 0
		for _, w := range words {
			if strings.Contains(text, w) {
				overlap++
			}
		}
		for _, qt := range quantities {
			if !qt.wanted {
				continue
			}
			if isUOM(u.UnitOfMeasure, qt.uoms...) {
				if _, err := strconv.ParseFloat(u.Value, 64); err == nil {
					consider(candidate{
						score:  overlap + structuredBonus,
						answer: strings.TrimSpace(u.Value + " " + u.UnitOfMeasure),
						unit:   u,
					})
				}
			}
			for _, p := range parseValues(qt.pattern, u.Text()) {
				sym := p.symbol
				if qt.normSym != nil {
					sym = qt.normSym(sym)
				}
				if sym == "" {
					sym = qt.defSym
				}
				consider(candidate{
					score:  overlap + parsedBonus,
					answer: strings.TrimSpace(formatNum(p.value) + " " + sym),
					unit:   u,
				})
			}
		}
	}

	if best == nil {
		return veridoc.Verdict{}, false
	}
	return veridoc.Answered(best.answer, unitProof(best.unit)), true
}

// literalLookup returns a unit whose label or stringified value appears
// verbatim (case-insensitive) inside the question text. Empty labels and
// values are skipped so they cannot match everything.
func literalLookup(q string, set veridoc.FactSet) (veridoc.Verdict, bool) {
	for _, u := range set.Units {
		label := strings.ToLower(u.Label)
		value := strings.ToLower(u.Value)
		if (label != "" && strings.Contains(q, label)) || (value != "" && strings.Contains(q, value)) {
			answer := strings.TrimSpace(u.Value + " " + u.UnitOfMeasure)
			return veridoc.Answered(answer, unitProof(u)), true
		}
	}
	return veridoc.Verdict{}, false
}

func wantsMax(q string) bool {
	return strings.Contains(q, "max") || strings.Contains(q, "maximum")
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// questionWords tokenizes the lowercased question, dropping stop-words and
// single characters.
func questionWords(q string) []string {
	var out []string
	for _, w := range wordPattern.FindAllString(q, -1) {
		if len(w) > 1 && !stopWords[w] {
			out = append(out, w)
		}
	}
	return out
}

// beforeInReadingOrder reports whether a comes before b top-to-bottom,
// left-to-right.
func beforeInReadingOrder(a, b *veridoc.Unit) bool {
	if a.Origin.Y != b.Origin.Y {
		return a.Origin.Y < b.Origin.Y
	}
	return a.Origin.X < b.Origin.X
}

func isUOM(uom string, allowed ...string) bool {
	if uom == "" {
		return false
	}
	up := strings.ToUpper(uom)
	for _, a := range allowed {
		if up == strings.ToUpper(a) {
			return true
		}
	}
	return false
}

// normalizeCurrentSymbol maps a matched current symbol to its canonical
// form (µA, mA, or A).
func normalizeCurrentSymbol(sym string) string {
	lower := strings.ToLower(sym)
	switch {
	case strings.Contains(sym, "µ") || strings.Contains(lower, "u"):
		return "µA"
	case strings.HasPrefix(lower, "m"):
		return "mA"
	default:
		return "A"
	}
}

type parsed struct {
	value  float64
	symbol string
}

// parseValues extracts (value, symbol) pairs from text using pattern.
// Unparseable numbers are skipped.
func parseValues(pattern *regexp.Regexp, text string) []parsed {
	var out []parsed
	for _, m := range pattern.FindAllStringSubmatch(text, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		p := parsed{value: v}
		if len(m) > 2 {
			p.symbol = m[2]
		}
		out = append(out, p)
	}
	return out
}

// formatNum renders a float in its shortest decimal form.
func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func proofFor(origin *veridoc.Point, page int, bbox *veridoc.BoundingBox, id string, st veridoc.SourceType) veridoc.ProofPoint {
	p := veridoc.ProofPoint{Page: page, BBox: bbox, SourceID: id, SourceType: st}
	if origin != nil {
		p.X, p.Y = origin.X, origin.Y
	}
	return p
}

func unitProof(u *veridoc.Unit) veridoc.ProofPoint {
	return proofFor(u.Origin, u.Page, u.BBox, u.ID, veridoc.SourceUnit)
}

// CoordinateSummary renders a short human-readable description of proof
// points ("page 0 (x=0.50, y=0.30); ...") for the phrasing collaborator.
func CoordinateSummary(proof []veridoc.ProofPoint) string {
	if len(proof) == 0 {
		return "no coordinates"
	}
	parts := make([]string, 0, len(proof))
	for _, p := range proof {
		parts = append(parts, fmt.Sprintf("page %d (x=%.2f, y=%.2f)", p.Page, p.X, p.Y))
	}
	return strings.Join(parts, "; ")
}
