package veridoc

import (
	"sort"
	"strings"
)

// Point is a document-relative coordinate. By convention coordinates are
// normalized to 0.0-1.0 with a top-left origin; the range is not enforced,
// but the origin side must be consistent with proof consumers.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BoundingBox is an optional region in the same coordinate space as Point.
// (X1,Y1) is one corner and (X2,Y2) the opposite corner; no ordering between
// the corners is enforced.
type BoundingBox struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// SourceType identifies the kind of canonical fact backing an answer.
type SourceType string

// Source type constants for ProofPoint and Verdict.
const (
	SourceUnit      SourceType = "unit"
	SourceBijection SourceType = "bijection"
	SourceGrid      SourceType = "grid"
)

// Fact is a canonical, coordinate-bearing fact. Facts are created once
// during canonicalization of a single page and are immutable thereafter.
type Fact interface {
	// FactID returns the fact's id, unique within (doc, page, kind).
	FactID() string

	// Kind returns the fact's source type.
	Kind() SourceType
}

// Unit is a single measurable or named fact: a pin label, a voltage value,
// a rated capacity. A Unit without a resolvable origin cannot exist; the
// canonicalizer rejects such candidates.
type Unit struct {
	ID            string       `json:"id"`
	Label         string       `json:"label,omitempty"`
	Value         string       `json:"value"`
	UnitOfMeasure string       `json:"unitOfMeasure,omitempty"`
	Context       string       `json:"context,omitempty"`
	Origin        *Point       `json:"origin"`
	BBox          *BoundingBox `json:"bbox,omitempty"`
	DocID         string       `json:"docId"`
	Page          int          `json:"page"`
}

// FactID returns the unit's id.
func (u *Unit) FactID() string { return u.ID }

// Kind returns SourceUnit.
func (u *Unit) Kind() SourceType { return SourceUnit }

// Text concatenates value, label, and context for parsing and intent
// matching.
func (u *Unit) Text() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{u.Value, u.Label, u.Context} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Validate returns an error if the unit contains invalid fields.
func (u *Unit) Validate() error {
	if u.ID == "" {
		return Errorf(EINVALID, "unit id required")
	}
	if u.Origin == nil {
		return Errorf(EINVALID, "unit origin required")
	}
	if u.DocID == "" {
		return Errorf(EINVALID, "unit document ID required")
	}
	if u.Page < 0 {
		return Errorf(EINVALID, "unit page must be non-negative")
	}
	return nil
}

// Bijection is a strict 1:1 mapping between two labeled sets, e.g. pin
// name and pin number. The mapping is drawn from LeftSet/RightSet but this
// is not independently re-validated beyond type.
type Bijection struct {
	ID       string            `json:"id"`
	LeftSet  []string          `json:"leftSet"`
	RightSet []string          `json:"rightSet"`
	Mapping  map[string]string `json:"mapping"`
	Origin   *Point            `json:"origin"`
	BBox     *BoundingBox      `json:"bbox,omitempty"`
	DocID    string            `json:"docId"`
	Page     int               `json:"page"`
}

// FactID returns the bijection's id.
func (b *Bijection) FactID() string { return b.ID }

// Kind returns SourceBijection.
func (b *Bijection) Kind() SourceType { return SourceBijection }

// GetRight returns the right side for a left key, or "", false when the key
// is not in the mapping.
func (b *Bijection) GetRight(left string) (string, bool) {
	right, ok := b.Mapping[left]
	return right, ok
}

// GetLeft returns the left side for a right value, or "", false when the
// value is not in the mapping. The mapping is inverted on each call.
// Duplicate right values resolve last-write-wins; writes happen in LeftSet
// order, then remaining mapping keys in lexical order, so the result is
// deterministic for identical inputs.
func (b *Bijection) GetLeft(right string) (string, bool) {
	inv := make(map[string]string, len(b.Mapping))
	for _, k := range b.invertOrder() {
		inv[b.Mapping[k]] = k
	}
	left, ok := inv[right]
	return left, ok
}

// invertOrder returns mapping keys in LeftSet order followed by keys absent
// from LeftSet in lexical order.
func (b *Bijection) invertOrder() []string {
	keys := make([]string, 0, len(b.Mapping))
	seen := make(map[string]bool, len(b.Mapping))
	for _, k := range b.LeftSet {
		if _, ok := b.Mapping[k]; ok && !seen[k] {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	rest := make([]string, 0, len(b.Mapping))
	for k := range b.Mapping {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// Validate returns an error if the bijection contains invalid fields.
func (b *Bijection) Validate() error {
	if b.ID == "" {
		return Errorf(EINVALID, "bijection id required")
	}
	if b.Origin == nil {
		return Errorf(EINVALID, "bijection origin required")
	}
	if b.Mapping == nil {
		return Errorf(EINVALID, "bijection mapping required")
	}
	if b.DocID == "" {
		return Errorf(EINVALID, "bijection document ID required")
	}
	if b.Page < 0 {
		return Errorf(EINVALID, "bijection page must be non-negative")
	}
	return nil
}

// GridCell is a single cell in a grid: (row, col) and a value, with an
// optional per-cell origin.
type GridCell struct {
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Value  string `json:"value"`
	Origin *Point `json:"origin,omitempty"`
}

// Grid is a tabular or schematic region: rows x cols with cell-level
// coordinates. Cells are sparse; not every (row, col) need be present.
type Grid struct {
	ID     string       `json:"id"`
	Rows   int          `json:"rows"`
	Cols   int          `json:"cols"`
	Cells  []GridCell   `json:"cells"`
	Origin *Point       `json:"origin"`
	BBox   *BoundingBox `json:"bbox,omitempty"`
	DocID  string       `json:"docId"`
	Page   int          `json:"page"`
}

// FactID returns the grid's id.
func (g *Grid) FactID() string { return g.ID }

// Kind returns SourceGrid.
func (g *Grid) Kind() SourceType { return SourceGrid }

// GetCell returns the first cell at (row, col), or nil when absent.
// An absent cell is not an error.
func (g *Grid) GetCell(row, col int) *GridCell {
	for i := range g.Cells {
		if g.Cells[i].Row == row && g.Cells[i].Col == col {
			return &g.Cells[i]
		}
	}
	return nil
}

// Validate returns an error if the grid contains invalid fields.
func (g *Grid) Validate() error {
	if g.ID == "" {
		return Errorf(EINVALID, "grid id required")
	}
	if g.Origin == nil {
		return Errorf(EINVALID, "grid origin required")
	}
	if g.DocID == "" {
		return Errorf(EINVALID, "grid document ID required")
	}
	if g.Page < 0 {
		return Errorf(EINVALID, "grid page must be non-negative")
	}
	if g.Rows < 0 || g.Cols < 0 {
		return Errorf(EINVALID, "grid dimensions must be non-negative")
	}
	for _, c := range g.Cells {
		if c.Row < 0 || c.Col < 0 {
			return Errorf(EINVALID, "grid cell position must be non-negative")
		}
	}
	return nil
}

// FactSet holds all canonical facts for a document (or a page), each kind
// in stable order: units, then bijections, then grids, each in input order.
type FactSet struct {
	Units      []*Unit      `json:"units"`
	Bijections []*Bijection `json:"bijections"`
	Grids      []*Grid      `json:"grids"`
}

// Append adds all facts from other, preserving order.
func (s *FactSet) Append(other FactSet) {
	s.Units = append(s.Units, other.Units...)
	s.Bijections = append(s.Bijections, other.Bijections...)
	s.Grids = append(s.Grids, other.Grids...)
}

// Facts returns the set flattened: units, then bijections, then grids.
func (s *FactSet) Facts() []Fact {
	out := make([]Fact, 0, s.Len())
	for _, u := range s.Units {
		out = append(out, u)
	}
	for _, b := range s.Bijections {
		out = append(out, b)
	}
	for _, g := range s.Grids {
		out = append(out, g)
	}
	return out
}

// Len returns the total number of facts in the set.
func (s *FactSet) Len() int {
	return len(s.Units) + len(s.Bijections) + len(s.Grids)
}

// Empty reports whether the set contains no facts.
func (s *FactSet) Empty() bool { return s.Len() == 0 }

// Counts returns per-kind fact counts.
func (s *FactSet) Counts() FactCounts {
	return FactCounts{
		Units:      len(s.Units),
		Bijections: len(s.Bijections),
		Grids:      len(s.Grids),
	}
}

// FactCounts holds per-kind fact counts for a document.
type FactCounts struct {
	Units      int `json:"units"`
	Bijections int `json:"bijections"`
	Grids      int `json:"grids"`
}
