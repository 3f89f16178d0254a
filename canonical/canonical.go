// Package canonical promotes normalized per-page extractions into validated,
// coordinate-bearing facts. This is a strict fail-closed boundary: each
// candidate is constructed independently and anything that fails validation
// is excluded from canonical truth, one by one, without aborting the page.
// Repair is the normalizer's job; none happens here.
package canonical

import "github.com/fwojciec/veridoc"

// Page converts one page's normalized extraction into canonical facts,
// stamping (docID, page) provenance on every fact. It returns the kept
// facts in stable order (units, then bijections, then grids, each in input
// order) and the number of candidates dropped by validation.
func Page(ext veridoc.PageExtraction, docID string, page int) (veridoc.FactSet, int) {
	var set veridoc.FactSet
	dropped := 0

	for _, e := range ext.Units {
		u := &veridoc.Unit{
			ID:            e.ID,
			Label:         e.Label,
			Value:         e.Value,
			UnitOfMeasure: e.UnitOfMeasure,
			Context:       e.Context,
			Origin:        e.Origin,
			BBox:          e.BBox,
			DocID:         docID,
			Page:          page,
		}
		if err := u.Validate(); err != nil {
			dropped++
			continue
		}
		set.Units = append(set.Units, u)
	}

	for _, e := range ext.Bijections {
		b := &veridoc.Bijection{
			ID:       e.ID,
			LeftSet:  e.LeftSet,
			RightSet: e.RightSet,
			Mapping:  e.Mapping,
			Origin:   e.Origin,
			BBox:     e.BBox,
			DocID:    docID,
			Page:     page,
		}
		if err := b.Validate(); err != nil {
			dropped++
			continue
		}
		set.Bijections = append(set.Bijections, b)
	}

	for _, e := range ext.Grids {
		cells := make([]veridoc.GridCell, 0, len(e.Cells))
		for _, c := range e.Cells {
			cells = append(cells, veridoc.GridCell{
				Row:    c.Row,
				Col:    c.Col,
				Value:  c.Value,
				Origin: c.Origin,
			})
		}
		g := &veridoc.Grid{
			ID:     e.ID,
			Rows:   e.Rows,
			Cols:   e.Cols,
			Cells:  cells,
			Origin: e.Origin,
			BBox:   e.BBox,
			DocID:  docID,
			Page:   page,
		}
		if err := g.Validate(); err != nil {
			dropped++
			continue
		}
		set.Grids = append(set.Grids, g)
	}

	return set, dropped
}
