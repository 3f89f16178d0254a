package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fwojciec/veridoc"
)

// Compile-time interface verification.
var _ veridoc.FactService = (*FactService)(nil)

// FactService implements veridoc.FactService using SQLite. Coordinates,
// mappings, and cells are stored as JSON columns; the relational keys are
// only (doc_id, page, local_id).
type FactService struct {
	db *DB
}

// NewFactService creates a new FactService.
func NewFactService(db *DB) *FactService {
	return &FactService{db: db}
}

// CreateFacts persists the facts in set under the given document. Facts
// are validated before insertion; a validation failure aborts the batch.
func (s *FactService) CreateFacts(ctx context.Context, docID string, set veridoc.FactSet) error {
	if err := veridoc.ValidateDocID(docID); err != nil {
		return err
	}

	for _, u := range set.Units {
		if err := u.Validate(); err != nil {
			return err
		}
		bbox, err := encodeBBox(u.BBox)
		if err != nil {
			return err
		}
		origin, err := encodeJSON(u.Origin)
		if err != nil {
			return err
		}
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO units (doc_id, page, local_id, label, value, unit_of_measure, context, origin_json, bbox_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, docID, u.Page, u.ID, u.Label, u.Value, u.UnitOfMeasure, u.Context, origin, bbox)
		if err != nil {
			return err
		}
	}

	for _, b := range set.Bijections {
		if err := b.Validate(); err != nil {
			return err
		}
		leftSet, err := encodeJSON(b.LeftSet)
		if err != nil {
			return err
		}
		rightSet, err := encodeJSON(b.RightSet)
		if err != nil {
			return err
		}
		mapping, err := encodeJSON(b.Mapping)
		if err != nil {
			return err
		}
		origin, err := encodeJSON(b.Origin)
		if err != nil {
			return err
		}
		bbox, err := encodeBBox(b.BBox)
		if err != nil {
			return err
		}
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO bijections (doc_id, page, local_id, left_set_json, right_set_json, mapping_json, origin_json, bbox_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, docID, b.Page, b.ID, leftSet, rightSet, mapping, origin, bbox)
		if err != nil {
			return err
		}
	}

	for _, g := range set.Grids {
		if err := g.Validate(); err != nil {
			return err
		}
		cells, err := encodeJSON(g.Cells)
		if err != nil {
			return err
		}
		origin, err := encodeJSON(g.Origin)
		if err != nil {
			return err
		}
		bbox, err := encodeBBox(g.BBox)
		if err != nil {
			return err
		}
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO grids (doc_id, page, local_id, rows, cols, cells_json, origin_json, bbox_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, docID, g.Page, g.ID, g.Rows, g.Cols, cells, origin, bbox)
		if err != nil {
			return err
		}
	}

	return nil
}

// FindFactsByDocument returns the full fact set for a document in
// insertion order.
func (s *FactService) FindFactsByDocument(ctx context.Context, docID string) (veridoc.FactSet, error) {
	var set veridoc.FactSet
	var err error

	if set.Units, err = s.findUnits(ctx, docID); err != nil {
		return set, err
	}
	if set.Bijections, err = s.findBijections(ctx, docID); err != nil {
		return set, err
	}
	if set.Grids, err = s.findGrids(ctx, docID); err != nil {
		return set, err
	}
	return set, nil
}

func (s *FactService) findUnits(ctx context.Context, docID string) ([]*veridoc.Unit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT page, local_id, label, value, unit_of_measure, context, origin_json, bbox_json
		FROM units WHERE doc_id = ? ORDER BY id
	`, docID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []*veridoc.Unit
	for rows.Next() {
		u := veridoc.Unit{DocID: docID}
		var origin string
		var bbox *string
		if err := rows.Scan(&u.Page, &u.ID, &u.Label, &u.Value, &u.UnitOfMeasure, &u.Context, &origin, &bbox); err != nil {
			return nil, err
		}
		if u.Origin, err = decodePoint(origin); err != nil {
			return nil, err
		}
		if u.BBox, err = decodeBBox(bbox); err != nil {
			return nil, err
		}
		units = append(units, &u)
	}
	return units, rows.Err()
}

func (s *FactService) findBijections(ctx context.Context, docID string) ([]*veridoc.Bijection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT page, local_id, left_set_json, right_set_json, mapping_json, origin_json, bbox_json
		FROM bijections WHERE doc_id = ? ORDER BY id
	`, docID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bijections []*veridoc.Bijection
	for rows.Next() {
		b := veridoc.Bijection{DocID: docID}
		var leftSet, rightSet, mapping, origin string
		var bbox *string
		if err := rows.Scan(&b.Page, &b.ID, &leftSet, &rightSet, &mapping, &origin, &bbox); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(leftSet), &b.LeftSet); err != nil {
			return nil, fmt.Errorf("failed to parse left_set_json: %w", err)
		}
		if err := json.Unmarshal([]byte(rightSet), &b.RightSet); err != nil {
			return nil, fmt.Errorf("failed to parse right_set_json: %w", err)
		}
		if err := json.Unmarshal([]byte(mapping), &b.Mapping); err != nil {
			return nil, fmt.Errorf("failed to parse mapping_json: %w", err)
		}
		if b.Origin, err = decodePoint(origin); err != nil {
			return nil, err
		}
		if b.BBox, err = decodeBBox(bbox); err != nil {
			return nil, err
		}
		bijections = append(bijections, &b)
	}
	return bijections, rows.Err()
}

func (s *FactService) findGrids(ctx context.Context, docID string) ([]*veridoc.Grid, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT page, local_id, rows, cols, cells_json, origin_json, bbox_json
		FROM grids WHERE doc_id = ? ORDER BY id
	`, docID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grids []*veridoc.Grid
	for rows.Next() {
		g := veridoc.Grid{DocID: docID}
		var cells, origin string
		var bbox *string
		if err := rows.Scan(&g.Page, &g.ID, &g.Rows, &g.Cols, &cells, &origin, &bbox); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(cells), &g.Cells); err != nil {
			return nil, fmt.Errorf("failed to parse cells_json: %w", err)
		}
		if g.Origin, err = decodePoint(origin); err != nil {
			return nil, err
		}
		if g.BBox, err = decodeBBox(bbox); err != nil {
			return nil, err
		}
		grids = append(grids, &g)
	}
	return grids, rows.Err()
}

// CountFactsByDocument returns per-kind fact counts for a document.
func (s *FactService) CountFactsByDocument(ctx context.Context, docID string) (veridoc.FactCounts, error) {
	var counts veridoc.FactCounts
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM units WHERE doc_id = ?),
			(SELECT COUNT(*) FROM bijections WHERE doc_id = ?),
			(SELECT COUNT(*) FROM grids WHERE doc_id = ?)
	`, docID, docID, docID).Scan(&counts.Units, &counts.Bijections, &counts.Grids)
	return counts, err
}
