// Package normalize repairs a raw, loosely-structured model response into
// the closed extraction schema. The input is an untyped JSON tree of
// unknown shape; every accessor type-checks before use and malformed
// entries are dropped, never substituted with guesses. Normalization never
// fails: the worst outcome is an empty extraction.
package normalize

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/fwojciec/veridoc"
)

// valueKeys are tried in order when extracting a unit's value.
var valueKeys = []string{"value", "text", "label", "content"}

// Page coerces the parsed JSON body of a model response into a
// PageExtraction for the given 0-based page index.
func Page(raw any, page int) veridoc.PageExtraction {
	var ext veridoc.PageExtraction
	m, ok := asMap(raw)
	if !ok {
		return ext
	}
	ext.Units = units(m["units"], page)
	ext.Bijections = bijections(m["bijections"], page)
	ext.Grids = grids(m["grids"], page)
	return ext
}

// units keeps entries that are maps and carry a coercible origin. A missing
// value never drops a unit; a missing origin always does.
func units(raw any, page int) []veridoc.UnitExtract {
	entries, ok := asList(raw)
	if !ok {
		return nil
	}
	var out []veridoc.UnitExtract
	for _, entry := range entries {
		m, ok := asMap(entry)
		if !ok {
			continue
		}
		origin := point(m["origin"])
		if origin == nil {
			continue
		}
		u := veridoc.UnitExtract{
			ID:            providedID(m),
			Label:         str(m["label"]),
			UnitOfMeasure: str(m["unit_of_measure"]),
			Context:       str(m["context"]),
			Origin:        origin,
			BBox:          bbox(m["bbox"]),
		}
		for _, k := range valueKeys {
			if v, ok := m[k]; ok {
				u.Value = str(v)
				break
			}
		}
		if u.ID == "" {
			u.ID = fmt.Sprintf("p%d_u%d", page, len(out))
		}
		out = append(out, u)
	}
	return out
}

// bijections accepts three shapes: a full {left_set, right_set, mapping}
// object, a pair: [a, b] shorthand, or a {key, value} shorthand. Entries
// with no valid origin or an unrecognized shape are dropped.
func bijections(raw any, page int) []veridoc.BijectionExtract {
	entries, ok := asList(raw)
	if !ok {
		return nil
	}
	var out []veridoc.BijectionExtract
	for _, entry := range entries {
		m, ok := asMap(entry)
		if !ok {
			continue
		}
		origin := point(m["origin"])
		if origin == nil {
			continue
		}
		b, ok := bijectionShape(m)
		if !ok {
			continue
		}
		b.Origin = origin
		b.BBox = bbox(m["bbox"])
		b.ID = providedID(m)
		if b.ID == "" {
			b.ID = fmt.Sprintf("p%d_b%d", page, len(out))
		}
		out = append(out, b)
	}
	return out
}

func bijectionShape(m map[string]any) (veridoc.BijectionExtract, bool) {
	var b veridoc.BijectionExtract

	if _, ok := m["mapping"]; ok {
		mapping, ok := stringMap(m["mapping"])
		if !ok {
			return b, false
		}
		b.LeftSet = stringList(m["left_set"])
		b.RightSet = stringList(m["right_set"])
		b.Mapping = mapping
		if b.LeftSet == nil || b.RightSet == nil {
			// Derive missing sets from the mapping, keys in lexical order so
			// identical input always yields identical output.
			keys := make([]string, 0, len(mapping))
			for k := range mapping {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			if b.LeftSet == nil {
				b.LeftSet = keys
			}
			if b.RightSet == nil {
				vals := make([]string, 0, len(mapping))
				for _, k := range keys {
					vals = append(vals, mapping[k])
				}
				b.RightSet = vals
			}
		}
		return b, true
	}

	if pair, ok := asList(m["pair"]); ok && len(pair) == 2 {
		left, right := str(pair[0]), str(pair[1])
		b.LeftSet = []string{left}
		b.RightSet = []string{right}
		b.Mapping = map[string]string{left: right}
		return b, true
	}

	kRaw, hasKey := m["key"]
	vRaw, hasValue := m["value"]
	if hasKey && hasValue {
		left, right := str(kRaw), str(vRaw)
		b.LeftSet = []string{left}
		b.RightSet = []string{right}
		b.Mapping = map[string]string{left: right}
		return b, true
	}

	return b, false
}

// grids accepts two shapes: rows as a list of row-objects each holding a
// cells list (row/col indices inferred from list position), or an
// already-correct {rows: int, cols: int, cells: [...]}.
func grids(raw any, page int) []veridoc.GridExtract {
	entries, ok := asList(raw)
	if !ok {
		return nil
	}
	var out []veridoc.GridExtract
	for _, entry := range entries {
		m, ok := asMap(entry)
		if !ok {
			continue
		}
		origin := point(m["origin"])
		if origin == nil {
			continue
		}
		var g veridoc.GridExtract
		if rowObjs, ok := asList(m["rows"]); ok {
			g = expandRows(rowObjs)
		} else if rows, ok := integer(m["rows"]); ok {
			cols, _ := integer(m["cols"])
			g = veridoc.GridExtract{Rows: rows, Cols: cols, Cells: cells(m["cells"])}
		} else {
			continue
		}
		if g.Cols < 1 {
			g.Cols = 1
		}
		g.Origin = origin
		g.BBox = bbox(m["bbox"])
		g.ID = providedID(m)
		if g.ID == "" {
			g.ID = fmt.Sprintf("p%d_g%d", page, len(out))
		}
		out = append(out, g)
	}
	return out
}

// expandRows flattens row-organized output into a sparse cell list.
// Row index is position in the rows list, column index position in the
// row's cells list; the column count is the widest row observed.
func expandRows(rowObjs []any) veridoc.GridExtract {
	var g veridoc.GridExtract
	for ri, rowRaw := range rowObjs {
		rowMap, ok := asMap(rowRaw)
		if !ok {
			continue
		}
		cellList, ok := asList(rowMap["cells"])
		if !ok {
			cellList, ok = asList(rowMap["cell"])
		}
		if !ok {
			continue
		}
		if len(cellList) > g.Cols {
			g.Cols = len(cellList)
		}
		for ci, cellRaw := range cellList {
			cell := veridoc.CellExtract{Row: ri, Col: ci}
			if cm, ok := asMap(cellRaw); ok {
				for _, k := range valueKeys {
					if v, ok := cm[k]; ok {
						cell.Value = str(v)
						break
					}
				}
				cell.Origin = point(cm["origin"])
			} else {
				cell.Value = str(cellRaw)
			}
			g.Cells = append(g.Cells, cell)
		}
	}
	g.Rows = len(rowObjs)
	return g
}

// cells normalizes an explicit cell list; cells without coercible row/col
// indices are dropped.
func cells(raw any) []veridoc.CellExtract {
	list, ok := asList(raw)
	if !ok {
		return nil
	}
	var out []veridoc.CellExtract
	for _, cellRaw := range list {
		cm, ok := asMap(cellRaw)
		if !ok {
			continue
		}
		row, ok := integer(cm["row"])
		if !ok || row < 0 {
			continue
		}
		col, ok := integer(cm["col"])
		if !ok || col < 0 {
			continue
		}
		cell := veridoc.CellExtract{Row: row, Col: col, Origin: point(cm["origin"])}
		for _, k := range valueKeys {
			if v, ok := cm[k]; ok {
				cell.Value = str(v)
				break
			}
		}
		out = append(out, cell)
	}
	return out
}

// providedID returns a non-empty string id supplied by the model, or "".
// Non-string ids are treated as absent.
func providedID(m map[string]any) string {
	if s, ok := m["id"].(string); ok {
		return s
	}
	return ""
}

// point coerces a map with numeric x/y or a 2-element ordered pair into a
// Point; anything else is nil.
func point(raw any) *veridoc.Point {
	if m, ok := asMap(raw); ok {
		x, okX := number(m["x"])
		y, okY := number(m["y"])
		if okX && okY {
			return &veridoc.Point{X: x, Y: y}
		}
		return nil
	}
	if pair, ok := asList(raw); ok && len(pair) == 2 {
		x, okX := number(pair[0])
		y, okY := number(pair[1])
		if okX && okY {
			return &veridoc.Point{X: x, Y: y}
		}
	}
	return nil
}

// bbox coerces a map with numeric x1/y1/x2/y2 or a 4-element ordered list
// into a BoundingBox; anything else is nil.
func bbox(raw any) *veridoc.BoundingBox {
	if m, ok := asMap(raw); ok {
		x1, ok1 := number(m["x1"])
		y1, ok2 := number(m["y1"])
		x2, ok3 := number(m["x2"])
		y2, ok4 := number(m["y2"])
		if ok1 && ok2 && ok3 && ok4 {
			return &veridoc.BoundingBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
		}
		return nil
	}
	if quad, ok := asList(raw); ok && len(quad) == 4 {
		x1, ok1 := number(quad[0])
		y1, ok2 := number(quad[1])
		x2, ok3 := number(quad[2])
		y2, ok4 := number(quad[3])
		if ok1 && ok2 && ok3 && ok4 {
			return &veridoc.BoundingBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
		}
	}
	return nil
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asList(v any) ([]any, bool) {
	l, ok := v.([]any)
	return l, ok
}

// number accepts JSON numbers, Go ints, and numeric strings.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// integer accepts JSON numbers with no fractional part and numeric strings.
func integer(v any) (int, bool) {
	f, ok := number(v)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// str coerces a scalar to a string; JSON numbers keep their shortest
// decimal form (3.3 -> "3.3", 5.0 -> "5"). Non-scalars coerce to "".
func str(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

// stringList coerces a list of scalars to strings; a non-list yields nil.
func stringList(raw any) []string {
	list, ok := asList(raw)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		out = append(out, str(v))
	}
	return out
}

// stringMap coerces a map of scalars to a string map; a non-map fails.
func stringMap(raw any) (map[string]string, bool) {
	m, ok := asMap(raw)
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = str(v)
	}
	return out, true
}
