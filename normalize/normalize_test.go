package normalize_test

import (
	"encoding/json"
	"testing"

	"github.com/fwojciec/veridoc"
	"github.com/fwojciec/veridoc/normalize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decode parses JSON into the untyped tree shape the normalizer consumes.
func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestPage_NonObjectInput(t *testing.T) {
	t.Parallel()

	for _, raw := range []any{nil, "text", []any{1, 2}, 42.0} {
		ext := normalize.Page(raw, 0)
		assert.Empty(t, ext.Units)
		assert.Empty(t, ext.Bijections)
		assert.Empty(t, ext.Grids)
	}
}

func TestPage_Units(t *testing.T) {
	t.Parallel()

	t.Run("keeps valid units and synthesizes ids", func(t *testing.T) {
		t.Parallel()

		raw := decode(t, `{"units": [
			{"value": "5", "unit_of_measure": "V", "origin": {"x": 0.1, "y": 0.2}},
			{"label": "GND", "origin": {"x": 0.3, "y": 0.4}}
		]}`)

		ext := normalize.Page(raw, 2)
		require.Len(t, ext.Units, 2)
		assert.Equal(t, "p2_u0", ext.Units[0].ID)
		assert.Equal(t, "5", ext.Units[0].Value)
		assert.Equal(t, "V", ext.Units[0].UnitOfMeasure)
		assert.Equal(t, &veridoc.Point{X: 0.1, Y: 0.2}, ext.Units[0].Origin)
		assert.Equal(t, "p2_u1", ext.Units[1].ID)
	})

	t.Run("drops units without origin", func(t *testing.T) {
		t.Parallel()

		raw := decode(t, `{"units": [
			{"value": "no origin"},
			{"value": "bad origin", "origin": {"x": "left"}},
			{"value": "ok", "origin": {"x": 0, "y": 0}}
		]}`)

		ext := normalize.Page(raw, 0)
		require.Len(t, ext.Units, 1)
		assert.Equal(t, "ok", ext.Units[0].Value)
		assert.Equal(t, "p0_u0", ext.Units[0].ID, "synthetic index counts kept units only")
	})

	t.Run("value falls back through text, label, content", func(t *testing.T) {
		t.Parallel()

		raw := decode(t, `{"units": [
			{"text": "from text", "origin": {"x": 0, "y": 0}},
			{"content": "from content", "origin": {"x": 0, "y": 0}},
			{"origin": {"x": 0, "y": 0}}
		]}`)

		ext := normalize.Page(raw, 0)
		require.Len(t, ext.Units, 3)
		assert.Equal(t, "from text", ext.Units[0].Value)
		assert.Equal(t, "from content", ext.Units[1].Value)
		assert.Empty(t, ext.Units[2].Value, "missing value does not drop the unit")
	})

	t.Run("numeric values keep shortest decimal form", func(t *testing.T) {
		t.Parallel()

		raw := decode(t, `{"units": [
			{"value": 5.0, "origin": {"x": 0, "y": 0}},
			{"value": 3.3, "origin": {"x": 0, "y": 0}}
		]}`)

		ext := normalize.Page(raw, 0)
		require.Len(t, ext.Units, 2)
		assert.Equal(t, "5", ext.Units[0].Value)
		assert.Equal(t, "3.3", ext.Units[1].Value)
	})

	t.Run("keeps provided string id", func(t *testing.T) {
		t.Parallel()

		raw := decode(t, `{"units": [
			{"id": "vcc_max", "value": "5", "origin": {"x": 0, "y": 0}},
			{"id": 7, "value": "5", "origin": {"x": 0, "y": 0}}
		]}`)

		ext := normalize.Page(raw, 1)
		require.Len(t, ext.Units, 2)
		assert.Equal(t, "vcc_max", ext.Units[0].ID)
		assert.Equal(t, "p1_u1", ext.Units[1].ID, "non-string id is treated as absent")
	})

	t.Run("origin as ordered pair", func(t *testing.T) {
		t.Parallel()

		raw := decode(t, `{"units": [{"value": "5", "origin": [0.5, 0.3]}]}`)
		ext := normalize.Page(raw, 0)
		require.Len(t, ext.Units, 1)
		assert.Equal(t, &veridoc.Point{X: 0.5, Y: 0.3}, ext.Units[0].Origin)
	})

	t.Run("bbox as map and ordered list", func(t *testing.T) {
		t.Parallel()

		raw := decode(t, `{"units": [
			{"value": "a", "origin": [0, 0], "bbox": {"x1": 0.1, "y1": 0.2, "x2": 0.3, "y2": 0.4}},
			{"value": "b", "origin": [0, 0], "bbox": [0.1, 0.2, 0.3, 0.4]},
			{"value": "c", "origin": [0, 0], "bbox": "wide"}
		]}`)

		ext := normalize.Page(raw, 0)
		require.Len(t, ext.Units, 3)
		want := &veridoc.BoundingBox{X1: 0.1, Y1: 0.2, X2: 0.3, Y2: 0.4}
		assert.Equal(t, want, ext.Units[0].BBox)
		assert.Equal(t, want, ext.Units[1].BBox)
		assert.Nil(t, ext.Units[2].BBox, "malformed bbox dropped, unit kept")
	})
}

func TestPage_Bijections(t *testing.T) {
	t.Parallel()

	t.Run("full shape", func(t *testing.T) {
		t.Parallel()

		raw := decode(t, `{"bijections": [{
			"left_set": ["VCC", "GND"],
			"right_set": ["1", "2"],
			"mapping": {"VCC": "1", "GND": "2"},
			"origin": {"x": 0.5, "y": 0.3}
		}]}`)

		ext := normalize.Page(raw, 0)
		require.Len(t, ext.Bijections, 1)
		b := ext.Bijections[0]
		assert.Equal(t, "p0_b0", b.ID)
		assert.Equal(t, []string{"VCC", "GND"}, b.LeftSet)
		assert.Equal(t, map[string]string{"VCC": "1", "GND": "2"}, b.Mapping)
	})

	t.Run("full shape derives missing sets from mapping", func(t *testing.T) {
		t.Parallel()

		raw := decode(t, `{"bijections": [{
			"mapping": {"GND": "2", "VCC": "1"},
			"origin": {"x": 0, "y": 0}
		}]}`)

		ext := normalize.Page(raw, 0)
		require.Len(t, ext.Bijections, 1)
		b := ext.Bijections[0]
		assert.Equal(t, []string{"GND", "VCC"}, b.LeftSet, "derived in lexical order")
		assert.Equal(t, []string{"2", "1"}, b.RightSet)
	})

	t.Run("pair shorthand", func(t *testing.T) {
		t.Parallel()

		raw := decode(t, `{"bijections": [{"pair": ["VCC", "1"], "origin": [0.5, 0.3]}]}`)

		ext := normalize.Page(raw, 0)
		require.Len(t, ext.Bijections, 1)
		assert.Equal(t, map[string]string{"VCC": "1"}, ext.Bijections[0].Mapping)
		assert.Equal(t, []string{"VCC"}, ext.Bijections[0].LeftSet)
	})

	t.Run("key value shorthand", func(t *testing.T) {
		t.Parallel()

		raw := decode(t, `{"bijections": [{"key": "MISO", "value": 7, "origin": [0, 0]}]}`)

		ext := normalize.Page(raw, 0)
		require.Len(t, ext.Bijections, 1)
		assert.Equal(t, map[string]string{"MISO": "7"}, ext.Bijections[0].Mapping)
	})

	t.Run("drops missing origin and unrecognized shapes", func(t *testing.T) {
		t.Parallel()

		raw := decode(t, `{"bijections": [
			{"mapping": {"A": "1"}},
			{"something": "else", "origin": [0, 0]},
			{"mapping": "not a map", "origin": [0, 0]}
		]}`)

		ext := normalize.Page(raw, 0)
		assert.Empty(t, ext.Bijections)
	})
}

func TestPage_Grids(t *testing.T) {
	t.Parallel()

	t.Run("rows list shape expands to sparse cells", func(t *testing.T) {
		t.Parallel()

		raw := decode(t, `{"grids": [{
			"rows": [
				{"cells": ["pin", "1"]},
				{"cells": [{"value": "VCC", "origin": [0.2, 0.6]}, "2", "extra"]}
			],
			"origin": {"x": 0.1, "y": 0.5}
		}]}`)

		ext := normalize.Page(raw, 0)
		require.Len(t, ext.Grids, 1)
		g := ext.Grids[0]
		assert.Equal(t, "p0_g0", g.ID)
		assert.Equal(t, 2, g.Rows)
		assert.Equal(t, 3, g.Cols, "widest row wins")
		require.Len(t, g.Cells, 5)
		assert.Equal(t, veridoc.CellExtract{Row: 0, Col: 1, Value: "1"}, g.Cells[1])
		assert.Equal(t, "VCC", g.Cells[2].Value)
		assert.Equal(t, &veridoc.Point{X: 0.2, Y: 0.6}, g.Cells[2].Origin)
	})

	t.Run("explicit shape keeps declared dimensions", func(t *testing.T) {
		t.Parallel()

		raw := decode(t, `{"grids": [{
			"rows": 2, "cols": 2,
			"cells": [
				{"row": 0, "col": 0, "value": "GND"},
				{"row": 1, "col": 1, "value": "5"},
				{"row": -1, "col": 0, "value": "bad"},
				{"col": 1, "value": "no row"}
			],
			"origin": [0, 0]
		}]}`)

		ext := normalize.Page(raw, 0)
		require.Len(t, ext.Grids, 1)
		g := ext.Grids[0]
		assert.Equal(t, 2, g.Rows)
		assert.Equal(t, 2, g.Cols)
		require.Len(t, g.Cells, 2, "cells with invalid indices dropped")
	})

	t.Run("drops grids without origin or rows", func(t *testing.T) {
		t.Parallel()

		raw := decode(t, `{"grids": [
			{"rows": 2, "cols": 2},
			{"origin": [0, 0]},
			{"rows": "two", "origin": [0, 0]}
		]}`)

		ext := normalize.Page(raw, 0)
		assert.Empty(t, ext.Grids)
	})

	t.Run("cols floor at one", func(t *testing.T) {
		t.Parallel()

		raw := decode(t, `{"grids": [{"rows": 3, "origin": [0, 0]}]}`)
		ext := normalize.Page(raw, 0)
		require.Len(t, ext.Grids, 1)
		assert.Equal(t, 1, ext.Grids[0].Cols)
	})
}
