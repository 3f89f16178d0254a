package verify_test

import (
	"testing"

	"github.com/fwojciec/veridoc"
	"github.com/fwojciec/veridoc/verify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswer_EmptyFactSet(t *testing.T) {
	t.Parallel()

	v := verify.Answer("What is the maximum voltage?", veridoc.FactSet{})

	assert.True(t, v.Refused())
	assert.Equal(t, verify.RefuseReason, v.Reason)
	assert.Contains(t, v.Reason, "canonical")
	assert.Empty(t, v.Proof)
}

func TestAnswer_PinViaBijection(t *testing.T) {
	t.Parallel()

	set := veridoc.FactSet{
		Bijections: []*veridoc.Bijection{{
			ID:       "p0_b0",
			LeftSet:  []string{"VCC", "GND"},
			RightSet: []string{"1", "2"},
			Mapping:  map[string]string{"VCC": "1", "GND": "2"},
			Origin:   &veridoc.Point{X: 0.5, Y: 0.3},
			DocID:    "doc1",
		}},
	}

	v := verify.Answer("What is pin 2?", set)

	require.False(t, v.Refused())
	assert.Equal(t, "GND", v.Answer)
	require.Len(t, v.Proof, 1)
	assert.Equal(t, 0.5, v.Proof[0].X)
	assert.Equal(t, 0.3, v.Proof[0].Y)
	assert.Equal(t, veridoc.SourceBijection, v.SourceType)
	assert.Equal(t, "p0_b0", v.SourceID)
}

func TestAnswer_PinNumberPhrase(t *testing.T) {
	t.Parallel()

	set := veridoc.FactSet{
		Bijections: []*veridoc.Bijection{{
			ID:      "b0",
			Mapping: map[string]string{"MISO": "7"},
			Origin:  &veridoc.Point{},
		}},
	}

	v := verify.Answer("what is pin number 7", set)

	require.False(t, v.Refused())
	assert.Equal(t, "MISO", v.Answer)
}

func TestAnswer_PinViaGridAdjacentCell(t *testing.T) {
	t.Parallel()

	set := veridoc.FactSet{
		Grids: []*veridoc.Grid{{
			ID:   "p0_g0",
			Rows: 2,
			Cols: 2,
			Cells: []veridoc.GridCell{
				{Row: 0, Col: 0, Value: "1"},
				{Row: 0, Col: 1, Value: "VCC"},
				{Row: 1, Col: 0, Value: "2", Origin: &veridoc.Point{X: 0.2, Y: 0.6}},
				{Row: 1, Col: 1, Value: "GND"},
			},
			Origin: &veridoc.Point{X: 0.1, Y: 0.5},
		}},
	}

	v := verify.Answer("What is pin 2?", set)

	require.False(t, v.Refused())
	assert.Equal(t, "GND", v.Answer, "answer comes from the adjacent cell, not the matched digit")
	require.Len(t, v.Proof, 1)
	assert.Equal(t, 0.2, v.Proof[0].X, "cell origin preferred over grid origin")
	assert.Equal(t, 0.6, v.Proof[0].Y)
	assert.Equal(t, veridoc.SourceGrid, v.SourceType)
}

func TestAnswer_PinViaGridFallsBackToLeftNeighbor(t *testing.T) {
	t.Parallel()

	set := veridoc.FactSet{
		Grids: []*veridoc.Grid{{
			ID:   "g0",
			Rows: 1,
			Cols: 2,
			Cells: []veridoc.GridCell{
				{Row: 0, Col: 0, Value: "RESET"},
				{Row: 0, Col: 1, Value: "4"},
			},
			Origin: &veridoc.Point{},
		}},
	}

	v := verify.Answer("what is pin 4", set)

	require.False(t, v.Refused())
	assert.Equal(t, "RESET", v.Answer)
}

func TestAnswer_MaxVoltageStructured(t *testing.T) {
	t.Parallel()

	set := veridoc.FactSet{
		Units: []*veridoc.Unit{
			{ID: "u0", Value: "3.3", UnitOfMeasure: "V", Origin: &veridoc.Point{X: 0.4, Y: 0.1}},
			{ID: "u1", Value: "5", UnitOfMeasure: "V", Origin: &veridoc.Point{X: 0.8, Y: 0.1}},
		},
	}

	v := verify.Answer("What is the maximum voltage?", set)

	require.False(t, v.Refused())
	assert.Equal(t, "5 V", v.Answer)
	require.Len(t, v.Proof, 1)
	assert.Equal(t, 0.8, v.Proof[0].X)
	assert.Equal(t, "u1", v.SourceID)
	assert.Equal(t, veridoc.SourceUnit, v.SourceType)
}

func TestAnswer_MaxVoltageParsedFallback(t *testing.T) {
	t.Parallel()

	set := veridoc.FactSet{
		Units: []*veridoc.Unit{
			{ID: "u0", Value: "operating range 2.7 V to 5.5 V", Origin: &veridoc.Point{}},
		},
	}

	v := verify.Answer("maximum voltage?", set)

	require.False(t, v.Refused())
	assert.Equal(t, "5.5 V", v.Answer)
}

func TestAnswer_MaxCurrent(t *testing.T) {
	t.Parallel()

	set := veridoc.FactSet{
		Units: []*veridoc.Unit{
			{ID: "u0", Value: "20", UnitOfMeasure: "mA", Origin: &veridoc.Point{}},
			{ID: "u1", Value: "sink up to 500 mA per pin", Origin: &veridoc.Point{}},
		},
	}

	v := verify.Answer("what is the maximum current?", set)

	require.False(t, v.Refused())
	assert.Equal(t, "500 mA", v.Answer)
	assert.Equal(t, "u1", v.SourceID)
}

func TestAnswer_MaxCapacity(t *testing.T) {
	t.Parallel()

	set := veridoc.FactSet{
		Units: []*veridoc.Unit{
			{ID: "u0", Value: "2500", UnitOfMeasure: "mAh", Origin: &veridoc.Point{}},
		},
	}

	v := verify.Answer("what is the nominal capacity", set)

	require.False(t, v.Refused())
	assert.Equal(t, "2500 mAh", v.Answer)
}

func TestAnswer_PinBeatsVoltage(t *testing.T) {
	t.Parallel()

	// Both rules apply; chain order resolves the tie in favor of pin lookup.
	set := veridoc.FactSet{
		Units: []*veridoc.Unit{
			{ID: "u0", Value: "5", UnitOfMeasure: "V", Origin: &veridoc.Point{}},
		},
		Bijections: []*veridoc.Bijection{{
			ID:      "b0",
			Mapping: map[string]string{"VCC": "1"},
			Origin:  &veridoc.Point{},
		}},
	}

	v := verify.Answer("what is the max voltage on pin 1", set)

	require.False(t, v.Refused())
	assert.Equal(t, "VCC", v.Answer)
	assert.Equal(t, veridoc.SourceBijection, v.SourceType)
}

func TestAnswer_IntentWithoutMax(t *testing.T) {
	t.Parallel()

	set := veridoc.FactSet{
		Units: []*veridoc.Unit{
			{ID: "u0", Label: "ripple", Value: "0.1", UnitOfMeasure: "V", Origin: &veridoc.Point{X: 0.2, Y: 0.9}},
			{ID: "u1", Label: "supply voltage", Value: "3.3", UnitOfMeasure: "V", Origin: &veridoc.Point{X: 0.4, Y: 0.2}},
		},
	}

	v := verify.Answer("What is the supply voltage?", set)

	require.False(t, v.Refused())
	assert.Equal(t, "3.3 V", v.Answer, "keyword overlap selects the supply unit")
	assert.Equal(t, "u1", v.SourceID)
}

func TestAnswer_IntentTieBreaksByReadingOrder(t *testing.T) {
	t.Parallel()

	// Identical scores; the unit higher on the page wins.
	set := veridoc.FactSet{
		Units: []*veridoc.Unit{
			{ID: "lower", Value: "1.8", UnitOfMeasure: "V", Origin: &veridoc.Point{X: 0.1, Y: 0.8}},
			{ID: "upper", Value: "1.2", UnitOfMeasure: "V", Origin: &veridoc.Point{X: 0.5, Y: 0.2}},
		},
	}

	v := verify.Answer("which voltage is listed here", set)

	require.False(t, v.Refused())
	assert.Equal(t, "upper", v.SourceID)
}

func TestAnswer_LiteralLookup(t *testing.T) {
	t.Parallel()

	set := veridoc.FactSet{
		Units: []*veridoc.Unit{
			{ID: "u0", Label: "VCC", Value: "3.3", UnitOfMeasure: "V", Origin: &veridoc.Point{X: 0.3, Y: 0.4}},
		},
	}

	v := verify.Answer("What is VCC?", set)

	require.False(t, v.Refused())
	assert.Equal(t, "3.3 V", v.Answer)
}

func TestAnswer_LiteralLookupSkipsEmptyFields(t *testing.T) {
	t.Parallel()

	set := veridoc.FactSet{
		Units: []*veridoc.Unit{
			{ID: "u0", Origin: &veridoc.Point{}},
		},
	}

	v := verify.Answer("what is anything", set)

	assert.True(t, v.Refused(), "an empty label must not match every question")
}

func TestAnswer_RefusesUnrelatedQuestion(t *testing.T) {
	t.Parallel()

	set := veridoc.FactSet{
		Units: []*veridoc.Unit{
			{ID: "u0", Label: "supply", Value: "3.3", UnitOfMeasure: "V", Origin: &veridoc.Point{}},
		},
	}

	v := verify.Answer("what is the weather today", set)

	assert.True(t, v.Refused())
	assert.Equal(t, verify.RefuseReason, v.Reason)
}

func TestAnswer_Deterministic(t *testing.T) {
	t.Parallel()

	set := veridoc.FactSet{
		Units: []*veridoc.Unit{
			{ID: "u0", Value: "5", UnitOfMeasure: "V", Origin: &veridoc.Point{X: 0.8, Y: 0.1}},
		},
		Bijections: []*veridoc.Bijection{{
			ID:      "b0",
			LeftSet: []string{"A", "B"},
			Mapping: map[string]string{"A": "1", "B": "1"},
			Origin:  &veridoc.Point{},
		}},
	}

	first := verify.Answer("what is pin 1", set)
	for range 10 {
		assert.Equal(t, first, verify.Answer("what is pin 1", set))
	}
}

func TestCoordinateSummary(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "no coordinates", verify.CoordinateSummary(nil))

	got := verify.CoordinateSummary([]veridoc.ProofPoint{
		{Page: 3, X: 0.5, Y: 0.3},
		{Page: 0, X: 0.125, Y: 1},
	})
	assert.Equal(t, "page 3 (x=0.50, y=0.30); page 0 (x=0.12, y=1.00)", got)
}
