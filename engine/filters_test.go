package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFiltersNoFilters(t *testing.T) {
	view := NewSliceView(loadSales(t).Data)
	assert.Same(t, view, ApplyFilters(view, nil))
}

func TestApplyFiltersConjunction(t *testing.T) {
	view := NewSliceView(loadSales(t).Data)

	a := Filter{Dimension: "region", Operator: OpEqual, Value: "北区"}
	b := Filter{Dimension: "month", Operator: OpNotEqual, Value: "1月"}

	both := ApplyFilters(view, []Filter{a, b})
	chained := ApplyFilters(ApplyFilters(view, []Filter{a}), []Filter{b})
	require.Equal(t, 5, both.Len())
	require.Equal(t, both.Len(), chained.Len())
	for i := 0; i < both.Len(); i++ {
		assert.Equal(t, valueAt(chained, i, "month"), valueAt(both, i, "month"))
	}
	// original order kept
	assert.Equal(t, "2月", valueAt(both, 0, "month"))
	assert.Equal(t, "6月", valueAt(both, 4, "month"))
}

func TestApplyFiltersComplements(t *testing.T) {
	view := NewSliceView(loadSales(t).Data)

	pairs := [][2]Filter{
		{{Dimension: "region", Operator: OpEqual, Value: "南区"}, {Dimension: "region", Operator: OpNotEqual, Value: "南区"}},
		{{Dimension: "month", Operator: OpContains, Value: "1"}, {Dimension: "month", Operator: OpNotContains, Value: "1"}},
	}
	for _, p := range pairs {
		in := ApplyFilters(view, []Filter{p[0]}).Len()
		out := ApplyFilters(view, []Filter{p[1]}).Len()
		assert.Equal(t, view.Len(), in+out, p[0].Operator)
	}
}

func TestApplyFiltersContainsEmpty(t *testing.T) {
	view := NewSliceView(loadSales(t).Data)
	assert.Equal(t, view.Len(), ApplyFilters(view, []Filter{{Dimension: "region", Operator: OpContains, Value: ""}}).Len())
	assert.Equal(t, 0, ApplyFilters(view, []Filter{{Dimension: "region", Operator: OpNotContains, Value: ""}}).Len())
}

func TestApplyFiltersStrictEquality(t *testing.T) {
	view := NewSliceView([]Record{
		{"code": 1},
		{"code": "1"},
		{"code": nil},
		{},
	})

	eq := ApplyFilters(view, []Filter{{Dimension: "code", Operator: OpEqual, Value: "1"}})
	require.Equal(t, 1, eq.Len())
	assert.Equal(t, "1", valueAt(eq, 0, "code"))

	// numbers and absent fields match as text
	contains := ApplyFilters(view, []Filter{{Dimension: "code", Operator: OpContains, Value: "1"}})
	assert.Equal(t, 2, contains.Len())

	// a missing field is "not equal" to any value
	ne := ApplyFilters(view, []Filter{{Dimension: "code", Operator: OpNotEqual, Value: "1"}})
	assert.Equal(t, 3, ne.Len())
}

func TestApplyFiltersCaseSensitive(t *testing.T) {
	view := NewSliceView([]Record{{"name": "Alpha"}, {"name": "alpha"}})
	assert.Equal(t, 1, ApplyFilters(view, []Filter{{Dimension: "name", Operator: OpContains, Value: "Al"}}).Len())
}

func TestApplyFiltersUnknownOperatorKeeps(t *testing.T) {
	view := NewSliceView([]Record{{"a": "x"}, {"a": "y"}})
	assert.Equal(t, 2, ApplyFilters(view, []Filter{{Dimension: "a", Operator: ">", Value: "x"}}).Len())
}
