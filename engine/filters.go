package engine

import (
	"strings"
)

// ============================================================================
// FILTERS — Predicate filtering via RecordView
// ============================================================================
// Single-pass filter: checks ALL filters per record in one loop.
// Returns a SubView (index list into parent) — zero data copy, original order.
// ============================================================================

// ApplyFilters returns a view of records matching every filter.
// Filters are AND-combined. No filters = no restriction (returns original view).
func ApplyFilters(view RecordView, filters []Filter) RecordView {
	if len(filters) == 0 {
		return view
	}

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		pass := true
		for _, f := range filters {
			if !matchFilter(view, i, f) {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}

	return newSubView(view, indices)
}

// matchFilter evaluates one filter against record i.
//
//	=, !=                 strict equality against the string value, no coercion
//	contains/not_contains both sides as text, case-sensitive substring
//
// Unknown operators keep the record; ChartConfig.Validate rejects them earlier.
func matchFilter(view RecordView, i int, f Filter) bool {
	switch f.Operator {
	case OpEqual:
		return strictEqual(valueAt(view, i, f.Dimension), f.Value)
	case OpNotEqual:
		return !strictEqual(valueAt(view, i, f.Dimension), f.Value)
	case OpContains:
		return strings.Contains(textAt(view, i, f.Dimension), f.Value)
	case OpNotContains:
		return !strings.Contains(textAt(view, i, f.Dimension), f.Value)
	default:
		return true
	}
}
