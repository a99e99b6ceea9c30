package engine

import (
	"strings"
)

// ============================================================================
// AGGREGATORS — X-axis domain, group-by-sum, cross-dimension expansion
// ============================================================================
// Two aggregation policies live here and are intentionally different:
//
//   plain  GroupAndAggregate  sum of every record sharing the x value
//   cross  CrossSeries        value of the FIRST record sharing the x value
//
// Every ordering is first-occurrence order over the view; nothing is sorted.
// ============================================================================

// Group is one x-axis bucket: the records sharing an x value.
type Group struct {
	Key   interface{}
	Label string
	Count int
	View  RecordView
}

// SeriesValues is one aggregated series aligned with the x-axis domain.
type SeriesValues struct {
	Key  string
	Name string
	Data []float64
}

// Combination is one distinct tuple of cross-dimension values.
type Combination struct {
	Key    string        // pipe-joined values, used for dedup
	Label  string        // dash-joined values, used in series names
	Values []interface{} // one per cross dimension, in selection order
	View   RecordView    // partition: records matching Values exactly
}

// ============================================================================
// X-AXIS DOMAIN
// ============================================================================

// XAxisDomain returns the distinct values of key across the view,
// first-occurrence order. A record missing the field contributes nil once.
func XAxisDomain(view RecordView, key string) []interface{} {
	seen := make(map[interface{}]bool)
	domain := make([]interface{}, 0)
	for i := 0; i < view.Len(); i++ {
		v := valueAt(view, i, key)
		if !seen[v] {
			seen[v] = true
			domain = append(domain, v)
		}
	}
	return domain
}

// ============================================================================
// PLAIN GROUPING — group-by-sum
// ============================================================================

// GroupByValue splits the view into x-axis buckets, first-occurrence order.
func GroupByValue(view RecordView, key string) []Group {
	grouped := make(map[interface{}][]int)
	order := make([]interface{}, 0)

	for i := 0; i < view.Len(); i++ {
		v := valueAt(view, i, key)
		if _, exists := grouped[v]; !exists {
			order = append(order, v)
		}
		grouped[v] = append(grouped[v], i)
	}

	groups := make([]Group, 0, len(order))
	for _, v := range order {
		groups = append(groups, Group{
			Key:   v,
			Label: Text(v, v != nil),
			Count: len(grouped[v]),
			View:  newSubView(view, grouped[v]),
		})
	}
	return groups
}

// GroupAndAggregate computes one summed series per series key over the
// x-axis domain of the view. Absent or non-numeric values add 0.
func GroupAndAggregate(view RecordView, headers Headers, xAxisKey string, seriesKeys []string) ([]interface{}, []SeriesValues) {
	groups := GroupByValue(view, xAxisKey)

	domain := make([]interface{}, len(groups))
	for i, g := range groups {
		domain[i] = g.Key
	}

	series := make([]SeriesValues, 0, len(seriesKeys))
	for _, key := range seriesKeys {
		data := make([]float64, len(groups))
		for i, g := range groups {
			data[i] = SumField(g.View, key)
		}
		series = append(series, SeriesValues{
			Key:  key,
			Name: headers.Alias(key),
			Data: data,
		})
	}
	return domain, series
}

// SumField sums a field across a view.
func SumField(view RecordView, key string) float64 {
	var total float64
	for i := 0; i < view.Len(); i++ {
		total += numberAt(view, i, key)
	}
	return total
}

// ============================================================================
// CROSS-DIMENSION EXPANSION
// ============================================================================

// CrossCombinations discovers the distinct tuples of the given dimensions,
// first-occurrence order, and attaches each tuple's partition.
func CrossCombinations(view RecordView, dimensions []string) []Combination {
	index := make(map[string]int)
	var combos []Combination

	for i := 0; i < view.Len(); i++ {
		key := combinationKey(view, i, dimensions)
		if _, exists := index[key]; exists {
			continue
		}
		values := make([]interface{}, len(dimensions))
		labels := make([]string, len(dimensions))
		for d, dim := range dimensions {
			v, ok := view.Value(i, dim)
			values[d] = v
			labels[d] = Text(v, ok)
		}
		index[key] = len(combos)
		combos = append(combos, Combination{
			Key:    key,
			Label:  strings.Join(labels, "-"),
			Values: values,
		})
	}

	for c := range combos {
		combos[c].View = partition(view, dimensions, combos[c].Values)
	}
	return combos
}

// combinationKey joins the text form of the dimension values with "|".
func combinationKey(view RecordView, i int, dimensions []string) string {
	parts := make([]string, len(dimensions))
	for d, dim := range dimensions {
		parts[d] = textAt(view, i, dim)
	}
	return strings.Join(parts, "|")
}

// partition returns the records whose dimension values equal values exactly.
func partition(view RecordView, dimensions []string, values []interface{}) RecordView {
	indices := make([]int, 0)
	for i := 0; i < view.Len(); i++ {
		match := true
		for d, dim := range dimensions {
			if !strictEqual(valueAt(view, i, dim), values[d]) {
				match = false
				break
			}
		}
		if match {
			indices = append(indices, i)
		}
	}
	return newSubView(view, indices)
}

// CrossSeries builds the value list of one combination × series key.
// For each domain value the first partition record with that x value is used;
// no match gives 0.
func CrossSeries(combo Combination, domain []interface{}, xAxisKey, seriesKey string) []float64 {
	first := make(map[interface{}]int)
	for i := combo.View.Len() - 1; i >= 0; i-- {
		first[valueAt(combo.View, i, xAxisKey)] = i
	}

	data := make([]float64, len(domain))
	for d, x := range domain {
		if i, ok := first[x]; ok {
			data[d] = numberAt(combo.View, i, seriesKey)
		}
	}
	return data
}

// ============================================================================
// PIE & SCATTER SHAPES
// ============================================================================

// PieSlices sums seriesKey per x value and merges same-named slices,
// first-occurrence order.
func PieSlices(view RecordView, xAxisKey, seriesKey string) []PieDatum {
	index := make(map[interface{}]int)
	slices := make([]PieDatum, 0)
	for i := 0; i < view.Len(); i++ {
		name := valueAt(view, i, xAxisKey)
		value := numberAt(view, i, seriesKey)
		if at, ok := index[name]; ok {
			slices[at].Value += value
			continue
		}
		index[name] = len(slices)
		slices = append(slices, PieDatum{Name: name, Value: value})
	}
	return slices
}

// ScatterPoints returns one [x, y] pair per record.
func ScatterPoints(view RecordView, xKey, yKey string) [][2]float64 {
	points := make([][2]float64, view.Len())
	for i := 0; i < view.Len(); i++ {
		points[i] = [2]float64{numberAt(view, i, xKey), numberAt(view, i, yKey)}
	}
	return points
}

// ============================================================================
// DIMENSION VALUES
// ============================================================================

// DimensionValues lists the distinct values of a field across the whole
// dataset, first-occurrence order. Used to populate filter value pickers.
func DimensionValues(ds *Dataset, key string) []interface{} {
	if ds == nil {
		return nil
	}
	return XAxisDomain(NewSliceView(ds.Data), key)
}
