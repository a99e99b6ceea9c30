package engine

import (
	"strconv"
)

// ============================================================================
// TABLE BUILDER — Flattens a VisualizationSpec into rows for CSV export
// ============================================================================
// Category charts → x column + one column per series
// Pie             → name, value
// Scatter         → the two axis fields
// ============================================================================

// TableData is a rectangular export of a chart.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number"
	Align string `json:"align"` // "left", "right"
}

// BuildTable flattens a spec. Returns an empty table for a nil spec.
func BuildTable(spec *VisualizationSpec) *TableData {
	if spec == nil {
		return &TableData{Columns: []Column{}, Rows: [][]string{}}
	}
	if len(spec.Series) == 1 {
		switch data := spec.Series[0].Data.(type) {
		case []PieDatum:
			return buildPieTable(spec, data)
		case [][2]float64:
			return buildScatterTable(spec, data)
		}
	}
	return buildCategoryTable(spec)
}

func buildCategoryTable(spec *VisualizationSpec) *TableData {
	xLabel := "Label"
	var domain []interface{}
	if spec.XAxis != nil {
		domain = spec.XAxis.Data
		if spec.XAxis.Name != "" {
			xLabel = spec.XAxis.Name
		}
	}

	columns := []Column{{Key: "x", Label: xLabel, Type: "text", Align: "left"}}
	for i, s := range spec.Series {
		columns = append(columns, Column{
			Key:   "series_" + strconv.Itoa(i),
			Label: s.Name,
			Type:  "number",
			Align: "right",
		})
	}

	rows := make([][]string, 0, len(domain))
	for d, x := range domain {
		row := []string{Text(x, x != nil)}
		for _, s := range spec.Series {
			values, _ := s.Data.([]float64)
			if d < len(values) {
				row = append(row, FormatNumber(values[d]))
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}

	return &TableData{Title: spec.Title.Text, Columns: columns, Rows: rows}
}

func buildPieTable(spec *VisualizationSpec, slices []PieDatum) *TableData {
	rows := make([][]string, 0, len(slices))
	for _, s := range slices {
		rows = append(rows, []string{Text(s.Name, s.Name != nil), FormatNumber(s.Value)})
	}
	return &TableData{
		Title: spec.Title.Text,
		Columns: []Column{
			{Key: "name", Label: "Name", Type: "text", Align: "left"},
			{Key: "value", Label: spec.Series[0].Name, Type: "number", Align: "right"},
		},
		Rows: rows,
	}
}

func buildScatterTable(spec *VisualizationSpec, points [][2]float64) *TableData {
	xLabel, yLabel := "X", "Y"
	if spec.XAxis != nil && spec.XAxis.Name != "" {
		xLabel = spec.XAxis.Name
	}
	if spec.YAxis != nil && spec.YAxis.Name != "" {
		yLabel = spec.YAxis.Name
	}
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{FormatNumber(p[0]), FormatNumber(p[1])})
	}
	return &TableData{
		Title: spec.Title.Text,
		Columns: []Column{
			{Key: "x", Label: xLabel, Type: "number", Align: "right"},
			{Key: "y", Label: yLabel, Type: "number", Align: "right"},
		},
		Rows: rows,
	}
}

// Header returns the column labels.
func (t *TableData) Header() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Label
	}
	return out
}

// FormatNumber prints whole numbers without decimals, fractions with 2.
func FormatNumber(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
