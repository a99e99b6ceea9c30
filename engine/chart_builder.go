package engine

import "fmt"

// ============================================================================
// CHART BUILDER — Produces VisualizationSpec from grouped results
// ============================================================================
// One builder per chart type. Line and bar share the category-axis layout;
// pie drops the axes; scatter uses two value axes and raw per-record points.
// ============================================================================

// Fixed layout shared by every spec.
func defaultGrid() *Grid {
	return &Grid{Left: "3%", Right: "4%", Bottom: "3%", ContainLabel: true}
}

func categorySpec(title string, headers Headers, xAxisKey string, domain []interface{}, series []SeriesSpec) *VisualizationSpec {
	legend := make([]interface{}, len(series))
	for i, s := range series {
		legend[i] = s.Name
	}
	return &VisualizationSpec{
		Title:   Title{Text: title, Left: "center"},
		Tooltip: Tooltip{Trigger: "axis"},
		Legend:  Legend{Data: legend, Top: "10%"},
		Grid:    defaultGrid(),
		XAxis:   &Axis{Type: "category", Data: domain, Name: headers.Alias(xAxisKey)},
		YAxis:   &Axis{Type: "value"},
		Series:  series,
	}
}

// applyLineStyle sets stroke and interpolation on a line series.
// Polyline sets neither smooth nor step.
func applyLineStyle(s *SeriesSpec, style LineStyle, shape LineShape) {
	s.LineStyle = &LineStyleSpec{Type: style}
	switch shape {
	case ShapeSmooth:
		s.Smooth = true
	case ShapeStep:
		s.Step = "end"
	}
}

// ============================================================================
// LINE / BAR
// ============================================================================

// BuildLine produces a line chart: one summed series per series key.
func BuildLine(view RecordView, headers Headers, cfg ChartConfig) *VisualizationSpec {
	cfg = cfg.Normalize()
	domain, values := GroupAndAggregate(view, headers, cfg.XAxisKey, cfg.SeriesKeys)

	series := make([]SeriesSpec, 0, len(values))
	for _, v := range values {
		s := SeriesSpec{Name: v.Name, Type: ChartLine, Data: v.Data}
		applyLineStyle(&s, cfg.LineStyle, cfg.LineShape)
		series = append(series, s)
	}
	return categorySpec(ChartLine.Label(), headers, cfg.XAxisKey, domain, series)
}

// BuildBar produces a bar chart: one summed series per series key.
func BuildBar(view RecordView, headers Headers, cfg ChartConfig) *VisualizationSpec {
	domain, values := GroupAndAggregate(view, headers, cfg.XAxisKey, cfg.SeriesKeys)

	series := make([]SeriesSpec, 0, len(values))
	for _, v := range values {
		series = append(series, SeriesSpec{Name: v.Name, Type: ChartBar, Data: v.Data})
	}
	return categorySpec(ChartBar.Label(), headers, cfg.XAxisKey, domain, series)
}

// ============================================================================
// PIE
// ============================================================================

// BuildPie produces a pie of seriesKeys[0] summed per x value.
// Further series keys are ignored.
func BuildPie(view RecordView, headers Headers, cfg ChartConfig) *VisualizationSpec {
	seriesKey := ""
	if len(cfg.SeriesKeys) > 0 {
		seriesKey = cfg.SeriesKeys[0]
	}
	slices := PieSlices(view, cfg.XAxisKey, seriesKey)

	legend := make([]interface{}, len(slices))
	for i, s := range slices {
		legend[i] = s.Name
	}

	return &VisualizationSpec{
		Title:   Title{Text: ChartPie.Label(), Left: "center"},
		Tooltip: Tooltip{Trigger: "item", Formatter: "{a} <br/>{b}: {c} ({d}%)"},
		Legend:  Legend{Orient: "vertical", Left: "left", Data: legend},
		Grid:    defaultGrid(),
		Series: []SeriesSpec{{
			Name:   headers.Alias(seriesKey),
			Type:   ChartPie,
			Data:   slices,
			Radius: "50%",
			Emphasis: &EmphasisSpec{ItemStyle: ItemStyle{
				ShadowBlur:    10,
				ShadowOffsetX: 0,
				ShadowColor:   "rgba(0, 0, 0, 0.5)",
			}},
		}},
	}
}

// ============================================================================
// SCATTER
// ============================================================================

const scatterSeriesName = "数据点"

// BuildScatter plots seriesKeys[0] against seriesKeys[1], one point per record.
func BuildScatter(view RecordView, headers Headers, cfg ChartConfig) (*VisualizationSpec, error) {
	if len(cfg.SeriesKeys) < 2 {
		return nil, configErrorf("seriesKeys", "scatter requires at least two numeric fields")
	}
	xKey, yKey := cfg.SeriesKeys[0], cfg.SeriesKeys[1]
	xName, yName := headers.Alias(xKey), headers.Alias(yKey)

	return &VisualizationSpec{
		Title: Title{Text: ChartScatter.Label(), Left: "center"},
		Tooltip: Tooltip{
			Trigger:   "item",
			Formatter: fmt.Sprintf("{a}<br/>%s: {@[0]}<br/>%s: {@[1]}", xName, yName),
		},
		Legend: Legend{Data: []interface{}{scatterSeriesName}, Top: "10%"},
		Grid:   defaultGrid(),
		XAxis:  &Axis{Type: "value", Name: xName},
		YAxis:  &Axis{Type: "value", Name: yName},
		Series: []SeriesSpec{{
			Name:       scatterSeriesName,
			Type:       ChartScatter,
			Data:       ScatterPoints(view, xKey, yKey),
			SymbolSize: 8,
		}},
	}, nil
}

// ============================================================================
// CROSS-DIMENSION
// ============================================================================

// BuildCross produces one series per combination × series key, combination
// outer. Series take the first matching record per x value (no summing).
// The x-axis domain spans the whole view, not a single partition.
func BuildCross(view RecordView, headers Headers, cfg ChartConfig) *VisualizationSpec {
	cfg = cfg.Normalize()
	domain := XAxisDomain(view, cfg.XAxisKey)
	combos := CrossCombinations(view, cfg.CrossDimensions)

	series := make([]SeriesSpec, 0, len(combos)*len(cfg.SeriesKeys))
	for _, combo := range combos {
		for _, key := range cfg.SeriesKeys {
			s := SeriesSpec{
				Name: headers.Alias(key) + "-" + combo.Label,
				Type: cfg.ChartType,
				Data: CrossSeries(combo, domain, cfg.XAxisKey, key),
			}
			if cfg.ChartType == ChartLine {
				applyLineStyle(&s, cfg.LineStyle, cfg.LineShape)
			}
			series = append(series, s)
		}
	}
	return categorySpec(crossTitle, headers, cfg.XAxisKey, domain, series)
}
