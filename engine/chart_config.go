package engine

// ============================================================================
// CHART CONFIG — Defaults, normalization, validation
// ============================================================================

// chartTitles are the display names of each chart type.
var chartTitles = map[ChartType]string{
	ChartLine:    "线图",
	ChartBar:     "柱状图",
	ChartPie:     "饼图",
	ChartScatter: "散点图",
}

const crossTitle = "交叉分析图表"

// Label returns the display name of a chart type, or the raw tag when unknown.
func (t ChartType) Label() string {
	if s, ok := chartTitles[t]; ok {
		return s
	}
	return string(t)
}

// Known reports whether a builder exists for the chart type.
func (t ChartType) Known() bool {
	_, ok := chartTitles[t]
	return ok
}

// Normalize returns a copy with lineStyle/lineShape defaults filled in.
func (c ChartConfig) Normalize() ChartConfig {
	if c.LineStyle == "" {
		c.LineStyle = LineSolid
	}
	if c.LineShape == "" {
		c.LineShape = ShapePolyline
	}
	return c
}

// Validate checks the configuration for errors the builders cannot recover from.
// Field keys are not checked against the headers: unknown keys read as 0.
func (c ChartConfig) Validate() error {
	if !c.ChartType.Known() {
		return configErrorf("chartType", "unsupported chart type %q", c.ChartType)
	}
	if c.XAxisKey == "" {
		return configErrorf("xAxisKey", "an x-axis field is required")
	}
	if len(c.SeriesKeys) == 0 {
		return configErrorf("seriesKeys", "at least one series field is required")
	}

	switch c.LineStyle {
	case "", LineSolid, LineDashed, LineDotted:
	default:
		return configErrorf("lineStyle", "unsupported line style %q", c.LineStyle)
	}
	switch c.LineShape {
	case "", ShapePolyline, ShapeSmooth, ShapeStep:
	default:
		return configErrorf("lineShape", "unsupported line shape %q", c.LineShape)
	}

	for i, f := range c.DimensionFilters {
		switch f.Operator {
		case OpEqual, OpNotEqual, OpContains, OpNotContains:
		default:
			return configErrorf("dimensionFilters", "filter %d: unsupported operator %q", i, f.Operator)
		}
	}
	return nil
}

// DefaultChartConfig picks the first dimension as x-axis and the first metric
// as the only series of a line chart. Line style and shape stay empty so
// configured defaults can fill them before the builder normalizes.
func DefaultChartConfig(headers Headers) (ChartConfig, error) {
	dims := headers.Dimensions()
	if len(dims) == 0 {
		return ChartConfig{}, configErrorf("xAxisKey", "dataset declares no dimension field")
	}
	metrics := headers.Metrics()
	if len(metrics) == 0 {
		return ChartConfig{}, configErrorf("seriesKeys", "dataset declares no metric field")
	}
	return ChartConfig{
		ChartType:  ChartLine,
		XAxisKey:   dims[0],
		SeriesKeys: []string{metrics[0]},
	}, nil
}
