// Package spektr turns a tabular dataset plus a chart configuration into a
// render-ready ECharts option object.
//
// Usage:
//
//	import "github.com/spektr-org/spektr-viz/engine"
//
//	result, err := engine.Execute(dataset, engine.ChartConfig{
//	    ChartType:  engine.ChartLine,
//	    XAxisKey:   "month",
//	    SeriesKeys: []string{"sales"},
//	}, engine.WithCompactLayout())
//
// The engine validates the dataset, applies dimension filters, groups by the
// x-axis field (or expands cross dimensions into one series per value
// combination) and builds a line, bar, pie or scatter spec. Field labels come
// from the headers' aliasName.
//
// CSV and YAML inputs are handled by the helpers and schema packages. The
// engine never calls any external service — all computation is local.
package spektr
