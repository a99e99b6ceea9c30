package engine

import (
	"github.com/spektr-org/spektr-viz/internal/logging"
)

// ============================================================================
// EXECUTOR — Validation + Dispatcher
// ============================================================================
// Entry point: Transform(dataset, config, opts...)
//
// Pipeline:
//   1. Validate dataset shape and chart config (dispatch target known)
//   2. Apply filters → SubView
//   3. Cross dimensions set → cross expansion, else per-type builder
//   4. Apply layout options
//
// Pure: no I/O, no shared state. Safe to call concurrently.
// ============================================================================

// Transform turns a dataset and chart configuration into a VisualizationSpec.
// Returns *ValidationError for a malformed dataset and *ConfigError for an
// unusable configuration.
func Transform(ds *Dataset, chart ChartConfig, opts ...Option) (*VisualizationSpec, error) {
	if err := Validate(ds); err != nil {
		return nil, err
	}
	if err := chart.Validate(); err != nil {
		return nil, err
	}
	cfg := applyOptions(opts)
	log := logging.L()

	view := NewSliceView(ds.Data)
	filtered := ApplyFilters(view, chart.DimensionFilters)

	log.Debug("🔧 spektr-viz: filtered records",
		"chartType", chart.ChartType, "records", view.Len(), "kept", filtered.Len(),
		"filters", len(chart.DimensionFilters))

	var spec *VisualizationSpec
	if len(chart.CrossDimensions) > 0 {
		spec = BuildCross(filtered, ds.Headers, chart)
		log.Debug("🔀 spektr-viz: cross expansion",
			"dimensions", chart.CrossDimensions, "series", len(spec.Series))
	} else {
		switch chart.ChartType {
		case ChartLine:
			spec = BuildLine(filtered, ds.Headers, chart)
		case ChartBar:
			spec = BuildBar(filtered, ds.Headers, chart)
		case ChartPie:
			spec = BuildPie(filtered, ds.Headers, chart)
		case ChartScatter:
			var err error
			if spec, err = BuildScatter(filtered, ds.Headers, chart); err != nil {
				return nil, err
			}
		default:
			return nil, configErrorf("chartType", "unsupported chart type %q", chart.ChartType)
		}
	}

	cfg.applyLayout(spec)
	return spec, nil
}

// Execute runs Transform and attaches the summary line.
func Execute(ds *Dataset, chart ChartConfig, opts ...Option) (*Result, error) {
	spec, err := Transform(ds, chart, opts...)
	if err != nil {
		logging.L().Warn("⚠️ spektr-viz: transform failed", "chartType", chart.ChartType, "err", err)
		return nil, err
	}
	return &Result{
		Success: true,
		Type:    chart.ChartType,
		Info:    Describe(ds, chart),
		Spec:    spec,
	}, nil
}
