package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/spektr-viz/engine"
	"github.com/spektr-org/spektr-viz/schema"
)

// ============================================================================
// LOADERS — Datasets and chart configs from any afs location
// ============================================================================
// URL may be a local path or any scheme afs understands (file://, mem://,
// gs://, s3://). The format is picked by extension:
//   .json        → engine.ParseDataset
//   .yaml / .yml → yaml.v3 + engine.Validate
//   .csv         → schema discovery + ParseCSV
// ============================================================================

// Format returns the lower-cased extension of URL without the dot.
func Format(URL string) string {
	if i := strings.IndexAny(URL, "?#"); i >= 0 {
		URL = URL[:i]
	}
	return strings.TrimPrefix(strings.ToLower(path.Ext(URL)), ".")
}

// LoadDataset downloads and decodes a dataset. A nil fs uses afs.New().
func LoadDataset(ctx context.Context, fs afs.Service, URL string) (*engine.Dataset, error) {
	content, err := download(ctx, fs, URL)
	if err != nil {
		return nil, err
	}
	return DecodeDataset(Format(URL), content)
}

// DecodeDataset decodes dataset content of the given format.
func DecodeDataset(format string, content []byte) (*engine.Dataset, error) {
	switch format {
	case "json", "":
		return engine.ParseDataset(content)
	case "yaml", "yml":
		ds := &engine.Dataset{}
		if err := yaml.Unmarshal(content, ds); err != nil {
			return nil, &engine.ValidationError{Reason: fmt.Sprintf("dataset must be a YAML mapping: %v", err)}
		}
		if err := engine.Validate(ds); err != nil {
			return nil, err
		}
		return ds, nil
	case "csv":
		ds, _, err := ParseCSVAuto(content)
		if err != nil {
			return nil, &engine.ValidationError{Reason: err.Error()}
		}
		return ds, nil
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", format)
	}
}

// DiscoverSchema downloads a CSV and returns its auto-detected schema.
func DiscoverSchema(ctx context.Context, fs afs.Service, URL string) (*schema.Config, error) {
	content, err := download(ctx, fs, URL)
	if err != nil {
		return nil, err
	}
	return schema.DiscoverFromCSV(content)
}

// LoadChartConfig downloads and decodes a chart configuration (JSON or YAML).
// Unset line style/shape stay empty; Transform normalizes and validates.
func LoadChartConfig(ctx context.Context, fs afs.Service, URL string) (engine.ChartConfig, error) {
	var chart engine.ChartConfig
	content, err := download(ctx, fs, URL)
	if err != nil {
		return chart, err
	}
	switch Format(URL) {
	case "yaml", "yml":
		err = yaml.Unmarshal(content, &chart)
	default:
		err = json.Unmarshal(content, &chart)
	}
	if err != nil {
		return chart, fmt.Errorf("failed to decode chart config %s: %w", URL, err)
	}
	return chart, nil
}

func download(ctx context.Context, fs afs.Service, URL string) ([]byte, error) {
	if fs == nil {
		fs = afs.New()
	}
	content, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", URL, err)
	}
	return content, nil
}
