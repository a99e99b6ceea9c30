package helpers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/spektr-org/spektr-viz/engine"
	"github.com/spektr-org/spektr-viz/schema"
)

// ============================================================================
// CSV HELPER — Parses CSV data into an engine.Dataset
// ============================================================================
// Consumer reads the CSV from wherever it lives (file, bucket, URL).
// This helper converts the raw bytes into Records keyed by schema column
// keys, with headers built from the schema in CSV order.
// ============================================================================

// ParseCSV parses CSV bytes into a Dataset using sch for classification.
// Dimension cells stay strings. Metric cells are parsed as numbers; a cell
// that does not parse is kept as its text and sums as 0 in the engine.
// Columns absent from the schema are dropped.
func ParseCSV(data []byte, sch schema.Config) (*engine.Dataset, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	// Read header
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	// Build column index → schema mapping
	type colMapping struct {
		key      string
		isMetric bool
		mapped   bool
	}

	mappings := make([]colMapping, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		for _, col := range sch.Columns {
			if strings.TrimSpace(col.Header) == h || col.Key == h {
				mappings[i] = colMapping{key: col.Key, isMetric: col.ColumnType.IsMetric(), mapped: true}
				break
			}
		}
		// Unmapped columns are silently skipped
	}

	records := []engine.Record{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}

		rec := make(engine.Record, len(row))
		for i, val := range row {
			if i >= len(mappings) {
				break
			}
			m := mappings[i]
			if !m.mapped {
				continue
			}
			val = strings.TrimSpace(val)

			if m.isMetric {
				if f, ok := schema.ParseNumber(val); ok {
					rec[m.key] = f
					continue
				}
				if val == "" {
					continue
				}
			}
			rec[m.key] = val
		}
		records = append(records, rec)
	}

	return &engine.Dataset{Headers: sch.Headers(), Data: records}, nil
}

// ParseCSVAuto discovers a schema from the CSV itself and parses with it.
// Returns both the dataset and the discovered schema so callers can show
// which columns were skipped.
func ParseCSVAuto(data []byte, opts ...schema.DiscoverOptions) (*engine.Dataset, *schema.Config, error) {
	sch, err := schema.DiscoverFromCSV(data, opts...)
	if err != nil {
		return nil, nil, err
	}
	ds, err := ParseCSV(data, *sch)
	if err != nil {
		return nil, nil, err
	}
	return ds, sch, nil
}
