package schema

import (
	"github.com/spektr-org/spektr-viz/engine"
)

// ============================================================================
// SCHEMA — Column roles for datasets that arrive without headers metadata
// ============================================================================
// JSON/YAML datasets carry their own headers. CSV files do not: discovery
// inspects the values and decides dimension vs metric per column.
// Headers() turns the result into the engine's ordered header set.
// ============================================================================

// Config describes the discovered shape of a dataset.
type Config struct {
	Name    string       `json:"name" yaml:"name"`
	Version string       `json:"version,omitempty" yaml:"version,omitempty"`
	Columns []ColumnInfo `json:"columns" yaml:"columns"`

	// Auto-discovery metadata
	DiscoveredFrom string `json:"discoveredFrom,omitempty" yaml:"discoveredFrom,omitempty"`
	DiscoveredAt   string `json:"discoveredAt,omitempty" yaml:"discoveredAt,omitempty"`

	// Columns skipped during auto-discovery
	SkippedColumns []SkippedColumn `json:"skippedColumns,omitempty" yaml:"skippedColumns,omitempty"`
}

// ColumnInfo describes one kept column.
type ColumnInfo struct {
	Key             string            `json:"key" yaml:"key"`
	Header          string            `json:"header" yaml:"header"` // original CSV header text
	DisplayName     string            `json:"displayName" yaml:"displayName"`
	ColumnType      engine.ColumnType `json:"-" yaml:"-"`
	Role            string            `json:"role" yaml:"role"` // "dimension" or "metric"
	SampleValues    []string          `json:"sampleValues" yaml:"sampleValues"`
	IsTemporal      bool              `json:"isTemporal,omitempty" yaml:"isTemporal,omitempty"`
	TemporalFormat  string            `json:"temporalFormat,omitempty" yaml:"temporalFormat,omitempty"`
	CardinalityHint string            `json:"cardinalityHint,omitempty" yaml:"cardinalityHint,omitempty"` // "low", "medium", "high"
}

// SkippedColumn records why a column was excluded during auto-discovery.
type SkippedColumn struct {
	Column      string `json:"column" yaml:"column"`
	Reason      string `json:"reason" yaml:"reason"`
	Recoverable bool   `json:"recoverable" yaml:"recoverable"` // Can be restored via DiscoverOptions.RecoverColumns
}

// Headers converts the discovered columns into engine headers, in CSV order.
func (c Config) Headers() engine.Headers {
	h := engine.NewHeaders()
	for _, col := range c.Columns {
		h.Set(col.Key, engine.ColumnMeta{AliasName: col.DisplayName, ColumnType: col.ColumnType})
	}
	return h
}

// Column returns the column with the given key.
func (c Config) Column(key string) (ColumnInfo, bool) {
	for _, col := range c.Columns {
		if col.Key == key {
			return col, true
		}
	}
	return ColumnInfo{}, false
}

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	var keys []string
	for _, col := range c.Columns {
		if col.ColumnType.IsDimension() {
			keys = append(keys, col.Key)
		}
	}
	return keys
}

// MetricKeys returns all metric keys.
func (c Config) MetricKeys() []string {
	var keys []string
	for _, col := range c.Columns {
		if col.ColumnType.IsMetric() {
			keys = append(keys, col.Key)
		}
	}
	return keys
}
