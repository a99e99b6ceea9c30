package engine

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ============================================================================
// SPEKTR-VIZ ENGINE TYPES — Dataset in, VisualizationSpec out
// ============================================================================
// Dataset  = headers (ordered column metadata) + data (ordered records)
// Config   = chart type, x-axis field, series fields, filters, cross dimensions
// Output   = ECharts-style option object (title/tooltip/legend/grid/axes/series)
//
// The engine never mutates a Dataset. Every call allocates its own output.
// ============================================================================

// ============================================================================
// COLUMN METADATA
// ============================================================================

// ColumnType classifies a column. Anything that is not a dimension is
// aggregated as a metric.
type ColumnType int

const (
	ColumnUnspecified ColumnType = iota
	ColumnDimension
	ColumnMetric
)

// ParseColumnType resolves the raw "columnType" header value.
func ParseColumnType(raw string) ColumnType {
	switch raw {
	case "dimension":
		return ColumnDimension
	case "metric", "metrics":
		return ColumnMetric
	default:
		return ColumnUnspecified
	}
}

func (t ColumnType) String() string {
	switch t {
	case ColumnDimension:
		return "dimension"
	case ColumnMetric:
		return "metric"
	default:
		return ""
	}
}

// IsDimension reports whether the column is used for grouping.
func (t ColumnType) IsDimension() bool { return t == ColumnDimension }

// IsMetric reports whether the column is summed. Unspecified counts as metric.
func (t ColumnType) IsMetric() bool { return t != ColumnDimension }

// ColumnMeta describes a single field of the dataset.
type ColumnMeta struct {
	AliasName  string     `json:"aliasName,omitempty" yaml:"aliasName,omitempty"`
	ColumnType ColumnType `json:"-" yaml:"-"`
}

type rawColumnMeta struct {
	AliasName  string `json:"aliasName,omitempty" yaml:"aliasName,omitempty"`
	ColumnType string `json:"columnType,omitempty" yaml:"columnType,omitempty"`
}

func (m ColumnMeta) MarshalJSON() ([]byte, error) {
	return json.Marshal(rawColumnMeta{AliasName: m.AliasName, ColumnType: m.ColumnType.String()})
}

func (m *ColumnMeta) UnmarshalJSON(b []byte) error {
	var raw rawColumnMeta
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	m.AliasName = raw.AliasName
	m.ColumnType = ParseColumnType(raw.ColumnType)
	return nil
}

func (m ColumnMeta) MarshalYAML() (interface{}, error) {
	return rawColumnMeta{AliasName: m.AliasName, ColumnType: m.ColumnType.String()}, nil
}

func (m *ColumnMeta) UnmarshalYAML(node *yaml.Node) error {
	var raw rawColumnMeta
	if err := node.Decode(&raw); err != nil {
		return err
	}
	m.AliasName = raw.AliasName
	m.ColumnType = ParseColumnType(raw.ColumnType)
	return nil
}

// ============================================================================
// HEADERS — Ordered FieldKey → ColumnMeta mapping
// ============================================================================

// Headers keeps column metadata in declaration order.
// The zero value means "headers absent"; NewHeaders returns an empty, present set.
type Headers struct {
	keys []string
	meta map[string]ColumnMeta
}

// NewHeaders creates an empty header set.
func NewHeaders() Headers {
	return Headers{meta: make(map[string]ColumnMeta)}
}

// Present reports whether the headers object exists (it may be empty).
func (h Headers) Present() bool { return h.meta != nil }

// Set adds or replaces a column. New keys are appended to the order.
func (h *Headers) Set(key string, meta ColumnMeta) {
	if h.meta == nil {
		h.meta = make(map[string]ColumnMeta)
	}
	if _, exists := h.meta[key]; !exists {
		h.keys = append(h.keys, key)
	}
	h.meta[key] = meta
}

// Lookup returns the metadata of a field and whether it is declared.
func (h Headers) Lookup(key string) (ColumnMeta, bool) {
	m, ok := h.meta[key]
	return m, ok
}

// Keys returns field keys in declaration order.
func (h Headers) Keys() []string {
	out := make([]string, len(h.keys))
	copy(out, h.keys)
	return out
}

// Len returns the number of declared fields.
func (h Headers) Len() int { return len(h.keys) }

// Alias returns the display label of a field: aliasName when set, else the raw key.
func (h Headers) Alias(key string) string {
	if m, ok := h.Lookup(key); ok && m.AliasName != "" {
		return m.AliasName
	}
	return key
}

// Dimensions returns dimension field keys in declaration order.
func (h Headers) Dimensions() []string {
	var out []string
	for _, k := range h.keys {
		if h.meta[k].ColumnType.IsDimension() {
			out = append(out, k)
		}
	}
	return out
}

// Metrics returns metric field keys (including unspecified) in declaration order.
func (h Headers) Metrics() []string {
	var out []string
	for _, k := range h.keys {
		if h.meta[k].ColumnType.IsMetric() {
			out = append(out, k)
		}
	}
	return out
}

func (h Headers) MarshalJSON() ([]byte, error) {
	if h.meta == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range h.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(h.meta[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (h *Headers) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("headers must be an object")
	}
	out := NewHeaders()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("headers: unexpected key %v", tok)
		}
		var meta ColumnMeta
		if err := dec.Decode(&meta); err != nil {
			return fmt.Errorf("headers[%s]: %w", key, err)
		}
		out.Set(key, meta)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*h = out
	return nil
}

func (h Headers) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range h.keys {
		var val yaml.Node
		if err := val.Encode(h.meta[k]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: k}, &val)
	}
	return node, nil
}

func (h *Headers) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("headers must be a mapping (line %d)", node.Line)
	}
	out := NewHeaders()
	for i := 0; i+1 < len(node.Content); i += 2 {
		var meta ColumnMeta
		if err := node.Content[i+1].Decode(&meta); err != nil {
			return fmt.Errorf("headers[%s]: %w", node.Content[i].Value, err)
		}
		out.Set(node.Content[i].Value, meta)
	}
	*h = out
	return nil
}

// ============================================================================
// DATASET
// ============================================================================

// Record is a single data row. Values are scalars (string, number, bool, null)
// but their type is not enforced.
type Record map[string]interface{}

// Lookup returns a field value and whether the field exists on the record.
func (r Record) Lookup(key string) (interface{}, bool) {
	v, ok := r[key]
	return v, ok
}

// Dataset is the engine's input table.
type Dataset struct {
	Headers Headers  `json:"headers" yaml:"headers"`
	Data    []Record `json:"data" yaml:"data"`
}

// ============================================================================
// CHART CONFIG
// ============================================================================

// ChartType selects one of the spec builders.
type ChartType string

const (
	ChartLine    ChartType = "line"
	ChartBar     ChartType = "bar"
	ChartPie     ChartType = "pie"
	ChartScatter ChartType = "scatter"
)

// LineStyle is the stroke of line series.
type LineStyle string

const (
	LineSolid  LineStyle = "solid"
	LineDashed LineStyle = "dashed"
	LineDotted LineStyle = "dotted"
)

// LineShape is the interpolation of line series.
type LineShape string

const (
	ShapePolyline LineShape = "polyline"
	ShapeSmooth   LineShape = "smooth"
	ShapeStep     LineShape = "step"
)

// Operator is a filter comparison.
type Operator string

const (
	OpEqual       Operator = "="
	OpNotEqual    Operator = "!="
	OpContains    Operator = "contains"
	OpNotContains Operator = "not_contains"
)

// Filter restricts records by one field. Filters are AND-combined.
type Filter struct {
	Dimension string   `json:"dimension" yaml:"dimension"`
	Operator  Operator `json:"operator" yaml:"operator"`
	Value     string   `json:"value" yaml:"value"`
}

// ChartConfig is the user's chart selection.
type ChartConfig struct {
	ChartType        ChartType `json:"chartType" yaml:"chartType"`
	XAxisKey         string    `json:"xAxisKey" yaml:"xAxisKey"`
	SeriesKeys       []string  `json:"seriesKeys" yaml:"seriesKeys"`
	LineStyle        LineStyle `json:"lineStyle,omitempty" yaml:"lineStyle,omitempty"`
	LineShape        LineShape `json:"lineShape,omitempty" yaml:"lineShape,omitempty"`
	DimensionFilters []Filter  `json:"dimensionFilters,omitempty" yaml:"dimensionFilters,omitempty"`
	CrossDimensions  []string  `json:"crossDimensions,omitempty" yaml:"crossDimensions,omitempty"`
}

// ============================================================================
// VISUALIZATION SPEC — ECharts option shape
// ============================================================================

// VisualizationSpec is the render-ready output. Pie specs carry no axes.
type VisualizationSpec struct {
	Title   Title        `json:"title" yaml:"title"`
	Tooltip Tooltip      `json:"tooltip" yaml:"tooltip"`
	Legend  Legend       `json:"legend" yaml:"legend"`
	Grid    *Grid        `json:"grid,omitempty" yaml:"grid,omitempty"`
	XAxis   *Axis        `json:"xAxis,omitempty" yaml:"xAxis,omitempty"`
	YAxis   *Axis        `json:"yAxis,omitempty" yaml:"yAxis,omitempty"`
	Series  []SeriesSpec `json:"series" yaml:"series"`
}

type Title struct {
	Text      string     `json:"text" yaml:"text"`
	Left      string     `json:"left,omitempty" yaml:"left,omitempty"`
	TextStyle *TextStyle `json:"textStyle,omitempty" yaml:"textStyle,omitempty"`
}

type TextStyle struct {
	FontSize int `json:"fontSize" yaml:"fontSize"`
}

type Tooltip struct {
	Trigger   string `json:"trigger" yaml:"trigger"` // "axis" or "item"
	Formatter string `json:"formatter,omitempty" yaml:"formatter,omitempty"`
}

type Legend struct {
	Type       string        `json:"type,omitempty" yaml:"type,omitempty"`
	Orient     string        `json:"orient,omitempty" yaml:"orient,omitempty"`
	Left       string        `json:"left,omitempty" yaml:"left,omitempty"`
	Top        string        `json:"top,omitempty" yaml:"top,omitempty"`
	ItemWidth  int           `json:"itemWidth,omitempty" yaml:"itemWidth,omitempty"`
	ItemHeight int           `json:"itemHeight,omitempty" yaml:"itemHeight,omitempty"`
	TextStyle  *TextStyle    `json:"textStyle,omitempty" yaml:"textStyle,omitempty"`
	Data       []interface{} `json:"data" yaml:"data"`
}

type Grid struct {
	Left         string `json:"left" yaml:"left"`
	Right        string `json:"right" yaml:"right"`
	Bottom       string `json:"bottom" yaml:"bottom"`
	ContainLabel bool   `json:"containLabel" yaml:"containLabel"`
}

type Axis struct {
	Type string        `json:"type" yaml:"type"` // "category" or "value"
	Name string        `json:"name,omitempty" yaml:"name,omitempty"`
	Data []interface{} `json:"data,omitempty" yaml:"data,omitempty"`
}

// SeriesSpec is one rendered series. Data holds:
//
//	[]float64     line, bar, cross-expanded series
//	[]PieDatum    pie
//	[][2]float64  scatter
type SeriesSpec struct {
	Name       string         `json:"name" yaml:"name"`
	Type       ChartType      `json:"type" yaml:"type"`
	Data       interface{}    `json:"data" yaml:"data"`
	LineStyle  *LineStyleSpec `json:"lineStyle,omitempty" yaml:"lineStyle,omitempty"`
	Smooth     bool           `json:"smooth,omitempty" yaml:"smooth,omitempty"`
	Step       string         `json:"step,omitempty" yaml:"step,omitempty"`
	Radius     string         `json:"radius,omitempty" yaml:"radius,omitempty"`
	SymbolSize int            `json:"symbolSize,omitempty" yaml:"symbolSize,omitempty"`
	Emphasis   *EmphasisSpec  `json:"emphasis,omitempty" yaml:"emphasis,omitempty"`
}

type LineStyleSpec struct {
	Type LineStyle `json:"type" yaml:"type"`
}

type EmphasisSpec struct {
	ItemStyle ItemStyle `json:"itemStyle" yaml:"itemStyle"`
}

type ItemStyle struct {
	ShadowBlur    int    `json:"shadowBlur" yaml:"shadowBlur"`
	ShadowOffsetX int    `json:"shadowOffsetX" yaml:"shadowOffsetX"`
	ShadowColor   string `json:"shadowColor" yaml:"shadowColor"`
}

// PieDatum is a single pie slice.
type PieDatum struct {
	Name  interface{} `json:"name" yaml:"name"`
	Value float64     `json:"value" yaml:"value"`
}

// ============================================================================
// RESULT — Spec plus summary, returned by Execute
// ============================================================================

// Result wraps a VisualizationSpec with a human-readable summary line.
type Result struct {
	Success bool               `json:"success" yaml:"success"`
	Type    ChartType          `json:"type" yaml:"type"`
	Info    string             `json:"info" yaml:"info"`
	Spec    *VisualizationSpec `json:"spec" yaml:"spec"`
}
