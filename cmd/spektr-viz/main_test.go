package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/spektr-viz/engine"
)

const salesCSV = `月份,地区,销售额,利润
1月,北区,25000,5000
1月,南区,30000,6000
2月,北区,28000,5600
2月,南区,32000,6400
`

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	args = append([]string{"--config", filepath.Join(dir, "missing.yaml")}, args...)
	var out bytes.Buffer
	err := run(context.Background(), args, &out)
	return out.String(), err
}

func TestRunVersion(t *testing.T) {
	out, err := runCLI(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "spektr-viz "+version+"\n", out)
}

func TestRunRequiresData(t *testing.T) {
	_, err := runCLI(t)
	assert.ErrorContains(t, err, "--data is required")
}

func TestRunHelp(t *testing.T) {
	_, err := parseFlags([]string{"-h"}, &bytes.Buffer{})
	assert.True(t, errors.Is(err, flag.ErrHelp))
}

func TestRunBarJSON(t *testing.T) {
	data := writeTemp(t, t.TempDir(), "sales.csv", salesCSV)
	out, err := runCLI(t, "--data", data, "--type", "bar", "--x", "月份", "--series", "销售额")
	require.NoError(t, err)

	var result struct {
		Success bool             `json:"success"`
		Type    engine.ChartType `json:"type"`
		Info    string           `json:"info"`
		Spec    struct {
			Series []struct {
				Name string    `json:"name"`
				Type string    `json:"type"`
				Data []float64 `json:"data"`
			} `json:"series"`
		} `json:"spec"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Success)
	assert.Equal(t, engine.ChartBar, result.Type)
	assert.Equal(t, "已生成柱状图，数据包含 4 条记录", result.Info)
	require.Len(t, result.Spec.Series, 1)
	assert.Equal(t, []float64{55000, 60000}, result.Spec.Series[0].Data)
}

func TestRunCSVOutput(t *testing.T) {
	data := writeTemp(t, t.TempDir(), "sales.csv", salesCSV)
	out, err := runCLI(t, "--data", data, "--x", "地区", "--series", "销售额,利润", "--format", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "地区,销售额,利润", lines[0])
	assert.Equal(t, "北区,53000,10600", lines[1])
	assert.Equal(t, "南区,62000,12400", lines[2])
}

func TestRunChartFileAndText(t *testing.T) {
	dir := t.TempDir()
	data := writeTemp(t, dir, "sales.csv", salesCSV)
	chart := writeTemp(t, dir, "chart.yaml", `chartType: pie
xAxisKey: 地区
seriesKeys: [利润]
dimensionFilters:
  - dimension: 月份
    operator: "="
    value: 1月
`)
	out, err := runCLI(t, "--data", data, "--chart", chart, "--format", "text")
	require.NoError(t, err)
	assert.Equal(t, "已生成饼图，数据包含 4 条记录，应用了 1 个筛选条件\n", out)
}

func TestRunDiscover(t *testing.T) {
	data := writeTemp(t, t.TempDir(), "sales.csv", salesCSV)
	out, err := runCLI(t, "--data", data, "--discover", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "discoveredFrom: CSV")
	assert.Contains(t, out, "sampleValues:")
	assert.NotContains(t, out, "discoveredfrom")
	assert.Contains(t, out, "role: metric")
}

func TestRunConfigErrorSurfaces(t *testing.T) {
	data := writeTemp(t, t.TempDir(), "sales.csv", salesCSV)
	_, err := runCLI(t, "--data", data, "--type", "radar", "--x", "月份", "--series", "销售额")
	assert.True(t, errors.Is(err, engine.ErrConfig))
}

func TestRunConfigLineDefaults(t *testing.T) {
	dir := t.TempDir()
	data := writeTemp(t, dir, "sales.csv", salesCSV)
	cfgPath := writeTemp(t, dir, "spektr-viz.yaml", `chart:
  line_style: dashed
  line_shape: smooth
`)

	for _, args := range [][]string{
		{"--x", "月份", "--series", "销售额"},
		{},
	} {
		var out bytes.Buffer
		err := run(context.Background(), append([]string{"--config", cfgPath, "--data", data}, args...), &out)
		require.NoError(t, err)
		assert.Contains(t, out.String(), `"lineStyle":{"type":"dashed"}`)
		assert.Contains(t, out.String(), `"smooth":true`)
	}

	// An explicit chart file wins over the configured defaults.
	chart := writeTemp(t, dir, "chart.yaml", "chartType: line\nxAxisKey: 地区\nseriesKeys: [利润]\nlineStyle: dotted\n")
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"--config", cfgPath, "--data", data, "--chart", chart}, &out))
	assert.Contains(t, out.String(), `"lineStyle":{"type":"dotted"}`)
	assert.Contains(t, out.String(), `"smooth":true`)
}

func TestRunOutFile(t *testing.T) {
	dir := t.TempDir()
	data := writeTemp(t, dir, "sales.csv", salesCSV)
	outPath := filepath.Join(dir, "out.txt")

	out, err := runCLI(t, "--data", data, "--format", "text", "--out", outPath)
	require.NoError(t, err)
	assert.Empty(t, out)

	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "已生成线图，数据包含 4 条记录\n", string(written))
}

type failingCloser struct{}

func (failingCloser) Close() error { return errors.New("disk full") }

func TestCloseOutput(t *testing.T) {
	var err error
	closeOutput(failingCloser{}, &err)
	assert.ErrorContains(t, err, "disk full")

	err = errors.New("earlier")
	closeOutput(failingCloser{}, &err)
	assert.EqualError(t, err, "earlier")
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b "))
	assert.Nil(t, splitList(""))
}
