package engine

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadSales returns the 6 months × 4 regions fixture.
func loadSales(t *testing.T) *Dataset {
	t.Helper()
	raw, err := os.ReadFile("testdata/sales.json")
	require.NoError(t, err)
	ds, err := ParseDataset(raw)
	require.NoError(t, err)
	require.Len(t, ds.Data, 24)
	return ds
}

func lineConfig(x string, series ...string) ChartConfig {
	return ChartConfig{ChartType: ChartLine, XAxisKey: x, SeriesKeys: series}
}

// ============================================================================
// END-TO-END
// ============================================================================

func TestTransformLineSales(t *testing.T) {
	ds := loadSales(t)

	spec, err := Transform(ds, lineConfig("month", "sales"))
	require.NoError(t, err)

	assert.Equal(t, "线图", spec.Title.Text)
	assert.Equal(t, "axis", spec.Tooltip.Trigger)
	assert.Equal(t, []interface{}{"1月", "2月", "3月", "4月", "5月", "6月"}, spec.XAxis.Data)
	assert.Equal(t, "月份", spec.XAxis.Name)
	assert.Equal(t, "category", spec.XAxis.Type)
	assert.Equal(t, "value", spec.YAxis.Type)
	assert.Equal(t, []interface{}{"销售额"}, spec.Legend.Data)

	require.Len(t, spec.Series, 1)
	s := spec.Series[0]
	assert.Equal(t, "销售额", s.Name)
	assert.Equal(t, ChartLine, s.Type)
	assert.Equal(t, []float64{55000, 61000, 69000, 65000, 73000, 78000}, s.Data)
	assert.Equal(t, LineSolid, s.LineStyle.Type)
	assert.False(t, s.Smooth)
	assert.Empty(t, s.Step)
}

func TestTransformPieOrdersByRegion(t *testing.T) {
	ds := loadSales(t)

	spec, err := Transform(ds, ChartConfig{ChartType: ChartPie, XAxisKey: "region", SeriesKeys: []string{"orders", "sales"}})
	require.NoError(t, err)

	assert.Equal(t, "饼图", spec.Title.Text)
	assert.Nil(t, spec.XAxis)
	assert.Nil(t, spec.YAxis)
	require.Len(t, spec.Series, 1)
	assert.Equal(t, "订单数", spec.Series[0].Name)
	assert.Equal(t, []PieDatum{
		{Name: "北区", Value: 920},
		{Name: "南区", Value: 1050},
		{Name: "东区", Value: 1290},
		{Name: "西区", Value: 750},
	}, spec.Series[0].Data)
	assert.Equal(t, []interface{}{"北区", "南区", "东区", "西区"}, spec.Legend.Data)
}

func TestTransformBarWithFilter(t *testing.T) {
	ds := loadSales(t)

	spec, err := Transform(ds, ChartConfig{
		ChartType:        ChartBar,
		XAxisKey:         "month",
		SeriesKeys:       []string{"sales", "profit"},
		DimensionFilters: []Filter{{Dimension: "region", Operator: OpEqual, Value: "北区"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "柱状图", spec.Title.Text)
	require.Len(t, spec.Series, 2)
	assert.Equal(t, []float64{12000, 14000, 16000, 15000, 17000, 18000}, spec.Series[0].Data)
	assert.Equal(t, []float64{3000, 3500, 4000, 3750, 4250, 4500}, spec.Series[1].Data)
	assert.Nil(t, spec.Series[0].LineStyle)
}

func TestTransformScatter(t *testing.T) {
	ds := loadSales(t)

	spec, err := Transform(ds, ChartConfig{ChartType: ChartScatter, XAxisKey: "month", SeriesKeys: []string{"sales", "profit"}})
	require.NoError(t, err)

	assert.Equal(t, "散点图", spec.Title.Text)
	assert.Equal(t, "销售额", spec.XAxis.Name)
	assert.Equal(t, "利润", spec.YAxis.Name)
	points, ok := spec.Series[0].Data.([][2]float64)
	require.True(t, ok)
	assert.Len(t, points, 24)
	assert.Equal(t, [2]float64{12000, 3000}, points[0])
}

func TestTransformScatterGuard(t *testing.T) {
	ds := loadSales(t)

	_, err := Transform(ds, ChartConfig{ChartType: ChartScatter, XAxisKey: "month", SeriesKeys: []string{"sales"}})
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, cfgErr.Reason, "scatter requires at least two numeric fields")
}

func TestTransformCross(t *testing.T) {
	ds := loadSales(t)

	cfg := lineConfig("month", "sales")
	cfg.CrossDimensions = []string{"region"}
	cfg.LineShape = ShapeSmooth
	spec, err := Transform(ds, cfg)
	require.NoError(t, err)

	assert.Equal(t, "交叉分析图表", spec.Title.Text)
	require.Len(t, spec.Series, 4)
	assert.Equal(t, "销售额-北区", spec.Series[0].Name)
	assert.Equal(t, []float64{12000, 14000, 16000, 15000, 17000, 18000}, spec.Series[0].Data)
	assert.True(t, spec.Series[0].Smooth)
	assert.Equal(t, "销售额-西区", spec.Series[3].Name)
}

func TestTransformCrossBarKeepsType(t *testing.T) {
	ds := loadSales(t)

	spec, err := Transform(ds, ChartConfig{
		ChartType:       ChartBar,
		XAxisKey:        "month",
		SeriesKeys:      []string{"sales", "profit"},
		CrossDimensions: []string{"region"},
	})
	require.NoError(t, err)

	// combination outer, series key inner
	require.Len(t, spec.Series, 8)
	assert.Equal(t, "销售额-北区", spec.Series[0].Name)
	assert.Equal(t, "利润-北区", spec.Series[1].Name)
	for _, s := range spec.Series {
		assert.Equal(t, ChartBar, s.Type)
		assert.Nil(t, s.LineStyle)
	}
}

func TestTransformUnknownChartType(t *testing.T) {
	ds := loadSales(t)

	_, err := Transform(ds, ChartConfig{ChartType: "radar", XAxisKey: "month", SeriesKeys: []string{"sales"}})
	assert.True(t, errors.Is(err, ErrConfig))

	// rejected before cross expansion too
	_, err = Transform(ds, ChartConfig{ChartType: "radar", XAxisKey: "month", SeriesKeys: []string{"sales"}, CrossDimensions: []string{"region"}})
	assert.True(t, errors.Is(err, ErrConfig))
}

func TestTransformInvalidDataset(t *testing.T) {
	_, err := Transform(nil, lineConfig("month", "sales"))
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = Transform(&Dataset{Headers: NewHeaders()}, lineConfig("month", "sales"))
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = Transform(&Dataset{Data: []Record{}}, lineConfig("month", "sales"))
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestTransformEmptyData(t *testing.T) {
	spec, err := Transform(&Dataset{Headers: NewHeaders(), Data: []Record{}}, lineConfig("month", "sales"))
	require.NoError(t, err)
	assert.Empty(t, spec.XAxis.Data)
	require.Len(t, spec.Series, 1)
	assert.Empty(t, spec.Series[0].Data)
	// raw key when no alias is declared
	assert.Equal(t, "sales", spec.Series[0].Name)
}

func TestTransformDoesNotMutateInput(t *testing.T) {
	ds := loadSales(t)
	before := len(ds.Data)
	first := ds.Data[0]["sales"]

	_, err := Transform(ds, ChartConfig{
		ChartType:        ChartLine,
		XAxisKey:         "month",
		SeriesKeys:       []string{"sales"},
		DimensionFilters: []Filter{{Dimension: "region", Operator: OpNotEqual, Value: "北区"}},
	})
	require.NoError(t, err)
	assert.Len(t, ds.Data, before)
	assert.Equal(t, first, ds.Data[0]["sales"])
}

func TestExecute(t *testing.T) {
	ds := loadSales(t)

	cfg := lineConfig("month", "sales")
	cfg.DimensionFilters = []Filter{{Dimension: "region", Operator: OpContains, Value: "区"}}
	cfg.CrossDimensions = []string{"region"}
	res, err := Execute(ds, cfg)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, ChartLine, res.Type)
	assert.Equal(t, "已生成线图，数据包含 24 条记录，应用了 1 个筛选条件，使用了 1 个维度进行交叉", res.Info)
	assert.NotNil(t, res.Spec)

	_, err = Execute(ds, ChartConfig{ChartType: ChartLine})
	assert.True(t, errors.Is(err, ErrConfig))
}
