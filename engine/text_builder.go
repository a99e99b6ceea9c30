package engine

import (
	"fmt"
	"strings"
)

// ============================================================================
// TEXT BUILDER — One-line chart summary shown next to the rendered chart
// ============================================================================

// Describe summarizes what was generated: chart type, record count of the
// input dataset, and how many filters and cross dimensions were applied.
func Describe(ds *Dataset, chart ChartConfig) string {
	records := 0
	if ds != nil {
		records = len(ds.Data)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "已生成%s，数据包含 %d 条记录", chart.ChartType.Label(), records)
	if n := len(chart.DimensionFilters); n > 0 {
		fmt.Fprintf(&b, "，应用了 %d 个筛选条件", n)
	}
	if n := len(chart.CrossDimensions); n > 0 {
		fmt.Fprintf(&b, "，使用了 %d 个维度进行交叉", n)
	}
	return b.String()
}
