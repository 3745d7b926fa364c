// demographics.go
package processor

import (
	"math"
	"sort"
	"strings"

	"SurveyPulse/src/dataset"
)

// ValueCount 某个取值的频数和占比(已按展示精度舍入到2位小数)
type ValueCount struct {
	Value string
	Count int
	Share float64
}

// FieldBreakdown 单个人口学字段的分布
// Present为false表示数据集中没有该列, 其余字段为零值
type FieldBreakdown struct {
	Field   string
	Present bool
	Total   int // 非缺失行数
	Values  []ValueCount
}

func isMissing(v string) bool {
	s := strings.TrimSpace(v)
	return s == "" || strings.EqualFold(s, "na") || strings.EqualFold(s, "nan")
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// TabulateField 统计单列的取值分布, 占比相对非缺失行
func TabulateField(ds *dataset.Dataset, field string) FieldBreakdown {
	if !ds.HasColumn(field) {
		return FieldBreakdown{Field: field}
	}

	vals, err := ds.Col(field)
	if err != nil {
		return FieldBreakdown{Field: field}
	}

	counts := make(map[string]int)
	total := 0
	for _, v := range vals {
		if isMissing(v) {
			continue
		}
		counts[strings.TrimSpace(v)]++
		total++
	}

	fb := FieldBreakdown{Field: field, Present: true, Total: total}
	for v, c := range counts {
		share := 0.0
		if total > 0 {
			share = round2(100 * float64(c) / float64(total))
		}
		fb.Values = append(fb.Values, ValueCount{Value: v, Count: c, Share: share})
	}

	// 占比降序, 相同时按取值升序, 保证输出稳定
	sort.Slice(fb.Values, func(i, j int) bool {
		if fb.Values[i].Count != fb.Values[j].Count {
			return fb.Values[i].Count > fb.Values[j].Count
		}
		return fb.Values[i].Value < fb.Values[j].Value
	})

	return fb
}

// TabulateDemographics 按配置的字段列表依次统计
// 缺失的列产生Present=false的结果, 不中断其余字段
func TabulateDemographics(ds *dataset.Dataset, fields []string) []FieldBreakdown {
	out := make([]FieldBreakdown, 0, len(fields))
	for _, f := range fields {
		out = append(out, TabulateField(ds, f))
	}
	return out
}
