// summary.go
package processor

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ScoreSummary 有效评分的描述统计
type ScoreSummary struct {
	Count  int
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
}

// SummarizeScores 计算有效评分的均值/中位数/标准差/极值
// 没有评分时返回ErrNoScores
func SummarizeScores(scores []float64) (ScoreSummary, error) {
	if len(scores) == 0 {
		return ScoreSummary{}, ErrNoScores
	}

	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Float64s(sorted)

	s := ScoreSummary{
		Count:  len(sorted),
		Mean:   stat.Mean(sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
	}
	if len(sorted) > 1 {
		s.StdDev = stat.StdDev(sorted, nil)
	}
	return s, nil
}
