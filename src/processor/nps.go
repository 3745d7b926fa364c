// nps.go
package processor

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Net Promoter Score 评分分组
// Detractor [0,7), Passive [7,9), Promoter [9,10]
type Band int

const (
	Detractor Band = iota
	Passive
	Promoter
)

func (b Band) String() string {
	switch b {
	case Detractor:
		return "Detractor"
	case Passive:
		return "Passive"
	case Promoter:
		return "Promoter"
	}
	return "Unknown"
}

// Classify 把一个[0,10]内的有效评分映射到唯一分组
func Classify(score float64) Band {
	switch {
	case score < 7:
		return Detractor
	case score < 9:
		return Passive
	default:
		return Promoter
	}
}

// ErrNoScores 表示字段中没有任何有效评分
var ErrNoScores = errors.New("no valid nps scores")

// NPSResult 保存完整精度的计算结果, 展示时再舍入
type NPSResult struct {
	Total      int // 有效评分数
	Invalid    int // 数值超出[0,10]被剔除的个数
	Missing    int // 缺失或无法转换为数值的个数
	Promoters  int
	Passives   int
	Detractors int
	Score      float64 // 100*P/T - 100*D/T, 范围[-100,100]
}

func (r NPSResult) PromoterShare() float64 {
	return 100 * float64(r.Promoters) / float64(r.Total)
}

func (r NPSResult) PassiveShare() float64 {
	return 100 * float64(r.Passives) / float64(r.Total)
}

func (r NPSResult) DetractorShare() float64 {
	return 100 * float64(r.Detractors) / float64(r.Total)
}

// ParseScores 把原始字段值转换为有效评分
// 无法转换的值按缺失处理, 超出[0,10]的数值单独计数剔除
func ParseScores(raw []string) (valid []float64, invalid, missing int) {
	for _, v := range raw {
		s := strings.TrimSpace(v)
		if s == "" || strings.EqualFold(s, "na") || strings.EqualFold(s, "nan") {
			missing++
			continue
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) {
			missing++
			continue
		}
		if f < 0 || f > 10 {
			invalid++
			continue
		}
		valid = append(valid, f)
	}
	return valid, invalid, missing
}

// ComputeNPS 按原始字段值计算NPS
// 没有任何有效评分时返回ErrNoScores
func ComputeNPS(raw []string) (NPSResult, error) {
	valid, invalid, missing := ParseScores(raw)
	if len(valid) == 0 {
		return NPSResult{Invalid: invalid, Missing: missing}, ErrNoScores
	}

	r := NPSResult{
		Total:   len(valid),
		Invalid: invalid,
		Missing: missing,
	}
	for _, score := range valid {
		switch Classify(score) {
		case Promoter:
			r.Promoters++
		case Passive:
			r.Passives++
		default:
			r.Detractors++
		}
	}

	r.Score = r.PromoterShare() - r.DetractorShare()
	return r, nil
}
