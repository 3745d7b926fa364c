// analysis.go
package report

import (
	"errors"

	"SurveyPulse/src/config"
	"SurveyPulse/src/dataset"
	"SurveyPulse/src/processor"
)

// BuildAnalysis 对已加载的数据集执行完整分析流程:
// 清洗列名 -> 人口学分布 -> NPS -> 评分描述统计
func BuildAnalysis(ds *dataset.Dataset, scfg *config.SurveyConfig, source string) (Analysis, error) {
	renamed, err := ds.CleanColumnNames()
	if err != nil {
		return Analysis{}, err
	}

	a := Analysis{
		Source:       source,
		Renamed:      renamed,
		ScoreField:   scfg.ScoreField,
		Demographics: processor.TabulateDemographics(ds, scfg.DemographicFields),
	}

	if !ds.HasColumn(scfg.ScoreField) {
		a.ScoreFieldMissing = true
		return a, nil
	}

	raw, err := ds.Col(scfg.ScoreField)
	if err != nil {
		return Analysis{}, err
	}

	nps, err := processor.ComputeNPS(raw)
	if errors.Is(err, processor.ErrNoScores) {
		return a, nil // 渲染层负责提示"sin datos"
	}
	if err != nil {
		return Analysis{}, err
	}
	a.NPS = &nps

	valid, _, _ := processor.ParseScores(raw)
	if summary, err := processor.SummarizeScores(valid); err == nil {
		a.Summary = &summary
	}

	return a, nil
}
