// text.go
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"SurveyPulse/src/datasource/file"
	"SurveyPulse/src/processor"
)

// Analysis 一次完整分析的结构化结果, 由渲染层负责格式化
type Analysis struct {
	Source       string            // 主数据集路径
	Renamed      map[string]string // 清洗列名时发生的改名
	Demographics []processor.FieldBreakdown
	ScoreField   string
	// ScoreFieldMissing 数据集中没有评分列
	ScoreFieldMissing bool
	NPS               *processor.NPSResult // 没有有效评分时为nil
	Summary           *processor.ScoreSummary
}

// WriteExploration 渲染目录勘察结果
func WriteExploration(w io.Writer, dir string, reports []file.Report) {
	fmt.Fprintf(w, "--- Data exploration: %s ---\n", dir)

	for _, r := range reports {
		fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 25))
		fmt.Fprintf(w, "Analyzing file: %s\n", r.File)
		fmt.Fprintf(w, "%s\n", strings.Repeat("=", 25))

		if r.Skipped {
			fmt.Fprintf(w, "skipping unsupported file type\n")
			continue
		}
		if r.Err != nil {
			fmt.Fprintf(w, "[ERROR] could not read file: %v\n", r.Err)
			continue
		}

		fmt.Fprintf(w, "shape: %d rows x %d cols\n", r.Rows, r.Cols)

		fmt.Fprintf(w, "\n[INFO] first %d rows:\n", file.PreviewRows)
		for _, row := range r.Preview {
			fmt.Fprintf(w, "  %s\n", strings.Join(row, " | "))
		}

		fmt.Fprintf(w, "\n[INFO] column names:\n  %s\n", strings.Join(r.Columns, ", "))

		fmt.Fprintf(w, "\n[INFO] data types:\n")
		for i, c := range r.Columns {
			fmt.Fprintf(w, "  %-20s %s\n", c, r.Types[i])
		}
	}

	fmt.Fprintf(w, "\n--- Data exploration complete ---\n")
}

// WriteAnalysis 渲染人口学分布和NPS结果
func WriteAnalysis(w io.Writer, a Analysis) {
	fmt.Fprintf(w, "--- Survey analysis: %s ---\n", a.Source)

	if len(a.Renamed) > 0 {
		fmt.Fprintf(w, "\ncleaned %d column names, e.g.:\n", len(a.Renamed))
		keys := make([]string, 0, len(a.Renamed))
		for k := range a.Renamed {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys[:min(3, len(keys))] {
			fmt.Fprintf(w, "  %q -> %q\n", k, a.Renamed[k])
		}
	}

	fmt.Fprintf(w, "\n--- Demographic breakdown ---\n")
	for _, fb := range a.Demographics {
		if !fb.Present {
			fmt.Fprintf(w, "\n[WARNING] column %q not found, skipping\n", fb.Field)
			continue
		}
		fmt.Fprintf(w, "\n[INFO] %s (%d respondents):\n", fb.Field, fb.Total)
		for _, v := range fb.Values {
			fmt.Fprintf(w, "  %-15s %5d  %6.2f%%\n", v.Value, v.Count, v.Share)
		}
	}

	fmt.Fprintf(w, "\n--- Net Promoter Score (%s) ---\n", a.ScoreField)
	if a.ScoreFieldMissing {
		fmt.Fprintf(w, "[WARNING] column %q not found, cannot calculate NPS\n", a.ScoreField)
		fmt.Fprintf(w, "\n--- Analysis complete ---\n")
		return
	}
	if a.NPS == nil {
		fmt.Fprintf(w, "[INFO] no valid scores found\n")
		fmt.Fprintf(w, "\n--- Analysis complete ---\n")
		return
	}

	r := a.NPS
	fmt.Fprintf(w, "Total respondents: %d\n", r.Total)
	if r.Invalid > 0 {
		fmt.Fprintf(w, "Scores outside [0,10], excluded: %d\n", r.Invalid)
	}
	fmt.Fprintf(w, "Promoters (9-10):  %d (%.2f%%)\n", r.Promoters, r.PromoterShare())
	fmt.Fprintf(w, "Passives (7-8):    %d (%.2f%%)\n", r.Passives, r.PassiveShare())
	fmt.Fprintf(w, "Detractors (0-6):  %d (%.2f%%)\n", r.Detractors, r.DetractorShare())
	fmt.Fprintf(w, "\nFinal NPS score: %.2f\n", r.Score)

	if a.Summary != nil {
		s := a.Summary
		fmt.Fprintf(w, "\nscore summary: mean=%.2f median=%.2f sd=%.2f min=%g max=%g\n",
			s.Mean, s.Median, s.StdDev, s.Min, s.Max)
	}

	fmt.Fprintf(w, "\n--- Analysis complete ---\n")
}
