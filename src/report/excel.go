// excel.go
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportAnalysis 把分析结果写入xlsx工作簿
// 人口学分布和NPS各占一个工作表
func ExportAnalysis(a Analysis, filePath string) error {
	f := excelize.NewFile()
	defer f.Close()

	demoSheet := "Demografia"
	f.SetSheetName("Sheet1", demoSheet)

	row := 1
	setRow(f, demoSheet, row, "campo", "valor", "n", "porcentaje")
	row++
	for _, fb := range a.Demographics {
		if !fb.Present {
			setRow(f, demoSheet, row, fb.Field, "(columna ausente)", "", "")
			row++
			continue
		}
		for _, v := range fb.Values {
			setRow(f, demoSheet, row, fb.Field, v.Value, v.Count, v.Share)
			row++
		}
	}

	npsSheet := "NPS"
	if _, err := f.NewSheet(npsSheet); err != nil {
		return fmt.Errorf("create nps sheet: %w", err)
	}

	if a.NPS == nil {
		setRow(f, npsSheet, 1, "sin datos")
	} else {
		r := a.NPS
		setRow(f, npsSheet, 1, "grupo", "n", "porcentaje")
		setRow(f, npsSheet, 2, "Promotores (9-10)", r.Promoters, r.PromoterShare())
		setRow(f, npsSheet, 3, "Pasivos (7-8)", r.Passives, r.PassiveShare())
		setRow(f, npsSheet, 4, "Detractores (0-6)", r.Detractors, r.DetractorShare())
		setRow(f, npsSheet, 5, "Total", r.Total, "")
		setRow(f, npsSheet, 6, "NPS", r.Score, "")
		if a.Summary != nil {
			s := a.Summary
			setRow(f, npsSheet, 8, "media", s.Mean, "")
			setRow(f, npsSheet, 9, "mediana", s.Median, "")
			setRow(f, npsSheet, 10, "desv. estandar", s.StdDev, "")
		}
	}

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	for i, val := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, val)
	}
}
