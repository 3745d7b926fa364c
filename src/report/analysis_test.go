package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"

	"SurveyPulse/src/config"
	"SurveyPulse/src/dataset"
)

func loadedSet(t *testing.T, csv string) *dataset.Dataset {
	t.Helper()
	df := dataframe.ReadCSV(strings.NewReader(csv))
	if df.Err != nil {
		t.Fatalf("ReadCSV: %v", df.Err)
	}
	return dataset.New(df)
}

func TestBuildAnalysis(t *testing.T) {
	ds := loadedSet(t,
		"SEXO,Edad_Tramo,NPS\n"+
			"F,18-29,9\n"+
			"M,30-44,9\n"+
			"F,18-29,7\n"+
			"M,45-59,3\n"+
			"F,18-29,0\n")
	scfg := &config.SurveyConfig{
		DemographicFields: []string{"sexo", "depto"},
		ScoreField:        "nps",
	}

	a, err := BuildAnalysis(ds, scfg, "base.csv")
	if err != nil {
		t.Fatalf("BuildAnalysis: %v", err)
	}

	// 列名清洗在分布/NPS之前生效
	if a.Renamed["SEXO"] != "sexo" {
		t.Errorf("Renamed = %v", a.Renamed)
	}
	if !a.Demographics[0].Present {
		t.Error("sexo absent after cleaning")
	}
	if a.Demographics[1].Present {
		t.Error("depto unexpectedly present")
	}

	if a.NPS == nil {
		t.Fatal("NPS = nil")
	}
	if a.NPS.Total != 5 || a.NPS.Score != 0 {
		t.Errorf("NPS = %+v", a.NPS)
	}
	if a.Summary == nil || a.Summary.Count != 5 {
		t.Errorf("Summary = %+v", a.Summary)
	}
}

func TestBuildAnalysisMissingScoreColumn(t *testing.T) {
	ds := loadedSet(t, "sexo\nF\nM\n")
	scfg := &config.SurveyConfig{ScoreField: "nps"}

	a, err := BuildAnalysis(ds, scfg, "base.csv")
	if err != nil {
		t.Fatal(err)
	}
	if !a.ScoreFieldMissing || a.NPS != nil {
		t.Errorf("analysis = %+v", a)
	}

	var buf bytes.Buffer
	WriteAnalysis(&buf, a)
	if !strings.Contains(buf.String(), "cannot calculate NPS") {
		t.Errorf("missing warning:\n%s", buf.String())
	}
}

func TestBuildAnalysisNoValidScores(t *testing.T) {
	ds := loadedSet(t, "nps\nno sabe\nno contesta\n")
	scfg := &config.SurveyConfig{ScoreField: "nps"}

	a, err := BuildAnalysis(ds, scfg, "base.csv")
	if err != nil {
		t.Fatal(err)
	}
	if a.NPS != nil || a.ScoreFieldMissing {
		t.Errorf("analysis = %+v", a)
	}

	var buf bytes.Buffer
	WriteAnalysis(&buf, a)
	if !strings.Contains(buf.String(), "no valid scores found") {
		t.Errorf("missing no-data notice:\n%s", buf.String())
	}
}
