package processor

import (
	"math"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"

	"SurveyPulse/src/dataset"
)

func surveySet(t *testing.T) *dataset.Dataset {
	t.Helper()
	csv := strings.NewReader(
		"sexo,edad_tramo,nps\n" +
			"F,18-29,9\n" +
			"M,30-44,7\n" +
			"F,18-29,3\n" +
			"F,45-59,10\n" +
			"M,18-29,0\n" +
			",30-44,8\n")
	df := dataframe.ReadCSV(csv)
	if df.Err != nil {
		t.Fatalf("ReadCSV: %v", df.Err)
	}
	return dataset.New(df)
}

func TestTabulateFieldShares(t *testing.T) {
	fb := TabulateField(surveySet(t), "sexo")

	if !fb.Present {
		t.Fatal("Present = false for existing column")
	}
	// 一行sexo缺失, 基数是5
	if fb.Total != 5 {
		t.Fatalf("Total = %d, want 5", fb.Total)
	}
	if len(fb.Values) != 2 {
		t.Fatalf("Values = %v", fb.Values)
	}
	if fb.Values[0].Value != "F" || fb.Values[0].Count != 3 {
		t.Errorf("top value = %+v, want F x3", fb.Values[0])
	}
	if fb.Values[0].Share != 60.0 || fb.Values[1].Share != 40.0 {
		t.Errorf("shares = %v / %v, want 60 / 40", fb.Values[0].Share, fb.Values[1].Share)
	}
}

func TestTabulateFieldSharesSumToHundred(t *testing.T) {
	fb := TabulateField(surveySet(t), "edad_tramo")

	var sum float64
	for _, v := range fb.Values {
		sum += v.Share
	}
	// 2位小数的舍入容差
	if math.Abs(sum-100) > 0.05 {
		t.Errorf("shares sum = %v, want ~100", sum)
	}
}

func TestTabulateFieldDeterministicOrder(t *testing.T) {
	fb := TabulateField(surveySet(t), "edad_tramo")

	// 18-29 x3, 再按取值升序: 30-44 x2, 45-59 x1
	want := []string{"18-29", "30-44", "45-59"}
	for i, v := range fb.Values {
		if v.Value != want[i] {
			t.Errorf("Values[%d] = %q, want %q", i, v.Value, want[i])
		}
	}
}

func TestTabulateMissingField(t *testing.T) {
	results := TabulateDemographics(surveySet(t), []string{"sexo", "depto"})

	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}
	if !results[0].Present {
		t.Error("sexo reported absent")
	}
	if results[1].Present {
		t.Error("depto reported present")
	}
	if results[1].Field != "depto" {
		t.Errorf("absent field name = %q", results[1].Field)
	}
}
