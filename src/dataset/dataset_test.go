package dataset

import (
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
)

func sampleFrame(t *testing.T) dataframe.DataFrame {
	t.Helper()
	csv := strings.NewReader(
		"SEXO,Edad_Tramo,COMUNICACIÓN5,nps\n" +
			"F,18-29,si,9\n" +
			"M,30-44,no,7\n" +
			"F,45-59,si,3\n" +
			"M,18-29,no,10\n" +
			"F,60+,si,0\n" +
			"M,30-44,no,8\n")
	df := dataframe.ReadCSV(csv)
	if df.Err != nil {
		t.Fatalf("ReadCSV: %v", df.Err)
	}
	return df
}

func TestShapeAndColumns(t *testing.T) {
	ds := New(sampleFrame(t))

	rows, cols := ds.Shape()
	if rows != 6 || cols != 4 {
		t.Fatalf("Shape() = (%d,%d), want (6,4)", rows, cols)
	}
	if !ds.HasColumn("SEXO") {
		t.Error("HasColumn(SEXO) = false before cleaning")
	}
	if ds.HasColumn("sexo") {
		t.Error("HasColumn(sexo) = true before cleaning")
	}
	if types := ds.Types(); len(types) != 4 {
		t.Errorf("Types() returned %d labels, want 4", len(types))
	}
}

func TestHeadLimitsRows(t *testing.T) {
	ds := New(sampleFrame(t))

	head := ds.Head(5)
	if len(head) != 5 {
		t.Fatalf("Head(5) returned %d rows", len(head))
	}
	if head[0][0] != "F" || head[0][3] != "9" {
		t.Errorf("Head(5)[0] = %v, want first data row", head[0])
	}

	if all := ds.Head(100); len(all) != 6 {
		t.Errorf("Head(100) returned %d rows, want all 6", len(all))
	}
}

func TestCleanColumnNames(t *testing.T) {
	ds := New(sampleFrame(t))

	changed, err := ds.CleanColumnNames()
	if err != nil {
		t.Fatalf("CleanColumnNames: %v", err)
	}

	want := []string{"sexo", "edad_tramo", "comunicacion5", "nps"}
	got := ds.Columns()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Columns()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if changed["COMUNICACIÓN5"] != "comunicacion5" {
		t.Errorf("rename map = %v, missing COMUNICACIÓN5", changed)
	}
	if _, ok := changed["nps"]; ok {
		t.Error("rename map contains unchanged column nps")
	}
}

func TestColReturnsRecords(t *testing.T) {
	ds := New(sampleFrame(t))
	if _, err := ds.CleanColumnNames(); err != nil {
		t.Fatal(err)
	}

	vals, err := ds.Col("sexo")
	if err != nil {
		t.Fatalf("Col(sexo): %v", err)
	}
	if len(vals) != 6 || vals[0] != "F" {
		t.Errorf("Col(sexo) = %v", vals)
	}

	if _, err := ds.Col("no_such_column"); err == nil {
		t.Error("Col(no_such_column) returned nil error")
	}
}
