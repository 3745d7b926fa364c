package file

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExploreDir(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "zona.csv", sampleCSV)
	writeXLSX(t, dir, "anual.xlsx", [][]string{
		{"depto", "nps"},
		{"Montevideo", "9"},
	})
	// 损坏的xlsx: 扩展名对, 内容是垃圾
	writeCSV(t, dir, "roto.xlsx", "esto no es un workbook")
	writeCSV(t, dir, "notas.txt", "sin datos")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}

	reports, err := ExploreDir(dir, "")
	if err != nil {
		t.Fatalf("ExploreDir: %v", err)
	}

	// 目录被跳过, 文件按字典序
	if len(reports) != 4 {
		t.Fatalf("got %d reports, want 4", len(reports))
	}
	wantOrder := []string{"anual.xlsx", "notas.txt", "roto.xlsx", "zona.csv"}
	for i, r := range reports {
		if r.File != wantOrder[i] {
			t.Errorf("reports[%d] = %q, want %q", i, r.File, wantOrder[i])
		}
	}

	byName := make(map[string]Report)
	for _, r := range reports {
		byName[r.File] = r
	}

	if r := byName["zona.csv"]; r.Err != nil || r.Rows != 3 || len(r.Preview) != 3 {
		t.Errorf("zona.csv report = %+v", r)
	}
	if r := byName["anual.xlsx"]; r.Err != nil || r.Cols != 2 {
		t.Errorf("anual.xlsx report = %+v", r)
	}
	// 损坏文件: 有错误但没有中断其他文件
	if r := byName["roto.xlsx"]; r.Err == nil {
		t.Error("roto.xlsx report has no error")
	}
	if r := byName["notas.txt"]; !r.Skipped {
		t.Error("notas.txt not marked as skipped")
	}
}

func TestExploreDirPreviewCap(t *testing.T) {
	dir := t.TempDir()
	content := "v\n1\n2\n3\n4\n5\n6\n7\n"
	writeCSV(t, dir, "largo.csv", content)

	reports, err := ExploreDir(dir, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 1 {
		t.Fatalf("got %d reports", len(reports))
	}
	if len(reports[0].Preview) != PreviewRows {
		t.Errorf("preview rows = %d, want %d", len(reports[0].Preview), PreviewRows)
	}
	if reports[0].Rows != 7 {
		t.Errorf("Rows = %d, want 7", reports[0].Rows)
	}
}

func TestExploreDirMissing(t *testing.T) {
	if _, err := ExploreDir(filepath.Join(t.TempDir(), "no_existe"), ""); err == nil {
		t.Fatal("ExploreDir on missing directory returned nil error")
	}
}
