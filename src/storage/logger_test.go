package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggerWritesLeveledEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, err := NewLogger(path)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	logger.Info("carga completada")
	logger.Warning("columna depto ausente")
	logger.Error("archivo corrupto")
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	for _, want := range []string{"INFO: carga completada", "WARNING: columna depto ausente", "ERROR: archivo corrupto"} {
		if !strings.Contains(content, want) {
			t.Errorf("log missing %q:\n%s", want, content)
		}
	}
}

func TestLoggerSubscribe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, err := NewLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	defer logger.Close()

	ch := logger.Subscribe()
	logger.Info("evento")

	select {
	case entry := <-ch:
		if !strings.Contains(entry, "INFO: evento") {
			t.Errorf("entry = %q", entry)
		}
	default:
		t.Fatal("no entry delivered to subscriber")
	}
}

func TestLoggerRotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	logger, err := NewLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	defer logger.Close()

	for i := 0; i < 50; i++ {
		logger.Info("relleno para forzar rotacion del archivo de log")
	}
	if err := logger.CheckRotate(128); err != nil {
		t.Fatalf("CheckRotate: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d files after rotation, want archive + fresh log", len(entries))
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 0 {
		t.Errorf("fresh log size = %d, want 0", info.Size())
	}

	// 未超限时不轮转
	if err := logger.CheckRotate(1 << 20); err != nil {
		t.Fatal(err)
	}
	if entries, _ = os.ReadDir(dir); len(entries) != 2 {
		t.Errorf("rotation happened below threshold")
	}
}

func TestParseSize(t *testing.T) {
	cases := map[string]int64{
		"10MB":  10 << 20,
		"512KB": 512 << 10,
		"1GB":   1 << 30,
		"2048":  2048,
		"":      0,
		" 5 MB": 5 << 20,
	}
	for in, want := range cases {
		got, err := ParseSize(in)
		if err != nil {
			t.Errorf("ParseSize(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseSize(%q) = %d, want %d", in, got, want)
		}
	}

	if _, err := ParseSize("mucho"); err == nil {
		t.Error("ParseSize accepted garbage")
	}
}
