package application

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestBuildAssignsDeviceIDsByLexicalOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b_meter.csv", "fecha,hora,min,kwh\n2023-01-01,10,0,2.0\n")
	writeFile(t, dir, "a_meter.csv", "fecha,hora,min,kwh\n2023-01-01,9,0,1.0\n")

	builder, err := NewBuilder(Config{DataDir: dir, Pattern: "*.csv"}, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("new builder: %v", err)
	}
	built, err := builder.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	devices := built.Devices()
	if len(devices) != 2 || devices[0] != "PC1" || devices[1] != "PC2" {
		t.Fatalf("devices = %v, want PC1,PC2", devices)
	}
	// a_meter.csv sorts first, so its reading belongs to PC1.
	if cell := built.Cell(0, 0); !cell.Valid || cell.KWh != 1.0 {
		t.Fatalf("PC1 first cell = %+v, want the a_meter reading", cell)
	}
}

func TestBuildAppliesCutoff(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pc.csv", strings.Join([]string{
		"fecha,hora,min,kwh",
		"2023-12-31,23,0,1.0",
		"2024-01-02,10,0,2.0",
		"",
	}, "\n"))

	builder, err := NewBuilder(Config{DataDir: dir, Pattern: "*.csv", CutoffDate: "2024-01-01"}, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("new builder: %v", err)
	}
	built, err := builder.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if built.Len() != 1 {
		t.Fatalf("len = %d, want 1 (2024 reading excluded)", built.Len())
	}
	if want := time.Date(2023, time.December, 31, 23, 0, 0, 0, time.UTC); !built.Timestamp(0).Equal(want) {
		t.Fatalf("ts = %s, want %s", built.Timestamp(0), want)
	}
}

func TestBuildFailsWithoutSources(t *testing.T) {
	builder, err := NewBuilder(Config{DataDir: t.TempDir(), Pattern: "*.csv"}, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("new builder: %v", err)
	}
	if _, err := builder.Build(); err == nil {
		t.Fatal("expected error for empty data dir")
	}
}

func TestConfigCutoffParsing(t *testing.T) {
	if _, err := (Config{CutoffDate: "01/01/2024"}).Cutoff(); err == nil {
		t.Fatal("expected error for bad cutoff format")
	}
	cutoff, err := (Config{CutoffDate: "2024-01-01"}).Cutoff()
	if err != nil {
		t.Fatalf("cutoff: %v", err)
	}
	if want := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC); !cutoff.Equal(want) {
		t.Fatalf("cutoff = %s, want %s", cutoff, want)
	}
	zero, err := (Config{}).Cutoff()
	if err != nil || !zero.IsZero() {
		t.Fatalf("empty cutoff = %s, %v; want zero time", zero, err)
	}
}
