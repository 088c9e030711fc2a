package inspect

import (
	"context"
	"flag"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vetlewi/histogram"
	"github.com/vetlewi/histogram/internal/storage"
	"github.com/vetlewi/histogram/internal/storage/sqlite"
)

func TestParseConfigReadsEnvAndFlags(t *testing.T) {
	t.Setenv("HISTOGRAM_DB_PATH", "env.db")
	t.Setenv("HISTOGRAM_DB_BACKEND", "sqlite")

	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-name", "egde"})
	if err != nil {
		t.Fatalf("ParseConfig() = %v", err)
	}
	if cfg.DBPath != "env.db" {
		t.Fatalf("DBPath = %q, want env.db", cfg.DBPath)
	}
	if cfg.Name != "egde" {
		t.Fatalf("Name = %q, want egde", cfg.Name)
	}
}

func TestPrintSummarisesRecord(t *testing.T) {
	axis, err := histogram.NewAxis(4, 0, 4, "E [keV]")
	if err != nil {
		t.Fatalf("NewAxis() = %v", err)
	}
	h, err := histogram.New("egde", "particle energy", []histogram.Axis{axis})
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	h.Fill(-1)  // underflow
	h.Fill(0.5) // bin 1
	h.Fill(2.5) // bin 3
	h.Fill(9)   // overflow

	var out strings.Builder
	if err := Print(&out, storage.Snapshot(h)); err != nil {
		t.Fatalf("Print() = %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"egde: particle energy",
		"axis x:  4 bins in [0, 4) E [keV]",
		"entries: 4",
		"counts:  2 inside, 1 underflow, 1 overflow",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("Print() output missing %q:\n%s", want, got)
		}
	}
}

func TestPrintClassifiesMixedFlowAsUnderflow(t *testing.T) {
	axis, err := histogram.NewAxis(2, 0, 2, "")
	if err != nil {
		t.Fatalf("NewAxis() = %v", err)
	}
	h, err := histogram.New("m", "matrix", []histogram.Axis{axis, axis})
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	h.Fill(5, -1) // x overflow, y underflow

	var out strings.Builder
	if err := Print(&out, storage.Snapshot(h)); err != nil {
		t.Fatalf("Print() = %v", err)
	}
	if !strings.Contains(out.String(), "counts:  0 inside, 1 underflow, 0 overflow") {
		t.Fatalf("Print() output = %q, want mixed flow counted as underflow", out.String())
	}
}

func TestRunPrintsStoredHistograms(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "inspect.db")
	store, err := sqlite.Open(dbPath)
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	axis, err := histogram.NewAxis(4, 0, 4, "")
	if err != nil {
		t.Fatalf("NewAxis() = %v", err)
	}
	h, err := histogram.New("esp", "energy spectrum", []histogram.Axis{axis})
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	h.Fill(1.5)
	if err := store.Put(context.Background(), storage.Snapshot(h)); err != nil {
		t.Fatalf("Put() = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}

	var out strings.Builder
	cfg := Config{DBPath: dbPath, Backend: "sqlite"}
	if err := Run(context.Background(), cfg, &out); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if !strings.Contains(out.String(), "esp: energy spectrum") {
		t.Fatalf("Run() output = %q, want stored histogram summary", out.String())
	}
}

func TestRunReportsMissingHistogram(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "inspect.db")
	store, err := sqlite.Open(dbPath)
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}

	cfg := Config{DBPath: dbPath, Backend: "sqlite", Name: "missing"}
	if err := Run(context.Background(), cfg, nil); err == nil {
		t.Fatal("Run() with missing histogram should fail")
	}
}
