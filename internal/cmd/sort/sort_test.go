package sort

import (
	"context"
	"flag"
	"strings"
	"testing"

	"github.com/vetlewi/histogram"
)

func mustAxis(t *testing.T, channels int, left, right float64) histogram.Axis {
	t.Helper()
	axis, err := histogram.NewAxis(channels, left, right, "")
	if err != nil {
		t.Fatalf("NewAxis(%d, %g, %g) = %v", channels, left, right, err)
	}
	return axis
}

func TestParseConfigReadsEnvAndFlags(t *testing.T) {
	t.Setenv("HISTOGRAM_SPEC", "env-spec.yaml")
	t.Setenv("HISTOGRAM_DB_PATH", "env.db")
	t.Setenv("HISTOGRAM_DB_BACKEND", "bbolt")

	fs := flag.NewFlagSet("sort", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-db", "flag.db", "-weighted"})
	if err != nil {
		t.Fatalf("ParseConfig() = %v", err)
	}
	if cfg.SpecPath != "env-spec.yaml" {
		t.Fatalf("SpecPath = %q, want env-spec.yaml", cfg.SpecPath)
	}
	if cfg.DBPath != "flag.db" {
		t.Fatalf("DBPath = %q, want flag.db", cfg.DBPath)
	}
	if cfg.Backend != "bbolt" {
		t.Fatalf("Backend = %q, want bbolt", cfg.Backend)
	}
	if !cfg.Weighted {
		t.Fatal("Weighted = false, want true")
	}
}

func TestParseConfigRequiresSpecPath(t *testing.T) {
	t.Setenv("HISTOGRAM_SPEC", "")
	fs := flag.NewFlagSet("sort", flag.ContinueOnError)
	if _, err := ParseConfig(fs, nil); err == nil {
		t.Fatal("ParseConfig() without -spec should fail")
	}
}

func TestSortFillsMatchingDimensions(t *testing.T) {
	h1, err := histogram.New("e", "energy", []histogram.Axis{mustAxis(t, 10, 0, 10)})
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	h2, err := histogram.New("exy", "coincidence", []histogram.Axis{
		mustAxis(t, 10, 0, 10),
		mustAxis(t, 10, 0, 10),
	})
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	input := strings.Join([]string{
		"# comment line",
		"2.5",
		"2.5 7.5",
		"",
		"not-a-number",
		"2.5",
	}, "\n")
	hists := []*histogram.Histogram{h1, h2}
	summary, err := Sort(context.Background(), strings.NewReader(input), hists, false, nil)
	if err != nil {
		t.Fatalf("Sort() = %v", err)
	}
	if summary.Filled != 3 {
		t.Fatalf("Filled = %d, want 3", summary.Filled)
	}
	if summary.Skipped != 1 {
		t.Fatalf("Skipped = %d, want 1", summary.Skipped)
	}
	if got, _ := h1.GetBinContent(3); got != 2 {
		t.Fatalf("h1 bin 3 = %g, want 2", got)
	}
	if got := h1.Entries(); got != 2 {
		t.Fatalf("h1 entries = %d, want 2", got)
	}
	if got, _ := h2.GetBinContent(3, 8); got != 1 {
		t.Fatalf("h2 bin (3,8) = %g, want 1", got)
	}
}

func TestSortWeightedUsesLastColumn(t *testing.T) {
	h, err := histogram.New("e", "energy", []histogram.Axis{mustAxis(t, 10, 0, 10)})
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	input := "2.5 0.5\n2.5 2.0\n"
	summary, err := Sort(context.Background(), strings.NewReader(input),
		[]*histogram.Histogram{h}, true, nil)
	if err != nil {
		t.Fatalf("Sort() = %v", err)
	}
	if summary.Filled != 2 {
		t.Fatalf("Filled = %d, want 2", summary.Filled)
	}
	if got, _ := h.GetBinContent(3); got != 2.5 {
		t.Fatalf("bin 3 = %g, want 2.5", got)
	}
}

func TestSortReportsUnmatchedDimensions(t *testing.T) {
	h, err := histogram.New("e", "energy", []histogram.Axis{mustAxis(t, 10, 0, 10)})
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	var report strings.Builder
	summary, err := Sort(context.Background(), strings.NewReader("1 2 3\n"),
		[]*histogram.Histogram{h}, false, &report)
	if err != nil {
		t.Fatalf("Sort() = %v", err)
	}
	if summary.Skipped != 1 {
		t.Fatalf("Skipped = %d, want 1", summary.Skipped)
	}
	if !strings.Contains(report.String(), "no 3-dimensional histograms") {
		t.Fatalf("report = %q, want dimension mismatch notice", report.String())
	}
}

func TestSortFlushesBufferedHistograms(t *testing.T) {
	h, err := histogram.New("e", "energy",
		[]histogram.Axis{mustAxis(t, 10, 0, 10)},
		histogram.WithBuffer(0))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	if _, err := Sort(context.Background(), strings.NewReader("2.5\n"),
		[]*histogram.Histogram{h}, false, nil); err != nil {
		t.Fatalf("Sort() = %v", err)
	}
	if got, _ := h.GetBinContent(3); got != 1 {
		t.Fatalf("bin 3 = %g, want 1 after flush", got)
	}
}
