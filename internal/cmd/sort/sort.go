// Package sort parses sort command flags and runs the event sorting loop.
package sort

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"

	"github.com/vetlewi/histogram"
	entrypoint "github.com/vetlewi/histogram/internal/platform/cmd"
	"github.com/vetlewi/histogram/internal/specfile"
	"github.com/vetlewi/histogram/internal/storage"
	"github.com/vetlewi/histogram/internal/storage/backend"
)

// Config holds sort command configuration.
type Config struct {
	SpecPath string `env:"HISTOGRAM_SPEC"`
	Events   string `env:"HISTOGRAM_EVENTS"`
	DBPath   string `env:"HISTOGRAM_DB_PATH" envDefault:"histograms.db"`
	Backend  string `env:"HISTOGRAM_DB_BACKEND" envDefault:"sqlite"`
	Weighted bool
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.SpecPath, "spec", cfg.SpecPath, "histogram definition file (YAML)")
	fs.StringVar(&cfg.Events, "events", cfg.Events, "event file to sort (default: stdin)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "histogram database path")
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "database backend (sqlite or bbolt)")
	fs.BoolVar(&cfg.Weighted, "weighted", cfg.Weighted, "treat the last column of each event as a weight")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.SpecPath == "" {
		return Config{}, fmt.Errorf("histogram definition file is required (-spec)")
	}
	return cfg, nil
}

// Summary reports the outcome of a sorting run.
type Summary struct {
	Lines   int
	Filled  int
	Skipped int
}

// Run sorts events into the booked histograms and persists the results.
func Run(ctx context.Context, cfg Config, errOut io.Writer) (Summary, error) {
	if errOut == nil {
		errOut = io.Discard
	}
	var summary Summary
	err := entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSort, func(ctx context.Context) error {
		defs, err := specfile.Load(cfg.SpecPath)
		if err != nil {
			return err
		}
		hists, err := specfile.Build(defs)
		if err != nil {
			return err
		}

		in, closeInput, err := openInput(cfg.Events)
		if err != nil {
			return err
		}
		defer closeInput()

		tracer := otel.Tracer("histogram/sort")
		fillCtx, span := tracer.Start(ctx, "fill")
		summary, err = Sort(fillCtx, in, hists, cfg.Weighted, errOut)
		span.End()
		if err != nil {
			return err
		}

		store, err := backend.Open(cfg.Backend, cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		persistCtx, span := tracer.Start(ctx, "persist")
		defer span.End()
		for _, h := range hists {
			if err := store.Put(persistCtx, storage.Snapshot(h)); err != nil {
				return fmt.Errorf("persist %s: %w", h.Name(), err)
			}
		}
		return nil
	})
	return summary, err
}

// Sort reads whitespace-separated event tuples from in and fills every
// histogram whose dimensionality matches the tuple width. Lines that fail to
// parse are reported on errOut and skipped.
func Sort(ctx context.Context, in io.Reader, hists []*histogram.Histogram, weighted bool, errOut io.Writer) (Summary, error) {
	byDims := make(map[int][]*histogram.Histogram)
	for _, h := range hists {
		byDims[h.Dimensions()] = append(byDims[h.Dimensions()], h)
	}

	var summary Summary
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Lines++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		values, err := parseEvent(line)
		if err != nil {
			summary.Skipped++
			fmt.Fprintf(errOut, "line %d: %v\n", summary.Lines, err)
			continue
		}
		coords, weight := values, 1.0
		if weighted {
			if len(values) < 2 {
				summary.Skipped++
				fmt.Fprintf(errOut, "line %d: weighted event needs at least one coordinate\n", summary.Lines)
				continue
			}
			coords, weight = values[:len(values)-1], values[len(values)-1]
		}
		targets := byDims[len(coords)]
		if len(targets) == 0 {
			summary.Skipped++
			fmt.Fprintf(errOut, "line %d: no %d-dimensional histograms booked\n", summary.Lines, len(coords))
			continue
		}
		for _, h := range targets {
			h.FillW(weight, coords...)
		}
		summary.Filled++
	}
	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("read events: %w", err)
	}
	for _, h := range hists {
		h.Flush()
	}
	return summary, nil
}

func parseEvent(line string) ([]float64, error) {
	fields := strings.Fields(line)
	values := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("bad value %q", f)
		}
		values[i] = v
	}
	return values, nil
}

func openInput(path string) (io.Reader, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdin, func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
