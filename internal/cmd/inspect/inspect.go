// Package inspect parses inspect command flags and prints stored histograms.
package inspect

import (
	"context"
	"flag"
	"fmt"
	"io"

	entrypoint "github.com/vetlewi/histogram/internal/platform/cmd"
	"github.com/vetlewi/histogram/internal/storage"
	"github.com/vetlewi/histogram/internal/storage/backend"
)

// Config holds inspect command configuration.
type Config struct {
	DBPath  string `env:"HISTOGRAM_DB_PATH" envDefault:"histograms.db"`
	Backend string `env:"HISTOGRAM_DB_BACKEND" envDefault:"sqlite"`
	Name    string
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "histogram database path")
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "database backend (sqlite or bbolt)")
	fs.StringVar(&cfg.Name, "name", cfg.Name, "histogram to inspect (default: list all)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run prints stored histograms to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceInspect, func(ctx context.Context) error {
		store, err := backend.Open(cfg.Backend, cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		if cfg.Name != "" {
			rec, err := store.Get(ctx, cfg.Name)
			if err != nil {
				return err
			}
			return Print(out, rec)
		}
		recs, err := store.List(ctx)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			fmt.Fprintln(out, "no histograms stored")
			return nil
		}
		for i, rec := range recs {
			if i > 0 {
				fmt.Fprintln(out)
			}
			if err := Print(out, rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// Print writes a summary of a stored histogram to out.
func Print(out io.Writer, rec storage.HistogramRecord) error {
	fmt.Fprintf(out, "%s: %s\n", rec.Name, rec.Title)
	if rec.Path != "" {
		fmt.Fprintf(out, "  path:    %s\n", rec.Path)
	}
	for dim, axis := range rec.Axes {
		fmt.Fprintf(out, "  axis %s:  %d bins in [%g, %g) %s\n",
			axisLabel(dim), axis.Channels, axis.Left, axis.Right, axis.Title)
	}
	integral, underflow, overflow := tally(rec)
	fmt.Fprintf(out, "  entries: %d\n", rec.Entries)
	fmt.Fprintf(out, "  counts:  %g inside, %g underflow, %g overflow\n",
		integral, underflow, overflow)
	return nil
}

func axisLabel(dim int) string {
	labels := []string{"x", "y", "z"}
	if dim < len(labels) {
		return labels[dim]
	}
	return fmt.Sprintf("%d", dim)
}

// tally splits the stored contents into in-range, underflow and overflow
// sums. A cell counts as underflow or overflow when any of its bin indices
// lands in the corresponding flow bin; underflow wins when both do.
func tally(rec storage.HistogramRecord) (integral, underflow, overflow float64) {
	dims := len(rec.Axes)
	if dims == 0 {
		return 0, 0, 0
	}
	bins := make([]int, dims)
	for _, content := range rec.Contents {
		if content != 0 {
			switch classify(bins, rec.Axes) {
			case flowUnder:
				underflow += content
			case flowOver:
				overflow += content
			default:
				integral += content
			}
		}
		for dim := 0; dim < dims; dim++ {
			bins[dim]++
			if bins[dim] <= rec.Axes[dim].Channels+1 {
				break
			}
			bins[dim] = 0
		}
	}
	return integral, underflow, overflow
}

type flow int

const (
	flowInside flow = iota
	flowUnder
	flowOver
)

func classify(bins []int, axes []storage.AxisRecord) flow {
	for _, bin := range bins {
		if bin == 0 {
			return flowUnder
		}
	}
	for dim, bin := range bins {
		if bin == axes[dim].Channels+1 {
			return flowOver
		}
	}
	return flowInside
}
