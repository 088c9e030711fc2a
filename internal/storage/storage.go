// Package storage defines the persistence surface for histograms: flat
// records capturing a histogram's identity, binning, entry count, and
// complete cell contents, plus the Store interface durable backends
// implement.
package storage

import (
	"context"
	"time"

	"github.com/vetlewi/histogram"
	apperrors "github.com/vetlewi/histogram/internal/platform/errors"
)

// ErrNotFound indicates a requested histogram record is missing.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "histogram not found")

// ErrCorruptRecord indicates a persisted record whose contents disagree with
// its own binning and cannot be restored.
var ErrCorruptRecord = apperrors.New(apperrors.CodeCorruptRecord, "histogram record is corrupt")

// AxisRecord captures one axis definition.
type AxisRecord struct {
	Channels int     `json:"channels"`
	Left     float64 `json:"left"`
	Right    float64 `json:"right"`
	Title    string  `json:"title"`
}

// HistogramRecord captures everything a backend needs to persist and restore
// a histogram. Contents holds every cell, edge bins included, in the
// engine's row-major order (first axis fastest-varying).
type HistogramRecord struct {
	Name      string       `json:"name"`
	Title     string       `json:"title"`
	Path      string       `json:"path,omitempty"`
	Entries   uint64       `json:"entries"`
	Axes      []AxisRecord `json:"axes"`
	Contents  []float64    `json:"contents"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Store owns durable histogram state, keyed by name.
type Store interface {
	// Put inserts or replaces the record with the same name.
	Put(ctx context.Context, rec HistogramRecord) error
	// Get returns one record, contents included; missing names yield ErrNotFound.
	Get(ctx context.Context, name string) (HistogramRecord, error)
	// List returns every record, contents included, ordered by name.
	List(ctx context.Context) ([]HistogramRecord, error)
	// Delete removes one record; missing names yield ErrNotFound.
	Delete(ctx context.Context, name string) error
	Close() error
}

// Snapshot flattens a histogram into a record. Flush buffered histograms
// first; pending fills are not part of the snapshot.
func Snapshot(h *histogram.Histogram) HistogramRecord {
	axes := h.Axes()
	rec := HistogramRecord{
		Name:     h.Name(),
		Title:    h.Title(),
		Path:     h.Path(),
		Entries:  h.Entries(),
		Axes:     make([]AxisRecord, len(axes)),
		Contents: make([]float64, 0, h.NumCells()),
	}
	for i, a := range axes {
		rec.Axes[i] = AxisRecord{
			Channels: a.Channels(),
			Left:     a.Left(),
			Right:    a.Right(),
			Title:    a.Title(),
		}
	}
	// ForEach visits cells in the exact order Restore writes them back.
	_ = h.ForEach(func(_ []int, v float64) error {
		rec.Contents = append(rec.Contents, v)
		return nil
	})
	return rec
}

// Restore rebuilds a histogram from a record, reproducing axes, entry count,
// and every cell.
func Restore(rec HistogramRecord, opts ...histogram.Option) (*histogram.Histogram, error) {
	axes := make([]histogram.Axis, len(rec.Axes))
	for i, a := range rec.Axes {
		axis, err := histogram.NewAxis(a.Channels, a.Left, a.Right, a.Title)
		if err != nil {
			return nil, err
		}
		axes[i] = axis
	}
	if rec.Path != "" {
		opts = append(opts, histogram.WithPath(rec.Path))
	}
	h, err := histogram.New(rec.Name, rec.Title, axes, opts...)
	if err != nil {
		return nil, err
	}
	if len(rec.Contents) != h.NumCells() {
		return nil, apperrors.WithMetadata(apperrors.CodeCorruptRecord,
			"histogram record contents do not match its binning",
			map[string]string{"name": rec.Name})
	}

	i := 0
	err = h.ForEach(func(bins []int, _ float64) error {
		v := rec.Contents[i]
		i++
		if v == 0 {
			return nil
		}
		return h.SetBinContent(v, bins...)
	})
	if err != nil {
		return nil, err
	}
	h.SetEntries(rec.Entries)
	return h, nil
}
