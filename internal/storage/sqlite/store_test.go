package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/vetlewi/histogram"
	"github.com/vetlewi/histogram/internal/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "histograms.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func sampleRecord(t *testing.T, name string) storage.HistogramRecord {
	t.Helper()
	h, err := histogram.New2D(name, "test matrix",
		4, 0, 4, "x",
		3, -1, 2, "y",
		histogram.WithPath("test/"+name))
	if err != nil {
		t.Fatalf("New2D returned error: %v", err)
	}
	h.Fill(1.5, 0.5)
	h.FillW(2.25, -5, 0.5)
	h.Fill(1.5, 10)
	return storage.Snapshot(h.Histogram)
}

// TestPutGetRoundTrip ensures a stored record comes back identical.
func TestPutGetRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	want := sampleRecord(t, "roundtrip")
	if err := store.Put(ctx, want); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	got, err := store.Get(ctx, "roundtrip")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatal("Get returned zero timestamps")
	}
	ignoreTimes := cmpopts.IgnoreFields(storage.HistogramRecord{}, "CreatedAt", "UpdatedAt")
	if diff := cmp.Diff(want, got, ignoreTimes); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}

	// The record must restore to a working histogram.
	h, err := storage.Restore(got)
	if err != nil {
		t.Fatalf("Restore returned error: %v", err)
	}
	if v, err := h.GetBinContent(2, 2); err != nil || v != 1 {
		t.Fatalf("restored GetBinContent(2,2) = %v, %v, want 1", v, err)
	}
	if v, err := h.GetBinContent(0, 2); err != nil || v != 2.25 {
		t.Fatalf("restored underflow cell = %v, %v, want 2.25", v, err)
	}
}

// TestPutReplacesExisting ensures Put upserts by name and keeps creation time.
func TestPutReplacesExisting(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := sampleRecord(t, "upsert")
	if err := store.Put(ctx, rec); err != nil {
		t.Fatalf("initial Put returned error: %v", err)
	}
	first, err := store.Get(ctx, "upsert")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	updated := first
	updated.Title = "renamed"
	updated.Entries = 99
	if err := store.Put(ctx, updated); err != nil {
		t.Fatalf("second Put returned error: %v", err)
	}

	got, err := store.Get(ctx, "upsert")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Title != "renamed" || got.Entries != 99 {
		t.Fatalf("updated record = %q/%d, want renamed/99", got.Title, got.Entries)
	}
	if !got.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("CreatedAt changed on upsert: %v -> %v", first.CreatedAt, got.CreatedAt)
	}
	if !got.UpdatedAt.After(first.UpdatedAt) {
		t.Fatalf("UpdatedAt not advanced on upsert: %v -> %v", first.UpdatedAt, got.UpdatedAt)
	}
}

// TestGetMissingReturnsNotFound ensures missing names yield the sentinel.
func TestGetMissingReturnsNotFound(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Get error = %v, want %v", err, storage.ErrNotFound)
	}
}

// TestListOrdersByName ensures List returns every record sorted by name.
func TestListOrdersByName(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"gamma", "alpha", "beta"} {
		if err := store.Put(ctx, sampleRecord(t, name)); err != nil {
			t.Fatalf("Put(%s) returned error: %v", name, err)
		}
	}

	recs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("List returned %d records, want 3", len(recs))
	}
	want := []string{"alpha", "beta", "gamma"}
	for i, rec := range recs {
		if rec.Name != want[i] {
			t.Fatalf("List[%d] = %q, want %q", i, rec.Name, want[i])
		}
		if len(rec.Contents) == 0 || len(rec.Axes) != 2 {
			t.Fatalf("List[%d] missing contents or axes: %d cells, %d axes",
				i, len(rec.Contents), len(rec.Axes))
		}
	}
}

// TestDeleteRemovesRecord ensures Delete drops the row and reports missing names.
func TestDeleteRemovesRecord(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, sampleRecord(t, "doomed")); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if err := store.Delete(ctx, "doomed"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := store.Get(ctx, "doomed"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Get after Delete error = %v, want %v", err, storage.ErrNotFound)
	}
	if err := store.Delete(ctx, "doomed"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("second Delete error = %v, want %v", err, storage.ErrNotFound)
	}
}

// TestReopenIsIdempotent ensures migrations replay cleanly and data survives reopen.
func TestReopenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "histograms.db")
	ctx := context.Background()

	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.Put(ctx, sampleRecord(t, "persistent")); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()
	if _, err := reopened.Get(ctx, "persistent"); err != nil {
		t.Fatalf("Get after reopen returned error: %v", err)
	}
}
