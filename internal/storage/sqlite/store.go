// Package sqlite provides a SQLite-backed histogram store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vetlewi/histogram/internal/platform/storage/sqlitemigrate"
	"github.com/vetlewi/histogram/internal/storage"
	"github.com/vetlewi/histogram/internal/storage/sqlite/migrations"
)

// Store provides a SQLite-backed implementation of storage.Store. Cell
// contents are stored as one little-endian float64 blob per histogram in the
// engine's row-major order; axes get one row per dimension.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (and migrates) a SQLite histogram store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the underlying SQLite database.
//
// Close is nil-safe so callers can defer it in all startup paths.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Put inserts or replaces the record with the same name.
func (s *Store) Put(ctx context.Context, rec storage.HistogramRecord) error {
	if strings.TrimSpace(rec.Name) == "" {
		return fmt.Errorf("histogram name is required")
	}
	now := time.Now().UTC()
	created := rec.CreatedAt
	if created.IsZero() {
		created = now
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin put transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO histograms (name, title, path, dims, entries, contents, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
    title = excluded.title,
    path = excluded.path,
    dims = excluded.dims,
    entries = excluded.entries,
    contents = excluded.contents,
    updated_at = excluded.updated_at`,
		rec.Name, rec.Title, rec.Path, len(rec.Axes), int64(rec.Entries),
		encodeContents(rec.Contents), toMillis(created), toMillis(now),
	); err != nil {
		return fmt.Errorf("upsert histogram %s: %w", rec.Name, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM axes WHERE histogram_name = ?", rec.Name); err != nil {
		return fmt.Errorf("clear axes for %s: %w", rec.Name, err)
	}
	for dim, axis := range rec.Axes {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO axes (histogram_name, dim, channels, left_edge, right_edge, title)
VALUES (?, ?, ?, ?, ?, ?)`,
			rec.Name, dim, axis.Channels, axis.Left, axis.Right, axis.Title,
		); err != nil {
			return fmt.Errorf("insert axis %d for %s: %w", dim, rec.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit put %s: %w", rec.Name, err)
	}
	return nil
}

// Get returns one record with contents; missing names yield storage.ErrNotFound.
func (s *Store) Get(ctx context.Context, name string) (storage.HistogramRecord, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT name, title, path, entries, contents, created_at, updated_at
FROM histograms WHERE name = ?`, name)

	rec, err := scanHistogram(row)
	if err != nil {
		return storage.HistogramRecord{}, err
	}
	rec.Axes, err = s.loadAxes(ctx, name)
	if err != nil {
		return storage.HistogramRecord{}, err
	}
	return rec, nil
}

// List returns every record, contents included, ordered by name.
func (s *Store) List(ctx context.Context) ([]storage.HistogramRecord, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT name, title, path, entries, contents, created_at, updated_at
FROM histograms ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list histograms: %w", err)
	}
	defer rows.Close()

	var recs []storage.HistogramRecord
	for rows.Next() {
		rec, err := scanHistogram(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate histograms: %w", err)
	}

	for i := range recs {
		recs[i].Axes, err = s.loadAxes(ctx, recs[i].Name)
		if err != nil {
			return nil, err
		}
	}
	return recs, nil
}

// Delete removes one record; missing names yield storage.ErrNotFound.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.sqlDB.ExecContext(ctx, "DELETE FROM histograms WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("delete histogram %s: %w", name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete histogram %s: %w", name, err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	// Foreign keys are enabled on the connection, but clear axes explicitly
	// in case the database file predates the constraint.
	if _, err := s.sqlDB.ExecContext(ctx, "DELETE FROM axes WHERE histogram_name = ?", name); err != nil {
		return fmt.Errorf("delete axes for %s: %w", name, err)
	}
	return nil
}

func (s *Store) loadAxes(ctx context.Context, name string) ([]storage.AxisRecord, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT channels, left_edge, right_edge, title
FROM axes WHERE histogram_name = ? ORDER BY dim`, name)
	if err != nil {
		return nil, fmt.Errorf("load axes for %s: %w", name, err)
	}
	defer rows.Close()

	var axes []storage.AxisRecord
	for rows.Next() {
		var a storage.AxisRecord
		if err := rows.Scan(&a.Channels, &a.Left, &a.Right, &a.Title); err != nil {
			return nil, fmt.Errorf("scan axis for %s: %w", name, err)
		}
		axes = append(axes, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate axes for %s: %w", name, err)
	}
	return axes, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHistogram(row rowScanner) (storage.HistogramRecord, error) {
	var (
		rec       storage.HistogramRecord
		entries   int64
		contents  []byte
		createdAt int64
		updatedAt int64
	)
	err := row.Scan(&rec.Name, &rec.Title, &rec.Path, &entries, &contents, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return storage.HistogramRecord{}, storage.ErrNotFound
		}
		return storage.HistogramRecord{}, fmt.Errorf("scan histogram: %w", err)
	}
	rec.Entries = uint64(entries)
	rec.CreatedAt = fromMillis(createdAt)
	rec.UpdatedAt = fromMillis(updatedAt)
	rec.Contents, err = decodeContents(contents)
	if err != nil {
		return storage.HistogramRecord{}, fmt.Errorf("histogram %s: %w", rec.Name, err)
	}
	return rec, nil
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// encodeContents packs cell values as little-endian float64s in row-major
// order, the same order ForEach visits and Restore writes back.
func encodeContents(contents []float64) []byte {
	out := make([]byte, 8*len(contents))
	for i, v := range contents {
		binary.LittleEndian.PutUint64(out[i*8:], math.Float64bits(v))
	}
	return out
}

func decodeContents(payload []byte) ([]float64, error) {
	if len(payload)%8 != 0 {
		return nil, storage.ErrCorruptRecord
	}
	out := make([]float64, len(payload)/8)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(payload[i*8:]))
	}
	return out, nil
}
