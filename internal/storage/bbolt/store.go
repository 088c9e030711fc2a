// Package bbolt provides a BoltDB-backed histogram store. It trades the
// SQLite backend's relational schema for a single bucket of JSON records,
// which keeps the on-disk format self-describing for small catalogs.
package bbolt

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/vetlewi/histogram/internal/storage"
)

const histogramBucket = "histograms"

// Store provides a BoltDB-backed implementation of storage.Store.
type Store struct {
	db *bbolt.DB
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBucket(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put inserts or replaces the record with the same name.
func (s *Store) Put(ctx context.Context, rec storage.HistogramRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(rec.Name) == "" {
		return fmt.Errorf("histogram name is required")
	}

	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal histogram %s: %w", rec.Name, err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(histogramBucket))
		if bucket == nil {
			return fmt.Errorf("histogram bucket is missing")
		}
		return bucket.Put([]byte(rec.Name), payload)
	})
}

// Get returns one record; missing names yield storage.ErrNotFound.
func (s *Store) Get(ctx context.Context, name string) (storage.HistogramRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.HistogramRecord{}, err
	}

	var rec storage.HistogramRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(histogramBucket))
		if bucket == nil {
			return fmt.Errorf("histogram bucket is missing")
		}
		payload := bucket.Get([]byte(name))
		if payload == nil {
			return storage.ErrNotFound
		}
		if err := json.Unmarshal(payload, &rec); err != nil {
			return fmt.Errorf("unmarshal histogram %s: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return storage.HistogramRecord{}, err
	}
	return rec, nil
}

// List returns every record ordered by name. Bolt iterates keys in byte
// order, which matches the name ordering the Store contract asks for.
func (s *Store) List(ctx context.Context) ([]storage.HistogramRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var recs []storage.HistogramRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(histogramBucket))
		if bucket == nil {
			return fmt.Errorf("histogram bucket is missing")
		}
		return bucket.ForEach(func(key, payload []byte) error {
			var rec storage.HistogramRecord
			if err := json.Unmarshal(payload, &rec); err != nil {
				return fmt.Errorf("unmarshal histogram %s: %w", key, err)
			}
			recs = append(recs, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// Delete removes one record; missing names yield storage.ErrNotFound.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(histogramBucket))
		if bucket == nil {
			return fmt.Errorf("histogram bucket is missing")
		}
		if bucket.Get([]byte(name)) == nil {
			return storage.ErrNotFound
		}
		return bucket.Delete([]byte(name))
	})
}

func (s *Store) ensureBucket() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(histogramBucket)); err != nil {
			return fmt.Errorf("create histogram bucket: %w", err)
		}
		return nil
	})
}
