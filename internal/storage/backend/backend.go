// Package backend selects a histogram store implementation by name.
package backend

import (
	"fmt"

	"github.com/vetlewi/histogram/internal/storage"
	"github.com/vetlewi/histogram/internal/storage/bbolt"
	"github.com/vetlewi/histogram/internal/storage/sqlite"
)

// Backend names accepted by Open.
const (
	SQLite = "sqlite"
	BBolt  = "bbolt"
)

// Open opens the histogram store identified by kind at path.
func Open(kind, path string) (storage.Store, error) {
	switch kind {
	case SQLite, "":
		return sqlite.Open(path)
	case BBolt:
		return bbolt.Open(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", kind)
	}
}
