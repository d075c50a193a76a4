// Package store persists per-owner documents in BadgerDB.
//
// Each owner's records live under their own key prefix, so every query is
// structurally scoped to one owner; cross-tenant reads are impossible by
// construction rather than by a runtime filter.
package store

import (
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// Provider hands out the store handle on each call. A nil result means the
// database is not available (not configured, failed to open); repositories
// treat that as a normal low-information state and degrade instead of
// failing.
type Provider func() *Store

// New opens the database at path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Badger's own logging is noise here
	opts.SyncWrites = true       // survive crashes without corruption
	opts.CompactL0OnClose = true // faster startup next time

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	store := &Store{db: db, logger: logger}

	if logger != nil {
		logger.Info("database opened", "path", path)
	}

	return store, nil
}

// Close gracefully closes the database.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("closing database")
	}
	return s.db.Close()
}
