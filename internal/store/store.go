package store

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	apperr "github.com/muralapp/mural-server/internal/errors"
	"github.com/muralapp/mural-server/internal/domain"
)

// maxTxnRetries bounds how often an aborted transaction is retried before
// the failure surfaces as a transient storage error. Counter writes all
// touch hot records, so contention is expected under bursts.
const maxTxnRetries = 10

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// Generic entities
	Shops    *Entity[domain.Shop]
	Listings *Entity[domain.Listing]
}

// New creates a new Store instance with the given database path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	store := &Store{
		db:     db,
		logger: logger,
	}

	// Initialize generic entities
	store.initShops()
	store.initListings()

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return store, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// update runs fn in a read-write transaction, retrying a bounded number of
// times when Badger aborts the transaction with a serialization conflict.
// If retries are exhausted the caller sees a transient storage error and
// can resubmit the request.
func (s *Store) update(fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxTxnRetries; attempt++ {
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		if s.logger != nil {
			s.logger.Debug("transaction conflict, retrying", "attempt", attempt+1)
		}
		// Linear backoff so contending writers spread out.
		time.Sleep(time.Duration(attempt+1) * time.Millisecond)
	}
	return apperr.ErrTransientStore.WithCause(err)
}

// Helper methods for database operations.

// get retrieves a value by key.
func (s *Store) get(key []byte, dest any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
}

// set stores a value by key.
func (s *Store) set(key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return s.update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// exists checks if a key exists.
func (s *Store) exists(key []byte) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// getInTxn reads and unmarshals a record inside an open transaction.
func getInTxn(txn *badger.Txn, key []byte, dest any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, dest)
	})
}

// setInTxn marshals and writes a record inside an open transaction.
func setInTxn(txn *badger.Txn, key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return txn.Set(key, data)
}

// initShops initializes the Shops entity on the store.
// Indexed by owner so a profile page can find its storefront.
func (s *Store) initShops() {
	s.Shops = NewEntity[domain.Shop](s, shopPrefix).
		WithIndex("owner", func(sh *domain.Shop) []string {
			return []string{sh.OwnerID}
		})
}

// initListings initializes the Listings entity on the store.
func (s *Store) initListings() {
	s.Listings = NewEntity[domain.Listing](s, listingPrefix).
		WithIndex("shop", func(l *domain.Listing) []string {
			return []string{l.ShopID + ":" + l.ID}
		})
}
