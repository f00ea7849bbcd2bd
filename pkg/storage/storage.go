package storage

import (
	"context"
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"

	"github.com/korjavin/kitchentimer/pkg/logger"
)

// ErrNotFound is returned by Get when the key does not exist
var ErrNotFound = errors.New("key not found")

// Store represents a BadgerDB storage instance
type Store struct {
	db     *badger.DB
	logger *logger.Logger
}

// New opens (or creates) a BadgerDB database in dataDir
func New(dataDir string) (*Store, error) {
	absPath, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get absolute path")
	}

	opts := badger.DefaultOptions(absPath)
	opts.Logger = nil // Disable Badger's internal logger

	s, err := open(opts)
	if err != nil {
		return nil, err
	}
	s.logger.Info("BadgerDB opened at %s", absPath)
	return s, nil
}

// NewInMemory opens a BadgerDB database that lives only in memory
func NewInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open BadgerDB")
	}
	return &Store{db: db, logger: logger.New("storage")}, nil
}

// Close closes the BadgerDB database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Set stores a value for a key
func (s *Store) Set(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal value for %s", key)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// Get retrieves a value for a key
func (s *Store) Get(key string, value interface{}) error {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})

	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return errors.Wrapf(ErrNotFound, "get %s", key)
		}
		return errors.Wrapf(err, "failed to get %s", key)
	}

	return errors.Wrapf(json.Unmarshal(data, value), "failed to unmarshal %s", key)
}

// Update reads key into value, lets fn modify it and writes it back in a
// single transaction. fn receives found=false when the key does not exist
func (s *Store) Update(key string, value interface{}, fn func(found bool) error) error {
	return s.db.Update(func(txn *badger.Txn) error {
		found := true
		item, err := txn.Get([]byte(key))
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			found = false
		case err != nil:
			return errors.Wrapf(err, "failed to get %s", key)
		default:
			data, err := item.ValueCopy(nil)
			if err != nil {
				return errors.Wrapf(err, "failed to read %s", key)
			}
			if err := json.Unmarshal(data, value); err != nil {
				return errors.Wrapf(err, "failed to unmarshal %s", key)
			}
		}

		if err := fn(found); err != nil {
			return err
		}

		data, err := json.Marshal(value)
		if err != nil {
			return errors.Wrapf(err, "failed to marshal value for %s", key)
		}
		return txn.Set([]byte(key), data)
	})
}

// Delete removes a key from the database
func (s *Store) Delete(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// List returns all keys with a given prefix in ascending key order
func (s *Store) List(prefix string) ([]string, error) {
	var keys []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefixBytes := []byte(prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})

	if err != nil {
		return nil, errors.Wrap(err, "failed to list keys")
	}

	return keys, nil
}

// RunGC runs garbage collection on the database
func (s *Store) RunGC() error {
	return s.db.RunValueLogGC(0.5)
}

// StartGCRoutine periodically runs garbage collection until ctx is done
func (s *Store) StartGCRoutine(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// ErrNoRewrite only means there was nothing to collect
				if err := s.RunGC(); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
					s.logger.Error("BadgerDB GC error: %v", err)
				}
			}
		}
	}()
	s.logger.Info("Started BadgerDB GC routine with interval %v", interval)
}
