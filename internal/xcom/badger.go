package xcom

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

// BadgerConfig holds configuration for the badger-backed store.
type BadgerConfig struct {
	// Path is the directory for the database files.
	// Ignored when InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence).
	// Useful for testing.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool
}

// DefaultBadgerConfig returns the persistent configuration for the given path.
func DefaultBadgerConfig(path string) BadgerConfig {
	return BadgerConfig{Path: path, SyncWrites: true}
}

// InMemoryBadgerConfig returns a configuration suitable for tests.
func InMemoryBadgerConfig() BadgerConfig {
	return BadgerConfig{InMemory: true}
}

// BadgerStore is a Store backed by an embedded badger database.
//
// It gives pushed values durability across process restarts, so a run's
// intermediate values can be inspected after the fact.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens (and creates if necessary) a badger-backed store.
// The caller must Close it when done.
func OpenBadger(cfg BadgerConfig) (*BadgerStore, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("badger store: path is required")
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "opening badger store")
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Push(ctx context.Context, key string, value int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), encodeValue(value))
	})
	return errors.Wrapf(err, "pushing %q", key)
}

func (s *BadgerStore) Pull(ctx context.Context, key string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var out int64
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		out, err = decodeValue(raw)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, errors.Wrapf(err, "pulling %q", key)
	}
	return out, nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
