// Package xcom implements the shared key/value channel stages use to pass
// values manually: a stage pulls its upstream's key, computes, and pushes
// its own key. Values are scoped to a single run via key namespacing.
package xcom

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
)

// ErrNotFound is returned by Pull when no value has been pushed for the key.
var ErrNotFound = errors.New("value not found")

// Key builds the store key for a stage's output within a run.
//
// The run ID namespace keeps concurrent or repeated runs from observing
// each other's values in persistent backends.
func Key(runID, stage string) string {
	return fmt.Sprintf("run/%s/%s", runID, stage)
}

// Store is the inter-stage value channel.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Push records a stage output value under key.
	Push(ctx context.Context, key string, value int64) error

	// Pull retrieves a previously pushed value. Returns ErrNotFound if
	// the key has never been pushed.
	Pull(ctx context.Context, key string) (int64, error)

	// Close releases backend resources.
	Close() error
}

// MemStore is an in-process Store backed by a mutex-guarded map.
type MemStore struct {
	mu     sync.RWMutex
	values map[string]int64
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string]int64)}
}

func (s *MemStore) Push(_ context.Context, key string, value int64) error {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}

func (s *MemStore) Pull(_ context.Context, key string) (int64, error) {
	s.mu.RLock()
	v, ok := s.values[key]
	s.mu.RUnlock()
	if !ok {
		return 0, ErrNotFound
	}
	return v, nil
}

func (s *MemStore) Close() error { return nil }

// encodeValue renders a value for byte-oriented backends.
//
// Decimal text keeps stored values inspectable with backend tooling.
func encodeValue(v int64) []byte {
	return []byte(strconv.FormatInt(v, 10))
}

func decodeValue(b []byte) (int64, error) {
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt stored value %q: %w", string(b), err)
	}
	return v, nil
}
