// Package memory provides a map-backed key-value store.  It serves as the
// lexicon when no Redis is configured, e.g. in tests or small deployments.
package memory

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/texttechlab/enhanced-search/pkg/errors"
)

// Store is a simple in-memory key-value store.  Not meant for large
// production lexica.
type Store struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{data: make(map[string]string)}
}

// Read returns the value stored under the given key.  A missing key
// returns ok=false without an error.
func (s *Store) Read(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	return value, ok, nil
}

// Put stores a value under the given key.
func (s *Store) Put(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

// LoadMap merges the given data into the store.
func (s *Store) LoadMap(data map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, value := range data {
		s.data[key] = value
	}
}

// LoadFile reads a JSON object of string keys and values from the given
// file into the store.
func (s *Store) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeKeyValueStore,
			"the lexicon file could not be read")
	}

	var data map[string]string
	if err := json.Unmarshal(raw, &data); err != nil {
		return errors.Wrap(err, errors.ErrCodeKeyValueStore,
			"the lexicon file holds no valid JSON object")
	}

	s.LoadMap(data)

	return nil
}

// Len reports the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
