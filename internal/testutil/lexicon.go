package testutil

import (
	"context"
	"sync"
)

// LexiconStore is an in-memory key-value store for tests.  It satisfies the
// KeyValueStore contract of the annotation engines: a miss is
// ("", false, nil), errors are reserved for transport failures.
type LexiconStore struct {
	mu   sync.RWMutex
	data map[string]string

	// Err, when set, is returned by every Read.  It simulates a failing
	// backend.
	Err error
}

// NewLexiconStore creates a store holding the given data.  Keys must be
// lowercase, like in the production lexicon.
func NewLexiconStore(data map[string]string) *LexiconStore {
	if data == nil {
		data = make(map[string]string)
	}
	return &LexiconStore{data: data}
}

// NewDefaultLexiconStore creates a store preloaded with the default
// biological lexicon fixture.
func NewDefaultLexiconStore() *LexiconStore {
	return NewLexiconStore(DefaultLexicon())
}

func (s *LexiconStore) Read(_ context.Context, key string) (string, bool, error) {
	if s.Err != nil {
		return "", false, s.Err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	return value, ok, nil
}

// Put adds an entry to the store.
func (s *LexiconStore) Put(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

// DefaultLexicon returns the lexicon fixture used across the annotation
// tests.  All keys are lowercase; values follow the lexicon payload schema
// mapping entity type names onto URI/position pairs.
func DefaultLexicon() map[string]string {
	return map[string]string{
		"quercus": `{"Plant_Flora": [["https://www.biofid.de/ontology/quercus", 3]]}`,
		"quercus sylvestris": `{"Plant_Flora": [["https://www.biofid.de/ontology/quercus_sylvestris", 3]]}`,
		"fagus": `{"Plant_Flora": [["https://www.biofid.de/ontology/fagus", 3]]}`,
		"fagus sylvatica": `{"Plant_Flora": [["https://www.biofid.de/ontology/fagus_sylvatica", 3]]}`,
		"abies": `{"Plant_Flora": [["https://www.biofid.de/ontology/abies", 3]]}`,
		"deutschland": `{"Location_Place": [["https://sws.geonames.org/deutschland", 3]]}`,
		"paris": `{"Plant_Flora": [["https://www.biofid.de/ontology/paris", 3]],` +
			` "Location_Place": [["https://sws.geonames.org/Paris", 3]]}`,
		"pflanze": `{"Plant_Flora": [["https://www.biofid.de/ontology/pflanzen", 3]]}`,
		"vogel":   `{"Animal_Fauna": [["https://www.biofid.de/ontology/vogel", 3]]}`,
		"rot":     `{"Miscellaneous": [["https://pato.org/red_color", 3]]}`,
		"grün":    `{"Miscellaneous": [["https://pato.org/green_color", 3]]}`,
		"blüte":   `{"Miscellaneous": [["https://pato.org/flower_part", 2]]}`,
		"gelb blüte": `{"Miscellaneous": [["https://pato.org/yellow_flower", 3]]}`,
		"kelchblatt": `{"Miscellaneous": [["https://pato.org/has_petal_count", 2]]}`,
	}
}
