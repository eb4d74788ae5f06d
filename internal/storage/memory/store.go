// Package memory is an in-process HistoryStore for local runs and tests.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/sandevgo/ridevoice/internal/core"
)

type Store struct {
	mu      sync.RWMutex
	records map[string]core.StoredRecord
}

func NewStore() *Store {
	return &Store{records: make(map[string]core.StoredRecord)}
}

func (s *Store) Get(_ context.Context, id string) (core.StoredRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[id]
	if !ok {
		return core.StoredRecord{}, core.ErrRecordNotFound
	}
	r.History = slices.Clone(r.History)
	return r, nil
}

func (s *Store) Upsert(_ context.Context, record core.StoredRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record.History = slices.Clone(record.History)
	s.records[record.ID] = record
	return nil
}

func (s *Store) Close() error { return nil }
