// Package memory is an in-process RecordRepository. It keeps records sorted by
// key and is safe for concurrent use; data lives only as long as the process.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/maxviazov/lexico-users/internal/model"
	"github.com/maxviazov/lexico-users/internal/repository"
)

type Store struct {
	mu      sync.RWMutex
	records []model.Record // sorted by Key
}

func NewStore() *Store {
	return &Store{}
}

// search returns the index of the first record whose key is >= key.
func (s *Store) search(key int64) int {
	return sort.Search(len(s.records), func(i int) bool { return s.records[i].Key >= key })
}

func (s *Store) Create(_ context.Context, r model.Record) (model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.search(r.Key)
	if i < len(s.records) && s.records[i].Key == r.Key {
		return model.Record{}, repository.ErrAlreadyExists
	}
	s.records = append(s.records, model.Record{})
	copy(s.records[i+1:], s.records[i:])
	s.records[i] = r
	return r, nil
}

func (s *Store) GetByKey(_ context.Context, key int64) (model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.search(key)
	if i < len(s.records) && s.records[i].Key == key {
		return s.records[i], nil
	}
	return model.Record{}, repository.ErrNotFound
}

func (s *Store) List(_ context.Context, p repository.Page) (repository.PageResult[model.Record], error) {
	p = p.Sanitized()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return repository.PageResult[model.Record]{
		Items: window(s.records, p.Offset, p.Limit),
		Total: int64(len(s.records)),
	}, nil
}

func (s *Store) ListWindow(_ context.Context, p repository.Page) ([]model.Record, error) {
	p = p.Sanitized()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return window(s.records, p.Offset, p.Limit), nil
}

func (s *Store) ListAfter(_ context.Context, afterKey int64, limit int) ([]model.Record, error) {
	limit = repository.Page{Limit: limit}.Sanitized().Limit
	s.mu.RLock()
	defer s.mu.RUnlock()
	return window(s.records, s.search(afterKey+1), limit), nil
}

func (s *Store) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.records)), nil
}

// Ping always succeeds; there is nothing to reach.
func (s *Store) Ping(context.Context) error { return nil }

// window copies records[offset:offset+limit], clamped to bounds.
func window(records []model.Record, offset, limit int) []model.Record {
	if offset >= len(records) {
		return []model.Record{}
	}
	end := len(records)
	if limit < end-offset {
		end = offset + limit
	}
	out := make([]model.Record, end-offset)
	copy(out, records[offset:end])
	return out
}

var (
	_ repository.RecordRepository = (*Store)(nil)
	_ repository.Pinger           = (*Store)(nil)
)
