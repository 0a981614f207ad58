package category

import (
	"context"
	"sort"
	"sync"

	"citywatch/pkg/platform/sentinel"
)

// InMemoryStore keeps categories in a map for tests and local runs.
type InMemoryStore struct {
	mu   sync.RWMutex
	rows map[int64]Category
}

func NewInMemoryStore(categories ...Category) *InMemoryStore {
	rows := make(map[int64]Category, len(categories))
	for _, c := range categories {
		rows[c.ID] = c
	}
	return &InMemoryStore{rows: rows}
}

func (s *InMemoryStore) List(_ context.Context) ([]Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Category, 0, len(s.rows))
	for _, c := range s.rows {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) Get(_ context.Context, id int64) (*Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.rows[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &c, nil
}
