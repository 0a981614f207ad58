package verification

import (
	"context"
	"sync"

	"citywatch/pkg/platform/sentinel"
)

type pairKey struct {
	userID    int64
	problemID int64
}

// InMemoryStore keeps verifications in a map for tests and local runs.
type InMemoryStore struct {
	mu     sync.RWMutex
	rows   map[pairKey]Verification
	nextID int64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{rows: make(map[pairKey]Verification), nextID: 1}
}

func (s *InMemoryStore) Find(_ context.Context, userID, problemID int64) (*Verification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.rows[pairKey{userID, problemID}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &row, nil
}

func (s *InMemoryStore) Create(_ context.Context, v Verification) (*Verification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey{v.UserID, v.ProblemID}
	if _, exists := s.rows[key]; exists {
		return nil, sentinel.ErrConflict
	}
	v.ID = s.nextID
	s.nextID++
	s.rows[key] = v
	return &v, nil
}

func (s *InMemoryStore) Update(_ context.Context, userID, problemID int64, verified bool) (*Verification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey{userID, problemID}
	row, ok := s.rows[key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	row.Verified = verified
	s.rows[key] = row
	return &row, nil
}

func (s *InMemoryStore) CountByProblem(_ context.Context, problemID int64, verified bool) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, row := range s.rows {
		if row.ProblemID == problemID && row.Verified == verified {
			count++
		}
	}
	return count, nil
}
