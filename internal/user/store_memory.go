package user

import (
	"context"
	"strings"
	"sync"

	"citywatch/pkg/platform/sentinel"
)

// InMemoryStore keeps users in a map for tests and local runs.
type InMemoryStore struct {
	mu     sync.RWMutex
	byID   map[int64]User
	byMail map[string]int64
	nextID int64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID:   make(map[int64]User),
		byMail: make(map[string]int64),
		nextID: 1,
	}
}

func (s *InMemoryStore) Create(_ context.Context, u User) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mail := strings.ToLower(u.Email)
	if _, exists := s.byMail[mail]; exists {
		return nil, sentinel.ErrConflict
	}
	u.ID = s.nextID
	s.nextID++
	s.byID[u.ID] = u
	s.byMail[mail] = u.ID
	return &u, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id int64) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &u, nil
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byMail[strings.ToLower(email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	u := s.byID[id]
	return &u, nil
}
