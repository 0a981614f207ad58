package problem

import (
	"context"
	"errors"
	"sort"
	"sync"

	"citywatch/internal/category"
	"citywatch/internal/geo"
	"citywatch/internal/user"
	"citywatch/pkg/platform/sentinel"
)

// InMemoryStore keeps problems in a map and resolves the feed join against
// the sibling user and category stores, for tests and local runs.
type InMemoryStore struct {
	mu         sync.RWMutex
	rows       map[int64]Problem
	nextID     int64
	users      user.Store
	categories category.Store
}

func NewInMemoryStore(users user.Store, categories category.Store) *InMemoryStore {
	return &InMemoryStore{
		rows:       make(map[int64]Problem),
		nextID:     1,
		users:      users,
		categories: categories,
	}
}

func (s *InMemoryStore) Create(_ context.Context, p Problem) (*Problem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextID
	s.nextID++
	s.rows[p.ID] = p
	return &p, nil
}

func (s *InMemoryStore) ListInBox(ctx context.Context, box geo.Box) ([]FeedProblem, error) {
	s.mu.RLock()
	matches := make([]Problem, 0)
	for _, p := range s.rows {
		if box.Contains(geo.Point{Lat: p.Lat, Lng: p.Lng}) {
			matches = append(matches, p)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })

	out := make([]FeedProblem, 0, len(matches))
	for _, p := range matches {
		u, err := s.users.FindByID(ctx, p.UserID)
		if errors.Is(err, sentinel.ErrNotFound) {
			continue // inner join drops dangling references
		}
		if err != nil {
			return nil, err
		}
		c, err := s.categories.Get(ctx, p.CategoryID)
		if errors.Is(err, sentinel.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, FeedProblem{
			ID:          p.ID,
			UserID:      p.UserID,
			Title:       p.Title,
			Description: p.Description,
			Lat:         p.Lat,
			Lng:         p.Lng,
			Username:    u.Username,
			Category:    c.Label,
		})
	}
	return out, nil
}
