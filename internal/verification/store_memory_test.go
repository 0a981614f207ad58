package verification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"citywatch/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) TestFindBehavior() {
	ctx := context.Background()

	s.Run("returns ErrNotFound when pair never voted", func() {
		_, err := s.store.Find(ctx, 1, 99)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returns the row after create", func() {
		created, err := s.store.Create(ctx, Verification{UserID: 1, ProblemID: 2, Verified: true})
		s.Require().NoError(err)
		s.NotZero(created.ID)

		found, err := s.store.Find(ctx, 1, 2)
		s.Require().NoError(err)
		s.Equal(created, found)
	})
}

func (s *InMemoryStoreSuite) TestCreateEnforcesUniqueness() {
	ctx := context.Background()

	_, err := s.store.Create(ctx, Verification{UserID: 7, ProblemID: 3, Verified: true})
	s.Require().NoError(err)

	_, err = s.store.Create(ctx, Verification{UserID: 7, ProblemID: 3, Verified: false})
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	// A different problem for the same user is fine.
	_, err = s.store.Create(ctx, Verification{UserID: 7, ProblemID: 4, Verified: false})
	s.Require().NoError(err)
}

func (s *InMemoryStoreSuite) TestUpdate() {
	ctx := context.Background()

	s.Run("missing row yields ErrNotFound", func() {
		_, err := s.store.Update(ctx, 5, 5, true)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("changes the verdict and is idempotent", func() {
		created, err := s.store.Create(ctx, Verification{UserID: 5, ProblemID: 5, Verified: true})
		s.Require().NoError(err)

		updated, err := s.store.Update(ctx, 5, 5, false)
		s.Require().NoError(err)
		s.Equal(created.ID, updated.ID)
		s.False(updated.Verified)

		again, err := s.store.Update(ctx, 5, 5, false)
		s.Require().NoError(err)
		s.Equal(updated, again)
	})
}

func (s *InMemoryStoreSuite) TestCountByProblem() {
	ctx := context.Background()

	s.Run("zero rows count zero for both verdicts", func() {
		yes, err := s.store.CountByProblem(ctx, 42, true)
		s.Require().NoError(err)
		no, err := s.store.CountByProblem(ctx, 42, false)
		s.Require().NoError(err)
		s.Zero(yes)
		s.Zero(no)
	})

	s.Run("counts split by verdict regardless of insertion order", func() {
		votes := []Verification{
			{UserID: 1, ProblemID: 8, Verified: false},
			{UserID: 2, ProblemID: 8, Verified: true},
			{UserID: 3, ProblemID: 8, Verified: true},
			{UserID: 4, ProblemID: 9, Verified: true},
			{UserID: 5, ProblemID: 8, Verified: true},
		}
		for _, v := range votes {
			_, err := s.store.Create(ctx, v)
			s.Require().NoError(err)
		}

		yes, err := s.store.CountByProblem(ctx, 8, true)
		s.Require().NoError(err)
		no, err := s.store.CountByProblem(ctx, 8, false)
		s.Require().NoError(err)
		s.Equal(3, yes)
		s.Equal(1, no)
	})
}
