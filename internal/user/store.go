package user

import "context"

// Store persists users. Implementations return sentinel.ErrNotFound for
// missing rows and sentinel.ErrConflict for duplicate emails.
type Store interface {
	Create(ctx context.Context, u User) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}
