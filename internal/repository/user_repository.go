package repository

import (
	"context"

	"github.com/coalfield/newsboard/internal/domain"
)

// UserRepository provides read-only access to registered users.
type UserRepository interface {
	// List returns all users.
	List(ctx context.Context) ([]*domain.User, error)

	// GetByUsername returns a single user.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}
