package repository

import (
	"context"
	"errors"

	"auth-server/internal/domain"
)

var (
	// ErrNotFound indicates no account matches the lookup key.
	ErrNotFound = errors.New("account not found")
	// ErrEmailExists is returned when creating an account with an email
	// already in the directory.
	ErrEmailExists = errors.New("email already exists")
	// ErrUsernameTaken is returned when creating an account with a
	// username already in the directory.
	ErrUsernameTaken = errors.New("username already taken")
)

// AccountRepository defines persistence operations for Account entities.
// Create is the authority on email/username uniqueness; callers may
// pre-check for friendlier errors but must handle conflicts from Create.
type AccountRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, account *domain.Account) error
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
	GetByID(ctx context.Context, id string) (*domain.Account, error)
}
