package repository

import (
	"context"
	"errors"
	"time"

	"github.com/oksasatya/learnpath-auth/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when the unique email index rejects an insert.
	ErrDuplicateEmail = errors.New("email already exists")
)

// UserRepository defines the credential store operations.
// Implementations compare emails case-insensitively and enforce uniqueness
// with a unique index on the lower-cased email.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// Create fills in ID and CreatedAt on success.
	Create(ctx context.Context, u *entity.User) error
	// RecordLogin sets last_login and increments login_count in one statement.
	RecordLogin(ctx context.Context, userID string, at time.Time) error
}
