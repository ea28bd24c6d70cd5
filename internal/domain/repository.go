package domain

import "context"

type UserRepository interface {
	// Create persists a new user. Returns ErrEmailExists on duplicate email.
	Create(ctx context.Context, u *User) error

	// GetByID returns ErrUserNotFound if absent.
	GetByID(ctx context.Context, id uint) (*User, error)

	// GetByEmail returns ErrUserNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Update persists the full record.
	Update(ctx context.Context, u *User) error
}
