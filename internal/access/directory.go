package access

import (
	"context"
	"errors"
	"fmt"

	"dnaarchive/internal/model"

	"gorm.io/gorm"
)

// ErrUserNotFound means the session is valid but no user row matches it
var ErrUserNotFound = errors.New("access: user not found")

// UserFinder is the slice of the user repository the directory needs
type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// Directory maps a session email to the persisted user and role
type Directory interface {
	Lookup(ctx context.Context, email string) (*AuthenticatedUser, error)
}

type directory struct {
	users UserFinder
}

func NewDirectory(users UserFinder) Directory {
	return &directory{users: users}
}

func (d *directory) Lookup(ctx context.Context, email string) (*AuthenticatedUser, error) {
	if email == "" {
		return nil, ErrUserNotFound
	}
	u, err := d.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	user := FromModel(u)
	return &user, nil
}
