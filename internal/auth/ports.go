package auth

import (
	"context"

	"bookcatalog/internal/user"
)

// UserStore is the subset of user.Service the auth flows need.
type UserStore interface {
	Register(ctx context.Context, email, passwordHash string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id int64) (user.User, error)
}
