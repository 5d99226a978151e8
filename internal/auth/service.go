package auth

import (
	"context"
	"errors"
	"fmt"

	"bookcatalog/internal/platform/crypto"
	"bookcatalog/internal/user"
)

type Service struct {
	users  UserStore
	tokens *TokenService
}

func NewService(users UserStore, tokens *TokenService) *Service {
	return &Service{users: users, tokens: tokens}
}

// Signup checks password strength, hashes it and registers the account.
// Weak passwords fail with *PasswordError, taken emails with
// user.ErrAlreadyExists.
func (s *Service) Signup(ctx context.Context, email, password string) (user.User, error) {
	if err := crypto.ValidatePasswordStrength(password); err != nil {
		return user.User{}, &PasswordError{Problems: crypto.PasswordProblems(err), err: err}
	}
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}
	return s.users.Register(ctx, email, hash)
}

// Login exchanges credentials for an access token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", ErrUnauthorized
		}
		return "", err
	}
	if !crypto.VerifyPassword(u.PasswordHash, password) {
		return "", ErrUnauthorized
	}
	return s.tokens.Issue(u.ID)
}

// Me returns the account behind an authenticated request. A token for a
// user that no longer exists is unauthorized.
func (s *Service) Me(ctx context.Context, userID int64) (user.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, user.ErrNotFound) {
		return user.User{}, ErrUnauthorized
	}
	return u, err
}
