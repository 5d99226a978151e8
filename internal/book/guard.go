package book

import (
	"context"
)

// authorize reports whether userID may mutate bookID. A missing book is
// ErrNotFound even for non-owners; only an existing book owned by someone
// else is ErrForbidden.
func (s *Service) authorize(ctx context.Context, bookID, userID int64) error {
	ownerID, err := s.repo.GetOwner(ctx, bookID)
	if err != nil {
		return err
	}
	if ownerID != userID {
		return ErrForbidden
	}
	return nil
}
