package author

import (
	"context"
	"errors"
	"fmt"
)

// Resolver maps author display names to identities, creating authors on
// first reference.
type Resolver struct {
	repo Repository
}

func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve returns the id of the author called name, inserting it when
// absent. Two callers racing on the same new name both get the id of the
// single row that won the insert: the loser sees ErrDuplicate and re-reads.
func (r *Resolver) Resolve(ctx context.Context, name string) (int64, error) {
	a, err := r.repo.FindByName(ctx, name)
	if err == nil {
		return a.ID, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return 0, err
	}

	a, err = r.repo.Create(ctx, name)
	if err == nil {
		return a.ID, nil
	}
	if !errors.Is(err, ErrDuplicate) {
		return 0, err
	}

	a, err = r.repo.FindByName(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("re-read author after conflicting insert: %w", err)
	}
	return a.ID, nil
}
