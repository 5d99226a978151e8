package author

import "context"

// Repository defines the contract for author storage.
type Repository interface {
	FindByName(ctx context.Context, name string) (Author, error)
	Create(ctx context.Context, name string) (Author, error)
}
