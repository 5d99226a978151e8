package book

import (
	"context"
)

// Repository defines the contract for book data storage.
type Repository interface {
	List(ctx context.Context, plan Plan) ([]Book, error)
	GetByID(ctx context.Context, id int64) (Book, error)
	GetOwner(ctx context.Context, id int64) (int64, error)
	Insert(ctx context.Context, rec Record, authorID, ownerID int64) (int64, error)
	Update(ctx context.Context, id int64, rec Record, authorID int64) error
	Delete(ctx context.Context, id int64) error
}

// AuthorResolver maps an author name to an existing or newly created
// author id.
type AuthorResolver interface {
	Resolve(ctx context.Context, name string) (int64, error)
}
