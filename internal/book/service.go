package book

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrArchiveDisabled is returned by Archive when no object store is wired.
var ErrArchiveDisabled = errors.New("export archive is not configured")

// Service provides book-related business logic.
type Service struct {
	repo      Repository
	authors   AuthorResolver
	validator *Validator
	archiver  Archiver
}

type Option func(*Service)

// WithArchiver enables Archive backed by a.
func WithArchiver(a Archiver) Option {
	return func(s *Service) { s.archiver = a }
}

// NewService creates a new book service.
func NewService(repo Repository, authors AuthorResolver, validator *Validator, opts ...Option) *Service {
	s := &Service{repo: repo, authors: authors, validator: validator}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validator exposes the record validator shared with the import pipeline.
func (s *Service) Validator() *Validator {
	return s.validator
}

// List returns one page of books matching q.
func (s *Service) List(ctx context.Context, q Query) ([]Book, error) {
	plan, err := q.Plan()
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, plan)
}

// ListOwned returns every book owned by ownerID, sorted by title.
func (s *Service) ListOwned(ctx context.Context, ownerID int64) ([]Book, error) {
	return s.repo.List(ctx, OwnedPlan(ownerID))
}

// Get returns a book by id.
func (s *Service) Get(ctx context.Context, id int64) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates raw, resolves its author and stores it owned by ownerID.
func (s *Service) Create(ctx context.Context, raw RawRecord, ownerID int64) (Book, error) {
	rec, err := s.validator.Validate(raw)
	if err != nil {
		return Book{}, err
	}
	authorID, err := s.authors.Resolve(ctx, rec.Author)
	if err != nil {
		return Book{}, fmt.Errorf("resolve author: %w", err)
	}
	id, err := s.repo.Insert(ctx, rec, authorID, ownerID)
	if err != nil {
		return Book{}, err
	}
	return Book{
		ID:            id,
		Title:         rec.Title,
		Author:        rec.Author,
		Genre:         rec.Genre,
		PublishedYear: rec.PublishedYear,
		OwnerID:       ownerID,
	}, nil
}

// Update replaces every field of an owned book. Invalid input is rejected
// before ownership is checked.
func (s *Service) Update(ctx context.Context, id int64, raw RawRecord, userID int64) (Book, error) {
	rec, err := s.validator.Validate(raw)
	if err != nil {
		return Book{}, err
	}
	if err := s.authorize(ctx, id, userID); err != nil {
		return Book{}, err
	}
	authorID, err := s.authors.Resolve(ctx, rec.Author)
	if err != nil {
		return Book{}, fmt.Errorf("resolve author: %w", err)
	}
	if err := s.repo.Update(ctx, id, rec, authorID); err != nil {
		return Book{}, err
	}
	return s.repo.GetByID(ctx, id)
}

// Delete permanently removes an owned book.
func (s *Service) Delete(ctx context.Context, id int64, userID int64) error {
	if err := s.authorize(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Export returns the books selected by q in title order.
func (s *Service) Export(ctx context.Context, q ExportQuery) ([]Book, error) {
	plan, err := q.Plan()
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, plan)
}

// ArchiveResult locates a stored export.
type ArchiveResult struct {
	Key      string `json:"key"`
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// Archive serializes an export and stores it under exports/<uuid>.<ext>.
func (s *Service) Archive(ctx context.Context, q ExportQuery, format Format) (ArchiveResult, error) {
	if s.archiver == nil {
		return ArchiveResult{}, ErrArchiveDisabled
	}
	books, err := s.Export(ctx, q)
	if err != nil {
		return ArchiveResult{}, err
	}
	body, contentType, err := Encode(format, books)
	if err != nil {
		return ArchiveResult{}, err
	}
	key := fmt.Sprintf("exports/%s.%s", uuid.NewString(), format)
	location, err := s.archiver.Put(ctx, key, body, contentType)
	if err != nil {
		return ArchiveResult{}, fmt.Errorf("archive export: %w", err)
	}
	return ArchiveResult{Key: key, Location: location, Count: len(books)}, nil
}
