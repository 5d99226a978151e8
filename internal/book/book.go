package book

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrForbidden is returned when a user mutates a book they do not own.
	ErrForbidden = errors.New("book belongs to another user")
	// ErrDuplicate is returned when (author, title, year) already exists.
	ErrDuplicate = errors.New("book already exists for this author and year")
	// ErrInvalid matches every ValidationErrors value via errors.Is.
	ErrInvalid = errors.New("invalid book")
)

// Genre is one of a fixed set of catalog genres.
type Genre string

const (
	GenreFiction    Genre = "Fiction"
	GenreNonFiction Genre = "Non-Fiction"
	GenreScience    Genre = "Science"
	GenreHistory    Genre = "History"
)

// Genres lists the valid genres in display order.
var Genres = []Genre{GenreFiction, GenreNonFiction, GenreScience, GenreHistory}

// ParseGenre matches s case-sensitively against the canonical spellings.
func ParseGenre(s string) (Genre, bool) {
	for _, g := range Genres {
		if string(g) == s {
			return g, true
		}
	}
	return "", false
}

func genreList() string {
	names := make([]string, len(Genres))
	for i, g := range Genres {
		names[i] = string(g)
	}
	return strings.Join(names, ", ")
}

// Book is a catalog entry as read back from the store.
type Book struct {
	ID            int64  `json:"id" db:"id"`
	Title         string `json:"title" db:"title"`
	Author        string `json:"author" db:"author"`
	Genre         Genre  `json:"genre" db:"genre"`
	PublishedYear int    `json:"published_year" db:"published_year"`
	OwnerID       int64  `json:"-" db:"owner_id"`
}

// RawRecord is an unvalidated candidate book as received from a client or
// an import file.
type RawRecord struct {
	Title         string `json:"title" validate:"required,title_chars"`
	Author        string `json:"author" validate:"required,author_chars"`
	Genre         string `json:"genre" validate:"required,genre"`
	PublishedYear int    `json:"published_year" validate:"published_year"`
}

// Record is a canonical book record: trimmed and validated.
type Record struct {
	Title         string
	Author        string
	Genre         Genre
	PublishedYear int
}

// ValidationError describes one rejected field.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// ValidationErrors collects every rejected field of a record or query.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}

func (v ValidationErrors) Is(target error) bool {
	return target == ErrInvalid
}
