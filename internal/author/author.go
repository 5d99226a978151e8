package author

import "errors"

var (
	// ErrNotFound is returned when no author has the requested name.
	ErrNotFound = errors.New("author not found")
	// ErrDuplicate is returned when an insert loses to an existing row.
	ErrDuplicate = errors.New("author already exists")
)

// Author is a display name with a stable identity. Names are matched
// exactly, including case.
type Author struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}
