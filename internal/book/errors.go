package book

import "errors"

var (
	// ErrValidation is returned when a mutator receives an invalid value or
	// the store rejects a value as out of range.
	ErrValidation = errors.New("invalid book data")

	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")

	// ErrDuplicateISBN is returned when a book with the same ISBN already exists.
	ErrDuplicateISBN = errors.New("book with this isbn already exists")

	// ErrConstraintViolation is returned when the store rejects a write
	// because it would break the unique ISBN index.
	ErrConstraintViolation = errors.New("storage constraint violation")

	// ErrStorage wraps any other failure of the underlying store.
	ErrStorage = errors.New("storage failure")
)

// IsConflict reports whether err means the book collides with a stored one.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateISBN) || errors.Is(err, ErrConstraintViolation)
}
