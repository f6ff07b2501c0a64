package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for book data storage.
//
// Lookups return a nil book and a nil error when nothing matches.
type Repository interface {
	GetByID(ctx context.Context, id int) (*Book, error)
	GetByISBN(ctx context.Context, isbn string) (*Book, error)
	GetAll(ctx context.Context) ([]*Book, error)
	SearchByTitle(ctx context.Context, title string) ([]*Book, error)
	SearchByAuthor(ctx context.Context, author string) ([]*Book, error)
	// Add stores a new book under a freshly assigned id and returns the
	// stored copy. Any id already on b is ignored.
	Add(ctx context.Context, b *Book) (*Book, error)
	// Update replaces the stored book with the same id. Unknown ids are ignored.
	Update(ctx context.Context, b *Book) error
	// Delete removes the book if it exists.
	Delete(ctx context.Context, id int) error
}
