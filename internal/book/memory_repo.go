package book

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MemoryRepo keeps books in insertion order in process memory. It is meant
// for development and tests; every lookup is a linear scan.
type MemoryRepo struct {
	mu     sync.RWMutex
	books  []*Book
	nextID int
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{nextID: 1}
}

// Reset drops every book and restarts id assignment at 1.
func (r *MemoryRepo) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books = nil
	r.nextID = 1
}

func (r *MemoryRepo) GetByID(_ context.Context, id int) (*Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		return r.books[i].clone(), nil
	}
	return nil, nil
}

func (r *MemoryRepo) GetByISBN(_ context.Context, isbn string) (*Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.books {
		if b.isbn == isbn {
			return b.clone(), nil
		}
	}
	return nil, nil
}

func (r *MemoryRepo) GetAll(_ context.Context) ([]*Book, error) {
	return r.filter(func(*Book) bool { return true }), nil
}

func (r *MemoryRepo) SearchByTitle(_ context.Context, title string) ([]*Book, error) {
	needle := strings.ToLower(title)
	return r.filter(func(b *Book) bool {
		return strings.Contains(strings.ToLower(b.title), needle)
	}), nil
}

func (r *MemoryRepo) SearchByAuthor(_ context.Context, author string) ([]*Book, error) {
	needle := strings.ToLower(author)
	return r.filter(func(b *Book) bool {
		return strings.Contains(strings.ToLower(b.author), needle)
	}), nil
}

// Add assigns the next id. A second book with an ISBN already stored is
// rejected with ErrConstraintViolation, mirroring the unique index of the
// Postgres schema.
func (r *MemoryRepo) Add(_ context.Context, b *Book) (*Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.books {
		if existing.isbn == b.isbn {
			return nil, fmt.Errorf("%w: isbn %s", ErrConstraintViolation, b.isbn)
		}
	}

	stored := b.clone()
	stored.id = r.nextID
	r.nextID++
	r.books = append(r.books, stored)
	return stored.clone(), nil
}

func (r *MemoryRepo) Update(_ context.Context, b *Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.indexOf(b.id); i >= 0 {
		r.books[i] = b.clone()
	}
	return nil
}

func (r *MemoryRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.indexOf(id); i >= 0 {
		r.books = append(r.books[:i], r.books[i+1:]...)
	}
	return nil
}

// indexOf must be called with mu held.
func (r *MemoryRepo) indexOf(id int) int {
	for i, b := range r.books {
		if b.id == id {
			return i
		}
	}
	return -1
}

func (r *MemoryRepo) filter(keep func(*Book) bool) []*Book {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Book, 0, len(r.books))
	for _, b := range r.books {
		if keep(b) {
			out = append(out, b.clone())
		}
	}
	return out
}
