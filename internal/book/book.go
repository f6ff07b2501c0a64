package book

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Book represents a book held in the store's inventory.
//
// Fields are unexported so that price and stock can only change through
// UpdatePrice and UpdateStock, and id and createdAt only through storage.
type Book struct {
	id            int
	title         string
	author        string
	isbn          string
	price         decimal.Decimal
	stockQuantity int
	publishedDate time.Time
	createdAt     time.Time
	updatedAt     *time.Time
}

// now is truncated to microseconds, the resolution of a Postgres timestamp,
// so that a stored book reads back equal to the one that was written.
var now = func() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// NewBook creates a book that has not been stored yet. The arguments are
// taken as given; price and stock are validated by the mutators only.
func NewBook(title, author, isbn string, price decimal.Decimal, stockQuantity int, publishedDate time.Time) *Book {
	return &Book{
		title:         title,
		author:        author,
		isbn:          isbn,
		price:         price,
		stockQuantity: stockQuantity,
		publishedDate: publishedDate,
		createdAt:     now(),
	}
}

// rehydrate rebuilds a stored book, including the fields NewBook never sets.
// Only repositories call it.
func rehydrate(id int, title, author, isbn string, price decimal.Decimal, stockQuantity int,
	publishedDate, createdAt time.Time, updatedAt *time.Time) *Book {
	return &Book{
		id:            id,
		title:         title,
		author:        author,
		isbn:          isbn,
		price:         price,
		stockQuantity: stockQuantity,
		publishedDate: publishedDate,
		createdAt:     createdAt,
		updatedAt:     copyTime(updatedAt),
	}
}

func (b *Book) ID() int                  { return b.id }
func (b *Book) Title() string            { return b.title }
func (b *Book) Author() string           { return b.author }
func (b *Book) ISBN() string             { return b.isbn }
func (b *Book) Price() decimal.Decimal   { return b.price }
func (b *Book) StockQuantity() int       { return b.stockQuantity }
func (b *Book) PublishedDate() time.Time { return b.publishedDate }
func (b *Book) CreatedAt() time.Time     { return b.createdAt }

// UpdatedAt returns nil until the book has been changed after creation.
func (b *Book) UpdatedAt() *time.Time { return copyTime(b.updatedAt) }

// UpdatePrice sets a new price. Non-positive prices are rejected and the
// book is left as it was.
func (b *Book) UpdatePrice(newPrice decimal.Decimal) error {
	if !newPrice.IsPositive() {
		return fmt.Errorf("%w: price must be greater than zero", ErrValidation)
	}
	b.price = newPrice
	b.touch()
	return nil
}

// UpdateStock sets a new stock quantity. Negative quantities are rejected
// and the book is left as it was.
func (b *Book) UpdateStock(quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("%w: stock quantity cannot be negative", ErrValidation)
	}
	b.stockQuantity = quantity
	b.touch()
	return nil
}

func (b *Book) touch() {
	t := now()
	b.updatedAt = &t
}

// clone returns a deep copy so callers never share state with a store.
func (b *Book) clone() *Book {
	c := *b
	c.updatedAt = copyTime(b.updatedAt)
	return &c
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
