package book

import (
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/shopspring/decimal"
)

const (
	tableBooks = "books"

	colID            = "id"
	colTitle         = "title"
	colAuthor        = "author"
	colISBN          = "isbn"
	colPrice         = "price"
	colStockQuantity = "stock_quantity"
	colPublishedDate = "published_date"
	colCreatedAt     = "created_at"
	colUpdatedAt     = "updated_at"
)

var bookColumns = []any{
	colID, colTitle, colAuthor, colISBN, colPrice, colStockQuantity,
	colPublishedDate, colCreatedAt, colUpdatedAt,
}

// record is the row layout of the books table.
type record struct {
	ID            int
	Title         string
	Author        string
	ISBN          string
	Price         decimal.Decimal
	StockQuantity int
	PublishedDate time.Time
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

func toRecord(b *Book) record {
	return record{
		ID:            b.id,
		Title:         b.title,
		Author:        b.author,
		ISBN:          b.isbn,
		Price:         b.price,
		StockQuantity: b.stockQuantity,
		PublishedDate: b.publishedDate,
		CreatedAt:     b.createdAt,
		UpdatedAt:     copyTime(b.updatedAt),
	}
}

// toDomain normalizes timestamps to UTC; pgx returns them in time.Local.
func (r record) toDomain() *Book {
	var updatedAt *time.Time
	if r.UpdatedAt != nil {
		t := r.UpdatedAt.UTC()
		updatedAt = &t
	}
	return rehydrate(r.ID, r.Title, r.Author, r.ISBN, r.Price, r.StockQuantity,
		r.PublishedDate.UTC(), r.CreatedAt.UTC(), updatedAt)
}

// scanTargets lists the destinations in bookColumns order.
func (r *record) scanTargets() []any {
	return []any{
		&r.ID, &r.Title, &r.Author, &r.ISBN, &r.Price, &r.StockQuantity,
		&r.PublishedDate, &r.CreatedAt, &r.UpdatedAt,
	}
}

// values holds every column except id, which the database assigns.
func (r record) values() goqu.Record {
	var updatedAt any
	if r.UpdatedAt != nil {
		updatedAt = *r.UpdatedAt
	}
	return goqu.Record{
		colTitle:         r.Title,
		colAuthor:        r.Author,
		colISBN:          r.ISBN,
		colPrice:         r.Price.StringFixed(2),
		colStockQuantity: r.StockQuantity,
		colPublishedDate: r.PublishedDate,
		colCreatedAt:     r.CreatedAt,
		colUpdatedAt:     updatedAt,
	}
}
