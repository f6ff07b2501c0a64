package book

import (
	"time"

	"github.com/shopspring/decimal"
)

// DTO is the representation of a book returned to API clients.
type DTO struct {
	ID            int             `json:"id"`
	Title         string          `json:"title"`
	Author        string          `json:"author"`
	ISBN          string          `json:"isbn"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	PublishedDate time.Time       `json:"publishedDate"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     *time.Time      `json:"updatedAt"`
}

func ToDTO(b *Book) DTO {
	return DTO{
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

func toDTOs(books []*Book) []DTO {
	out := make([]DTO, 0, len(books))
	for _, b := range books {
		out = append(out, ToDTO(b))
	}
	return out
}
