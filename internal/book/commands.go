package book

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type CreateBookCommand struct {
	Title         string
	Author        string
	ISBN          string
	Price         decimal.Decimal
	StockQuantity int
	PublishedDate time.Time
}

// UpdateBookCommand carries the editable fields of a book. Title and author
// are accepted for API compatibility but a stored book keeps its own.
type UpdateBookCommand struct {
	ID            int
	Title         string
	Author        string
	Price         decimal.Decimal
	StockQuantity int
}

type DeleteBookCommand struct {
	ID int
}

// CommandHandler runs the operations that change the book collection.
type CommandHandler struct {
	repo Repository
}

func NewCommandHandler(repo Repository) *CommandHandler {
	return &CommandHandler{repo: repo}
}

// CreateBook stores a new book unless its ISBN is already taken. A
// concurrent create that slips past the lookup is rejected by the store and
// reported as the same ErrDuplicateISBN.
func (h *CommandHandler) CreateBook(ctx context.Context, cmd CreateBookCommand) (DTO, error) {
	existing, err := h.repo.GetByISBN(ctx, cmd.ISBN)
	if err != nil {
		return DTO{}, err
	}
	if existing != nil {
		return DTO{}, fmt.Errorf("%w: %s", ErrDuplicateISBN, cmd.ISBN)
	}

	b := NewBook(cmd.Title, cmd.Author, cmd.ISBN, cmd.Price, cmd.StockQuantity, cmd.PublishedDate)
	created, err := h.repo.Add(ctx, b)
	if err != nil {
		if IsConflict(err) {
			return DTO{}, fmt.Errorf("%w: %s: %w", ErrDuplicateISBN, cmd.ISBN, err)
		}
		return DTO{}, err
	}
	return ToDTO(created), nil
}

// UpdateBook applies the new price and stock through the entity's
// validated mutators. Both values are checked before anything is written.
func (h *CommandHandler) UpdateBook(ctx context.Context, cmd UpdateBookCommand) (DTO, error) {
	b, err := h.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return DTO{}, err
	}
	if b == nil {
		return DTO{}, fmt.Errorf("%w: id %d", ErrNotFound, cmd.ID)
	}

	if !b.Price().Equal(cmd.Price) {
		if err := b.UpdatePrice(cmd.Price); err != nil {
			return DTO{}, err
		}
	}
	if b.StockQuantity() != cmd.StockQuantity {
		if err := b.UpdateStock(cmd.StockQuantity); err != nil {
			return DTO{}, err
		}
	}

	if err := h.repo.Update(ctx, b); err != nil {
		return DTO{}, err
	}
	return ToDTO(b), nil
}

// DeleteBook succeeds whether or not the book exists.
func (h *CommandHandler) DeleteBook(ctx context.Context, cmd DeleteBookCommand) error {
	return h.repo.Delete(ctx, cmd.ID)
}
