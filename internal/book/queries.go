package book

import (
	"context"
)

type GetBookByIDQuery struct{ ID int }

type GetBookByISBNQuery struct{ ISBN string }

type GetAllBooksQuery struct{}

type SearchBooksByTitleQuery struct{ Title string }

type SearchBooksByAuthorQuery struct{ Author string }

// QueryHandler answers read-only requests. Lookups that find nothing
// return a nil DTO and a nil error.
type QueryHandler struct {
	repo Repository
}

func NewQueryHandler(repo Repository) *QueryHandler {
	return &QueryHandler{repo: repo}
}

func (h *QueryHandler) GetByID(ctx context.Context, q GetBookByIDQuery) (*DTO, error) {
	return single(h.repo.GetByID(ctx, q.ID))
}

func (h *QueryHandler) GetByISBN(ctx context.Context, q GetBookByISBNQuery) (*DTO, error) {
	return single(h.repo.GetByISBN(ctx, q.ISBN))
}

func (h *QueryHandler) GetAll(ctx context.Context, _ GetAllBooksQuery) ([]DTO, error) {
	return many(h.repo.GetAll(ctx))
}

func (h *QueryHandler) SearchByTitle(ctx context.Context, q SearchBooksByTitleQuery) ([]DTO, error) {
	return many(h.repo.SearchByTitle(ctx, q.Title))
}

func (h *QueryHandler) SearchByAuthor(ctx context.Context, q SearchBooksByAuthorQuery) ([]DTO, error) {
	return many(h.repo.SearchByAuthor(ctx, q.Author))
}

func single(b *Book, err error) (*DTO, error) {
	if err != nil || b == nil {
		return nil, err
	}
	dto := ToDTO(b)
	return &dto, nil
}

func many(books []*Book, err error) ([]DTO, error) {
	if err != nil {
		return nil, err
	}
	return toDTOs(books), nil
}
