package book

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createCommand(isbn string) CreateBookCommand {
	return CreateBookCommand{
		Title:         "Dune",
		Author:        "Frank Herbert",
		ISBN:          isbn,
		Price:         decimal.RequireFromString("9.99"),
		StockQuantity: 5,
		PublishedDate: time.Date(1965, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func storedBook(id int, isbn string) *Book {
	b := newTestBook(isbn)
	b.id = id
	return b
}

func TestCommandHandler_CreateBook(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockRepo := NewMockRepository(ctrl)
		handler := NewCommandHandler(mockRepo)

		mockRepo.EXPECT().GetByISBN(gomock.Any(), "123").Return(nil, nil)
		mockRepo.EXPECT().Add(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b *Book) (*Book, error) {
			assert.Equal(t, "Dune", b.Title())
			assert.Equal(t, 0, b.ID())
			stored := b.clone()
			stored.id = 7
			return stored, nil
		})

		dto, err := handler.CreateBook(ctx, createCommand("123"))

		require.NoError(t, err)
		assert.Equal(t, 7, dto.ID)
		assert.Equal(t, "123", dto.ISBN)
		assert.Nil(t, dto.UpdatedAt)
	})

	t.Run("duplicate isbn does not write", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockRepo := NewMockRepository(ctrl)
		handler := NewCommandHandler(mockRepo)

		mockRepo.EXPECT().GetByISBN(gomock.Any(), "123").Return(storedBook(1, "123"), nil)
		mockRepo.EXPECT().Add(gomock.Any(), gomock.Any()).Times(0)

		_, err := handler.CreateBook(ctx, createCommand("123"))

		assert.ErrorIs(t, err, ErrDuplicateISBN)
	})

	t.Run("storage conflict is reported as duplicate", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockRepo := NewMockRepository(ctrl)
		handler := NewCommandHandler(mockRepo)

		mockRepo.EXPECT().GetByISBN(gomock.Any(), "123").Return(nil, nil)
		mockRepo.EXPECT().Add(gomock.Any(), gomock.Any()).Return(nil, ErrConstraintViolation)

		_, err := handler.CreateBook(ctx, createCommand("123"))

		assert.ErrorIs(t, err, ErrDuplicateISBN)
		assert.ErrorIs(t, err, ErrConstraintViolation)
	})

	t.Run("rejected value is not a duplicate", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockRepo := NewMockRepository(ctrl)
		handler := NewCommandHandler(mockRepo)

		mockRepo.EXPECT().GetByISBN(gomock.Any(), "123").Return(nil, nil)
		mockRepo.EXPECT().Add(gomock.Any(), gomock.Any()).
			Return(nil, fmt.Errorf("add: %w: integer out of range", ErrValidation))

		_, err := handler.CreateBook(ctx, createCommand("123"))

		assert.ErrorIs(t, err, ErrValidation)
		assert.NotErrorIs(t, err, ErrDuplicateISBN)
		assert.False(t, IsConflict(err))
	})

	t.Run("storage failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockRepo := NewMockRepository(ctrl)
		handler := NewCommandHandler(mockRepo)

		mockRepo.EXPECT().GetByISBN(gomock.Any(), "123").Return(nil, ErrStorage)

		_, err := handler.CreateBook(ctx, createCommand("123"))

		assert.ErrorIs(t, err, ErrStorage)
		assert.False(t, IsConflict(err))
	})
}

func TestCommandHandler_UpdateBook(t *testing.T) {
	ctx := context.Background()

	t.Run("applies price and stock", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockRepo := NewMockRepository(ctrl)
		handler := NewCommandHandler(mockRepo)

		mockRepo.EXPECT().GetByID(gomock.Any(), 1).Return(storedBook(1, "123"), nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b *Book) error {
			assert.True(t, b.Price().Equal(decimal.RequireFromString("12.00")))
			assert.Equal(t, 0, b.StockQuantity())
			return nil
		})

		dto, err := handler.UpdateBook(ctx, UpdateBookCommand{
			ID:            1,
			Title:         "ignored",
			Price:         decimal.RequireFromString("12.00"),
			StockQuantity: 0,
		})

		require.NoError(t, err)
		assert.Equal(t, "Dune", dto.Title)
		assert.NotNil(t, dto.UpdatedAt)
	})

	t.Run("unchanged values keep updatedAt empty", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockRepo := NewMockRepository(ctrl)
		handler := NewCommandHandler(mockRepo)

		mockRepo.EXPECT().GetByID(gomock.Any(), 1).Return(storedBook(1, "123"), nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		dto, err := handler.UpdateBook(ctx, UpdateBookCommand{
			ID:            1,
			Price:         decimal.RequireFromString("9.990"),
			StockQuantity: 5,
		})

		require.NoError(t, err)
		assert.Nil(t, dto.UpdatedAt)
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockRepo := NewMockRepository(ctrl)
		handler := NewCommandHandler(mockRepo)

		mockRepo.EXPECT().GetByID(gomock.Any(), 9).Return(nil, nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Times(0)

		_, err := handler.UpdateBook(ctx, UpdateBookCommand{ID: 9, Price: decimal.NewFromInt(1)})

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("invalid value does not write", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockRepo := NewMockRepository(ctrl)
		handler := NewCommandHandler(mockRepo)

		mockRepo.EXPECT().GetByID(gomock.Any(), 1).Return(storedBook(1, "123"), nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Times(0)

		_, err := handler.UpdateBook(ctx, UpdateBookCommand{
			ID:            1,
			Price:         decimal.RequireFromString("9.99"),
			StockQuantity: -4,
		})

		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestCommandHandler_DeleteBook(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewCommandHandler(mockRepo)

	boom := errors.New("boom")
	mockRepo.EXPECT().Delete(gomock.Any(), 3).Return(nil)
	mockRepo.EXPECT().Delete(gomock.Any(), 4).Return(boom)

	assert.NoError(t, handler.DeleteBook(context.Background(), DeleteBookCommand{ID: 3}))
	assert.ErrorIs(t, handler.DeleteBook(context.Background(), DeleteBookCommand{ID: 4}), boom)
}

func TestQueryHandler(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewQueryHandler(mockRepo)

	mockRepo.EXPECT().GetByID(gomock.Any(), 1).Return(storedBook(1, "123"), nil)
	mockRepo.EXPECT().GetByID(gomock.Any(), 2).Return(nil, nil)
	mockRepo.EXPECT().SearchByTitle(gomock.Any(), "dune").Return([]*Book{storedBook(1, "123")}, nil)
	mockRepo.EXPECT().SearchByAuthor(gomock.Any(), "nobody").Return([]*Book{}, nil)
	mockRepo.EXPECT().GetAll(gomock.Any()).Return(nil, ErrStorage)

	dto, err := handler.GetByID(ctx, GetBookByIDQuery{ID: 1})
	require.NoError(t, err)
	require.NotNil(t, dto)
	assert.Equal(t, "123", dto.ISBN)

	dto, err = handler.GetByID(ctx, GetBookByIDQuery{ID: 2})
	assert.NoError(t, err)
	assert.Nil(t, dto)

	found, err := handler.SearchByTitle(ctx, SearchBooksByTitleQuery{Title: "dune"})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = handler.SearchByAuthor(ctx, SearchBooksByAuthorQuery{Author: "nobody"})
	require.NoError(t, err)
	assert.NotNil(t, found)
	assert.Empty(t, found)

	_, err = handler.GetAll(ctx, GetAllBooksQuery{})
	assert.ErrorIs(t, err, ErrStorage)
}
