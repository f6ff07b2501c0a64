package book

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestMemoryRepo_AddAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	stored, err := repo.Add(ctx, newTestBook("9780441013593"))
	require.NoError(t, err)
	assert.Equal(t, 1, stored.ID())

	byID, err := repo.GetByID(ctx, stored.ID())
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, stored, byID)

	byISBN, err := repo.GetByISBN(ctx, "9780441013593")
	require.NoError(t, err)
	assert.Equal(t, stored, byISBN)
}

func TestMemoryRepo_Misses(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	b, err := repo.GetByID(ctx, 42)
	assert.NoError(t, err)
	assert.Nil(t, b)

	b, err = repo.GetByISBN(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, b)

	all, err := repo.GetAll(ctx)
	assert.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestMemoryRepo_AddIgnoresCallerID(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	b := newTestBook("9780441013593")
	b.id = 99
	stored, err := repo.Add(ctx, b)
	require.NoError(t, err)

	assert.Equal(t, 1, stored.ID())
	assert.Equal(t, 99, b.ID())
}

func TestMemoryRepo_DuplicateISBN(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	_, err := repo.Add(ctx, newTestBook("9780441013593"))
	require.NoError(t, err)

	_, err = repo.Add(ctx, newTestBook("9780441013593"))
	require.ErrorIs(t, err, ErrConstraintViolation)
	assert.True(t, IsConflict(err))

	all, _ := repo.GetAll(ctx)
	assert.Len(t, all, 1)
}

func TestMemoryRepo_IDsNotReused(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	first, err := repo.Add(ctx, newTestBook("1"))
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, first.ID()))

	second, err := repo.Add(ctx, newTestBook("2"))
	require.NoError(t, err)
	assert.Equal(t, 2, second.ID())
}

func TestMemoryRepo_InsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	for _, isbn := range []string{"c", "a", "b"} {
		_, err := repo.Add(ctx, newTestBook(isbn))
		require.NoError(t, err)
	}

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{all[0].ISBN(), all[1].ISBN(), all[2].ISBN()})
}

func TestMemoryRepo_Search(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	books := []*Book{
		NewBook("The Hobbit", "J.R.R. Tolkien", "1", decimal.NewFromInt(10), 1, now()),
		NewBook("The Silmarillion", "J.R.R. Tolkien", "2", decimal.NewFromInt(12), 1, now()),
		NewBook("Dune", "Frank Herbert", "3", decimal.NewFromInt(9), 1, now()),
	}
	for _, b := range books {
		_, err := repo.Add(ctx, b)
		require.NoError(t, err)
	}

	tests := []struct {
		name   string
		search func(context.Context, string) ([]*Book, error)
		term   string
		want   []string
	}{
		{name: "title case-insensitive", search: repo.SearchByTitle, term: "THE", want: []string{"1", "2"}},
		{name: "title substring", search: repo.SearchByTitle, term: "une", want: []string{"3"}},
		{name: "title empty term", search: repo.SearchByTitle, term: "", want: []string{"1", "2", "3"}},
		{name: "title no match", search: repo.SearchByTitle, term: "Go", want: []string{}},
		{name: "author", search: repo.SearchByAuthor, term: "tolkien", want: []string{"1", "2"}},
		{name: "author no match", search: repo.SearchByAuthor, term: "Asimov", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.search(ctx, tt.term)
			require.NoError(t, err)
			isbns := make([]string, 0, len(got))
			for _, b := range got {
				isbns = append(isbns, b.ISBN())
			}
			assert.Equal(t, tt.want, isbns)
		})
	}
}

func TestMemoryRepo_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	stored, err := repo.Add(ctx, newTestBook("9780441013593"))
	require.NoError(t, err)

	require.NoError(t, stored.UpdateStock(0))
	require.NoError(t, repo.Update(ctx, stored))

	got, err := repo.GetByID(ctx, stored.ID())
	require.NoError(t, err)
	assert.Equal(t, 0, got.StockQuantity())
	assert.NotNil(t, got.UpdatedAt())

	missing := newTestBook("other")
	missing.id = 404
	assert.NoError(t, repo.Update(ctx, missing))
	all, _ := repo.GetAll(ctx)
	assert.Len(t, all, 1)
}

func TestMemoryRepo_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	stored, err := repo.Add(ctx, newTestBook("9780441013593"))
	require.NoError(t, err)
	require.NoError(t, stored.UpdateStock(100))

	got, err := repo.GetByID(ctx, stored.ID())
	require.NoError(t, err)
	assert.Equal(t, 5, got.StockQuantity())
}

func TestMemoryRepo_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	stored, err := repo.Add(ctx, newTestBook("9780441013593"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, stored.ID()))
	require.NoError(t, repo.Delete(ctx, stored.ID()))
	require.NoError(t, repo.Delete(ctx, 12345))

	got, err := repo.GetByID(ctx, stored.ID())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryRepo_Reset(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	_, err := repo.Add(ctx, newTestBook("9780441013593"))
	require.NoError(t, err)

	repo.Reset()

	all, _ := repo.GetAll(ctx)
	assert.Empty(t, all)
	stored, err := repo.Add(ctx, newTestBook("9780441013593"))
	require.NoError(t, err)
	assert.Equal(t, 1, stored.ID())
}

func TestMemoryRepo_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		repo := NewMemoryRepo()
		isbns := rapid.SliceOfNDistinct(rapid.StringMatching(`[0-9]{13}`), 1, 20, rapid.ID[string]).Draw(t, "isbns")

		seen := map[int]bool{}
		for _, isbn := range isbns {
			stored, err := repo.Add(ctx, newTestBook(isbn))
			if err != nil {
				t.Fatalf("add %s: %v", isbn, err)
			}
			if seen[stored.ID()] {
				t.Fatalf("id %d assigned twice", stored.ID())
			}
			seen[stored.ID()] = true

			got, _ := repo.GetByISBN(ctx, isbn)
			if got == nil || got.ID() != stored.ID() {
				t.Fatalf("isbn %s did not round-trip", isbn)
			}
		}

		dup := isbns[rapid.IntRange(0, len(isbns)-1).Draw(t, "dup")]
		if _, err := repo.Add(ctx, newTestBook(dup)); !IsConflict(err) {
			t.Fatalf("duplicate isbn %s accepted: %v", dup, err)
		}

		victim := rapid.IntRange(1, len(isbns)).Draw(t, "victim")
		for i := 0; i < 2; i++ {
			if err := repo.Delete(ctx, victim); err != nil {
				t.Fatalf("delete %d: %v", victim, err)
			}
		}
		all, _ := repo.GetAll(ctx)
		if len(all) != len(isbns)-1 {
			t.Fatalf("expected %d books after delete, got %d", len(isbns)-1, len(all))
		}
	})
}
