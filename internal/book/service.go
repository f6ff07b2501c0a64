package book

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Service is the single entry point the HTTP layer uses for books. It turns
// each call into a command or query and traces it.
type Service struct {
	queries  *QueryHandler
	commands *CommandHandler
	tracer   trace.Tracer
}

// NewService creates a new book service on top of repo.
func NewService(repo Repository) *Service {
	return &Service{
		queries:  NewQueryHandler(repo),
		commands: NewCommandHandler(repo),
		tracer:   otel.Tracer("bookstore/book"),
	}
}

// GetByID returns the book with the given id, or nil if there is none.
func (s *Service) GetByID(ctx context.Context, id int) (dto *DTO, err error) {
	ctx, span := s.tracer.Start(ctx, "book.get_by_id", trace.WithAttributes(attribute.Int("book.id", id)))
	defer func() { endSpan(span, err) }()
	return s.queries.GetByID(ctx, GetBookByIDQuery{ID: id})
}

// GetByISBN returns the book with the given ISBN, or nil if there is none.
func (s *Service) GetByISBN(ctx context.Context, isbn string) (dto *DTO, err error) {
	ctx, span := s.tracer.Start(ctx, "book.get_by_isbn", trace.WithAttributes(attribute.String("book.isbn", isbn)))
	defer func() { endSpan(span, err) }()
	return s.queries.GetByISBN(ctx, GetBookByISBNQuery{ISBN: isbn})
}

// List returns every book.
func (s *Service) List(ctx context.Context) (books []DTO, err error) {
	ctx, span := s.tracer.Start(ctx, "book.list")
	defer func() { endSpan(span, err) }()
	books, err = s.queries.GetAll(ctx, GetAllBooksQuery{})
	span.SetAttributes(attribute.Int("book.count", len(books)))
	return books, err
}

// SearchByTitle returns books whose title contains title, ignoring case.
func (s *Service) SearchByTitle(ctx context.Context, title string) (books []DTO, err error) {
	ctx, span := s.tracer.Start(ctx, "book.search_by_title", trace.WithAttributes(attribute.String("book.title", title)))
	defer func() { endSpan(span, err) }()
	return s.queries.SearchByTitle(ctx, SearchBooksByTitleQuery{Title: title})
}

// SearchByAuthor returns books whose author contains author, ignoring case.
func (s *Service) SearchByAuthor(ctx context.Context, author string) (books []DTO, err error) {
	ctx, span := s.tracer.Start(ctx, "book.search_by_author", trace.WithAttributes(attribute.String("book.author", author)))
	defer func() { endSpan(span, err) }()
	return s.queries.SearchByAuthor(ctx, SearchBooksByAuthorQuery{Author: author})
}

// Create adds a new book. It fails with ErrDuplicateISBN when the ISBN is taken.
func (s *Service) Create(ctx context.Context, cmd CreateBookCommand) (dto DTO, err error) {
	ctx, span := s.tracer.Start(ctx, "book.create", trace.WithAttributes(attribute.String("book.isbn", cmd.ISBN)))
	defer func() { endSpan(span, err) }()
	return s.commands.CreateBook(ctx, cmd)
}

// Update changes price and stock of an existing book.
func (s *Service) Update(ctx context.Context, cmd UpdateBookCommand) (dto DTO, err error) {
	ctx, span := s.tracer.Start(ctx, "book.update", trace.WithAttributes(attribute.Int("book.id", cmd.ID)))
	defer func() { endSpan(span, err) }()
	return s.commands.UpdateBook(ctx, cmd)
}

// Delete removes a book; a missing id is not an error.
func (s *Service) Delete(ctx context.Context, id int) (err error) {
	ctx, span := s.tracer.Start(ctx, "book.delete", trace.WithAttributes(attribute.Int("book.id", id)))
	defer func() { endSpan(span, err) }()
	return s.commands.DeleteBook(ctx, DeleteBookCommand{ID: id})
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
