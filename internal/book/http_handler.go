package book

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"bookstore/internal/httpx"

	"github.com/shopspring/decimal"
)

type HTTPHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewHTTPHandler(service *Service, logger *slog.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger}
}

// Routes registers the book endpoints on mux.
func (h *HTTPHandler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/books", h.List)
	mux.HandleFunc("GET /api/books/{id}", h.GetByID)
	mux.HandleFunc("GET /api/books/isbn/{isbn}", h.GetByISBN)
	mux.HandleFunc("GET /api/books/search/title", h.SearchByTitle)
	mux.HandleFunc("GET /api/books/search/author", h.SearchByAuthor)
	mux.HandleFunc("POST /api/books", h.Create)
	mux.HandleFunc("PUT /api/books/{id}", h.Update)
	mux.HandleFunc("DELETE /api/books/{id}", h.Delete)
}

type createBookRequest struct {
	Title         string          `json:"title" validate:"required,max=255"`
	Author        string          `json:"author" validate:"required,max=255"`
	ISBN          string          `json:"isbn" validate:"required,max=20,isbn"`
	Price         decimal.Decimal `json:"price" validate:"price"`
	StockQuantity int             `json:"stockQuantity" validate:"gte=0,lte=2147483647"`
	PublishedDate string          `json:"publishedDate" validate:"required"`
}

type updateBookRequest struct {
	Title         string          `json:"title" validate:"max=255"`
	Author        string          `json:"author" validate:"max=255"`
	Price         decimal.Decimal `json:"price" validate:"price"`
	StockQuantity int             `json:"stockQuantity" validate:"gte=0,lte=2147483647"`
}

// List handles GET /api/books
// @Summary List books
// @Description List every book in the inventory ordered by id
// @Tags books
// @Produce json
// @Success 200 {array} DTO
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, books)
}

// GetByID handles GET /api/books/{id}
// @Summary Get book by id
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} DTO
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/books/{id} [get]
func (h *HTTPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	book, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if book == nil {
		httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "Book not found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, book)
}

// GetByISBN handles GET /api/books/isbn/{isbn}
// @Summary Get book by ISBN
// @Tags books
// @Produce json
// @Param isbn path string true "Book ISBN"
// @Success 200 {object} DTO
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/books/isbn/{isbn} [get]
func (h *HTTPHandler) GetByISBN(w http.ResponseWriter, r *http.Request) {
	book, err := h.service.GetByISBN(r.Context(), r.PathValue("isbn"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if book == nil {
		httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "ISBN not found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, book)
}

// SearchByTitle handles GET /api/books/search/title?title=
// @Summary Search books by title
// @Description Case-insensitive substring match on the title
// @Tags books
// @Produce json
// @Param title query string false "Title fragment"
// @Success 200 {array} DTO
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/books/search/title [get]
func (h *HTTPHandler) SearchByTitle(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.SearchByTitle(r.Context(), r.URL.Query().Get("title"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, books)
}

// SearchByAuthor handles GET /api/books/search/author?author=
// @Summary Search books by author
// @Description Case-insensitive substring match on the author
// @Tags books
// @Produce json
// @Param author query string false "Author fragment"
// @Success 200 {array} DTO
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/books/search/author [get]
func (h *HTTPHandler) SearchByAuthor(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.SearchByAuthor(r.Context(), r.URL.Query().Get("author"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, books)
}

// Create handles POST /api/books
// @Summary Create book
// @Tags books
// @Accept json
// @Produce json
// @Param request body createBookRequest true "Book to create"
// @Success 201 {object} DTO
// @Header 201 {string} Location "URL of the new book"
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, err.Error(), nil)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Invalid input", details)
		return
	}

	published, err := parsePublishedDate(req.PublishedDate)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Invalid input", []httpx.ErrorDetail{
			{Field: "publishedDate", Message: err.Error()},
		})
		return
	}

	book, err := h.service.Create(r.Context(), CreateBookCommand{
		Title:         req.Title,
		Author:        req.Author,
		ISBN:          req.ISBN,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		PublishedDate: published,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/books/%d", book.ID))
	httpx.JSON(w, http.StatusCreated, book)
}

// Update handles PUT /api/books/{id}
// @Summary Update book price and stock
// @Description Title and author are accepted but not applied
// @Tags books
// @Accept json
// @Produce json
// @Param id path int true "Book ID"
// @Param request body updateBookRequest true "New values"
// @Success 200 {object} DTO
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/books/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updateBookRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, err.Error(), nil)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Invalid input", details)
		return
	}

	book, err := h.service.Update(r.Context(), UpdateBookCommand{
		ID:            id,
		Title:         req.Title,
		Author:        req.Author,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, book)
}

// Delete handles DELETE /api/books/{id}
// @Summary Delete book
// @Description Deleting a missing id is not an error
// @Tags books
// @Param id path int true "Book ID"
// @Success 204 "No Content"
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/books/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, err.Error(), nil)
	case IsConflict(err):
		httpx.JSONError(w, r, http.StatusConflict, httpx.CodeConflict, "A book with this ISBN already exists", nil)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "Book not found", nil)
	default:
		h.logger.ErrorContext(r.Context(), "book request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", httpx.RequestIDFrom(r),
			"error", err,
		)
		httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternal, "Internal server error", nil)
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, "Book id must be an integer", nil)
		return 0, false
	}
	return id, true
}

// parsePublishedDate accepts a calendar date or a full RFC 3339 timestamp.
func parsePublishedDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, errors.New("publishedDate must be YYYY-MM-DD or RFC 3339")
	}
	// Stored timestamps keep microseconds.
	return t.UTC().Truncate(time.Microsecond), nil
}
