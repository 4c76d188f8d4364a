package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/policy"
	"github.com/mrlokans/bookshelf/internal/services"
	"github.com/mrlokans/bookshelf/internal/validation"
)

type createBookRequest struct {
	Title       string     `json:"title" validate:"required,max=160"`
	Authors     []string   `json:"authors" validate:"required,min=1,max=50,dive,notblank,max=160"`
	Genres      []string   `json:"genres" validate:"required,min=1,max=50,dive,notblank,max=50"`
	Description string     `json:"description" validate:"max=500"`
	Cover       string     `json:"cover" validate:"omitempty,url,max=2048"`
	Pages       *int       `json:"pages" validate:"omitempty,gte=1"`
	PublishedOn *time.Time `json:"published_on"`
	ISBN        []string   `json:"isbn" validate:"max=20,dive,max=20"`
}

type updateBookRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=160"`
	Authors     *[]string  `json:"authors" validate:"omitempty,min=1,max=50,dive,notblank,max=160"`
	Genres      *[]string  `json:"genres" validate:"omitempty,min=1,max=50,dive,notblank,max=50"`
	Description *string    `json:"description" validate:"omitempty,max=500"`
	Cover       *string    `json:"cover" validate:"omitempty,max=2048"`
	Pages       *int       `json:"pages" validate:"omitempty,gte=1"`
	PublishedOn *time.Time `json:"published_on"`
	ISBN        *[]string  `json:"isbn" validate:"omitempty,max=20,dive,max=20"`
}

type BooksController struct {
	books     BookService
	validator *validation.Validator
}

func NewBooksController(books BookService, v *validation.Validator) *BooksController {
	return &BooksController{books: books, validator: v}
}

// ListBooks returns books matching the query.
// GET /api/books?status=&author=&genres=&search=&sort=&limit=&skip=
func (bc *BooksController) ListBooks(c *gin.Context) {
	q, ok := parseListQuery(c)
	if !ok {
		return
	}
	authorID, ok := parseQueryID(c, "author")
	if !ok {
		return
	}
	genreIDs, ok := parseIDList(c, "genres")
	if !ok {
		return
	}

	books, err := bc.books.ListBooks(c.Request.Context(), policy.BookFilter{
		ListQuery: q,
		AuthorID:  authorID,
		GenreIDs:  genreIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, books)
}

// GetBook returns a book with its authors and genres.
// GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.books.GetBook(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, book)
}

// CreateBook creates a book, resolving author and genre names.
// POST /api/books
func (bc *BooksController) CreateBook(c *gin.Context) {
	var req createBookRequest
	if !bindJSON(c, bc.validator, &req) {
		return
	}

	book, err := bc.books.CreateBook(c.Request.Context(), services.BookInput{
		Title:       req.Title,
		Authors:     req.Authors,
		Genres:      req.Genres,
		Description: req.Description,
		Cover:       req.Cover,
		Pages:       req.Pages,
		PublishedOn: req.PublishedOn,
		ISBN:        req.ISBN,
	}, caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, book)
}

// UpdateBook applies a partial update.
// PATCH /api/books/:id
func (bc *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req updateBookRequest
	if !bindJSON(c, bc.validator, &req) {
		return
	}

	book, err := bc.books.UpdateBook(c.Request.Context(), id, services.BookPatch{
		Title:       req.Title,
		Authors:     req.Authors,
		Genres:      req.Genres,
		Description: req.Description,
		Cover:       req.Cover,
		Pages:       req.Pages,
		PublishedOn: req.PublishedOn,
		ISBN:        req.ISBN,
	}, caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, book)
}

// DeleteBook trashes an active book or purges a trashed one.
// DELETE /api/books/:id
func (bc *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	transition, err := bc.books.DeleteBook(c.Request.Context(), id, caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondDeleted(c, transition)
}

// RestoreBook moves a trashed book back to active.
// POST /api/books/:id/restore
func (bc *BooksController) RestoreBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.books.RestoreBook(c.Request.Context(), id, caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, book)
}
