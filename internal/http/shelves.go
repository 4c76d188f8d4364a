package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/validation"
)

type shelfNameRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type shelfBooksRequest struct {
	Books []uint `json:"books" validate:"required,min=1,max=500,dive,gt=0"`
}

type ShelvesController struct {
	shelves   ShelfService
	validator *validation.Validator
}

func NewShelvesController(shelves ShelfService, v *validation.Validator) *ShelvesController {
	return &ShelvesController{shelves: shelves, validator: v}
}

// ListShelves returns the caller's shelves.
// GET /api/shelves
func (sc *ShelvesController) ListShelves(c *gin.Context) {
	q, ok := parseListQuery(c)
	if !ok {
		return
	}

	shelves, err := sc.shelves.ListShelves(c.Request.Context(), q, caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, shelves)
}

// GetShelf returns one of the caller's shelves.
// GET /api/shelves/:id
func (sc *ShelvesController) GetShelf(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	shelf, err := sc.shelves.GetShelf(c.Request.Context(), id, caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, shelf)
}

// CreateShelf adds a shelf for the caller.
// POST /api/shelves
func (sc *ShelvesController) CreateShelf(c *gin.Context) {
	var req shelfNameRequest
	if !bindJSON(c, sc.validator, &req) {
		return
	}

	shelf, err := sc.shelves.CreateShelf(c.Request.Context(), req.Name, caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, shelf)
}

// RenameShelf renames an unprotected shelf.
// PATCH /api/shelves/:id
func (sc *ShelvesController) RenameShelf(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req shelfNameRequest
	if !bindJSON(c, sc.validator, &req) {
		return
	}

	shelf, err := sc.shelves.RenameShelf(c.Request.Context(), id, req.Name, caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, shelf)
}

// DeleteShelf removes an unprotected shelf.
// DELETE /api/shelves/:id
func (sc *ShelvesController) DeleteShelf(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := sc.shelves.DeleteShelf(c.Request.Context(), id, caller(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddBooks merges books into a shelf.
// POST /api/shelves/:id/books
func (sc *ShelvesController) AddBooks(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req shelfBooksRequest
	if !bindJSON(c, sc.validator, &req) {
		return
	}

	shelf, err := sc.shelves.AddBooks(c.Request.Context(), id, req.Books, caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, shelf)
}

// RemoveBooks takes books off an unprotected shelf.
// DELETE /api/shelves/:id/books
func (sc *ShelvesController) RemoveBooks(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req shelfBooksRequest
	if !bindJSON(c, sc.validator, &req) {
		return
	}

	shelf, err := sc.shelves.RemoveBooks(c.Request.Context(), id, req.Books, caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, shelf)
}
