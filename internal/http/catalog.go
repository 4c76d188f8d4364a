package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/validation"
)

type catalogNameRequest struct {
	Name string `json:"name" validate:"required,max=160"`
}

// CatalogController serves one catalog kind; the router mounts one for
// authors and one for genres.
type CatalogController struct {
	kind      entities.CatalogKind
	catalog   CatalogService
	validator *validation.Validator
}

func NewCatalogController(kind entities.CatalogKind, catalog CatalogService, v *validation.Validator) *CatalogController {
	return &CatalogController{kind: kind, catalog: catalog, validator: v}
}

// List returns entries matching the query.
// GET /api/authors, /api/genres
func (cc *CatalogController) List(c *gin.Context) {
	q, ok := parseListQuery(c)
	if !ok {
		return
	}

	entries, err := cc.catalog.List(c.Request.Context(), cc.kind, q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, entries)
}

// Get returns an entry with the active books referencing it.
// GET /api/authors/:id, /api/genres/:id
func (cc *CatalogController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	entry, err := cc.catalog.Get(c.Request.Context(), cc.kind, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, entry)
}

// Create adds an entry.
// POST /api/authors, /api/genres
func (cc *CatalogController) Create(c *gin.Context) {
	var req catalogNameRequest
	if !bindJSON(c, cc.validator, &req) {
		return
	}

	entry, err := cc.catalog.Create(c.Request.Context(), cc.kind, req.Name, caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, entry)
}

// Rename changes an entry's name.
// PATCH /api/authors/:id, /api/genres/:id
func (cc *CatalogController) Rename(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req catalogNameRequest
	if !bindJSON(c, cc.validator, &req) {
		return
	}

	entry, err := cc.catalog.Rename(c.Request.Context(), cc.kind, id, req.Name, caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, entry)
}

// Delete trashes an entry.
// DELETE /api/authors/:id, /api/genres/:id
func (cc *CatalogController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	transition, err := cc.catalog.Delete(c.Request.Context(), cc.kind, id, caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondDeleted(c, transition)
}
