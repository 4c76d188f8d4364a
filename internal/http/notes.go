package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/policy"
	"github.com/mrlokans/bookshelf/internal/services"
	"github.com/mrlokans/bookshelf/internal/validation"
)

type createNoteRequest struct {
	Title    string `json:"title" validate:"required,max=160"`
	Body     string `json:"body" validate:"max=5000"`
	IsPublic bool   `json:"is_public"`
}

type updateNoteRequest struct {
	Title    *string `json:"title" validate:"omitempty,max=160"`
	Body     *string `json:"body" validate:"omitempty,max=5000"`
	IsPublic *bool   `json:"is_public"`
}

type commentRequest struct {
	Body string `json:"body" validate:"required,max=1000"`
}

// NotesController serves notes and their comments. Free text is stripped of
// markup before it reaches the service.
type NotesController struct {
	notes     NoteService
	sanitizer *Sanitizer
	validator *validation.Validator
}

func NewNotesController(notes NoteService, sanitizer *Sanitizer, v *validation.Validator) *NotesController {
	return &NotesController{notes: notes, sanitizer: sanitizer, validator: v}
}

// ListNotes returns the caller's notes, or every public note with ?is_public=true.
// GET /api/notes?is_public=&book=&status=&search=&sort=&limit=&skip=
func (nc *NotesController) ListNotes(c *gin.Context) {
	q, ok := parseListQuery(c)
	if !ok {
		return
	}
	bookID, ok := parseQueryID(c, "book")
	if !ok {
		return
	}

	notes, err := nc.notes.ListNotes(c.Request.Context(), policy.NoteFilter{
		ListQuery: q,
		Public:    c.Query("is_public") == "true",
		BookID:    bookID,
	}, caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, notes)
}

// GetNote returns a visible note with its comments.
// GET /api/notes/:id
func (nc *NotesController) GetNote(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	note, err := nc.notes.GetNote(c.Request.Context(), id, caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, note)
}

// CreateNote attaches a note to a book.
// POST /api/books/:id/notes
func (nc *NotesController) CreateNote(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req createNoteRequest
	if !bindJSON(c, nc.validator, &req) {
		return
	}

	note, err := nc.notes.CreateNote(c.Request.Context(), bookID, services.NoteInput{
		Title:    nc.sanitizer.Text(req.Title),
		Body:     nc.sanitizer.Text(req.Body),
		IsPublic: req.IsPublic,
	}, caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, note)
}

// UpdateNote applies a partial update to an owned note.
// PATCH /api/notes/:id
func (nc *NotesController) UpdateNote(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req updateNoteRequest
	if !bindJSON(c, nc.validator, &req) {
		return
	}

	note, err := nc.notes.UpdateNote(c.Request.Context(), id, services.NotePatch{
		Title:    nc.sanitizer.TextPtr(req.Title),
		Body:     nc.sanitizer.TextPtr(req.Body),
		IsPublic: req.IsPublic,
	}, caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, note)
}

// DeleteNote removes an owned note and its comments.
// DELETE /api/notes/:id
func (nc *NotesController) DeleteNote(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := nc.notes.DeleteNote(c.Request.Context(), id, caller(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddComment comments on a visible note.
// POST /api/notes/:id/comments
func (nc *NotesController) AddComment(c *gin.Context) {
	noteID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req commentRequest
	if !bindJSON(c, nc.validator, &req) {
		return
	}

	comment, err := nc.notes.AddComment(c.Request.Context(), noteID, nc.sanitizer.Text(req.Body), caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, comment)
}

// UpdateComment edits the caller's own comment.
// PATCH /api/comments/:id
func (nc *NotesController) UpdateComment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req commentRequest
	if !bindJSON(c, nc.validator, &req) {
		return
	}

	comment, err := nc.notes.UpdateComment(c.Request.Context(), id, nc.sanitizer.Text(req.Body), caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, comment)
}

// DeleteComment removes the caller's own comment.
// DELETE /api/comments/:id
func (nc *NotesController) DeleteComment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := nc.notes.DeleteComment(c.Request.Context(), id, caller(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
