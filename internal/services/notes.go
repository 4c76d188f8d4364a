package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrlokans/bookshelf/internal/entities"
	apperrors "github.com/mrlokans/bookshelf/internal/errors"
	"github.com/mrlokans/bookshelf/internal/identity"
	"github.com/mrlokans/bookshelf/internal/policy"
)

type NoteInput struct {
	Title    string
	Body     string
	IsPublic bool
}

// NotePatch lists the fields an update may change. Nil fields are left untouched.
type NotePatch struct {
	Title    *string
	Body     *string
	IsPublic *bool
}

// NoteService manages notes and their comments. Reads need the note to be
// owned by the caller or public; writes need ownership. Every failed check
// is reported as NotFound so callers cannot probe for private notes.
type NoteService struct {
	notes   NoteStore
	books   BookStore
	listing policy.Listing
	log     zerolog.Logger
}

func NewNoteService(notes NoteStore, books BookStore, listing policy.Listing, log zerolog.Logger) *NoteService {
	return &NoteService{
		notes:   notes,
		books:   books,
		listing: listing,
		log:     log.With().Str("service", "notes").Logger(),
	}
}

// CreateNote attaches a note owned by the caller to an active book.
func (s *NoteService) CreateNote(ctx context.Context, bookID uint, input NoteInput, caller identity.Identity) (*entities.Note, error) {
	if err := caller.RequireUser(); err != nil {
		return nil, err
	}
	title, err := noteTitle(input.Title)
	if err != nil {
		return nil, err
	}

	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !book.Status.IsActive() {
		return nil, apperrors.NotFound("book")
	}

	note := &entities.Note{
		Title:    title,
		Body:     strings.TrimSpace(input.Body),
		UserID:   caller.UserID,
		BookID:   book.ID,
		IsPublic: input.IsPublic,
		Status:   entities.StatusActive,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	s.log.Info().Uint("note_id", note.ID).Uint("book_id", book.ID).Uint("user_id", caller.UserID).Msg("note created")

	return note, nil
}

// ListNotes lists every public note when filter.Public is set, and the
// caller's own notes otherwise.
func (s *NoteService) ListNotes(ctx context.Context, filter policy.NoteFilter, caller identity.Identity) ([]entities.Note, error) {
	if !filter.Public {
		if err := caller.RequireUser(); err != nil {
			return nil, err
		}
	}
	q, err := s.listing.Shape(filter.ListQuery)
	if err != nil {
		return nil, err
	}
	filter.ListQuery = q
	filter.UserID = caller.UserID
	return s.notes.List(ctx, filter)
}

// GetNote returns a visible note with its comments, oldest first.
func (s *NoteService) GetNote(ctx context.Context, id uint, caller identity.Identity) (*entities.NoteDetails, error) {
	note, err := s.visible(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	comments, err := s.notes.ListComments(ctx, note.ID)
	if err != nil {
		return nil, err
	}
	return &entities.NoteDetails{Note: *note, Comments: comments}, nil
}

func (s *NoteService) UpdateNote(ctx context.Context, id uint, patch NotePatch, caller identity.Identity) (*entities.Note, error) {
	note, err := s.owned(ctx, id, caller)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title, err := noteTitle(*patch.Title)
		if err != nil {
			return nil, err
		}
		note.Title = title
	}
	if patch.Body != nil {
		note.Body = strings.TrimSpace(*patch.Body)
	}
	if patch.IsPublic != nil {
		note.IsPublic = *patch.IsPublic
	}

	if err := s.notes.Save(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to update note %d: %w", id, err)
	}
	return note, nil
}

// DeleteNote permanently removes a note and its comments.
func (s *NoteService) DeleteNote(ctx context.Context, id uint, caller identity.Identity) error {
	note, err := s.owned(ctx, id, caller)
	if err != nil {
		return err
	}
	if err := s.notes.Delete(ctx, note.ID); err != nil {
		return err
	}

	s.log.Info().Uint("note_id", note.ID).Uint("user_id", caller.UserID).Msg("note deleted")

	return nil
}

// AddComment comments on a note the caller can see.
func (s *NoteService) AddComment(ctx context.Context, noteID uint, body string, caller identity.Identity) (*entities.NoteComment, error) {
	if err := caller.RequireUser(); err != nil {
		return nil, err
	}
	body, err := commentBody(body)
	if err != nil {
		return nil, err
	}
	note, err := s.visible(ctx, noteID, caller)
	if err != nil {
		return nil, err
	}

	comment := &entities.NoteComment{
		Body:   body,
		UserID: caller.UserID,
		NoteID: note.ID,
		Status: entities.StatusActive,
	}
	if err := s.notes.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

// UpdateComment edits a comment owned by the caller, whoever owns the note.
func (s *NoteService) UpdateComment(ctx context.Context, id uint, body string, caller identity.Identity) (*entities.NoteComment, error) {
	comment, err := s.ownedComment(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	body, err = commentBody(body)
	if err != nil {
		return nil, err
	}

	comment.Body = body
	if err := s.notes.SaveComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to update comment %d: %w", id, err)
	}
	return comment, nil
}

func (s *NoteService) DeleteComment(ctx context.Context, id uint, caller identity.Identity) error {
	comment, err := s.ownedComment(ctx, id, caller)
	if err != nil {
		return err
	}
	return s.notes.DeleteComment(ctx, comment.ID)
}

func (s *NoteService) visible(ctx context.Context, id uint, caller identity.Identity) (*entities.Note, error) {
	note, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !note.IsPublic && !caller.Owns(note.UserID) {
		return nil, apperrors.NotFound("note")
	}
	return note, nil
}

func (s *NoteService) owned(ctx context.Context, id uint, caller identity.Identity) (*entities.Note, error) {
	if err := caller.RequireUser(); err != nil {
		return nil, err
	}
	note, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.Owns(note.UserID) {
		return nil, apperrors.NotFound("note")
	}
	return note, nil
}

func (s *NoteService) ownedComment(ctx context.Context, id uint, caller identity.Identity) (*entities.NoteComment, error) {
	if err := caller.RequireUser(); err != nil {
		return nil, err
	}
	comment, err := s.notes.GetComment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.Owns(comment.UserID) {
		return nil, apperrors.NotFound("comment")
	}
	return comment, nil
}

func noteTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", apperrors.Validation("note title must not be empty")
	}
	return title, nil
}

func commentBody(raw string) (string, error) {
	body := strings.TrimSpace(raw)
	if body == "" {
		return "", apperrors.Validation("comment must not be empty")
	}
	return body, nil
}
