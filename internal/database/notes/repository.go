// Package notes provides database operations for notes and their comments.
package notes

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/policy"
)

// Repository handles note and comment database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new notes repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, note *entities.Note) error {
	note.TitleKey = catalog.MatchKey(note.Title)
	return database.TranslateError(r.db.WithContext(ctx).Create(note).Error, "note")
}

func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.Note, error) {
	var note entities.Note
	if err := r.db.WithContext(ctx).First(&note, id).Error; err != nil {
		return nil, database.TranslateError(err, "note")
	}
	return &note, nil
}

// List returns notes matching a shaped filter. Public selects every public
// note; otherwise only notes owned by filter.UserID are returned. Search
// matches the folded title.
func (r *Repository) List(ctx context.Context, filter policy.NoteFilter) ([]entities.Note, error) {
	tx := r.db.WithContext(ctx).Model(&entities.Note{})
	if filter.Public {
		tx = tx.Where("is_public = ?", true)
	} else {
		tx = tx.Where("user_id = ?", filter.UserID)
	}
	if filter.BookID != 0 {
		tx = tx.Where("book_id = ?", filter.BookID)
	}

	notes := []entities.Note{}
	cols := database.ListColumns{Search: "title_key", SearchIsKey: true, Name: "title"}
	if err := tx.Scopes(database.ListScope(filter.ListQuery, cols)).Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

// Save writes every column of an existing note.
func (r *Repository) Save(ctx context.Context, note *entities.Note) error {
	note.TitleKey = catalog.MatchKey(note.Title)
	return database.TranslateError(r.db.WithContext(ctx).Save(note).Error, "note")
}

// Delete permanently removes a note and its comments.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("note_id = ?", id).Delete(&entities.NoteComment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}
		result := tx.Delete(&entities.Note{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete note: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return database.TranslateError(gorm.ErrRecordNotFound, "note")
		}
		return nil
	})
}

func (r *Repository) CreateComment(ctx context.Context, comment *entities.NoteComment) error {
	return database.TranslateError(r.db.WithContext(ctx).Create(comment).Error, "comment")
}

func (r *Repository) GetComment(ctx context.Context, id uint) (*entities.NoteComment, error) {
	var comment entities.NoteComment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, database.TranslateError(err, "comment")
	}
	return &comment, nil
}

// ListComments returns the active comments of a note, oldest first.
func (r *Repository) ListComments(ctx context.Context, noteID uint) ([]entities.NoteComment, error) {
	comments := []entities.NoteComment{}
	err := r.db.WithContext(ctx).
		Where("note_id = ? AND status > 0", noteID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

func (r *Repository) SaveComment(ctx context.Context, comment *entities.NoteComment) error {
	return database.TranslateError(r.db.WithContext(ctx).Save(comment).Error, "comment")
}

func (r *Repository) DeleteComment(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entities.NoteComment{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete comment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return database.TranslateError(gorm.ErrRecordNotFound, "comment")
	}
	return nil
}
