// Package books provides database operations for books.
//
// Author and genre references live in JSON id lists on the book row; filters
// on them go through SQLite json_each.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.GetByID(ctx, 123)
package books

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/policy"
)

const (
	authorRefClause = "EXISTS (SELECT 1 FROM json_each(books.author_ids) WHERE json_each.value = ?)"
	genreRefClause  = "EXISTS (SELECT 1 FROM json_each(books.genre_ids) WHERE json_each.value IN ?)"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, book *entities.Book) error {
	return database.TranslateError(r.db.WithContext(ctx).Create(book).Error, "book")
}

// Save writes every column of an existing book.
func (r *Repository) Save(ctx context.Context, book *entities.Book) error {
	return database.TranslateError(r.db.WithContext(ctx).Save(book).Error, "book")
}

// GetByID retrieves a book of any status.
func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.WithContext(ctx).First(&book, id).Error; err != nil {
		return nil, database.TranslateError(err, "book")
	}
	return &book, nil
}

// FindActiveByTitleKey returns an active book whose title key matches,
// ignoring the book with id excludeID.
func (r *Repository) FindActiveByTitleKey(ctx context.Context, key string, excludeID uint) (*entities.Book, error) {
	var book entities.Book
	tx := r.db.WithContext(ctx).Where("title_key = ? AND status > 0", key)
	if excludeID != 0 {
		tx = tx.Where("id <> ?", excludeID)
	}
	if err := tx.First(&book).Error; err != nil {
		return nil, database.TranslateError(err, "book")
	}
	return &book, nil
}

// List returns books matching a shaped filter. Search matches the title.
func (r *Repository) List(ctx context.Context, filter policy.BookFilter) ([]entities.Book, error) {
	tx := r.db.WithContext(ctx).Model(&entities.Book{})
	if filter.AuthorID != 0 {
		tx = tx.Where(authorRefClause, filter.AuthorID)
	}
	if len(filter.GenreIDs) > 0 {
		tx = tx.Where(genreRefClause, filter.GenreIDs)
	}

	books := []entities.Book{}
	cols := database.ListColumns{Search: "title_key", SearchIsKey: true, Name: "title"}
	if err := tx.Scopes(database.ListScope(filter.ListQuery, cols)).Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return books, nil
}

// ListReferencing returns the active books that reference a catalog entry,
// oldest first.
func (r *Repository) ListReferencing(ctx context.Context, kind entities.CatalogKind, id uint) ([]entities.Book, error) {
	tx := r.db.WithContext(ctx).Where("status > 0")
	switch kind {
	case entities.KindAuthor:
		tx = tx.Where(authorRefClause, id)
	case entities.KindGenre:
		tx = tx.Where(genreRefClause, []uint{id})
	default:
		return nil, fmt.Errorf("unknown catalog kind %q", kind)
	}

	books := []entities.Book{}
	if err := tx.Order("created_at ASC, id ASC").Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to list books for %s %d: %w", kind, id, err)
	}
	return books, nil
}

// ActiveIDs returns the subset of ids that belong to active books.
func (r *Repository) ActiveIDs(ctx context.Context, ids []uint) ([]uint, error) {
	found := []uint{}
	if len(ids) == 0 {
		return found, nil
	}
	err := r.db.WithContext(ctx).Model(&entities.Book{}).
		Where("id IN ? AND status > 0", ids).
		Pluck("id", &found).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check books: %w", err)
	}
	return found, nil
}

// SetStatus moves a book to status.
func (r *Repository) SetStatus(ctx context.Context, id uint, status entities.Status) error {
	result := r.db.WithContext(ctx).Model(&entities.Book{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return database.TranslateError(gorm.ErrRecordNotFound, "book")
	}
	return nil
}

// Purge permanently removes a book together with its shelf memberships,
// its notes and their comments.
func (r *Repository) Purge(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		noteIDs := tx.Model(&entities.Note{}).Select("id").Where("book_id = ?", id)
		if err := tx.Where("note_id IN (?)", noteIDs).Delete(&entities.NoteComment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}
		if err := tx.Where("book_id = ?", id).Delete(&entities.Note{}).Error; err != nil {
			return fmt.Errorf("failed to delete notes: %w", err)
		}
		if err := tx.Where("book_id = ?", id).Delete(&entities.ShelfBook{}).Error; err != nil {
			return fmt.Errorf("failed to delete shelf memberships: %w", err)
		}
		result := tx.Delete(&entities.Book{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete book: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return database.TranslateError(gorm.ErrRecordNotFound, "book")
		}
		return nil
	})
}
