// Package shelves provides database operations for shelves and their
// book memberships.
//
// Membership rows live in shelf_books, keyed by (shelf_id, book_id), so a
// book appears on a shelf at most once. Position keeps insertion order.
package shelves

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/policy"
)

// Repository handles shelf database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new shelves repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts shelves in one statement.
func (r *Repository) Create(ctx context.Context, shelves ...*entities.Shelf) error {
	if len(shelves) == 0 {
		return nil
	}
	for _, shelf := range shelves {
		shelf.NameKey = catalog.MatchKey(shelf.Name)
	}
	return database.TranslateError(r.db.WithContext(ctx).Create(shelves).Error, "shelf")
}

// GetByID retrieves a shelf with its book ids in shelf order.
func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.Shelf, error) {
	var shelf entities.Shelf
	if err := r.db.WithContext(ctx).First(&shelf, id).Error; err != nil {
		return nil, database.TranslateError(err, "shelf")
	}
	shelves := []entities.Shelf{shelf}
	if err := r.loadBookIDs(ctx, shelves); err != nil {
		return nil, err
	}
	return &shelves[0], nil
}

// ListForUser returns the user's shelves matching a shaped query.
func (r *Repository) ListForUser(ctx context.Context, userID uint, q policy.ListQuery) ([]entities.Shelf, error) {
	shelves := []entities.Shelf{}
	cols := database.ListColumns{Search: "name_key", SearchIsKey: true, Name: "name"}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Scopes(database.ListScope(q, cols)).
		Find(&shelves).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list shelves: %w", err)
	}
	if err := r.loadBookIDs(ctx, shelves); err != nil {
		return nil, err
	}
	return shelves, nil
}

func (r *Repository) loadBookIDs(ctx context.Context, shelves []entities.Shelf) error {
	if len(shelves) == 0 {
		return nil
	}
	index := make(map[uint]int, len(shelves))
	ids := make([]uint, len(shelves))
	for i := range shelves {
		shelves[i].BookIDs = []uint{}
		index[shelves[i].ID] = i
		ids[i] = shelves[i].ID
	}

	var rows []entities.ShelfBook
	err := r.db.WithContext(ctx).
		Where("shelf_id IN ?", ids).
		Order("shelf_id, position, book_id").
		Find(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to load shelf books: %w", err)
	}
	for _, row := range rows {
		i := index[row.ShelfID]
		shelves[i].BookIDs = append(shelves[i].BookIDs, row.BookID)
	}
	return nil
}

// Rename updates the shelf name.
func (r *Repository) Rename(ctx context.Context, id uint, name string) error {
	result := r.db.WithContext(ctx).Model(&entities.Shelf{}).
		Where("id = ?", id).
		Updates(map[string]any{"name": name, "name_key": catalog.MatchKey(name), "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return database.TranslateError(gorm.ErrRecordNotFound, "shelf")
	}
	return nil
}

// Delete permanently removes a shelf and its memberships.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("shelf_id = ?", id).Delete(&entities.ShelfBook{}).Error; err != nil {
			return fmt.Errorf("failed to delete shelf books: %w", err)
		}
		result := tx.Delete(&entities.Shelf{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete shelf: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return database.TranslateError(gorm.ErrRecordNotFound, "shelf")
		}
		return nil
	})
}

// AddBooks appends books after the shelf's current members. Ids already on
// the shelf, or repeated in bookIDs, are skipped.
func (r *Repository) AddBooks(ctx context.Context, shelfID uint, bookIDs []uint) error {
	if len(bookIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last struct{ Max int }
		err := tx.Model(&entities.ShelfBook{}).
			Select("COALESCE(MAX(position), 0) AS max").
			Where("shelf_id = ?", shelfID).
			Scan(&last).Error
		if err != nil {
			return fmt.Errorf("failed to read shelf position: %w", err)
		}

		seen := make(map[uint]bool, len(bookIDs))
		rows := make([]entities.ShelfBook, 0, len(bookIDs))
		for _, id := range bookIDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			rows = append(rows, entities.ShelfBook{ShelfID: shelfID, BookID: id, Position: last.Max + len(rows) + 1})
		}

		err = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
		if err != nil {
			return fmt.Errorf("failed to add books to shelf %d: %w", shelfID, err)
		}
		return tx.Model(&entities.Shelf{}).Where("id = ?", shelfID).Update("updated_at", time.Now()).Error
	})
}

// RemoveBooks drops the given books from the shelf. Absent ids are ignored.
func (r *Repository) RemoveBooks(ctx context.Context, shelfID uint, bookIDs []uint) error {
	if len(bookIDs) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Where("shelf_id = ? AND book_id IN ?", shelfID, bookIDs).
		Delete(&entities.ShelfBook{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove books from shelf %d: %w", shelfID, err)
	}
	return nil
}
