// Package catalog provides database operations for authors and genres.
//
// Both kinds share the entities.CatalogEntry columns and differ only by table,
// so every method takes the entities.CatalogKind it operates on.
//
//	var _ catalog.Store = (*Repository)(nil)
//
// # Usage
//
//	repo := catalog.NewRepository(db)
//	entry, err := repo.FindByNameKey(ctx, entities.KindAuthor, "jane austen")
package catalog

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/policy"
)

// Repository handles author and genre database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new catalog repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) table(ctx context.Context, kind entities.CatalogKind) (*gorm.DB, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown catalog kind %q", kind)
	}
	return r.db.WithContext(ctx).Table(kind.Table()), nil
}

// FindByNameKey returns the entry of any status whose key matches.
func (r *Repository) FindByNameKey(ctx context.Context, kind entities.CatalogKind, key string) (*entities.CatalogEntry, error) {
	tx, err := r.table(ctx, kind)
	if err != nil {
		return nil, err
	}
	var entry entities.CatalogEntry
	if err := tx.Where("name_key = ?", key).First(&entry).Error; err != nil {
		return nil, database.TranslateError(err, kind.String())
	}
	return &entry, nil
}

// Insert persists a new entry. A duplicate key yields a Conflict error.
func (r *Repository) Insert(ctx context.Context, kind entities.CatalogKind, entry *entities.CatalogEntry) error {
	tx, err := r.table(ctx, kind)
	if err != nil {
		return err
	}
	return database.TranslateError(tx.Create(entry).Error, kind.String())
}

// GetByID returns an entry of any status.
func (r *Repository) GetByID(ctx context.Context, kind entities.CatalogKind, id uint) (*entities.CatalogEntry, error) {
	tx, err := r.table(ctx, kind)
	if err != nil {
		return nil, err
	}
	var entry entities.CatalogEntry
	if err := tx.Where("id = ?", id).First(&entry).Error; err != nil {
		return nil, database.TranslateError(err, kind.String())
	}
	return &entry, nil
}

// GetByIDs returns the entries for ids in the order the ids are given,
// repeating an entry when its id repeats. Unknown ids are skipped.
func (r *Repository) GetByIDs(ctx context.Context, kind entities.CatalogKind, ids []uint) ([]entities.CatalogEntry, error) {
	if len(ids) == 0 {
		return []entities.CatalogEntry{}, nil
	}
	tx, err := r.table(ctx, kind)
	if err != nil {
		return nil, err
	}

	var found []entities.CatalogEntry
	if err := tx.Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("failed to load %s entries: %w", kind, err)
	}

	byID := make(map[uint]entities.CatalogEntry, len(found))
	for _, e := range found {
		byID[e.ID] = e
	}
	entries := make([]entities.CatalogEntry, 0, len(ids))
	for _, id := range ids {
		if e, ok := byID[id]; ok {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// List returns entries matching a shaped query. Search matches the name.
func (r *Repository) List(ctx context.Context, kind entities.CatalogKind, q policy.ListQuery) ([]entities.CatalogEntry, error) {
	tx, err := r.table(ctx, kind)
	if err != nil {
		return nil, err
	}
	entries := []entities.CatalogEntry{}
	cols := database.ListColumns{Search: "name_key", SearchIsKey: true, Name: "name"}
	if err := tx.Scopes(database.ListScope(q, cols)).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s entries: %w", kind, err)
	}
	return entries, nil
}

// Rename replaces the name and key of an entry.
func (r *Repository) Rename(ctx context.Context, kind entities.CatalogKind, id uint, name, key string) error {
	tx, err := r.table(ctx, kind)
	if err != nil {
		return err
	}
	result := tx.Where("id = ?", id).Updates(map[string]any{"name": name, "name_key": key, "updated_at": time.Now()})
	if result.Error != nil {
		return database.TranslateError(result.Error, kind.String())
	}
	if result.RowsAffected == 0 {
		return database.TranslateError(gorm.ErrRecordNotFound, kind.String())
	}
	return nil
}

// SetStatus moves an entry to status.
func (r *Repository) SetStatus(ctx context.Context, kind entities.CatalogKind, id uint, status entities.Status) error {
	tx, err := r.table(ctx, kind)
	if err != nil {
		return err
	}
	result := tx.Where("id = ?", id).Updates(map[string]any{"status": status, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return database.TranslateError(gorm.ErrRecordNotFound, kind.String())
	}
	return nil
}
