// Package users provides database operations for accounts.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetByEmail(ctx, "reader@example.com")
package users

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithShelves inserts the user and its starting shelves in one
// transaction. Shelf UserIDs are set from the new user.
func (r *Repository) CreateWithShelves(ctx context.Context, user *entities.User, shelves []entities.Shelf) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return database.TranslateError(err, "user")
		}
		for i := range shelves {
			shelves[i].UserID = user.ID
			shelves[i].NameKey = catalog.MatchKey(shelves[i].Name)
		}
		if len(shelves) == 0 {
			return nil
		}
		if err := tx.Create(&shelves).Error; err != nil {
			return fmt.Errorf("failed to create shelves for user %d: %w", user.ID, err)
		}
		return nil
	})
}

// GetByID retrieves a user by ID.
func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, database.TranslateError(err, "user")
	}
	return &user, nil
}

// GetByEmail retrieves a user by email, compared lower-cased.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error
	if err != nil {
		return nil, database.TranslateError(err, "user")
	}
	return &user, nil
}

// GetByUsername retrieves a user by username, compared lower-cased.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).Where("username = ?", strings.ToLower(username)).First(&user).Error
	if err != nil {
		return nil, database.TranslateError(err, "user")
	}
	return &user, nil
}
