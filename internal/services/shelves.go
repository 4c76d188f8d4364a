package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/entities"
	apperrors "github.com/mrlokans/bookshelf/internal/errors"
	"github.com/mrlokans/bookshelf/internal/identity"
	"github.com/mrlokans/bookshelf/internal/policy"
)

// ShelfService manages user shelves. A shelf that is missing and a shelf
// owned by someone else are reported the same way, as NotFound.
type ShelfService struct {
	shelves ShelfStore
	books   BookStore
	listing policy.Listing
	log     zerolog.Logger
}

func NewShelfService(shelves ShelfStore, books BookStore, listing policy.Listing, log zerolog.Logger) *ShelfService {
	return &ShelfService{
		shelves: shelves,
		books:   books,
		listing: listing,
		log:     log.With().Str("service", "shelves").Logger(),
	}
}

// DefaultShelves returns the protected shelves every account starts with.
// UserStore.CreateWithShelves stores them together with the account.
func DefaultShelves(userID uint) []entities.Shelf {
	shelves := make([]entities.Shelf, len(entities.DefaultShelfNames))
	for i, name := range entities.DefaultShelfNames {
		shelves[i] = entities.Shelf{
			Name:      name,
			UserID:    userID,
			Protected: true,
			Status:    entities.StatusActive,
		}
	}
	return shelves
}

func (s *ShelfService) CreateShelf(ctx context.Context, name string, caller identity.Identity) (*entities.Shelf, error) {
	if err := caller.RequireUser(); err != nil {
		return nil, err
	}
	name, err := shelfName(name)
	if err != nil {
		return nil, err
	}

	shelf := &entities.Shelf{
		Name:    name,
		UserID:  caller.UserID,
		Status:  entities.StatusActive,
		BookIDs: []uint{},
	}
	if err := s.shelves.Create(ctx, shelf); err != nil {
		return nil, fmt.Errorf("failed to create shelf: %w", err)
	}

	s.log.Info().Uint("shelf_id", shelf.ID).Uint("user_id", caller.UserID).Msg("shelf created")

	return shelf, nil
}

// AddBooks merges bookIDs into the shelf as a set union: existing members
// keep their place and new ones follow in first-occurrence order. Protected
// shelves accept new books. Every id must name an active book.
func (s *ShelfService) AddBooks(ctx context.Context, shelfID uint, bookIDs []uint, caller identity.Identity) (*entities.Shelf, error) {
	shelf, err := s.owned(ctx, shelfID, caller)
	if err != nil {
		return nil, err
	}

	ids := distinctIDs(bookIDs)
	active, err := s.books.ActiveIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(active) != len(ids) {
		return nil, apperrors.NotFound("book")
	}

	if err := s.shelves.AddBooks(ctx, shelf.ID, ids); err != nil {
		return nil, err
	}
	return s.shelves.GetByID(ctx, shelf.ID)
}

// RemoveBooks drops books from a non-protected shelf.
func (s *ShelfService) RemoveBooks(ctx context.Context, shelfID uint, bookIDs []uint, caller identity.Identity) (*entities.Shelf, error) {
	shelf, err := s.owned(ctx, shelfID, caller)
	if err != nil {
		return nil, err
	}
	if shelf.Protected {
		return nil, apperrors.PolicyViolation("books cannot be removed from a protected shelf")
	}

	if err := s.shelves.RemoveBooks(ctx, shelf.ID, distinctIDs(bookIDs)); err != nil {
		return nil, err
	}
	return s.shelves.GetByID(ctx, shelf.ID)
}

func (s *ShelfService) RenameShelf(ctx context.Context, shelfID uint, name string, caller identity.Identity) (*entities.Shelf, error) {
	shelf, err := s.owned(ctx, shelfID, caller)
	if err != nil {
		return nil, err
	}
	if shelf.Protected {
		return nil, apperrors.PolicyViolation("a protected shelf cannot be renamed")
	}
	name, err = shelfName(name)
	if err != nil {
		return nil, err
	}

	if err := s.shelves.Rename(ctx, shelf.ID, name); err != nil {
		return nil, err
	}
	shelf.Name = name
	return shelf, nil
}

// DeleteShelf permanently removes a non-protected shelf.
func (s *ShelfService) DeleteShelf(ctx context.Context, shelfID uint, caller identity.Identity) error {
	shelf, err := s.owned(ctx, shelfID, caller)
	if err != nil {
		return err
	}
	if shelf.Protected {
		return apperrors.PolicyViolation("a protected shelf cannot be deleted")
	}

	if err := s.shelves.Delete(ctx, shelf.ID); err != nil {
		return err
	}

	s.log.Info().Uint("shelf_id", shelf.ID).Uint("user_id", caller.UserID).Msg("shelf deleted")

	return nil
}

// ListShelves returns the caller's own shelves.
func (s *ShelfService) ListShelves(ctx context.Context, q policy.ListQuery, caller identity.Identity) ([]entities.Shelf, error) {
	if err := caller.RequireUser(); err != nil {
		return nil, err
	}
	q, err := s.listing.Shape(q)
	if err != nil {
		return nil, err
	}
	return s.shelves.ListForUser(ctx, caller.UserID, q)
}

// GetShelf returns one of the caller's shelves.
func (s *ShelfService) GetShelf(ctx context.Context, shelfID uint, caller identity.Identity) (*entities.Shelf, error) {
	return s.owned(ctx, shelfID, caller)
}

func (s *ShelfService) owned(ctx context.Context, shelfID uint, caller identity.Identity) (*entities.Shelf, error) {
	if err := caller.RequireUser(); err != nil {
		return nil, err
	}
	shelf, err := s.shelves.GetByID(ctx, shelfID)
	if err != nil {
		return nil, err
	}
	if !caller.Owns(shelf.UserID) {
		return nil, apperrors.NotFound("shelf")
	}
	return shelf, nil
}

func shelfName(raw string) (string, error) {
	name := catalog.Normalize(raw)
	if name == "" {
		return "", apperrors.Validation("shelf name must not be empty")
	}
	return name, nil
}

func distinctIDs(ids []uint) []uint {
	out := make([]uint, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
