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

// CatalogService administers authors and genres directly. Implicit creation
// during book writes goes through the same catalog.Resolver.
type CatalogService struct {
	store    CatalogStore
	books    BookStore
	resolver *catalog.Resolver
	listing  policy.Listing
	log      zerolog.Logger
}

func NewCatalogService(store CatalogStore, books BookStore, listing policy.Listing, log zerolog.Logger) *CatalogService {
	log = log.With().Str("service", "catalog").Logger()
	return &CatalogService{
		store:    store,
		books:    books,
		resolver: catalog.NewResolver(store, log),
		listing:  listing,
		log:      log,
	}
}

// Create adds a new entry. Unlike implicit resolution it refuses to return
// an entry that already existed.
func (s *CatalogService) Create(ctx context.Context, kind entities.CatalogKind, name string, caller identity.Identity) (*entities.CatalogEntry, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}

	entry, created, err := s.resolver.Resolve(ctx, kind, name)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, apperrors.Validationf("%s already exists", kind)
	}
	return entry, nil
}

func (s *CatalogService) Rename(ctx context.Context, kind entities.CatalogKind, id uint, name string, caller identity.Identity) (*entities.CatalogEntry, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}

	entry, err := s.store.GetByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	key := catalog.MatchKey(name)
	if key == "" {
		return nil, apperrors.Validationf("%s name must not be empty", kind)
	}
	existing, err := s.store.FindByNameKey(ctx, kind, key)
	switch {
	case err == nil && existing.ID != id:
		return nil, apperrors.Validationf("%s already exists", kind)
	case err != nil && !apperrors.Is(err, apperrors.ErrNotFound):
		return nil, fmt.Errorf("failed to check %s name: %w", kind, err)
	}

	entry.Name, entry.NameKey = catalog.CanonicalCase(name), key
	if err := s.store.Rename(ctx, kind, id, entry.Name, entry.NameKey); err != nil {
		return nil, err
	}

	s.log.Info().Str("kind", kind.String()).Uint("id", id).Str("name", entry.Name).Msg("catalog entry renamed")

	return entry, nil
}

// Get returns an entry of any status with the active books referencing it.
func (s *CatalogService) Get(ctx context.Context, kind entities.CatalogKind, id uint) (*entities.CatalogEntryDetails, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}

	entry, err := s.store.GetByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	books, err := s.books.ListReferencing(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	return &entities.CatalogEntryDetails{CatalogEntry: *entry, Kind: kind, Books: books}, nil
}

func (s *CatalogService) List(ctx context.Context, kind entities.CatalogKind, q policy.ListQuery) ([]entities.CatalogEntry, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	q, err := s.listing.Shape(q)
	if err != nil {
		return nil, err
	}
	return s.store.List(ctx, kind, q)
}

// Delete trashes an active entry. Entries are never purged, so deleting a
// trashed entry changes nothing.
func (s *CatalogService) Delete(ctx context.Context, kind entities.CatalogKind, id uint, caller identity.Identity) (policy.Transition, error) {
	if err := checkKind(kind); err != nil {
		return policy.TransitionNone, err
	}
	if err := caller.RequireAdmin(); err != nil {
		return policy.TransitionNone, err
	}

	entry, err := s.store.GetByID(ctx, kind, id)
	if err != nil {
		return policy.TransitionNone, err
	}

	transition := policy.CatalogLifecycle.OnDelete(entry.Status)
	if transition != policy.TransitionTrash {
		return transition, nil
	}
	status, _ := policy.StatusAfter(entry.Status, transition)
	if err := s.store.SetStatus(ctx, kind, id, status); err != nil {
		return policy.TransitionNone, fmt.Errorf("failed to trash %s %d: %w", kind, id, err)
	}

	s.log.Info().Str("kind", kind.String()).Uint("id", id).Uint("by", caller.UserID).Msg("catalog entry trashed")

	return transition, nil
}

func checkKind(kind entities.CatalogKind) error {
	if !kind.Valid() {
		return apperrors.Validationf("unknown catalog kind %q", kind)
	}
	return nil
}
