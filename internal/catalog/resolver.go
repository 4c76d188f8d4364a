package catalog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mrlokans/bookshelf/internal/entities"
	apperrors "github.com/mrlokans/bookshelf/internal/errors"
)

// Store is the collection abstraction the resolver needs. FindByNameKey looks
// at entries of any status and returns an errors.ErrNotFound error when nothing
// matches. Insert must reject a duplicate NameKey with errors.ErrConflict.
type Store interface {
	FindByNameKey(ctx context.Context, kind entities.CatalogKind, key string) (*entities.CatalogEntry, error)
	Insert(ctx context.Context, kind entities.CatalogKind, entry *entities.CatalogEntry) error
}

// Resolver maps free-text names to persisted author or genre entries,
// creating entries only for names with no existing match.
//
// Resolution is not transactional: when a later name fails, entries created
// for earlier names stay persisted. A concurrent insert of the same name
// surfaces as a conflict and is not retried.
type Resolver struct {
	store Store
	log   zerolog.Logger
}

func NewResolver(store Store, log zerolog.Logger) *Resolver {
	return &Resolver{store: store, log: log}
}

// Resolve returns the entry matching name, creating it when absent.
// created reports whether a new entry was inserted.
func (r *Resolver) Resolve(ctx context.Context, kind entities.CatalogKind, name string) (entry *entities.CatalogEntry, created bool, err error) {
	if !kind.Valid() {
		return nil, false, fmt.Errorf("unknown catalog kind %q", kind)
	}

	key := MatchKey(name)
	if key == "" {
		return nil, false, apperrors.Validationf("%s name must not be empty", kind)
	}

	entry, err = r.store.FindByNameKey(ctx, kind, key)
	if err == nil {
		return entry, false, nil
	}
	if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, false, fmt.Errorf("find %s %q: %w", kind, name, err)
	}

	entry = &entities.CatalogEntry{
		Name:    CanonicalCase(name),
		NameKey: key,
		Status:  entities.StatusActive,
	}
	if err := r.store.Insert(ctx, kind, entry); err != nil {
		return nil, false, fmt.Errorf("create %s %q: %w", kind, name, err)
	}

	r.log.Info().
		Str("kind", kind.String()).
		Uint("id", entry.ID).
		Str("name", entry.Name).
		Msg("catalog entry created")

	return entry, true, nil
}

// ResolveNames resolves every name in order. The result has one entry per
// input element, so names that differ only in case or spacing yield the same
// entry more than once.
func (r *Resolver) ResolveNames(ctx context.Context, kind entities.CatalogKind, names []string) ([]entities.CatalogEntry, error) {
	resolved := make([]entities.CatalogEntry, 0, len(names))
	seen := make(map[string]entities.CatalogEntry, len(names))

	for _, name := range names {
		if entry, ok := seen[MatchKey(name)]; ok {
			resolved = append(resolved, entry)
			continue
		}

		entry, _, err := r.Resolve(ctx, kind, name)
		if err != nil {
			return nil, err
		}
		seen[entry.NameKey] = *entry
		resolved = append(resolved, *entry)
	}

	return resolved, nil
}

// IDs returns the ids of entries, preserving order and repetitions.
func IDs(entries []entities.CatalogEntry) []uint {
	ids := make([]uint, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

// Distinct drops repeated entries, keeping the first occurrence of each id.
func Distinct(entries []entities.CatalogEntry) []entities.CatalogEntry {
	out := make([]entities.CatalogEntry, 0, len(entries))
	seen := make(map[uint]bool, len(entries))
	for _, e := range entries {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		out = append(out, e)
	}
	return out
}
