// Package policy holds the rules shared by every listable entity: the
// soft-delete status lifecycle and the shaping of list queries.
package policy

import (
	"strings"

	"github.com/mrlokans/bookshelf/internal/entities"
	apperrors "github.com/mrlokans/bookshelf/internal/errors"
)

// DefaultMaxLimit is the page size cap used when none is configured.
const DefaultMaxLimit = 500

type SortKey string

const (
	SortRecent   SortKey = "recent"
	SortOldest   SortKey = "oldest"
	SortName     SortKey = "name"
	SortNameDesc SortKey = "name:desc"
)

// ParseSort maps a client sort value to a SortKey. "title" is accepted as an
// alias of "name" so books can be sorted by their natural field.
func ParseSort(raw string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "recent", "created_at:desc", "-created_at":
		return SortRecent, nil
	case "oldest", "created_at", "created_at:asc":
		return SortOldest, nil
	case "name", "title", "name:asc", "title:asc":
		return SortName, nil
	case "name:desc", "title:desc", "-name", "-title":
		return SortNameDesc, nil
	}
	return "", apperrors.Validationf("unsupported sort %q", raw)
}

// ListQuery is the shape every list operation accepts.
// A nil Status means "active only" (status > 0).
type ListQuery struct {
	Status *entities.Status
	Search string
	Sort   SortKey
	Limit  int
	Skip   int
}

// WithStatus returns a copy of q restricted to status s.
func (q ListQuery) WithStatus(s entities.Status) ListQuery {
	q.Status = &s
	return q
}

// Listing validates list queries against a page size cap.
type Listing struct {
	MaxLimit int
}

func NewListing(maxLimit int) Listing {
	if maxLimit <= 0 {
		maxLimit = DefaultMaxLimit
	}
	return Listing{MaxLimit: maxLimit}
}

// Shape validates q and fills defaults. A limit above the cap is rejected,
// never clamped, so the caller learns about it before any query runs.
func (l Listing) Shape(q ListQuery) (ListQuery, error) {
	maxLimit := l.MaxLimit
	if maxLimit <= 0 {
		maxLimit = DefaultMaxLimit
	}

	switch {
	case q.Limit < 0:
		return q, apperrors.Validation("limit must not be negative")
	case q.Limit > maxLimit:
		return q, apperrors.Validationf("limit must not exceed %d", maxLimit)
	case q.Limit == 0:
		q.Limit = maxLimit
	}
	if q.Skip < 0 {
		return q, apperrors.Validation("skip must not be negative")
	}

	if q.Sort == "" {
		q.Sort = SortRecent
	} else {
		sort, err := ParseSort(string(q.Sort))
		if err != nil {
			return q, err
		}
		q.Sort = sort
	}

	if q.Status != nil && *q.Status != entities.StatusActive && *q.Status != entities.StatusTrashed {
		return q, apperrors.Validationf("unsupported status %d", *q.Status)
	}

	q.Search = strings.Join(strings.Fields(q.Search), " ")
	return q, nil
}
