package policy

import (
	"github.com/mrlokans/bookshelf/internal/entities"
	apperrors "github.com/mrlokans/bookshelf/internal/errors"
)

// Transition is the store action a delete or restore request resolves to.
type Transition int

const (
	// TransitionNone leaves the record untouched.
	TransitionNone Transition = iota
	TransitionTrash
	TransitionPurge
	TransitionRestore
)

func (t Transition) String() string {
	switch t {
	case TransitionTrash:
		return "trash"
	case TransitionPurge:
		return "purge"
	case TransitionRestore:
		return "restore"
	}
	return "none"
}

// Lifecycle is the status transition table active -> trashed -> removed.
// Entities that must never disappear (authors, genres) stop at trashed.
type Lifecycle struct {
	AllowPurge bool
}

var (
	BookLifecycle    = Lifecycle{AllowPurge: true}
	CatalogLifecycle = Lifecycle{AllowPurge: false}
)

// OnDelete returns what a delete request does to a record in status current.
func (l Lifecycle) OnDelete(current entities.Status) Transition {
	switch {
	case current.IsActive():
		return TransitionTrash
	case current.IsTrashed() && l.AllowPurge:
		return TransitionPurge
	}
	return TransitionNone
}

// OnRestore returns what a restore request does to a record in status current.
func (l Lifecycle) OnRestore(current entities.Status) (Transition, error) {
	if current.IsTrashed() {
		return TransitionRestore, nil
	}
	return TransitionNone, apperrors.Validation("only trashed records can be restored")
}

// StatusAfter returns the status a record has after t. ok is false when the
// record no longer exists.
func StatusAfter(current entities.Status, t Transition) (status entities.Status, ok bool) {
	switch t {
	case TransitionTrash:
		return entities.StatusTrashed, true
	case TransitionRestore:
		return entities.StatusActive, true
	case TransitionPurge:
		return 0, false
	}
	return current, true
}
