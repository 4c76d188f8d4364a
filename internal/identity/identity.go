// Package identity carries the caller resolved by the authentication layer.
// Every service operation that needs ownership or role checks takes an
// Identity argument explicitly.
package identity

import (
	"github.com/mrlokans/bookshelf/internal/entities"
	apperrors "github.com/mrlokans/bookshelf/internal/errors"
)

type Identity struct {
	UserID uint
	Role   entities.Role
}

func New(userID uint, role entities.Role) Identity {
	return Identity{UserID: userID, Role: role}
}

// Authenticated reports whether the identity refers to a real user.
func (i Identity) Authenticated() bool {
	return i.UserID != 0
}

func (i Identity) IsAdmin() bool {
	return i.Authenticated() && i.Role == entities.RoleAdmin
}

// Owns reports whether the identity is the owner of a record owned by userID.
func (i Identity) Owns(userID uint) bool {
	return i.Authenticated() && i.UserID == userID
}

// RequireAdmin returns an Unauthorized error unless the identity is an administrator.
func (i Identity) RequireAdmin() error {
	if !i.IsAdmin() {
		return apperrors.Unauthorized("administrator role required")
	}
	return nil
}

// RequireUser returns an Unauthorized error for anonymous identities.
func (i Identity) RequireUser() error {
	if !i.Authenticated() {
		return apperrors.Unauthorized("authentication required")
	}
	return nil
}
