package services

import (
	"context"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/policy"
)

// UserStore persists accounts. CreateWithShelves must be atomic.
type UserStore interface {
	CreateWithShelves(ctx context.Context, user *entities.User, shelves []entities.Shelf) error
	GetByID(ctx context.Context, id uint) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
}

// CatalogStore persists authors and genres. It embeds the narrow store the
// catalog.Resolver works against.
type CatalogStore interface {
	catalog.Store
	GetByID(ctx context.Context, kind entities.CatalogKind, id uint) (*entities.CatalogEntry, error)
	GetByIDs(ctx context.Context, kind entities.CatalogKind, ids []uint) ([]entities.CatalogEntry, error)
	List(ctx context.Context, kind entities.CatalogKind, q policy.ListQuery) ([]entities.CatalogEntry, error)
	Rename(ctx context.Context, kind entities.CatalogKind, id uint, name, key string) error
	SetStatus(ctx context.Context, kind entities.CatalogKind, id uint, status entities.Status) error
}

// BookStore persists books. Purge removes a book with its shelf memberships,
// notes and comments.
type BookStore interface {
	Create(ctx context.Context, book *entities.Book) error
	Save(ctx context.Context, book *entities.Book) error
	GetByID(ctx context.Context, id uint) (*entities.Book, error)
	FindActiveByTitleKey(ctx context.Context, key string, excludeID uint) (*entities.Book, error)
	List(ctx context.Context, filter policy.BookFilter) ([]entities.Book, error)
	ListReferencing(ctx context.Context, kind entities.CatalogKind, id uint) ([]entities.Book, error)
	ActiveIDs(ctx context.Context, ids []uint) ([]uint, error)
	SetStatus(ctx context.Context, id uint, status entities.Status) error
	Purge(ctx context.Context, id uint) error
}

// ShelfStore persists shelves and their book memberships.
type ShelfStore interface {
	Create(ctx context.Context, shelves ...*entities.Shelf) error
	GetByID(ctx context.Context, id uint) (*entities.Shelf, error)
	ListForUser(ctx context.Context, userID uint, q policy.ListQuery) ([]entities.Shelf, error)
	Rename(ctx context.Context, id uint, name string) error
	Delete(ctx context.Context, id uint) error
	AddBooks(ctx context.Context, shelfID uint, bookIDs []uint) error
	RemoveBooks(ctx context.Context, shelfID uint, bookIDs []uint) error
}

// NoteStore persists notes and comments.
type NoteStore interface {
	Create(ctx context.Context, note *entities.Note) error
	GetByID(ctx context.Context, id uint) (*entities.Note, error)
	List(ctx context.Context, filter policy.NoteFilter) ([]entities.Note, error)
	Save(ctx context.Context, note *entities.Note) error
	Delete(ctx context.Context, id uint) error
	CreateComment(ctx context.Context, comment *entities.NoteComment) error
	GetComment(ctx context.Context, id uint) (*entities.NoteComment, error)
	ListComments(ctx context.Context, noteID uint) ([]entities.NoteComment, error)
	SaveComment(ctx context.Context, comment *entities.NoteComment) error
	DeleteComment(ctx context.Context, id uint) error
}
