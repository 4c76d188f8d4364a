package http

import (
	"context"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/identity"
	"github.com/mrlokans/bookshelf/internal/policy"
	"github.com/mrlokans/bookshelf/internal/services"
)

// Each controller depends on the narrow slice of service behaviour it calls,
// so tests can substitute hand-written fakes.

type AccountService interface {
	Register(ctx context.Context, input services.RegisterInput) (*entities.User, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Profile(ctx context.Context, caller identity.Identity) (*entities.User, error)
}

type BookService interface {
	CreateBook(ctx context.Context, input services.BookInput, caller identity.Identity) (*entities.BookDetails, error)
	UpdateBook(ctx context.Context, id uint, patch services.BookPatch, caller identity.Identity) (*entities.BookDetails, error)
	GetBook(ctx context.Context, id uint) (*entities.BookDetails, error)
	ListBooks(ctx context.Context, filter policy.BookFilter) ([]entities.Book, error)
	DeleteBook(ctx context.Context, id uint, caller identity.Identity) (policy.Transition, error)
	RestoreBook(ctx context.Context, id uint, caller identity.Identity) (*entities.BookDetails, error)
}

type CatalogService interface {
	Create(ctx context.Context, kind entities.CatalogKind, name string, caller identity.Identity) (*entities.CatalogEntry, error)
	Rename(ctx context.Context, kind entities.CatalogKind, id uint, name string, caller identity.Identity) (*entities.CatalogEntry, error)
	Get(ctx context.Context, kind entities.CatalogKind, id uint) (*entities.CatalogEntryDetails, error)
	List(ctx context.Context, kind entities.CatalogKind, q policy.ListQuery) ([]entities.CatalogEntry, error)
	Delete(ctx context.Context, kind entities.CatalogKind, id uint, caller identity.Identity) (policy.Transition, error)
}

type ShelfService interface {
	CreateShelf(ctx context.Context, name string, caller identity.Identity) (*entities.Shelf, error)
	AddBooks(ctx context.Context, shelfID uint, bookIDs []uint, caller identity.Identity) (*entities.Shelf, error)
	RemoveBooks(ctx context.Context, shelfID uint, bookIDs []uint, caller identity.Identity) (*entities.Shelf, error)
	RenameShelf(ctx context.Context, shelfID uint, name string, caller identity.Identity) (*entities.Shelf, error)
	DeleteShelf(ctx context.Context, shelfID uint, caller identity.Identity) error
	ListShelves(ctx context.Context, q policy.ListQuery, caller identity.Identity) ([]entities.Shelf, error)
	GetShelf(ctx context.Context, shelfID uint, caller identity.Identity) (*entities.Shelf, error)
}

type NoteService interface {
	CreateNote(ctx context.Context, bookID uint, input services.NoteInput, caller identity.Identity) (*entities.Note, error)
	ListNotes(ctx context.Context, filter policy.NoteFilter, caller identity.Identity) ([]entities.Note, error)
	GetNote(ctx context.Context, id uint, caller identity.Identity) (*entities.NoteDetails, error)
	UpdateNote(ctx context.Context, id uint, patch services.NotePatch, caller identity.Identity) (*entities.Note, error)
	DeleteNote(ctx context.Context, id uint, caller identity.Identity) error
	AddComment(ctx context.Context, noteID uint, body string, caller identity.Identity) (*entities.NoteComment, error)
	UpdateComment(ctx context.Context, id uint, body string, caller identity.Identity) (*entities.NoteComment, error)
	DeleteComment(ctx context.Context, id uint, caller identity.Identity) error
}

// LoginThrottle guards the login route against password guessing.
type LoginThrottle interface {
	Check(ip, email string) error
	RecordFailure(ip, email string) bool
	RecordSuccess(ip, email string)
}
