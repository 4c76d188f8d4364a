package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/books"
	catalogrepo "github.com/mrlokans/bookshelf/internal/database/catalog"
	"github.com/mrlokans/bookshelf/internal/database/notes"
	"github.com/mrlokans/bookshelf/internal/database/shelves"
	"github.com/mrlokans/bookshelf/internal/database/users"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/identity"
	"github.com/mrlokans/bookshelf/internal/policy"
)

var (
	admin  = identity.New(1, entities.RoleAdmin)
	reader = identity.New(2, entities.RoleUser)
	other  = identity.New(3, entities.RoleUser)
)

type testEnv struct {
	db        *gorm.DB
	books     *BookService
	catalog   *CatalogService
	shelves   *ShelfService
	notes     *NoteService
	users     *UserService
	bookRepo  *books.Repository
	catRepo   *catalogrepo.Repository
	shelfRepo *shelves.Repository
}

func setupTestEnv(t *testing.T) (*testEnv, func()) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test_services.db")
	db, err := database.NewDatabase(config.Database{Path: dbPath, LogLevel: "silent"}, zerolog.Nop())
	require.NoError(t, err)

	log := zerolog.Nop()
	listing := policy.NewListing(500)
	bookRepo := books.NewRepository(db.DB)
	catRepo := catalogrepo.NewRepository(db.DB)
	shelfRepo := shelves.NewRepository(db.DB)

	env := &testEnv{
		db:        db.DB,
		books:     NewBookService(bookRepo, catRepo, listing, log),
		catalog:   NewCatalogService(catRepo, bookRepo, listing, log),
		shelves:   NewShelfService(shelfRepo, bookRepo, listing, log),
		notes:     NewNoteService(notes.NewRepository(db.DB), bookRepo, listing, log),
		users:     NewUserService(users.NewRepository(db.DB), plainHasher{}, stubIssuer{}, log),
		bookRepo:  bookRepo,
		catRepo:   catRepo,
		shelfRepo: shelfRepo,
	}

	cleanup := func() {
		db.Close()
	}
	return env, cleanup
}

// seedDefaultShelves stores the protected shelves for an account that
// already exists.
func (e *testEnv) seedDefaultShelves(t *testing.T, userID uint) []entities.Shelf {
	t.Helper()
	defaults := DefaultShelves(userID)
	ptrs := make([]*entities.Shelf, len(defaults))
	for i := range defaults {
		ptrs[i] = &defaults[i]
	}
	require.NoError(t, e.shelfRepo.Create(context.Background(), ptrs...))
	return defaults
}

// plainHasher stores passwords with a marker prefix so tests stay fast.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (plainHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type stubIssuer struct{}

func (stubIssuer) Issue(user *entities.User) (string, error) {
	return "token-for-" + user.Username, nil
}

func (e *testEnv) createBook(t *testing.T, title string, authors ...string) *entities.BookDetails {
	t.Helper()
	book, err := e.books.CreateBook(context.Background(), BookInput{Title: title, Authors: authors}, admin)
	require.NoError(t, err)
	return book
}
