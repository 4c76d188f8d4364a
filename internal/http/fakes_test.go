package http

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/identity"
	"github.com/mrlokans/bookshelf/internal/policy"
	"github.com/mrlokans/bookshelf/internal/services"
)

var errNotStubbed = errors.New("not stubbed")

// --- Fake services ---

type fakeAccounts struct {
	registered *services.RegisterInput
	register   func(services.RegisterInput) (*entities.User, error)
	login      func(email, password string) (*services.LoginResult, error)
	profile    func(identity.Identity) (*entities.User, error)
}

func (f *fakeAccounts) Register(_ context.Context, input services.RegisterInput) (*entities.User, error) {
	f.registered = &input
	if f.register == nil {
		return nil, errNotStubbed
	}
	return f.register(input)
}

func (f *fakeAccounts) Login(_ context.Context, email, password string) (*services.LoginResult, error) {
	if f.login == nil {
		return nil, errNotStubbed
	}
	return f.login(email, password)
}

func (f *fakeAccounts) Profile(_ context.Context, caller identity.Identity) (*entities.User, error) {
	if f.profile == nil {
		return nil, errNotStubbed
	}
	return f.profile(caller)
}

type fakeBooks struct {
	lastFilter policy.BookFilter
	lastInput  services.BookInput
	lastPatch  services.BookPatch
	lastCaller identity.Identity

	create  func(services.BookInput) (*entities.BookDetails, error)
	update  func(uint, services.BookPatch) (*entities.BookDetails, error)
	get     func(uint) (*entities.BookDetails, error)
	list    func(policy.BookFilter) ([]entities.Book, error)
	remove  func(uint) (policy.Transition, error)
	restore func(uint) (*entities.BookDetails, error)
}

func (f *fakeBooks) CreateBook(_ context.Context, input services.BookInput, caller identity.Identity) (*entities.BookDetails, error) {
	f.lastInput, f.lastCaller = input, caller
	if f.create == nil {
		return nil, errNotStubbed
	}
	return f.create(input)
}

func (f *fakeBooks) UpdateBook(_ context.Context, id uint, patch services.BookPatch, caller identity.Identity) (*entities.BookDetails, error) {
	f.lastPatch, f.lastCaller = patch, caller
	if f.update == nil {
		return nil, errNotStubbed
	}
	return f.update(id, patch)
}

func (f *fakeBooks) GetBook(_ context.Context, id uint) (*entities.BookDetails, error) {
	if f.get == nil {
		return nil, errNotStubbed
	}
	return f.get(id)
}

func (f *fakeBooks) ListBooks(_ context.Context, filter policy.BookFilter) ([]entities.Book, error) {
	f.lastFilter = filter
	if f.list == nil {
		return nil, nil
	}
	return f.list(filter)
}

func (f *fakeBooks) DeleteBook(_ context.Context, id uint, caller identity.Identity) (policy.Transition, error) {
	f.lastCaller = caller
	if f.remove == nil {
		return policy.TransitionNone, errNotStubbed
	}
	return f.remove(id)
}

func (f *fakeBooks) RestoreBook(_ context.Context, id uint, caller identity.Identity) (*entities.BookDetails, error) {
	f.lastCaller = caller
	if f.restore == nil {
		return nil, errNotStubbed
	}
	return f.restore(id)
}

type fakeCatalog struct {
	lastKind   entities.CatalogKind
	lastName   string
	lastQuery  policy.ListQuery
	lastCaller identity.Identity
	err        error
}

func (f *fakeCatalog) entry(id uint, name string) *entities.CatalogEntry {
	return &entities.CatalogEntry{ID: id, Name: name, Status: entities.StatusActive}
}

func (f *fakeCatalog) Create(_ context.Context, kind entities.CatalogKind, name string, caller identity.Identity) (*entities.CatalogEntry, error) {
	f.lastKind, f.lastName, f.lastCaller = kind, name, caller
	if f.err != nil {
		return nil, f.err
	}
	return f.entry(1, name), nil
}

func (f *fakeCatalog) Rename(_ context.Context, kind entities.CatalogKind, id uint, name string, caller identity.Identity) (*entities.CatalogEntry, error) {
	f.lastKind, f.lastName, f.lastCaller = kind, name, caller
	if f.err != nil {
		return nil, f.err
	}
	return f.entry(id, name), nil
}

func (f *fakeCatalog) Get(_ context.Context, kind entities.CatalogKind, id uint) (*entities.CatalogEntryDetails, error) {
	f.lastKind = kind
	if f.err != nil {
		return nil, f.err
	}
	return &entities.CatalogEntryDetails{CatalogEntry: *f.entry(id, "Jane Austen"), Kind: kind, Books: []entities.Book{}}, nil
}

func (f *fakeCatalog) List(_ context.Context, kind entities.CatalogKind, q policy.ListQuery) ([]entities.CatalogEntry, error) {
	f.lastKind, f.lastQuery = kind, q
	if f.err != nil {
		return nil, f.err
	}
	return []entities.CatalogEntry{*f.entry(1, "Horror")}, nil
}

func (f *fakeCatalog) Delete(_ context.Context, kind entities.CatalogKind, _ uint, caller identity.Identity) (policy.Transition, error) {
	f.lastKind, f.lastCaller = kind, caller
	if f.err != nil {
		return policy.TransitionNone, f.err
	}
	return policy.TransitionTrash, nil
}

type fakeShelves struct {
	lastBooks  []uint
	lastName   string
	lastCaller identity.Identity
	err        error
}

func (f *fakeShelves) shelf(id uint) *entities.Shelf {
	return &entities.Shelf{ID: id, Name: f.lastName, UserID: f.lastCaller.UserID, BookIDs: f.lastBooks}
}

func (f *fakeShelves) CreateShelf(_ context.Context, name string, caller identity.Identity) (*entities.Shelf, error) {
	f.lastName, f.lastCaller = name, caller
	if f.err != nil {
		return nil, f.err
	}
	return f.shelf(1), nil
}

func (f *fakeShelves) AddBooks(_ context.Context, shelfID uint, bookIDs []uint, caller identity.Identity) (*entities.Shelf, error) {
	f.lastBooks, f.lastCaller = bookIDs, caller
	if f.err != nil {
		return nil, f.err
	}
	return f.shelf(shelfID), nil
}

func (f *fakeShelves) RemoveBooks(_ context.Context, shelfID uint, bookIDs []uint, caller identity.Identity) (*entities.Shelf, error) {
	f.lastBooks, f.lastCaller = bookIDs, caller
	if f.err != nil {
		return nil, f.err
	}
	return f.shelf(shelfID), nil
}

func (f *fakeShelves) RenameShelf(_ context.Context, shelfID uint, name string, caller identity.Identity) (*entities.Shelf, error) {
	f.lastName, f.lastCaller = name, caller
	if f.err != nil {
		return nil, f.err
	}
	return f.shelf(shelfID), nil
}

func (f *fakeShelves) DeleteShelf(_ context.Context, _ uint, caller identity.Identity) error {
	f.lastCaller = caller
	return f.err
}

func (f *fakeShelves) ListShelves(_ context.Context, _ policy.ListQuery, caller identity.Identity) ([]entities.Shelf, error) {
	f.lastCaller = caller
	if f.err != nil {
		return nil, f.err
	}
	return []entities.Shelf{*f.shelf(1)}, nil
}

func (f *fakeShelves) GetShelf(_ context.Context, shelfID uint, caller identity.Identity) (*entities.Shelf, error) {
	f.lastCaller = caller
	if f.err != nil {
		return nil, f.err
	}
	return f.shelf(shelfID), nil
}

type fakeNotes struct {
	lastFilter policy.NoteFilter
	lastInput  services.NoteInput
	lastPatch  services.NotePatch
	lastBody   string
	lastCaller identity.Identity
	err        error
}

func (f *fakeNotes) CreateNote(_ context.Context, bookID uint, input services.NoteInput, caller identity.Identity) (*entities.Note, error) {
	f.lastInput, f.lastCaller = input, caller
	if f.err != nil {
		return nil, f.err
	}
	return &entities.Note{ID: 1, BookID: bookID, UserID: caller.UserID, Title: input.Title, Body: input.Body, IsPublic: input.IsPublic}, nil
}

func (f *fakeNotes) ListNotes(_ context.Context, filter policy.NoteFilter, caller identity.Identity) ([]entities.Note, error) {
	f.lastFilter, f.lastCaller = filter, caller
	return nil, f.err
}

func (f *fakeNotes) GetNote(_ context.Context, id uint, caller identity.Identity) (*entities.NoteDetails, error) {
	f.lastCaller = caller
	if f.err != nil {
		return nil, f.err
	}
	return &entities.NoteDetails{Note: entities.Note{ID: id}, Comments: []entities.NoteComment{}}, nil
}

func (f *fakeNotes) UpdateNote(_ context.Context, id uint, patch services.NotePatch, caller identity.Identity) (*entities.Note, error) {
	f.lastPatch, f.lastCaller = patch, caller
	if f.err != nil {
		return nil, f.err
	}
	return &entities.Note{ID: id}, nil
}

func (f *fakeNotes) DeleteNote(_ context.Context, _ uint, caller identity.Identity) error {
	f.lastCaller = caller
	return f.err
}

func (f *fakeNotes) AddComment(_ context.Context, noteID uint, body string, caller identity.Identity) (*entities.NoteComment, error) {
	f.lastBody, f.lastCaller = body, caller
	if f.err != nil {
		return nil, f.err
	}
	return &entities.NoteComment{ID: 1, NoteID: noteID, Body: body, UserID: caller.UserID}, nil
}

func (f *fakeNotes) UpdateComment(_ context.Context, id uint, body string, caller identity.Identity) (*entities.NoteComment, error) {
	f.lastBody, f.lastCaller = body, caller
	if f.err != nil {
		return nil, f.err
	}
	return &entities.NoteComment{ID: id, Body: body}, nil
}

func (f *fakeNotes) DeleteComment(_ context.Context, _ uint, caller identity.Identity) error {
	f.lastCaller = caller
	return f.err
}

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(context.Context) error {
	return p.err
}

// --- Router harness ---

type testServer struct {
	router   *gin.Engine
	tokens   *auth.TokenService
	accounts *fakeAccounts
	books    *fakeBooks
	catalog  *fakeCatalog
	shelves  *fakeShelves
	notes    *fakeNotes
	throttle *auth.LoginLimiter
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	s := &testServer{
		tokens:   auth.NewTokenService("test-secret", time.Hour),
		accounts: &fakeAccounts{},
		books:    &fakeBooks{},
		catalog:  &fakeCatalog{},
		shelves:  &fakeShelves{},
		notes:    &fakeNotes{},
		throttle: auth.NewLoginLimiter(auth.LimiterConfig{MaxAttempts: 2, CleanupInterval: time.Hour}),
	}
	t.Cleanup(s.throttle.Stop)

	s.router = NewRouter(RouterConfig{
		Accounts: s.accounts,
		Books:    s.books,
		Catalog:  s.catalog,
		Shelves:  s.shelves,
		Notes:    s.notes,
		Tokens:   s.tokens,
		Throttle: s.throttle,
		Database: fakePinger{},
		Version:  "test",
		Logger:   zerolog.Nop(),
	})
	return s
}

func (s *testServer) token(t *testing.T, userID uint, role entities.Role) string {
	t.Helper()
	token, err := s.tokens.Issue(&entities.User{ID: userID, Role: role})
	require.NoError(t, err)
	return token
}

// do sends a request; token may be empty for anonymous calls.
func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}
