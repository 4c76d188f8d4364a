package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/books"
	catalogrepo "github.com/mrlokans/bookshelf/internal/database/catalog"
	"github.com/mrlokans/bookshelf/internal/database/notes"
	"github.com/mrlokans/bookshelf/internal/database/shelves"
	"github.com/mrlokans/bookshelf/internal/database/users"
	"github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/services"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ services.UserStore = (*users.Repository)(nil)
var _ services.CatalogStore = (*catalogrepo.Repository)(nil)
var _ catalog.Store = (*catalogrepo.Repository)(nil)
var _ services.BookStore = (*books.Repository)(nil)
var _ services.ShelfStore = (*shelves.Repository)(nil)
var _ services.NoteStore = (*notes.Repository)(nil)

// =============================================================================
// Services consumed by the HTTP layer
// =============================================================================

var _ http.AccountService = (*services.UserService)(nil)
var _ http.BookService = (*services.BookService)(nil)
var _ http.CatalogService = (*services.CatalogService)(nil)
var _ http.ShelfService = (*services.ShelfService)(nil)
var _ http.NoteService = (*services.NoteService)(nil)

// =============================================================================
// Authentication
// =============================================================================

var _ services.PasswordHasher = (*auth.Hasher)(nil)
var _ services.TokenIssuer = (*auth.TokenService)(nil)
var _ auth.TokenParser = (*auth.TokenService)(nil)
var _ http.LoginThrottle = (*auth.LoginLimiter)(nil)

// =============================================================================
// Health
// =============================================================================

var _ http.Pinger = (*database.Database)(nil)
