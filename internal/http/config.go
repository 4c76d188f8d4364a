package http

import (
	"github.com/rs/zerolog"

	"github.com/mrlokans/bookshelf/internal/auth"
)

// RouterConfig contains the dependencies needed to build the HTTP router.
type RouterConfig struct {
	// Services
	Accounts AccountService
	Books    BookService
	Catalog  CatalogService
	Shelves  ShelfService
	Notes    NoteService

	// Authentication
	Tokens   auth.TokenParser
	Throttle LoginThrottle // optional

	// Health
	Database Pinger
	Version  string

	// CORS origins; empty disables the CORS middleware
	AllowedOrigins []string

	Logger zerolog.Logger
}
