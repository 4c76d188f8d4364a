// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
// Declared by the services that consume them (internal/services/interfaces.go)
// and implemented by the gorm repositories under internal/database:
//
//   - UserStore: accounts, created together with their default shelves
//   - CatalogStore: authors and genres, keyed by a normalized name
//   - BookStore: books, their status lifecycle and purge cascade
//   - ShelfStore: shelves and shelf membership
//   - NoteStore: notes and comments
//
// catalog.Store (internal/catalog/resolver.go) is the narrow slice of
// CatalogStore the name Resolver needs to find or create entries.
//
// ## Service Interfaces
//
// Declared by the HTTP layer (internal/http/stores.go) so controllers can be
// tested against hand-written fakes:
//
//   - AccountService, BookService, CatalogService, ShelfService, NoteService
//   - LoginThrottle: implemented by auth.LoginLimiter
//   - Pinger: implemented by database.Database for the health endpoint
//
// ## Authentication Interfaces
//
//   - services.PasswordHasher: implemented by auth.Hasher (bcrypt)
//   - services.TokenIssuer and auth.TokenParser: implemented by auth.TokenService (JWT)
//
// # Adding a New Implementation
//
// Add a compile-time check to checks.go:
//
//	var _ services.BookStore = (*mystore.Repository)(nil)
package interfaces
