// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations, error translation
//	├── listing.go       # Status, search, sort and paging scopes for list queries
//	├── users/           # Accounts, created together with their default shelves
//	├── catalog/         # Authors and genres, one table per kind
//	├── books/           # Books, status lifecycle and purge cascade
//	├── shelves/         # Shelves and ordered shelf membership
//	└── notes/           # Notes and their comments
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.NewDatabase(cfg.Database, log)
//
//	booksRepo := books.NewRepository(db.DB)
//	shelvesRepo := shelves.NewRepository(db.DB)
//
//	book, err := booksRepo.GetByID(ctx, 123)
//
// # Errors
//
// Repositories return apperrors NotFound for missing rows and Conflict for
// unique index violations (see TranslateError). Any other failure is wrapped
// and surfaces as an internal error.
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Implement the store interface declared in internal/services
//  5. Add a compile-time check to internal/interfaces/checks.go
package database
