package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/entities"
	apperrors "github.com/mrlokans/bookshelf/internal/errors"
	"github.com/mrlokans/bookshelf/internal/identity"
	"github.com/mrlokans/bookshelf/internal/policy"
)

// BookInput is a shape-validated book creation request. Authors and genres
// are free-text names resolved through the catalog.
type BookInput struct {
	Title       string
	Authors     []string
	Genres      []string
	Description string
	Cover       string
	Pages       *int
	PublishedOn *time.Time
	ISBN        []string
}

// BookPatch lists the fields an update may change. Nil fields are left
// untouched; a non-nil Authors or Genres replaces the whole list.
type BookPatch struct {
	Title       *string
	Authors     *[]string
	Genres      *[]string
	Description *string
	Cover       *string
	Pages       *int
	PublishedOn *time.Time
	ISBN        *[]string
}

// BookService manages the book aggregate: title uniqueness, author and genre
// resolution, materialization on read and the trash/purge lifecycle.
type BookService struct {
	books    BookStore
	catalog  CatalogStore
	resolver *catalog.Resolver
	listing  policy.Listing
	log      zerolog.Logger
}

func NewBookService(books BookStore, catalogStore CatalogStore, listing policy.Listing, log zerolog.Logger) *BookService {
	log = log.With().Str("service", "books").Logger()
	return &BookService{
		books:    books,
		catalog:  catalogStore,
		resolver: catalog.NewResolver(catalogStore, log),
		listing:  listing,
		log:      log,
	}
}

// CreateBook resolves the author and genre names before the book is written,
// so the book row only ever references existing catalog entries.
func (s *BookService) CreateBook(ctx context.Context, input BookInput, caller identity.Identity) (*entities.BookDetails, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}

	title, key, err := bookTitle(input.Title)
	if err != nil {
		return nil, err
	}
	if err := s.ensureTitleAvailable(ctx, key, 0); err != nil {
		return nil, err
	}

	authors, err := s.resolver.ResolveNames(ctx, entities.KindAuthor, input.Authors)
	if err != nil {
		return nil, err
	}
	genres, err := s.resolver.ResolveNames(ctx, entities.KindGenre, input.Genres)
	if err != nil {
		return nil, err
	}

	book := &entities.Book{
		Title:       title,
		TitleKey:    key,
		AuthorIDs:   catalog.IDs(authors),
		GenreIDs:    catalog.IDs(genres),
		Description: input.Description,
		Cover:       input.Cover,
		Pages:       input.Pages,
		PublishedOn: input.PublishedOn,
		ISBN:        nonNilStrings(input.ISBN),
		Status:      entities.StatusActive,
	}
	if err := s.books.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	s.log.Info().Uint("book_id", book.ID).Str("title", book.Title).Uint("by", caller.UserID).Msg("book created")

	return &entities.BookDetails{
		Book:    *book,
		Authors: catalog.Distinct(authors),
		Genres:  catalog.Distinct(genres),
	}, nil
}

func (s *BookService) UpdateBook(ctx context.Context, id uint, patch BookPatch, caller identity.Identity) (*entities.BookDetails, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}

	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title, key, err := bookTitle(*patch.Title)
		if err != nil {
			return nil, err
		}
		if book.Status.IsActive() {
			if err := s.ensureTitleAvailable(ctx, key, book.ID); err != nil {
				return nil, err
			}
		}
		book.Title, book.TitleKey = title, key
	}
	if patch.Authors != nil {
		authors, err := s.resolver.ResolveNames(ctx, entities.KindAuthor, *patch.Authors)
		if err != nil {
			return nil, err
		}
		book.AuthorIDs = catalog.IDs(authors)
	}
	if patch.Genres != nil {
		genres, err := s.resolver.ResolveNames(ctx, entities.KindGenre, *patch.Genres)
		if err != nil {
			return nil, err
		}
		book.GenreIDs = catalog.IDs(genres)
	}
	if patch.Description != nil {
		book.Description = *patch.Description
	}
	if patch.Cover != nil {
		book.Cover = *patch.Cover
	}
	if patch.Pages != nil {
		book.Pages = patch.Pages
	}
	if patch.PublishedOn != nil {
		book.PublishedOn = patch.PublishedOn
	}
	if patch.ISBN != nil {
		book.ISBN = nonNilStrings(*patch.ISBN)
	}

	if err := s.books.Save(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to update book %d: %w", id, err)
	}

	s.log.Info().Uint("book_id", book.ID).Uint("by", caller.UserID).Msg("book updated")

	return s.materialize(ctx, book)
}

// GetBook returns a book of any status with its authors and genres.
func (s *BookService) GetBook(ctx context.Context, id uint) (*entities.BookDetails, error) {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.materialize(ctx, book)
}

func (s *BookService) ListBooks(ctx context.Context, filter policy.BookFilter) ([]entities.Book, error) {
	q, err := s.listing.Shape(filter.ListQuery)
	if err != nil {
		return nil, err
	}
	filter.ListQuery = q
	return s.books.List(ctx, filter)
}

// DeleteBook trashes an active book and purges a trashed one. It returns the
// transition that was applied.
func (s *BookService) DeleteBook(ctx context.Context, id uint, caller identity.Identity) (policy.Transition, error) {
	if err := caller.RequireAdmin(); err != nil {
		return policy.TransitionNone, err
	}

	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return policy.TransitionNone, err
	}

	transition := policy.BookLifecycle.OnDelete(book.Status)
	if transition == policy.TransitionNone {
		return transition, nil
	}
	if status, kept := policy.StatusAfter(book.Status, transition); kept {
		err = s.books.SetStatus(ctx, id, status)
	} else {
		err = s.books.Purge(ctx, id)
	}
	if err != nil {
		return policy.TransitionNone, fmt.Errorf("failed to %s book %d: %w", transition, id, err)
	}

	s.log.Info().Uint("book_id", id).Str("transition", transition.String()).Uint("by", caller.UserID).Msg("book deleted")

	return transition, nil
}

// RestoreBook moves a trashed book back to active, provided no active book
// has taken its title in the meantime.
func (s *BookService) RestoreBook(ctx context.Context, id uint, caller identity.Identity) (*entities.BookDetails, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}

	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	transition, err := policy.BookLifecycle.OnRestore(book.Status)
	if err != nil {
		return nil, err
	}
	if err := s.ensureTitleAvailable(ctx, book.TitleKey, book.ID); err != nil {
		return nil, err
	}

	status, _ := policy.StatusAfter(book.Status, transition)
	if err := s.books.SetStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to restore book %d: %w", id, err)
	}
	book.Status = status

	s.log.Info().Uint("book_id", id).Uint("by", caller.UserID).Msg("book restored")

	return s.materialize(ctx, book)
}

func (s *BookService) ensureTitleAvailable(ctx context.Context, key string, excludeID uint) error {
	_, err := s.books.FindActiveByTitleKey(ctx, key, excludeID)
	switch {
	case err == nil:
		return apperrors.Validation("a book with this title already exists")
	case apperrors.Is(err, apperrors.ErrNotFound):
		return nil
	}
	return fmt.Errorf("failed to check book title: %w", err)
}

// materialize loads the referenced authors and genres. Each entry appears
// once, in the order of its first reference.
func (s *BookService) materialize(ctx context.Context, book *entities.Book) (*entities.BookDetails, error) {
	authors, err := s.catalog.GetByIDs(ctx, entities.KindAuthor, book.AuthorIDs)
	if err != nil {
		return nil, err
	}
	genres, err := s.catalog.GetByIDs(ctx, entities.KindGenre, book.GenreIDs)
	if err != nil {
		return nil, err
	}
	return &entities.BookDetails{
		Book:    *book,
		Authors: catalog.Distinct(authors),
		Genres:  catalog.Distinct(genres),
	}, nil
}

func bookTitle(raw string) (title, key string, err error) {
	title = catalog.Normalize(raw)
	if title == "" {
		return "", "", apperrors.Validation("title must not be empty")
	}
	return title, catalog.MatchKey(title), nil
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
