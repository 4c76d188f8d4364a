package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mrlokans/bookshelf/internal/errors"
	"github.com/mrlokans/bookshelf/internal/identity"
	"github.com/mrlokans/bookshelf/internal/policy"
)

func TestDefaultShelves(t *testing.T) {
	shelves := DefaultShelves(7)

	require.Len(t, shelves, 3)
	assert.Equal(t, "Want to Read", shelves[0].Name)
	assert.Equal(t, "Currently Reading", shelves[1].Name)
	assert.Equal(t, "Read", shelves[2].Name)
	for _, s := range shelves {
		assert.True(t, s.Protected)
		assert.Equal(t, uint(7), s.UserID)
	}
}

func TestShelfService_AddBooks_IsIdempotentPerBook(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()
	ctx := context.Background()

	a := env.createBook(t, "Emma")
	b := env.createBook(t, "Dracula")
	shelf, err := env.shelves.CreateShelf(ctx, "Favourites", reader)
	require.NoError(t, err)

	_, err = env.shelves.AddBooks(ctx, shelf.ID, []uint{a.ID}, reader)
	require.NoError(t, err)
	updated, err := env.shelves.AddBooks(ctx, shelf.ID, []uint{b.ID, a.ID, b.ID}, reader)
	require.NoError(t, err)

	assert.Equal(t, []uint{a.ID, b.ID}, updated.BookIDs)
}

func TestShelfService_AddBooks_ProtectedShelfAcceptsBooks(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()
	ctx := context.Background()

	book := env.createBook(t, "Emma")
	defaults := env.seedDefaultShelves(t, reader.UserID)

	updated, err := env.shelves.AddBooks(ctx, defaults[0].ID, []uint{book.ID}, reader)

	require.NoError(t, err)
	assert.Equal(t, []uint{book.ID}, updated.BookIDs)
}

func TestShelfService_AddBooks_UnknownBook(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()
	ctx := context.Background()

	book := env.createBook(t, "Emma")
	shelf, err := env.shelves.CreateShelf(ctx, "Favourites", reader)
	require.NoError(t, err)

	_, err = env.shelves.AddBooks(ctx, shelf.ID, []uint{book.ID, 999}, reader)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	got, err := env.shelves.GetShelf(ctx, shelf.ID, reader)
	require.NoError(t, err)
	assert.Empty(t, got.BookIDs, "nothing is written when any id is unknown")
}

func TestShelfService_OwnershipIsRequired(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()
	ctx := context.Background()

	book := env.createBook(t, "Emma")
	shelf, err := env.shelves.CreateShelf(ctx, "Mine", reader)
	require.NoError(t, err)

	_, err = env.shelves.GetShelf(ctx, shelf.ID, other)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = env.shelves.AddBooks(ctx, shelf.ID, []uint{book.ID}, other)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = env.shelves.RenameShelf(ctx, shelf.ID, "Theirs", other)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, env.shelves.DeleteShelf(ctx, shelf.ID, other), apperrors.ErrNotFound)

	_, err = env.shelves.GetShelf(ctx, 999, reader)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestShelfService_ProtectedShelvesAreImmutable(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()
	ctx := context.Background()

	book := env.createBook(t, "Emma")
	defaults := env.seedDefaultShelves(t, reader.UserID)
	read := defaults[2]
	_, err := env.shelves.AddBooks(ctx, read.ID, []uint{book.ID}, reader)
	require.NoError(t, err)

	_, err = env.shelves.RenameShelf(ctx, read.ID, "Finished", reader)
	assert.ErrorIs(t, err, apperrors.ErrPolicyViolation)

	assert.ErrorIs(t, env.shelves.DeleteShelf(ctx, read.ID, reader), apperrors.ErrPolicyViolation)

	_, err = env.shelves.RemoveBooks(ctx, read.ID, []uint{book.ID}, reader)
	assert.ErrorIs(t, err, apperrors.ErrPolicyViolation)

	got, err := env.shelves.GetShelf(ctx, read.ID, reader)
	require.NoError(t, err)
	assert.Equal(t, "Read", got.Name)
	assert.Equal(t, []uint{book.ID}, got.BookIDs)
}

func TestShelfService_RenameRemoveDelete(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()
	ctx := context.Background()

	a := env.createBook(t, "Emma")
	b := env.createBook(t, "Dracula")
	shelf, err := env.shelves.CreateShelf(ctx, "Misc", reader)
	require.NoError(t, err)
	_, err = env.shelves.AddBooks(ctx, shelf.ID, []uint{a.ID, b.ID}, reader)
	require.NoError(t, err)

	renamed, err := env.shelves.RenameShelf(ctx, shelf.ID, "  Odds  and Ends ", reader)
	require.NoError(t, err)
	assert.Equal(t, "Odds and Ends", renamed.Name)

	_, err = env.shelves.RenameShelf(ctx, shelf.ID, " ", reader)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	trimmed, err := env.shelves.RemoveBooks(ctx, shelf.ID, []uint{a.ID}, reader)
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID}, trimmed.BookIDs)

	require.NoError(t, env.shelves.DeleteShelf(ctx, shelf.ID, reader))
	_, err = env.shelves.GetShelf(ctx, shelf.ID, reader)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestShelfService_PurgedBookLeavesShelves(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()
	ctx := context.Background()

	book := env.createBook(t, "Emma")
	shelf, err := env.shelves.CreateShelf(ctx, "Favourites", reader)
	require.NoError(t, err)
	_, err = env.shelves.AddBooks(ctx, shelf.ID, []uint{book.ID}, reader)
	require.NoError(t, err)

	_, err = env.books.DeleteBook(ctx, book.ID, admin)
	require.NoError(t, err)
	_, err = env.books.DeleteBook(ctx, book.ID, admin)
	require.NoError(t, err)

	got, err := env.shelves.GetShelf(ctx, shelf.ID, reader)
	require.NoError(t, err)
	assert.Empty(t, got.BookIDs)
}

func TestShelfService_ListShelves_OnlyOwn(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()
	ctx := context.Background()

	_, err := env.shelves.CreateShelf(ctx, "Mine", reader)
	require.NoError(t, err)
	_, err = env.shelves.CreateShelf(ctx, "Theirs", other)
	require.NoError(t, err)

	listed, err := env.shelves.ListShelves(ctx, policy.ListQuery{}, reader)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Mine", listed[0].Name)
	assert.Equal(t, reader.UserID, listed[0].UserID)

	_, err = env.shelves.ListShelves(ctx, policy.ListQuery{}, identity.Identity{})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

