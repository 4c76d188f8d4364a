package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/users"
	"github.com/mrlokans/bookshelf/internal/entities"
)

func adminArgs(dbPath string) []string {
	return []string{
		"-username", "admin",
		"-email", "Admin@Example.com",
		"-password", "correct horse",
		"-first-name", "Ada",
		"-db", dbPath,
	}
}

func TestCreateAdminCommand_ParseFlags(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cmd := NewCreateAdminCommand()

		require.NoError(t, cmd.ParseFlags(adminArgs("x.db")))

		assert.Equal(t, "admin", cmd.Username)
		assert.Equal(t, "Ada", cmd.FirstName)
		assert.Equal(t, "x.db", cmd.DatabasePath)
	})

	t.Run("reports every invalid flag", func(t *testing.T) {
		cmd := NewCreateAdminCommand()

		err := cmd.ParseFlags([]string{"-username", "ad", "-email", "nope", "-password", "short"})

		require.Error(t, err)
		assert.Equal(t,
			"validation failed: -email must be a valid email address; -first-name is required; -password must be at least 8 characters; -username must be at least 4 characters",
			err.Error())
	})
}

func TestCreateAdminCommand_Run(t *testing.T) {
	t.Setenv("AUTH_BCRYPT_COST", "4")
	t.Setenv("LOG_LEVEL", "error")
	dbPath := filepath.Join(t.TempDir(), "bookshelf.db")

	cmd := NewCreateAdminCommand()
	require.NoError(t, cmd.ParseFlags(adminArgs(dbPath)))
	require.NoError(t, cmd.Run())

	db, err := database.NewDatabase(config.Database{Path: dbPath, LogLevel: "silent"}, zerolog.Nop())
	require.NoError(t, err)
	defer db.Close()

	user, err := users.NewRepository(db.DB).GetByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, entities.RoleAdmin, user.Role)
	assert.Equal(t, "admin", user.Username)

	again := NewCreateAdminCommand()
	require.NoError(t, again.ParseFlags(adminArgs(dbPath)))
	assert.Error(t, again.Run(), "a second admin with the same email conflicts")
}
