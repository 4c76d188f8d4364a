package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entrypoint"
	apperrors "github.com/mrlokans/bookshelf/internal/errors"
	"github.com/mrlokans/bookshelf/internal/services"
	"github.com/mrlokans/bookshelf/internal/validation"
)

// CreateAdminCommand bootstraps an administrator account. Administrators
// cannot be created through the API.
type CreateAdminCommand struct {
	Username     string `json:"username" validate:"required,alphanum,min=4,max=16"`
	Email        string `json:"email" validate:"required,email,max=50"`
	Password     string `json:"password" validate:"required,min=8,max=72"`
	FirstName    string `json:"first-name" validate:"required,alpha,min=2,max=50"`
	DatabasePath string `json:"-"`
}

func NewCreateAdminCommand() *CreateAdminCommand {
	return &CreateAdminCommand{}
}

func (cmd *CreateAdminCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)

	fs.StringVar(&cmd.Username, "username", "", "Login name, 4-16 letters or digits (required)")
	fs.StringVar(&cmd.Email, "email", "", "Email address used to log in (required)")
	fs.StringVar(&cmd.Password, "password", "", "Password, at least 8 characters (required)")
	fs.StringVar(&cmd.FirstName, "first-name", "", "First name (required)")
	fs.StringVar(&cmd.DatabasePath, "db", "", "Path to the database file (defaults to DATABASE_PATH)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-admin -username <name> -email <email> -password <password> -first-name <name> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create an administrator account with the default shelves.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s create-admin -username admin -email admin@example.com -password 'change me now' -first-name Ada\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := validation.New().Validate(cmd); err != nil {
		return describe(err)
	}
	return nil
}

func (cmd *CreateAdminCommand) Run() error {
	cfg := config.NewConfig()
	if cmd.DatabasePath != "" {
		cfg.Database.Path = cmd.DatabasePath
	}

	app, err := entrypoint.NewApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	user, err := app.Accounts.CreateAdmin(context.Background(), services.RegisterInput{
		FirstName: cmd.FirstName,
		Username:  cmd.Username,
		Email:     cmd.Email,
		Password:  cmd.Password,
	})
	if err != nil {
		return describe(err)
	}

	fmt.Printf("Created administrator %q (id %d) in %s\n", user.Username, user.ID, cfg.Database.Path)
	return nil
}

// describe flattens a validation error's field details into one line.
func describe(err error) error {
	var domainErr *apperrors.Error
	if !apperrors.As(err, &domainErr) {
		return err
	}
	details, ok := domainErr.Details.(map[string]string)
	if !ok || len(details) == 0 {
		return err
	}

	fields := make([]string, 0, len(details))
	for field := range details {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	msg := domainErr.Message + ":"
	for _, field := range fields {
		msg += fmt.Sprintf(" -%s %s;", field, details[field])
	}
	return fmt.Errorf("%s", msg[:len(msg)-1])
}
