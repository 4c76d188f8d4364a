package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/database/catalog"
	"github.com/mrlokans/bookshelf/internal/database/notes"
	"github.com/mrlokans/bookshelf/internal/database/shelves"
	"github.com/mrlokans/bookshelf/internal/database/users"
	http_controllers "github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/logger"
	"github.com/mrlokans/bookshelf/internal/policy"
	"github.com/mrlokans/bookshelf/internal/services"
)

// App holds the wired services shared by the server and the CLI commands.
type App struct {
	Log      *logger.Logger
	DB       *database.Database
	Tokens   *auth.TokenService
	Accounts *services.UserService
	Books    *services.BookService
	Catalog  *services.CatalogService
	Shelves  *services.ShelfService
	Notes    *services.NoteService
}

// NewApp opens the database and builds every service on top of it.
func NewApp(cfg *config.Config) (*App, error) {
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.NewDatabase(cfg.Database, log.Logger)
	if err != nil {
		_ = log.Close()
		return nil, err
	}

	listing := policy.NewListing(cfg.Listing.MaxLimit)
	userRepo := users.NewRepository(db.DB)
	catalogRepo := catalog.NewRepository(db.DB)
	bookRepo := books.NewRepository(db.DB)
	shelfRepo := shelves.NewRepository(db.DB)
	noteRepo := notes.NewRepository(db.DB)

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	hasher := auth.NewHasher(cfg.Auth.BcryptCost)

	return &App{
		Log:      log,
		DB:       db,
		Tokens:   tokens,
		Accounts: services.NewUserService(userRepo, hasher, tokens, log.Logger),
		Books:    services.NewBookService(bookRepo, catalogRepo, listing, log.Logger),
		Catalog:  services.NewCatalogService(catalogRepo, bookRepo, listing, log.Logger),
		Shelves:  services.NewShelfService(shelfRepo, bookRepo, listing, log.Logger),
		Notes:    services.NewNoteService(noteRepo, bookRepo, listing, log.Logger),
	}, nil
}

// Close releases the database and the log file.
func (a *App) Close() {
	if err := a.DB.Close(); err != nil {
		a.Log.Error().Err(err).Msg("error closing database")
	}
	_ = a.Log.Close()
}

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then drains it within
// the configured shutdown timeout.
func Serve(router *gin.Engine, cfg *config.Config, log zerolog.Logger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-quit:
	}
	log.Info().Dur("timeout", timeout).Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info().Msg("server exiting")
	return nil
}

// Run wires the application and serves the API.
func Run(cfg *config.Config, version string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	app, err := NewApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	log := app.Log.Logger
	log.Info().Str("version", version).Msg("starting bookshelf")

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	limiter := auth.NewLoginLimiter(auth.LimiterConfig{
		MaxAttempts:     cfg.Auth.LoginMaxAttempts,
		WindowDuration:  cfg.Auth.LoginWindow,
		LockoutDuration: cfg.Auth.LoginLockout,
	})

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Accounts:       app.Accounts,
		Books:          app.Books,
		Catalog:        app.Catalog,
		Shelves:        app.Shelves,
		Notes:          app.Notes,
		Tokens:         app.Tokens,
		Throttle:       limiter,
		Database:       app.DB,
		Version:        version,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Logger:         log,
	})

	onShutdown := func(context.Context) {
		limiter.Stop()
	}

	return Serve(router, cfg, log, onShutdown)
}
