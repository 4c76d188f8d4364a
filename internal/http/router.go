package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/validation"
)

// NewRouter creates the gin engine with every API route registered.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(cfg.Logger))
	router.Use(Recovery())
	router.Use(auth.SecurityHeadersMiddleware())
	router.Use(auth.StrictTransportSecurityMiddleware())

	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", HeaderRequestID},
			ExposeHeaders:    []string{"Content-Length", HeaderRequestID},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.Use(auth.NewMiddleware(cfg.Tokens).Handler())

	router.NoRoute(func(c *gin.Context) {
		respondError(c, errRouteNotFound)
	})

	v := validation.New()
	sanitizer := NewSanitizer()

	health := NewHealthController(cfg.Database, cfg.Version)
	accounts := NewAccountController(cfg.Accounts, cfg.Throttle, v)
	books := NewBooksController(cfg.Books, v)
	authors := NewCatalogController(entities.KindAuthor, cfg.Catalog, v)
	genres := NewCatalogController(entities.KindGenre, cfg.Catalog, v)
	shelves := NewShelvesController(cfg.Shelves, v)
	notes := NewNotesController(cfg.Notes, sanitizer, v)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	api := router.Group("/api")

	// Accounts
	api.POST("/auth/register", accounts.Register)
	api.POST("/auth/login", accounts.Login)
	api.GET("/profile", auth.RequireUser(), accounts.Profile)

	// Books; writes are gated to administrators by the service
	api.GET("/books", books.ListBooks)
	api.GET("/books/:id", books.GetBook)
	api.POST("/books", auth.RequireUser(), books.CreateBook)
	api.PATCH("/books/:id", auth.RequireUser(), books.UpdateBook)
	api.DELETE("/books/:id", auth.RequireUser(), books.DeleteBook)
	api.POST("/books/:id/restore", auth.RequireUser(), books.RestoreBook)
	api.POST("/books/:id/notes", auth.RequireUser(), notes.CreateNote)

	// Authors and genres
	for path, cc := range map[string]*CatalogController{"/authors": authors, "/genres": genres} {
		api.GET(path, cc.List)
		api.GET(path+"/:id", cc.Get)
		api.POST(path, auth.RequireUser(), cc.Create)
		api.PATCH(path+"/:id", auth.RequireUser(), cc.Rename)
		api.DELETE(path+"/:id", auth.RequireUser(), cc.Delete)
	}

	// Shelves
	owned := api.Group("", auth.RequireUser())
	owned.GET("/shelves", shelves.ListShelves)
	owned.POST("/shelves", shelves.CreateShelf)
	owned.GET("/shelves/:id", shelves.GetShelf)
	owned.PATCH("/shelves/:id", shelves.RenameShelf)
	owned.DELETE("/shelves/:id", shelves.DeleteShelf)
	owned.POST("/shelves/:id/books", shelves.AddBooks)
	owned.DELETE("/shelves/:id/books", shelves.RemoveBooks)

	// Notes and comments; public notes are readable without a token
	api.GET("/notes", notes.ListNotes)
	api.GET("/notes/:id", notes.GetNote)
	owned.PATCH("/notes/:id", notes.UpdateNote)
	owned.DELETE("/notes/:id", notes.DeleteNote)
	owned.POST("/notes/:id/comments", notes.AddComment)
	owned.PATCH("/comments/:id", notes.UpdateComment)
	owned.DELETE("/comments/:id", notes.DeleteComment)

	return router
}
