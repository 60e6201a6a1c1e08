package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/mrlokans/flashcards/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// Apply session middleware if enabled
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	// Apply auth middleware if enabled
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	} else {
		router.Use(auth.NoAuthHandler(cfg.DefaultUserID))
	}

	// Register auth routes if auth service is available
	if cfg.AuthService != nil && cfg.AuthService.IsAuthEnabled() && cfg.SessionManager != nil {
		authController := auth.NewAuthController(cfg.AuthService, cfg.SessionManager, cfg.RateLimiter)
		authController.RegisterRoutes(router)
	}

	// Health endpoints
	var db Pinger
	if cfg.Database != nil {
		db = cfg.Database
	}
	health := NewHealthController(db, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	router.GET("/api/categories", ListCategories)

	flashcards := NewFlashcardsController(cfg.Database, cfg.Cleanup)
	router.GET("/api/flashcards", flashcards.ListFlashcards)
	router.GET("/api/flashcards/:id", flashcards.GetFlashcard)
	router.POST("/api/flashcards", flashcards.CreateFlashcard)
	router.PUT("/api/flashcards/:id", flashcards.UpdateFlashcard)
	router.DELETE("/api/flashcards/:id", flashcards.DeleteFlashcard)

	progress := NewProgressController(cfg.Database)
	router.POST("/api/progress", progress.UpsertProgress)
	router.GET("/api/progress/:userId", progress.GetUserProgress)
	router.GET("/api/progress/:userId/stats", progress.GetProgressStats)

	bookmarks := NewBookmarksController(cfg.Database)
	router.POST("/api/bookmarks/toggle", bookmarks.ToggleBookmark)
	router.GET("/api/bookmarks/:userId", bookmarks.ListBookmarks)
	router.GET("/api/bookmarks/:userId/:flashcardId", bookmarks.IsBookmarked)

	if cfg.AuthService != nil {
		users := NewUsersController(cfg.AuthService)
		router.POST("/api/users", users.Register)
		router.GET("/api/users/:id", users.GetUser)
	}

	return router
}

// NewHandler wraps the router with CORS handling for browser clients.
func NewHandler(cfg RouterConfig) http.Handler {
	return corsHandler(cfg, NewRouter(cfg))
}

func corsHandler(cfg RouterConfig, next http.Handler) http.Handler {
	origins := cfg.CORS.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowAll := false
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}

	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept", "Origin", "X-Requested-With"},
		ExposedHeaders:   []string{TotalCountHeader},
		AllowCredentials: !allowAll,
		MaxAge:           86400,
	}).Handler(next)
}
