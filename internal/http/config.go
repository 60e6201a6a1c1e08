package http

import (
	"github.com/mrlokans/flashcards/internal/auth"
	"github.com/mrlokans/flashcards/internal/config"
	"github.com/mrlokans/flashcards/internal/database"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database

	// Authentication. Middleware and AuthService are optional; without them
	// every request acts as DefaultUserID.
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager
	RateLimiter    *auth.RateLimiter
	DefaultUserID  uint

	// Orphan cleanup queue (optional)
	Cleanup CleanupEnqueuer

	// Browser origins allowed by CORS; "*" allows any.
	CORS config.CORS

	// Application info
	Version string
}
