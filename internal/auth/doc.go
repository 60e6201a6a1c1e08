// Package auth provides authentication for the flashcards API.
//
// It supports two authentication modes:
//   - "none": No authentication required (default), every request acts as AUTH_DEFAULT_USER_ID
//   - "local": Local user database with session cookies
//
// # Configuration
//
//	AUTH_MODE=none                 # Default
//	AUTH_MODE=local                # Requires a user and a login
//	AUTH_SESSION_LIFETIME=24h      # Session duration
//	AUTH_BCRYPT_COST=12            # bcrypt cost factor
//	AUTH_SECURE_COOKIES=true       # HTTPS-only cookies
//
// # Usage
//
//	authService := auth.NewService(db, cfg.Auth)
//	sessions, _ := auth.NewSessionManager(sqlDB, cfg.Auth)
//	authMiddleware := auth.NewMiddleware(authService, sessions, cfg.Auth)
//	router.Use(sessions.SessionLoadSave(), authMiddleware.Handler())
//
// Extract user in handlers:
//
//	userID := auth.GetUserID(c)
package auth
