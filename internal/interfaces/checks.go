package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/flashcards/internal/auth"
	"github.com/mrlokans/flashcards/internal/client"
	"github.com/mrlokans/flashcards/internal/database"
	"github.com/mrlokans/flashcards/internal/database/bookmarks"
	"github.com/mrlokans/flashcards/internal/database/flashcards"
	"github.com/mrlokans/flashcards/internal/database/progress"
	"github.com/mrlokans/flashcards/internal/database/users"
	"github.com/mrlokans/flashcards/internal/http"
	"github.com/mrlokans/flashcards/internal/importers"
	"github.com/mrlokans/flashcards/internal/localstore"
	"github.com/mrlokans/flashcards/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// FlashcardStore implementations
var _ http.FlashcardStore = (*database.Database)(nil)
var _ http.FlashcardStore = (*flashcards.Repository)(nil)

// ProgressStore implementations
var _ http.ProgressStore = (*database.Database)(nil)
var _ http.ProgressStore = (*progress.Repository)(nil)

// BookmarkStore implementations
var _ http.BookmarkStore = (*database.Database)(nil)
var _ http.BookmarkStore = (*bookmarks.Repository)(nil)

// UserStore implementations
var _ auth.UserStore = (*database.Database)(nil)
var _ auth.UserStore = (*users.Repository)(nil)

var _ http.Pinger = (*database.Database)(nil)
var _ http.UserService = (*auth.Service)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ http.CleanupEnqueuer = (*tasks.Client)(nil)
var _ tasks.OrphanCleaner = (*database.Database)(nil)

// =============================================================================
// Import Pipeline
// =============================================================================

var _ importers.Store = (*database.Database)(nil)

// Parser implementations
var _ importers.Parser = importers.JSONParser{}
var _ importers.Parser = importers.YAMLParser{}
var _ importers.Parser = importers.CSVParser{}
var _ importers.Parser = importers.XLSXParser{}

// =============================================================================
// Client
// =============================================================================

var _ client.API = (*client.HTTPAPI)(nil)
var _ client.Notifier = client.LogNotifier{}
var _ client.Notifier = client.NotifierFunc(nil)

// Store implementations
var _ localstore.Store = (*localstore.MemoryStore)(nil)
var _ localstore.Store = (*localstore.DBStore)(nil)
