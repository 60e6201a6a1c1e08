package http

import "github.com/mrlokans/flashcards/internal/entities"

// Each controller depends only on the operations it calls.
// *database.Database satisfies all of them.

// FlashcardStore provides flashcard CRUD.
type FlashcardStore interface {
	GetFlashcards(filter entities.FlashcardFilter) ([]entities.Flashcard, error)
	CountFlashcards(filter entities.FlashcardFilter) (int64, error)
	GetFlashcard(id uint) (*entities.Flashcard, error)
	CreateFlashcard(card *entities.Flashcard) error
	UpdateFlashcard(id uint, patch entities.FlashcardPatch) (*entities.Flashcard, error)
	DeleteFlashcard(id uint) (bool, error)
}

// ProgressStore provides per-user progress records.
type ProgressStore interface {
	GetUserProgress(userID uint, flashcardID *uint) ([]entities.UserProgress, error)
	UpsertUserProgress(p *entities.UserProgress) (*entities.UserProgress, error)
	GetProgressStats(userID uint) (*entities.ProgressStats, error)
}

// BookmarkStore provides per-user bookmarks.
type BookmarkStore interface {
	GetUserBookmarks(userID uint) ([]entities.Flashcard, error)
	ToggleBookmark(userID, flashcardID uint) (bool, error)
	IsBookmarked(userID, flashcardID uint) (bool, error)
}

// UserService registers and looks up accounts.
type UserService interface {
	Register(username, password string) (*entities.User, error)
	GetUserByID(id uint) (*entities.User, error)
}

// CleanupEnqueuer schedules removal of records left behind by deletes.
type CleanupEnqueuer interface {
	EnqueueOrphanCleanup(reason string) (string, error)
}

// Pinger checks storage connectivity.
type Pinger interface {
	Ping() error
}
