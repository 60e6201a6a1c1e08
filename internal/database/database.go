package database

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/flashcards/internal/config"
	"github.com/mrlokans/flashcards/internal/database/bookmarks"
	"github.com/mrlokans/flashcards/internal/database/flashcards"
	"github.com/mrlokans/flashcards/internal/database/progress"
	"github.com/mrlokans/flashcards/internal/database/users"
	"github.com/mrlokans/flashcards/internal/entities"
)

// ErrNotFound is returned by lookups, updates and deletes of a missing id.
var ErrNotFound = entities.ErrNotFound

type Database struct {
	DB *gorm.DB

	Flashcards *flashcards.Repository
	Progress   *progress.Repository
	Bookmarks  *bookmarks.Repository
	Users      *users.Repository
}

// NewSQLite opens (creating if needed) a SQLite database at path.
func NewSQLite(path string) (*Database, error) {
	return NewDatabase(config.Database{Driver: config.DriverSQLite, Path: path, LogLevel: "warn"})
}

func NewDatabase(cfg config.Database) (*Database, error) {
	dialector, where, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Flashcard{},
		&entities.UserProgress{},
		&entities.UserBookmark{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully at %s", where)

	return &Database{
		DB:         db,
		Flashcards: flashcards.NewRepository(db),
		Progress:   progress.NewRepository(db),
		Bookmarks:  bookmarks.NewRepository(db),
		Users:      users.NewRepository(db),
	}, nil
}

func dialectorFor(cfg config.Database) (gorm.Dialector, string, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		path := cfg.Path
		if path == "" {
			path = config.DefaultDatabasePath
		}
		return sqlite.Open(path), path, nil
	case config.DriverPostgres:
		if cfg.DSN == "" {
			return nil, "", fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
		return postgres.Open(cfg.DSN), "postgres", nil
	default:
		return nil, "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func logLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the underlying connection.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// SeedFlashcards stores the preloaded deck when no preloaded cards exist yet.
// It returns the number of cards inserted.
func (d *Database) SeedFlashcards(cards []entities.Flashcard) (int, error) {
	count, err := d.Flashcards.CountPreloaded()
	if err != nil {
		return 0, fmt.Errorf("failed to count flashcards: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	inserted, err := d.ImportFlashcards(cards)
	if err != nil {
		return 0, fmt.Errorf("failed to seed flashcards: %w", err)
	}
	log.Printf("Seeded %d flashcards", inserted)
	return inserted, nil
}

// ImportFlashcards stores cards as preloaded cards: not custom and without owner.
func (d *Database) ImportFlashcards(cards []entities.Flashcard) (int, error) {
	batch := make([]entities.Flashcard, 0, len(cards))
	for _, card := range cards {
		card.ID = 0
		card.IsCustom = false
		card.UserID = nil
		batch = append(batch, card)
	}
	if err := d.Flashcards.CreateFlashcards(batch); err != nil {
		return 0, err
	}
	return len(batch), nil
}

// DeleteOrphanRecords removes progress and bookmark rows pointing at deleted flashcards.
func (d *Database) DeleteOrphanRecords() (int64, error) {
	progressRemoved, err := d.Progress.DeleteOrphans()
	if err != nil {
		return 0, fmt.Errorf("failed to delete orphan progress: %w", err)
	}
	bookmarksRemoved, err := d.Bookmarks.DeleteOrphans()
	if err != nil {
		return progressRemoved, fmt.Errorf("failed to delete orphan bookmarks: %w", err)
	}
	return progressRemoved + bookmarksRemoved, nil
}

func (d *Database) GetUser(id uint) (*entities.User, error) {
	return d.Users.GetUser(id)
}

func (d *Database) GetUserByUsername(username string) (*entities.User, error) {
	return d.Users.GetUserByUsername(username)
}

func (d *Database) CreateUser(user *entities.User) error {
	return d.Users.CreateUser(user)
}

func (d *Database) GetFlashcards(filter entities.FlashcardFilter) ([]entities.Flashcard, error) {
	return d.Flashcards.GetFlashcards(filter)
}

func (d *Database) CountFlashcards(filter entities.FlashcardFilter) (int64, error) {
	return d.Flashcards.CountFlashcards(filter)
}

func (d *Database) GetFlashcard(id uint) (*entities.Flashcard, error) {
	return d.Flashcards.GetFlashcard(id)
}

func (d *Database) CreateFlashcard(card *entities.Flashcard) error {
	return d.Flashcards.CreateFlashcard(card)
}

func (d *Database) UpdateFlashcard(id uint, patch entities.FlashcardPatch) (*entities.Flashcard, error) {
	return d.Flashcards.UpdateFlashcard(id, patch)
}

func (d *Database) DeleteFlashcard(id uint) (bool, error) {
	return d.Flashcards.DeleteFlashcard(id)
}

func (d *Database) GetUserProgress(userID uint, flashcardID *uint) ([]entities.UserProgress, error) {
	return d.Progress.GetUserProgress(userID, flashcardID)
}

func (d *Database) UpsertUserProgress(p *entities.UserProgress) (*entities.UserProgress, error) {
	return d.Progress.UpsertUserProgress(p)
}

func (d *Database) GetProgressStats(userID uint) (*entities.ProgressStats, error) {
	return d.Progress.GetProgressStats(userID)
}

func (d *Database) GetUserBookmarks(userID uint) ([]entities.Flashcard, error) {
	return d.Bookmarks.GetUserBookmarks(userID)
}

func (d *Database) ToggleBookmark(userID, flashcardID uint) (bool, error) {
	return d.Bookmarks.ToggleBookmark(userID, flashcardID)
}

func (d *Database) IsBookmarked(userID, flashcardID uint) (bool, error) {
	return d.Bookmarks.IsBookmarked(userID, flashcardID)
}
