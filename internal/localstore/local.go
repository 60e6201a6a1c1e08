package localstore

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/flashcards/internal/entities"
)

// Keys shared with the client state container.
const (
	KeyFlashcards       = "flashcards"
	KeyCustomFlashcards = "customFlashcards"
	KeyBookmarkedCards  = "bookmarkedCards"
	KeyMasteredCards    = "masteredCards"
	KeyRecentlyViewed   = "recentlyViewedCards"
)

// ProgressKey is the per-user progress map key.
func ProgressKey(userID uint) string {
	return fmt.Sprintf("progress_%d", userID)
}

// BookmarksKey is the per-user bookmark list key.
func BookmarksKey(userID uint) string {
	return fmt.Sprintf("bookmarks_%d", userID)
}

// ProgressEntry is one value of the per-user progress map.
type ProgressEntry struct {
	Status       entities.ProgressStatus `json:"status"`
	LastReviewed string                  `json:"lastReviewed"`
}

// Local reads and writes typed values over a Store.
type Local struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// Option configures Local.
type Option func(*Local)

// WithClock overrides the time source used for lastReviewed stamps.
func WithClock(now func() time.Time) Option {
	return func(l *Local) { l.now = now }
}

// New wraps store. A nil logger discards warnings.
func New(store Store, logger *zap.Logger, opts ...Option) *Local {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Local{store: store, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// save encodes v under key. Failures are logged and returned.
func (l *Local) save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		l.logger.Warn("failed to encode local value", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := l.store.Set(key, string(data)); err != nil {
		l.logger.Warn("failed to save local value", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// load decodes key into dst and reports whether it did. dst is left
// untouched when the key is absent or unreadable.
func (l *Local) load(key string, dst any) bool {
	raw, ok, err := l.store.Get(key)
	if err != nil {
		l.logger.Warn("failed to read local value", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok || raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		l.logger.Warn("discarding malformed local value", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (l *Local) SaveFlashcards(cards []entities.Flashcard) error {
	return l.save(KeyFlashcards, cards)
}

func (l *Local) LoadFlashcards() []entities.Flashcard {
	return l.loadCards(KeyFlashcards)
}

func (l *Local) SaveCustomFlashcards(cards []entities.Flashcard) error {
	return l.save(KeyCustomFlashcards, cards)
}

func (l *Local) LoadCustomFlashcards() []entities.Flashcard {
	return l.loadCards(KeyCustomFlashcards)
}

func (l *Local) loadCards(key string) []entities.Flashcard {
	var cards []entities.Flashcard
	if !l.load(key, &cards) || cards == nil {
		return []entities.Flashcard{}
	}
	return cards
}

// SaveProgress records status for one card in the user's progress map,
// stamped with the current time.
func (l *Local) SaveProgress(userID, flashcardID uint, status entities.ProgressStatus) error {
	progress := l.LoadProgress(userID)
	progress[flashcardID] = ProgressEntry{
		Status:       status,
		LastReviewed: l.now().UTC().Format(time.RFC3339),
	}
	return l.save(ProgressKey(userID), progress)
}

// LoadProgress returns the user's progress keyed by flashcard id.
func (l *Local) LoadProgress(userID uint) map[uint]ProgressEntry {
	progress := map[uint]ProgressEntry{}
	if !l.load(ProgressKey(userID), &progress) || progress == nil {
		return map[uint]ProgressEntry{}
	}
	return progress
}

func (l *Local) SaveBookmarks(userID uint, flashcardIDs []uint) error {
	return l.SaveIDs(BookmarksKey(userID), flashcardIDs)
}

func (l *Local) LoadBookmarks(userID uint) []uint {
	return l.LoadIDs(BookmarksKey(userID))
}

// SaveIDs stores an id list under key.
func (l *Local) SaveIDs(key string, ids []uint) error {
	if ids == nil {
		ids = []uint{}
	}
	return l.save(key, ids)
}

// LoadIDs reads an id list, empty when absent or malformed.
func (l *Local) LoadIDs(key string) []uint {
	var ids []uint
	if !l.load(key, &ids) || ids == nil {
		return []uint{}
	}
	return ids
}

func (l *Local) SaveRecentlyViewed(cards []entities.Flashcard) error {
	return l.save(KeyRecentlyViewed, cards)
}

func (l *Local) LoadRecentlyViewed() []entities.Flashcard {
	return l.loadCards(KeyRecentlyViewed)
}
