package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/mrlokans/flashcards/internal/entities"
)

// DemoUserID owns cards and progress when no login is involved.
const DemoUserID uint = 1

// FlashcardParams are the query parameters of GET /api/flashcards.
type FlashcardParams struct {
	Category   string
	Difficulty string
	Custom     *bool
	Limit      int
	Offset     int
}

// Values encodes the non-zero parameters. Offset is only sent with a limit.
func (p FlashcardParams) Values() url.Values {
	v := url.Values{}
	if p.Category != "" {
		v.Set("category", p.Category)
	}
	if p.Difficulty != "" {
		v.Set("difficulty", p.Difficulty)
	}
	if p.Custom != nil {
		v.Set("custom", strconv.FormatBool(*p.Custom))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
		v.Set("offset", strconv.Itoa(p.Offset))
	}
	return v
}

// Key identifies the query in the cache.
func (p FlashcardParams) Key() string {
	if q := p.Values().Encode(); q != "" {
		return flashcardsPath + "?" + q
	}
	return flashcardsPath
}

// Page is one list response. Total is the unpaginated match count, or -1
// when the server did not report it.
type Page struct {
	Cards []entities.Flashcard
	Total int
}

// NewFlashcard is the body of a create request.
type NewFlashcard struct {
	Question   string              `json:"question"`
	Answer     string              `json:"answer"`
	Category   string              `json:"category"`
	Difficulty entities.Difficulty `json:"difficulty"`
	IsCustom   bool                `json:"isCustom"`
	UserID     *uint               `json:"userId,omitempty"`
}

// API is the remote surface the provider depends on.
type API interface {
	ListCategories(ctx context.Context) ([]string, error)
	ListFlashcards(ctx context.Context, params FlashcardParams) (Page, error)
	CreateFlashcard(ctx context.Context, card NewFlashcard) (*entities.Flashcard, error)
	DeleteFlashcard(ctx context.Context, id uint) error

	ToggleBookmark(ctx context.Context, userID, flashcardID uint) (bool, error)
	IsBookmarked(ctx context.Context, userID, flashcardID uint) (bool, error)
	ListBookmarks(ctx context.Context, userID uint) ([]entities.Flashcard, error)

	UpsertProgress(ctx context.Context, progress entities.UserProgress) (*entities.UserProgress, error)
	ListProgress(ctx context.Context, userID uint) ([]entities.UserProgress, error)
	ProgressStats(ctx context.Context, userID uint) (*entities.ProgressStats, error)
}
