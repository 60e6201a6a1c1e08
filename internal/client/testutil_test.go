package client

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/flashcards/internal/auth"
	"github.com/mrlokans/flashcards/internal/config"
	"github.com/mrlokans/flashcards/internal/database"
	"github.com/mrlokans/flashcards/internal/entities"
	apihttp "github.com/mrlokans/flashcards/internal/http"
	"github.com/mrlokans/flashcards/internal/localstore"
)

var errUnavailable = errors.New("server unavailable")

// setupTestServer runs the real API in no-auth mode and returns a client for it.
func setupTestServer(t *testing.T) (*HTTPAPI, *database.Database) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_client_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewSQLite(dbPath)
	require.NoError(t, err)

	authCfg := config.Auth{Mode: config.AuthModeNone, BcryptCost: bcrypt.MinCost, DefaultUserID: 1}
	server := httptest.NewServer(apihttp.NewHandler(apihttp.RouterConfig{
		Database:      db,
		AuthService:   auth.NewService(db, authCfg),
		DefaultUserID: 1,
		Version:       "test",
	}))

	t.Cleanup(func() {
		server.Close()
		db.Close()
		os.Remove(dbPath)
	})
	return NewHTTPAPI(server.URL), db
}

func testCards() []entities.Flashcard {
	return []entities.Flashcard{
		{ID: 1, Question: "Q1", Answer: "A1", Category: "Core Java", Difficulty: entities.DifficultyHard},
		{ID: 2, Question: "Q2", Answer: "A2", Category: "Core Java", Difficulty: entities.DifficultyEasy},
		{ID: 3, Question: "Q3", Answer: "A3", Category: "Collections", Difficulty: entities.DifficultyMedium},
		{ID: 4, Question: "Q4", Answer: "A4", Category: "Collections", Difficulty: entities.DifficultyEasy},
	}
}

type toastRecorder struct {
	mu     sync.Mutex
	toasts []Toast
}

func (r *toastRecorder) Notify(t Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, t)
}

func (r *toastRecorder) all() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast(nil), r.toasts...)
}

type testProvider struct {
	*Provider
	api    *fakeAPI
	store  *localstore.MemoryStore
	local  *localstore.Local
	toasts *toastRecorder
	logs   *observer.ObservedLogs
}

func newTestProvider(t *testing.T, opts ...Option) *testProvider {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	api := newFakeAPI(testCards())
	store := localstore.NewMemoryStore()
	local := localstore.New(store, logger)
	toasts := &toastRecorder{}

	all := append([]Option{WithLogger(logger), WithNotifier(toasts)}, opts...)
	return &testProvider{
		Provider: New(api, local, all...),
		api:      api,
		store:    store,
		local:    local,
		toasts:   toasts,
		logs:     logs,
	}
}

// fakeAPI is an in-memory API. Hooks replace individual calls.
type fakeAPI struct {
	mu        sync.Mutex
	cards     []entities.Flashcard
	total     int
	bookmarks map[uint]bool
	progress  map[uint]entities.ProgressStatus
	calls     map[string]int
	nextID    uint

	listHook    func(ctx context.Context, params FlashcardParams) (Page, error)
	createErr   error
	deleteErr   error
	bookmarkErr error
	progressErr error
	statsErr    error
}

func newFakeAPI(cards []entities.Flashcard) *fakeAPI {
	return &fakeAPI{
		cards:     cards,
		total:     -1,
		bookmarks: map[uint]bool{},
		progress:  map[uint]entities.ProgressStatus{},
		calls:     map[string]int{},
		nextID:    100,
	}
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeAPI) ListCategories(ctx context.Context) ([]string, error) {
	f.record("ListCategories")
	return []string{"Core Java", "Collections"}, nil
}

func (f *fakeAPI) ListFlashcards(ctx context.Context, params FlashcardParams) (Page, error) {
	f.record("ListFlashcards")
	if f.listHook != nil {
		return f.listHook(ctx, params)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	var cards []entities.Flashcard
	for _, c := range f.cards {
		if params.Category != "" && c.Category != params.Category {
			continue
		}
		if params.Custom != nil && c.IsCustom != *params.Custom {
			continue
		}
		cards = append(cards, c)
	}
	total := f.total
	if params.Category != "" {
		total = len(cards)
	}
	if params.Limit > 0 && len(cards) > params.Limit {
		cards = cards[:params.Limit]
	}
	return Page{Cards: cards, Total: total}, nil
}

func (f *fakeAPI) CreateFlashcard(ctx context.Context, card NewFlashcard) (*entities.Flashcard, error) {
	f.record("CreateFlashcard")
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	created := entities.Flashcard{
		ID:         f.nextID,
		Question:   card.Question,
		Answer:     card.Answer,
		Category:   card.Category,
		Difficulty: card.Difficulty,
		IsCustom:   card.IsCustom,
		UserID:     card.UserID,
	}
	f.cards = append(f.cards, created)
	return &created, nil
}

func (f *fakeAPI) DeleteFlashcard(ctx context.Context, id uint) error {
	f.record("DeleteFlashcard")
	return f.deleteErr
}

func (f *fakeAPI) ToggleBookmark(ctx context.Context, userID, flashcardID uint) (bool, error) {
	f.record("ToggleBookmark")
	if f.bookmarkErr != nil {
		return false, f.bookmarkErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookmarks[flashcardID] = !f.bookmarks[flashcardID]
	return f.bookmarks[flashcardID], nil
}

func (f *fakeAPI) IsBookmarked(ctx context.Context, userID, flashcardID uint) (bool, error) {
	f.record("IsBookmarked")
	if f.bookmarkErr != nil {
		return false, f.bookmarkErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bookmarks[flashcardID], nil
}

func (f *fakeAPI) ListBookmarks(ctx context.Context, userID uint) ([]entities.Flashcard, error) {
	f.record("ListBookmarks")
	if f.bookmarkErr != nil {
		return nil, f.bookmarkErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entities.Flashcard
	for _, c := range f.cards {
		if f.bookmarks[c.ID] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeAPI) UpsertProgress(ctx context.Context, p entities.UserProgress) (*entities.UserProgress, error) {
	f.record("UpsertProgress")
	if f.progressErr != nil {
		return nil, f.progressErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.progress[p.FlashcardID] = p.Status
	return &p, nil
}

func (f *fakeAPI) ListProgress(ctx context.Context, userID uint) ([]entities.UserProgress, error) {
	f.record("ListProgress")
	if f.progressErr != nil {
		return nil, f.progressErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var rows []entities.UserProgress
	for id, status := range f.progress {
		rows = append(rows, entities.UserProgress{UserID: userID, FlashcardID: id, Status: status})
	}
	return rows, nil
}

func (f *fakeAPI) ProgressStats(ctx context.Context, userID uint) (*entities.ProgressStats, error) {
	f.record("ProgressStats")
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &entities.ProgressStats{Total: int64(len(f.cards))}
	for _, status := range f.progress {
		switch status {
		case entities.StatusMastered:
			stats.Mastered++
		case entities.StatusInProgress:
			stats.InProgress++
		case entities.StatusToReview:
			stats.ToReview++
		}
	}
	return stats, nil
}
