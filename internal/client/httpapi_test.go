package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mrlokans/flashcards/internal/database"
	"github.com/mrlokans/flashcards/internal/entities"
	"github.com/mrlokans/flashcards/internal/localstore"
)

func seedServer(t *testing.T, db *database.Database) {
	t.Helper()
	cards := testCards()
	for i := range cards {
		cards[i].ID = 0
	}
	n, err := db.ImportFlashcards(cards)
	require.NoError(t, err)
	require.Equal(t, 4, n)
}

func TestHTTPAPI_Flashcards(t *testing.T) {
	ctx := context.Background()
	api, db := setupTestServer(t)
	seedServer(t, db)

	t.Run("lists a page with total", func(t *testing.T) {
		page, err := api.ListFlashcards(ctx, FlashcardParams{Limit: 3})
		require.NoError(t, err)
		assert.Len(t, page.Cards, 3)
		assert.Equal(t, 4, page.Total)
	})

	t.Run("filters by category", func(t *testing.T) {
		page, err := api.ListFlashcards(ctx, FlashcardParams{Category: "Collections"})
		require.NoError(t, err)
		assert.Equal(t, 2, page.Total)
		for _, c := range page.Cards {
			assert.Equal(t, "Collections", c.Category)
		}
	})

	t.Run("categories", func(t *testing.T) {
		names, err := api.ListCategories(ctx)
		require.NoError(t, err)
		assert.Equal(t, entities.Categories, names)
	})

	t.Run("create and delete custom card", func(t *testing.T) {
		owner := DemoUserID
		created, err := api.CreateFlashcard(ctx, NewFlashcard{
			Question:   "What is a sealed class?",
			Answer:     "<p>A class with a closed set of subclasses</p>",
			Category:   "Core Java",
			Difficulty: entities.DifficultyMedium,
			IsCustom:   true,
			UserID:     &owner,
		})
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.True(t, created.IsCustom)

		custom := true
		page, err := api.ListFlashcards(ctx, FlashcardParams{Custom: &custom})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Total)

		require.NoError(t, api.DeleteFlashcard(ctx, created.ID))
		assert.True(t, IsNotFound(api.DeleteFlashcard(ctx, created.ID)))
	})

	t.Run("preloaded cards cannot be deleted", func(t *testing.T) {
		err := api.DeleteFlashcard(ctx, 1)
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	})

	t.Run("validation errors carry the server message", func(t *testing.T) {
		_, err := api.CreateFlashcard(ctx, NewFlashcard{Question: "Q", Answer: "A", Category: "Cooking", Difficulty: "easy"})
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		assert.Equal(t, "validation failed", apiErr.Message)
	})
}

func TestHTTPAPI_BookmarksAndProgress(t *testing.T) {
	ctx := context.Background()
	api, db := setupTestServer(t)
	seedServer(t, db)

	on, err := api.ToggleBookmark(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, on)

	on, err = api.IsBookmarked(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, on)

	bookmarks, err := api.ListBookmarks(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{2}, ids(bookmarks))

	saved, err := api.UpsertProgress(ctx, entities.UserProgress{UserID: 1, FlashcardID: 3, Status: entities.StatusMastered})
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.NotEmpty(t, saved.LastReviewed)

	rows, err := api.ListProgress(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	stats, err := api.ProgressStats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, entities.ProgressStats{Mastered: 1, Total: 4}, *stats)
}

func TestHTTPAPI_ErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	_, err := NewHTTPAPI(server.URL).ListCategories(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestHTTPAPI_TimeoutLeavesSharedClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`["Core Java"]`))
	}))
	defer server.Close()

	shared := &http.Client{Timeout: time.Minute}
	api := NewHTTPAPI(server.URL, WithHTTPClient(shared), WithTimeout(time.Second))

	assert.Equal(t, time.Minute, shared.Timeout)
	assert.Equal(t, time.Second, api.client.Timeout)

	names, err := api.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Core Java"}, names)

	api = NewHTTPAPI(server.URL, WithTimeout(time.Second), WithHTTPClient(shared))
	assert.Same(t, shared, api.client)
}

func TestProvider_AgainstServer(t *testing.T) {
	ctx := context.Background()
	api, db := setupTestServer(t)
	seedServer(t, db)

	p := New(api, localstore.New(localstore.NewMemoryStore(), zap.NewNop()))
	p.Init(ctx)

	assert.Len(t, p.Flashcards(), 4)
	assert.Equal(t, 17, p.TotalPages())

	assert.True(t, p.ToggleBookmark(ctx, 2))
	on, err := db.IsBookmarked(DemoUserID, 2)
	require.NoError(t, err)
	assert.True(t, on)

	assert.True(t, p.ToggleMastered(ctx, 3))
	assert.Equal(t, ProgressStats{Mastered: 1, Total: 4, Percentage: 25}, p.ProgressStats())

	created, err := p.CreateCustomFlashcard(ctx, NewFlashcard{
		Question:   "What does volatile guarantee?",
		Answer:     "Visibility",
		Category:   "Multithreading",
		Difficulty: entities.DifficultyHard,
	})
	require.NoError(t, err)
	custom := p.FetchCustomFlashcards(ctx, CustomQuery{})
	assert.Equal(t, []uint{created.ID}, ids(custom))

	counts := p.CategoryCounts(ctx)
	require.Len(t, counts, len(entities.Categories))
	assert.Equal(t, CategoryCount{Name: "Core Java", Count: 2}, counts[0])
	assert.Equal(t, CategoryCount{Name: "Multithreading", Count: 1}, counts[1])
}

func TestProvider_FetchFirstPageOfMatches(t *testing.T) {
	ctx := context.Background()
	api, db := setupTestServer(t)

	var cards []entities.Flashcard
	for i := 0; i < 12; i++ {
		cards = append(cards, entities.Flashcard{Question: "Q", Answer: "A", Category: "Core Java", Difficulty: entities.DifficultyEasy})
		cards = append(cards, entities.Flashcard{Question: "Q", Answer: "A", Category: "Core Java", Difficulty: entities.DifficultyHard})
	}
	_, err := db.ImportFlashcards(cards)
	require.NoError(t, err)

	query := FlashcardQuery{Category: "Core Java", Difficulty: "easy", Page: 1, Limit: 6}

	t.Run("pages come from the declared total of 100", func(t *testing.T) {
		p := New(api, localstore.New(localstore.NewMemoryStore(), zap.NewNop()), WithServerSync(false))
		got := p.FetchFlashcards(ctx, query)

		require.Len(t, got, 6)
		for _, c := range got {
			assert.Equal(t, entities.DifficultyEasy, c.Difficulty)
		}
		assert.Equal(t, 17, p.TotalPages())
	})

	t.Run("server totals use the reported match count", func(t *testing.T) {
		p := New(api, localstore.New(localstore.NewMemoryStore(), zap.NewNop()), WithServerSync(false), WithServerTotals(true))
		require.Len(t, p.FetchFlashcards(ctx, query), 6)
		assert.Equal(t, 2, p.TotalPages())
	})
}
