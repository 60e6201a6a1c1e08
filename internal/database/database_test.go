package database

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/flashcards/internal/config"
	"github.com/mrlokans/flashcards/internal/entities"
)

func setupTestDB(t *testing.T) (*Database, func()) {
	dbPath := "./test_database_" + t.Name() + ".db"

	db, err := NewDatabase(config.Database{Driver: config.DriverSQLite, Path: dbPath, LogLevel: "silent"})
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func deck() []entities.Flashcard {
	owner := uint(5)
	return []entities.Flashcard{
		{Question: "a", Answer: "a", Category: "Core Java", Difficulty: entities.DifficultyEasy},
		{Question: "b", Answer: "b", Category: "Collections", Difficulty: entities.DifficultyHard, IsCustom: true, UserID: &owner},
	}
}

func TestNewDatabase_UnsupportedDriver(t *testing.T) {
	_, err := NewDatabase(config.Database{Driver: "oracle"})
	assert.Error(t, err)
}

func TestNewDatabase_PostgresRequiresDSN(t *testing.T) {
	_, err := NewDatabase(config.Database{Driver: config.DriverPostgres})
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestDatabase_SeedFlashcards_OnlyWhenEmpty(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	n, err := db.SeedFlashcards(deck())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	cards, err := db.GetFlashcards(entities.FlashcardFilter{})
	require.NoError(t, err)
	require.Len(t, cards, 2)
	for _, card := range cards {
		assert.False(t, card.IsCustom)
		assert.Nil(t, card.UserID)
	}

	n, err = db.SeedFlashcards(deck())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDatabase_CreateThenGetRoundTrip(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	owner := uint(1)
	card := entities.Flashcard{
		Question:   "What is a ConcurrentHashMap?",
		Answer:     "<p>A thread-safe map</p>",
		Category:   "Collections",
		Difficulty: entities.DifficultyMedium,
		IsCustom:   true,
		UserID:     &owner,
	}
	created := card
	require.NoError(t, db.CreateFlashcard(&created))

	got, err := db.GetFlashcard(created.ID)
	require.NoError(t, err)

	card.ID = created.ID
	assert.Equal(t, card, *got)
}

func TestDatabase_DeleteOrphanRecords(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := db.SeedFlashcards(deck())
	require.NoError(t, err)
	cards, err := db.GetFlashcards(entities.FlashcardFilter{})
	require.NoError(t, err)

	_, err = db.ToggleBookmark(1, cards[0].ID)
	require.NoError(t, err)
	_, err = db.UpsertUserProgress(&entities.UserProgress{UserID: 1, FlashcardID: cards[0].ID, Status: entities.StatusMastered})
	require.NoError(t, err)
	_, err = db.UpsertUserProgress(&entities.UserProgress{UserID: 1, FlashcardID: cards[1].ID, Status: entities.StatusToReview})
	require.NoError(t, err)

	deleted, err := db.DeleteFlashcard(cards[0].ID)
	require.NoError(t, err)
	require.True(t, deleted)

	removed, err := db.DeleteOrphanRecords()
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	stats, err := db.GetProgressStats(1)
	require.NoError(t, err)
	assert.Equal(t, entities.ProgressStats{ToReview: 1, Total: 1}, *stats)
}

func TestDatabase_Ping(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	assert.NoError(t, db.Ping())
}
