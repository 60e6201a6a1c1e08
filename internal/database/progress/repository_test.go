package progress

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/flashcards/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_progress_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Flashcard{}, &entities.UserProgress{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func createTestCard(t *testing.T, db *gorm.DB, isCustom bool) *entities.Flashcard {
	card := &entities.Flashcard{
		Question:   "Q",
		Answer:     "A",
		Category:   "Core Java",
		Difficulty: entities.DifficultyEasy,
		IsCustom:   isCustom,
	}
	require.NoError(t, db.Create(card).Error)
	return card
}

func TestRepository_UpsertUserProgress_InsertThenUpdate(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	card := createTestCard(t, db, false)

	row, err := repo.UpsertUserProgress(&entities.UserProgress{
		UserID:       1,
		FlashcardID:  card.ID,
		Status:       entities.StatusInProgress,
		LastReviewed: "2024-01-01T10:00:00Z",
	})
	require.NoError(t, err)
	assert.NotZero(t, row.ID)

	updated, err := repo.UpsertUserProgress(&entities.UserProgress{
		UserID:       1,
		FlashcardID:  card.ID,
		Status:       entities.StatusMastered,
		LastReviewed: "2024-01-02T10:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, row.ID, updated.ID)
	assert.Equal(t, entities.StatusMastered, updated.Status)

	rows, err := repo.GetUserProgress(1, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, entities.StatusMastered, rows[0].Status)
	assert.Equal(t, "2024-01-02T10:00:00Z", rows[0].LastReviewed)
}

func TestRepository_GetUserProgress_ByFlashcard(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	a := createTestCard(t, db, false)
	b := createTestCard(t, db, false)

	for _, id := range []uint{a.ID, b.ID} {
		_, err := repo.UpsertUserProgress(&entities.UserProgress{UserID: 1, FlashcardID: id, Status: entities.StatusToReview})
		require.NoError(t, err)
	}
	_, err := repo.UpsertUserProgress(&entities.UserProgress{UserID: 2, FlashcardID: a.ID, Status: entities.StatusMastered})
	require.NoError(t, err)

	rows, err := repo.GetUserProgress(1, &b.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, b.ID, rows[0].FlashcardID)

	rows, err = repo.GetUserProgress(3, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRepository_GetProgressStats(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	var cards []*entities.Flashcard
	for i := 0; i < 5; i++ {
		cards = append(cards, createTestCard(t, db, false))
	}
	createTestCard(t, db, true)

	statuses := []entities.ProgressStatus{
		entities.StatusMastered,
		entities.StatusMastered,
		entities.StatusInProgress,
		entities.StatusToReview,
	}
	for i, status := range statuses {
		_, err := repo.UpsertUserProgress(&entities.UserProgress{UserID: 1, FlashcardID: cards[i].ID, Status: status})
		require.NoError(t, err)
	}
	_, err := repo.UpsertUserProgress(&entities.UserProgress{UserID: 2, FlashcardID: cards[4].ID, Status: entities.StatusMastered})
	require.NoError(t, err)

	stats, err := repo.GetProgressStats(1)
	require.NoError(t, err)
	assert.Equal(t, entities.ProgressStats{Mastered: 2, InProgress: 1, ToReview: 1, Total: 5}, *stats)
}

func TestRepository_DeleteOrphans(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	keep := createTestCard(t, db, false)
	drop := createTestCard(t, db, true)

	for _, id := range []uint{keep.ID, drop.ID} {
		_, err := repo.UpsertUserProgress(&entities.UserProgress{UserID: 1, FlashcardID: id, Status: entities.StatusMastered})
		require.NoError(t, err)
	}
	require.NoError(t, db.Delete(&entities.Flashcard{}, drop.ID).Error)

	removed, err := repo.DeleteOrphans()
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	rows, err := repo.GetUserProgress(1, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, keep.ID, rows[0].FlashcardID)
}
