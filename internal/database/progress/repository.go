// Package progress provides database operations for per-user study progress.
//
// # Usage
//
//	repo := progress.NewRepository(db)
//	row, err := repo.UpsertUserProgress(&entities.UserProgress{UserID: 1, FlashcardID: 7, Status: entities.StatusMastered})
package progress

import (
	"errors"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/mrlokans/flashcards/internal/entities"
)

// Repository handles all progress database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new progress repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetUserProgress lists a user's progress rows, optionally for a single flashcard.
func (r *Repository) GetUserProgress(userID uint, flashcardID *uint) ([]entities.UserProgress, error) {
	query := r.db.Where("user_id = ?", userID)
	if flashcardID != nil {
		query = query.Where("flashcard_id = ?", *flashcardID)
	}

	rows := []entities.UserProgress{}
	if err := query.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpsertUserProgress keeps a single row per (user, flashcard): the status and
// review time of an existing row are overwritten, otherwise a row is inserted.
func (r *Repository) UpsertUserProgress(p *entities.UserProgress) (*entities.UserProgress, error) {
	var row entities.UserProgress
	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND flashcard_id = ?", p.UserID, p.FlashcardID).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row = entities.UserProgress{
				UserID:       p.UserID,
				FlashcardID:  p.FlashcardID,
				Status:       p.Status,
				LastReviewed: p.LastReviewed,
			}
			return tx.Create(&row).Error
		}
		if err != nil {
			return err
		}

		row.Status = p.Status
		row.LastReviewed = p.LastReviewed
		return tx.Model(&row).Updates(map[string]interface{}{
			"status":        p.Status,
			"last_reviewed": p.LastReviewed,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// GetProgressStats runs the four counts concurrently and returns them uncombined.
func (r *Repository) GetProgressStats(userID uint) (*entities.ProgressStats, error) {
	var stats entities.ProgressStats
	var g errgroup.Group

	g.Go(func() error {
		return r.db.Model(&entities.Flashcard{}).Where("is_custom = ?", false).Count(&stats.Total).Error
	})
	g.Go(func() error {
		return r.countStatus(userID, entities.StatusMastered, &stats.Mastered)
	})
	g.Go(func() error {
		return r.countStatus(userID, entities.StatusInProgress, &stats.InProgress)
	})
	g.Go(func() error {
		return r.countStatus(userID, entities.StatusToReview, &stats.ToReview)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *Repository) countStatus(userID uint, status entities.ProgressStatus, out *int64) error {
	return r.db.Model(&entities.UserProgress{}).
		Where("user_id = ? AND status = ?", userID, status).
		Count(out).Error
}

// DeleteOrphans removes progress rows whose flashcard no longer exists.
func (r *Repository) DeleteOrphans() (int64, error) {
	result := r.db.Where("flashcard_id NOT IN (?)", r.db.Model(&entities.Flashcard{}).Select("id")).
		Delete(&entities.UserProgress{})
	return result.RowsAffected, result.Error
}
