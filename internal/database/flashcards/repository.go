// Package flashcards provides database operations for flashcard management.
//
// This package implements the FlashcardStore interface defined in internal/http/flashcards.go.
//
// # Usage
//
//	repo := flashcards.NewRepository(db)
//	cards, err := repo.GetFlashcards(entities.FlashcardFilter{Category: "Core Java", Limit: 6})
package flashcards

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/flashcards/internal/entities"
)

// Repository handles all flashcard database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new flashcards repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func applyFilter(query *gorm.DB, filter entities.FlashcardFilter) *gorm.DB {
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.IsCustom != nil {
		query = query.Where("is_custom = ?", *filter.IsCustom)
	}
	if filter.NoOwner {
		query = query.Where("user_id IS NULL")
	} else if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	return query
}

// GetFlashcards returns the cards matching every set field of the filter, ordered by id.
func (r *Repository) GetFlashcards(filter entities.FlashcardFilter) ([]entities.Flashcard, error) {
	query := applyFilter(r.db.Model(&entities.Flashcard{}), filter).Order("id ASC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
		if filter.Offset > 0 {
			query = query.Offset(filter.Offset)
		}
	}

	cards := []entities.Flashcard{}
	if err := query.Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// CountFlashcards counts the cards matching the filter, ignoring pagination.
func (r *Repository) CountFlashcards(filter entities.FlashcardFilter) (int64, error) {
	var count int64
	err := applyFilter(r.db.Model(&entities.Flashcard{}), filter).Count(&count).Error
	return count, err
}

// GetFlashcard returns a single card or entities.ErrNotFound.
func (r *Repository) GetFlashcard(id uint) (*entities.Flashcard, error) {
	var card entities.Flashcard
	err := r.db.First(&card, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entities.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *Repository) CreateFlashcard(card *entities.Flashcard) error {
	card.ID = 0
	return r.db.Create(card).Error
}

// CreateFlashcards inserts cards in batches. Used by seeding and imports.
func (r *Repository) CreateFlashcards(cards []entities.Flashcard) error {
	if len(cards) == 0 {
		return nil
	}
	return r.db.CreateInBatches(cards, 100).Error
}

// UpdateFlashcard applies the non-nil fields of the patch and returns the
// updated card, or entities.ErrNotFound when the id does not exist.
func (r *Repository) UpdateFlashcard(id uint, patch entities.FlashcardPatch) (*entities.Flashcard, error) {
	var card entities.Flashcard
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&card, id).Error; err != nil {
			return err
		}
		updates := patch.Updates()
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&card).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update flashcard %d: %w", id, err)
		}
		return tx.First(&card, id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entities.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// DeleteFlashcard removes a card. It reports false when nothing was deleted.
func (r *Repository) DeleteFlashcard(id uint) (bool, error) {
	result := r.db.Delete(&entities.Flashcard{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CountPreloaded counts the non-custom cards.
func (r *Repository) CountPreloaded() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Flashcard{}).Where("is_custom = ?", false).Count(&count).Error
	return count, err
}
