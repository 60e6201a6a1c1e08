// Package bookmarks provides database operations for flashcard bookmarks.
//
// # Usage
//
//	repo := bookmarks.NewRepository(db)
//	nowBookmarked, err := repo.ToggleBookmark(userID, flashcardID)
package bookmarks

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/flashcards/internal/entities"
)

// Repository handles all bookmark database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new bookmarks repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetUserBookmarks returns the bookmarked flashcards of a user in bookmark order.
func (r *Repository) GetUserBookmarks(userID uint) ([]entities.Flashcard, error) {
	cards := []entities.Flashcard{}
	err := r.db.Model(&entities.Flashcard{}).
		Joins("JOIN user_bookmarks ON user_bookmarks.flashcard_id = flashcards.id").
		Where("user_bookmarks.user_id = ?", userID).
		Order("user_bookmarks.id ASC").
		Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}

// ToggleBookmark flips the bookmark state inside one transaction and reports
// whether the card is bookmarked afterwards. Calling it twice restores the
// original state.
func (r *Repository) ToggleBookmark(userID, flashcardID uint) (bool, error) {
	var bookmarked bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing entities.UserBookmark
		err := tx.Where("user_id = ? AND flashcard_id = ?", userID, flashcardID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			bookmarked = true
			return tx.Create(&entities.UserBookmark{UserID: userID, FlashcardID: flashcardID}).Error
		}
		if err != nil {
			return err
		}
		bookmarked = false
		return tx.Delete(&existing).Error
	})
	if err != nil {
		return false, err
	}
	return bookmarked, nil
}

// IsBookmarked reports whether the user has bookmarked the card.
func (r *Repository) IsBookmarked(userID, flashcardID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.UserBookmark{}).
		Where("user_id = ? AND flashcard_id = ?", userID, flashcardID).
		Count(&count).Error
	return count > 0, err
}

// DeleteOrphans removes bookmarks whose flashcard no longer exists.
func (r *Repository) DeleteOrphans() (int64, error) {
	result := r.db.Where("flashcard_id NOT IN (?)", r.db.Model(&entities.Flashcard{}).Select("id")).
		Delete(&entities.UserBookmark{})
	return result.RowsAffected, result.Error
}
