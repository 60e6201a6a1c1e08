package entities

import (
	"time"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Rank orders difficulties from easiest to hardest. Unknown values rank 0.
func (d Difficulty) Rank() int {
	switch d {
	case DifficultyEasy:
		return 1
	case DifficultyMedium:
		return 2
	case DifficultyHard:
		return 3
	}
	return 0
}

type ProgressStatus string

const (
	StatusMastered   ProgressStatus = "mastered"
	StatusInProgress ProgressStatus = "inProgress"
	StatusToReview   ProgressStatus = "toReview"
)

// Categories is the fixed, ordered list of flashcard categories.
var Categories = []string{
	"Core Java",
	"Multithreading",
	"JVM Internals",
	"Spring & Hibernate",
	"Data Structures",
	"System Design",
	"Design Patterns",
	"Collections",
}

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Password  string    `gorm:"not null" json:"-"` // bcrypt hash
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Flashcard struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Question   string     `gorm:"type:text;not null" json:"question"`
	Answer     string     `gorm:"type:text;not null" json:"answer"` // HTML
	Category   string     `gorm:"index;size:100;not null" json:"category"`
	Difficulty Difficulty `gorm:"index;size:20;not null" json:"difficulty"`
	IsCustom   bool       `gorm:"index;not null;default:false" json:"isCustom"`
	UserID     *uint      `gorm:"index" json:"userId"`
}

// FlashcardPatch carries the fields of a partial flashcard update. Nil fields are left untouched.
type FlashcardPatch struct {
	Question   *string     `json:"question,omitempty"`
	Answer     *string     `json:"answer,omitempty"`
	Category   *string     `json:"category,omitempty"`
	Difficulty *Difficulty `json:"difficulty,omitempty"`
	IsCustom   *bool       `json:"isCustom,omitempty"`
	UserID     *uint       `json:"userId,omitempty"`
}

// Updates returns the column map for a gorm Updates call.
func (p FlashcardPatch) Updates() map[string]interface{} {
	updates := map[string]interface{}{}
	if p.Question != nil {
		updates["question"] = *p.Question
	}
	if p.Answer != nil {
		updates["answer"] = *p.Answer
	}
	if p.Category != nil {
		updates["category"] = *p.Category
	}
	if p.Difficulty != nil {
		updates["difficulty"] = *p.Difficulty
	}
	if p.IsCustom != nil {
		updates["is_custom"] = *p.IsCustom
	}
	if p.UserID != nil {
		updates["user_id"] = *p.UserID
	}
	return updates
}

type UserProgress struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"uniqueIndex:idx_progress_user_card;not null" json:"userId"`
	FlashcardID  uint           `gorm:"uniqueIndex:idx_progress_user_card;not null" json:"flashcardId"`
	Status       ProgressStatus `gorm:"index;size:20;not null" json:"status"`
	LastReviewed string         `gorm:"size:40" json:"lastReviewed,omitempty"` // ISO-8601
}

func (UserProgress) TableName() string {
	return "user_progress"
}

type UserBookmark struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	UserID      uint `gorm:"uniqueIndex:idx_bookmark_user_card;not null" json:"userId"`
	FlashcardID uint `gorm:"uniqueIndex:idx_bookmark_user_card;not null" json:"flashcardId"`
}

// ProgressStats holds raw counts. Derived percentages are left to callers.
type ProgressStats struct {
	Mastered   int64 `json:"mastered"`
	InProgress int64 `json:"inProgress"`
	ToReview   int64 `json:"toReview"`
	Total      int64 `json:"total"`
}
