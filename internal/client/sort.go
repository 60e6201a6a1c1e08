package client

import (
	"sort"

	"github.com/mrlokans/flashcards/internal/entities"
)

const (
	SortEasyToHard = "easy-to-hard"
	SortHardToEasy = "hard-to-easy"
	SortProgress   = "progress"
)

// SortFlashcards returns a sorted copy of cards. Unknown sort keys keep the
// input order. The progress sort puts cards not in mastered first.
func SortFlashcards(cards []entities.Flashcard, sortBy string, mastered map[uint]bool) []entities.Flashcard {
	sorted := make([]entities.Flashcard, len(cards))
	copy(sorted, cards)

	switch sortBy {
	case SortEasyToHard:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Difficulty.Rank() < sorted[j].Difficulty.Rank()
		})
	case SortHardToEasy:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Difficulty.Rank() > sorted[j].Difficulty.Rank()
		})
	case SortProgress:
		sort.SliceStable(sorted, func(i, j int) bool {
			return !mastered[sorted[i].ID] && mastered[sorted[j].ID]
		})
	}
	return sorted
}
