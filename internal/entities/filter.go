package entities

// FlashcardFilter narrows a flashcard listing. Set fields are ANDed together;
// zero values mean "no constraint". Offset only applies together with Limit.
type FlashcardFilter struct {
	Category   string
	Difficulty Difficulty
	IsCustom   *bool
	UserID     *uint
	// NoOwner selects cards with no owning user. It wins over UserID.
	NoOwner bool
	Limit   int
	Offset  int
}
