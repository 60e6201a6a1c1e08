package importers

import (
	"bytes"
	"embed"
	"fmt"

	"github.com/mrlokans/flashcards/internal/entities"
)

//go:embed decks/java_interview.json
var decks embed.FS

const defaultDeckPath = "decks/java_interview.json"

// DefaultDeck returns the built-in Java interview deck.
func DefaultDeck() ([]entities.Flashcard, error) {
	data, err := decks.ReadFile(defaultDeckPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded deck: %w", err)
	}
	raw, err := JSONParser{}.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	cards, problems := Normalize(raw)
	if len(problems) > 0 {
		return nil, fmt.Errorf("embedded deck is invalid: %s", problems[0])
	}
	return cards, nil
}

// SeedDeck loads the deck at path, or the built-in deck when path is empty.
func SeedDeck(path string) ([]entities.Flashcard, error) {
	if path == "" {
		return DefaultDeck()
	}
	cards, problems, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 && len(problems) > 0 {
		return nil, fmt.Errorf("no valid cards in %s: %s", path, problems[0])
	}
	return cards, nil
}
