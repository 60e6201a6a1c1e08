package importers

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrlokans/flashcards/internal/entities"
)

// Store persists imported cards.
type Store interface {
	ImportFlashcards(cards []entities.Flashcard) (int, error)
}

// ImportResult summarizes an import run.
type ImportResult struct {
	Imported int
	Skipped  int
	Errors   []string
}

// Normalize validates raw rows and converts the valid ones. Row numbers in
// the returned messages are 1-based positions in raw.
func Normalize(raw []RawCard) ([]entities.Flashcard, []string) {
	cards := make([]entities.Flashcard, 0, len(raw))
	var problems []string

	for i, r := range raw {
		card, err := normalizeCard(r)
		if err != nil {
			problems = append(problems, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		cards = append(cards, card)
	}
	return cards, problems
}

func normalizeCard(r RawCard) (entities.Flashcard, error) {
	question := strings.TrimSpace(r.Question)
	if question == "" {
		return entities.Flashcard{}, fmt.Errorf("question is empty")
	}
	if strings.TrimSpace(r.Answer) == "" {
		return entities.Flashcard{}, fmt.Errorf("answer is empty")
	}

	category, ok := matchCategory(r.Category)
	if !ok {
		return entities.Flashcard{}, fmt.Errorf("unknown category %q", r.Category)
	}

	difficulty := entities.Difficulty(strings.ToLower(strings.TrimSpace(r.Difficulty)))
	if difficulty.Rank() == 0 {
		return entities.Flashcard{}, fmt.Errorf("unknown difficulty %q", r.Difficulty)
	}

	return entities.Flashcard{
		Question:   question,
		Answer:     r.Answer,
		Category:   category,
		Difficulty: difficulty,
	}, nil
}

func matchCategory(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, category := range entities.Categories {
		if strings.EqualFold(category, name) {
			return category, true
		}
	}
	return "", false
}

// Pipeline parses, validates and stores decks.
type Pipeline struct {
	store Store
}

func NewPipeline(store Store) *Pipeline {
	return &Pipeline{store: store}
}

// Import reads one deck with the given parser. Invalid rows are reported in
// the result and skipped; only a parse or storage failure is an error.
func (p *Pipeline) Import(parser Parser, r io.Reader) (ImportResult, error) {
	raw, err := parser.Parse(r)
	if err != nil {
		return ImportResult{}, err
	}

	cards, problems := Normalize(raw)
	result := ImportResult{Skipped: len(problems), Errors: problems}
	if len(cards) == 0 {
		return result, nil
	}

	imported, err := p.store.ImportFlashcards(cards)
	if err != nil {
		return result, fmt.Errorf("failed to store flashcards: %w", err)
	}
	result.Imported = imported
	return result, nil
}

// ImportFile imports a deck file, choosing the parser from its extension.
func (p *Pipeline) ImportFile(path string) (ImportResult, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return ImportResult{}, err
	}
	parser, err := ParserFor(format)
	if err != nil {
		return ImportResult{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to open deck: %w", err)
	}
	defer f.Close()

	return p.Import(parser, f)
}

// LoadFile parses and validates a deck file without storing it.
func LoadFile(path string) ([]entities.Flashcard, []string, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, nil, err
	}
	parser, err := ParserFor(format)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open deck: %w", err)
	}
	defer f.Close()

	raw, err := parser.Parse(f)
	if err != nil {
		return nil, nil, err
	}
	cards, problems := Normalize(raw)
	return cards, problems, nil
}
