// Package importers loads flashcard decks from files into storage.
//
// # Architecture
//
//	Deck file → Parser → RawCard → Normalize → entities.Flashcard → Store
//
// Each file format implements the Parser interface. The Pipeline validates
// rows (known category, known difficulty, non-empty question and answer),
// collects per-row errors instead of failing the whole import, and hands
// valid cards to the store as preloaded (non-custom, unowned) cards.
//
// # Formats
//
//   - JSONParser: array of {question, answer, category, difficulty}
//   - YAMLParser: same shape as JSON, or {cards: [...]}
//   - CSVParser: header row naming the columns, any order
//   - XLSXParser: first sheet (or a named one), header row like CSV
//
// The Java interview deck in decks/ is embedded in the binary and seeds an
// empty database on startup.
//
// # Example Usage
//
//	pipeline := importers.NewPipeline(db)
//	result, err := pipeline.ImportFile("deck.xlsx")
package importers
