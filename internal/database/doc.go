// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, driver selection, migrations, seeding
//	├── flashcards/      # Flashcard CRUD with conjunctive filters
//	├── progress/        # Per-user progress upsert and stats
//	├── bookmarks/       # Bookmark toggle and listing
//	└── users/           # User management
//
// # Using Sub-packages
//
//	db, err := database.NewSQLite("./flashcards.db")
//
//	cards, err := db.Flashcards.GetFlashcards(entities.FlashcardFilter{Limit: 6})
//	stats, err := db.Progress.GetProgressStats(userID)
//
// The Database type also exposes every operation directly so it can be
// handed to the HTTP layer as a single storage dependency.
//
// # Drivers
//
// SQLite is the default. Setting DATABASE_DRIVER=postgres together with
// DATABASE_URL switches to PostgreSQL.
package database
