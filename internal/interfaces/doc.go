// Package interfaces documents the core abstractions used throughout the application.
//
// This package consolidates interface documentation to help contributors find
// extension points and see how to implement new functionality.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - FlashcardStore: Flashcard CRUD and counting (internal/http/stores.go)
//   - ProgressStore: Per-user progress and stats (internal/http/stores.go)
//   - BookmarkStore: Per-user bookmarks (internal/http/stores.go)
//   - UserStore: Account persistence (internal/auth/service.go)
//   - Store: Bulk flashcard import (internal/importers/pipeline.go)
//
// ## Background Work Interfaces
//
//   - CleanupEnqueuer: Queue orphan cleanup after deletes (internal/http/stores.go)
//   - OrphanCleaner: Delete progress and bookmarks of removed cards (internal/tasks/cleanup_orphans.go)
//
// ## Client Interfaces
//
//   - API: Remote operations the data provider needs (internal/client/api.go)
//   - Notifier: User-facing toasts (internal/client/notify.go)
//   - Store: Key/value persistence for offline state (internal/localstore/store.go)
//   - Ticker: Timer source of a test session (internal/quiz/ticker.go)
//
// # Adding a New Deck Format
//
// To accept another deck file type:
//
//  1. Implement Parser in internal/importers/
//
//     type TOMLParser struct{}
//
//     func (TOMLParser) Parse(r io.Reader) ([]RawCard, error) {
//         // Decode into RawCard; validation happens in Normalize
//     }
//
//  2. Add the extension to FormatFromPath and the parser to ParserFor
//
//  3. Add a compile-time check to checks.go
//
// # Adding a New Client Backend
//
// The provider talks to the server through client.API only. A backend that
// reads from another source (a fixture file, a gRPC service) implements it:
//
//	type FileAPI struct { cards []entities.Flashcard }
//
//	func (a *FileAPI) ListFlashcards(ctx context.Context, p client.FlashcardParams) (client.Page, error)
//
//	var _ client.API = (*FileAPI)(nil)
//
// # Adding a New Database Domain
//
// To add a new data domain (e.g., study sessions):
//
//  1. Create sub-package: internal/database/sessions/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Wire it into database.Database and delegate the store methods
//
//  4. Add compile-time check:
//
//     var _ http.SessionStore = (*database.Database)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
