package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// OrphanCleaner deletes progress and bookmark rows of deleted flashcards.
type OrphanCleaner interface {
	DeleteOrphanRecords() (int64, error)
}

// CleanupOrphansTask removes per-user rows whose flashcard is gone.
type CleanupOrphansTask struct {
	Reason string `json:"reason,omitempty"`
}

// Config returns the queue configuration for cleanup tasks.
func (t CleanupOrphansTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_orphan_records",
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupOrphansProcessor creates a processor function for CleanupOrphansTask.
func CleanupOrphansProcessor(cleaner OrphanCleaner) backlite.QueueProcessor[CleanupOrphansTask] {
	return func(ctx context.Context, task CleanupOrphansTask) error {
		if cleaner == nil {
			return fmt.Errorf("orphan cleaner not configured")
		}

		deleted, err := cleaner.DeleteOrphanRecords()
		if err != nil {
			return fmt.Errorf("cleanup orphan records: %w", err)
		}

		log.Printf("[TASK] Cleaned up %d orphan records (%s)", deleted, task.Reason)
		return nil
	}
}

// NewCleanupOrphansQueue creates a backlite queue for orphan cleanup tasks.
func NewCleanupOrphansQueue(cleaner OrphanCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupOrphansProcessor(cleaner))
}
