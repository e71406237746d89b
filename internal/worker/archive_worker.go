package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"github.com/xeroq/api/internal/model"
	"github.com/xeroq/api/internal/store"
)

// TaskTypeArchive is the asynq task type for the periodic archive sweep.
const TaskTypeArchive = "queue:archive"

// NewArchiveTask creates the periodic archive task.
func NewArchiveTask() *asynq.Task {
	return asynq.NewTask(TaskTypeArchive, nil)
}

// ArchiveWorker removes collected jobs once their retention window has
// passed, keeping the job set small enough that every pickup code stays
// available for reuse.
type ArchiveWorker struct {
	store     store.Store
	retention time.Duration
}

func NewArchiveWorker(st store.Store, retention time.Duration) *ArchiveWorker {
	return &ArchiveWorker{
		store:     st,
		retention: retention,
	}
}

// ProcessTask handles one archive sweep
func (w *ArchiveWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	jobs, err := w.store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list jobs for archiving: %w", err)
	}

	cutoff := time.Now().Add(-w.retention)
	removed := 0
	for i := range jobs {
		if jobs[i].Status != model.StatusCollected {
			continue
		}
		if jobs[i].CreatedAt.After(cutoff) {
			continue
		}
		if err := w.store.Delete(ctx, jobs[i].ID); err != nil {
			log.Printf("Failed to archive job %s: %v", jobs[i].ID, err)
			continue
		}
		removed++
	}

	if removed > 0 {
		log.Printf("Archived %d collected jobs older than %s", removed, w.retention)
	}
	return nil
}
