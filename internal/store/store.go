// Package store persists jobs and broadcasts change notifications to
// subscribed observers. Core queue computations never touch the
// subscription mechanism; they run over snapshots read from here.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/xeroq/api/internal/model"
)

// ErrNotFound is returned when no job has the requested ID.
var ErrNotFound = errors.New("job not found")

// PersistenceError wraps a failure of the underlying store. It is
// propagated to callers unmodified; the core performs no silent retries.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Store is the authoritative job set. Writes are atomic per job record;
// no cross-job transactions. Every successful write notifies subscribers,
// who re-derive their views from a fresh snapshot.
type Store interface {
	// Create assigns the job's ID and CreatedAt and persists it.
	Create(ctx context.Context, job *model.Job) error
	Get(ctx context.Context, id string) (*model.Job, error)
	Update(ctx context.Context, job *model.Job) error
	Delete(ctx context.Context, id string) error

	// List returns every known job, including collected ones, in
	// creation order.
	List(ctx context.Context) ([]model.Job, error)

	// Subscribe registers a change listener and returns its unsubscribe
	// function. Listeners receive no payload: they query a fresh snapshot.
	Subscribe(fn func()) (unsubscribe func())
}
