package queue

import (
	"errors"
	"fmt"

	"github.com/xeroq/api/internal/model"
)

// Verification errors (pickup path). All non-fatal; surfaced for display.
var (
	ErrMalformedCode    = errors.New("pickup code must be exactly 4 digits")
	ErrCodeNotFound     = errors.New("no job matches this pickup code")
	ErrAlreadyCollected = errors.New("job has already been collected")
	ErrAlreadyPaid      = errors.New("job is already paid")
)

// NotReadyError means the code matched a job that has not been printed yet.
// It carries the current status so callers can render a precise message.
type NotReadyError struct {
	Status model.Status
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("job is not ready for pickup (status: %s)", e.Status)
}

// InvalidTransitionError means a requested status change does not follow
// the forward sequence. The job is left unmodified.
type InvalidTransitionError struct {
	From model.Status
	To   model.Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.To)
}

// InvalidInputError means a submission attribute failed validation before
// any state mutation.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
