package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/xeroq/api/internal/metrics"
	"github.com/xeroq/api/internal/model"
	"github.com/xeroq/api/internal/namecache"
	"github.com/xeroq/api/internal/queue"
	"github.com/xeroq/api/internal/store"
)

// ErrNotOwner is returned when a submitter acts on someone else's job.
var ErrNotOwner = errors.New("job belongs to a different submitter")

// QueueService implements the queue operations over an observable store.
// All derived values (snapshots, order, positions) are recomputed from a
// fresh read on every call, never cached across requests.
type QueueService struct {
	store   store.Store
	speeds  queue.Speeds
	pricing queue.Pricing
	names   *namecache.Cache
}

func NewQueueService(st store.Store, speeds queue.Speeds, pricing queue.Pricing, names *namecache.Cache) *QueueService {
	return &QueueService{
		store:   st,
		speeds:  speeds,
		pricing: pricing,
		names:   names,
	}
}

// Submit validates a submission, picks a printer, computes tier and wait,
// generates a pickup code and persists the job. The snapshot read and the
// decisions taken on it are best-effort with respect to concurrent
// submissions: a rare race yields suboptimal balance, never corruption.
func (s *QueueService) Submit(ctx context.Context, submitterID, submitterLabel string, req *model.SubmitRequest) (*model.Job, error) {
	pageCount := req.PageCount
	if pageCount == 0 {
		pageCount = queue.EstimatePageCount(req.DocumentSizeBytes)
	}
	if err := validateSubmission(req, pageCount); err != nil {
		return nil, err
	}

	if submitterLabel == "" {
		if cached, ok := s.names.Get(submitterID); ok {
			submitterLabel = cached
		} else {
			submitterLabel = submitterID
		}
	}
	s.names.Put(submitterID, submitterLabel)

	jobs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read job set: %w", err)
	}

	existing := make(map[string]struct{}, len(jobs))
	for i := range jobs {
		if jobs[i].Status != model.StatusCollected {
			existing[jobs[i].Code] = struct{}{}
		}
	}
	cr := queue.GenerateCode(existing)
	if cr.Fallback {
		log.Printf("pickup code space under pressure: fell back to timestamp-derived code after %d attempts", cr.Attempts)
		metrics.CodeFallbacksTotal.Inc()
	}

	snap := queue.TakeSnapshot(jobs, s.speeds)
	resource := queue.Assign(snap)

	// Payment always completes after submission, so the stored tier is
	// computed unpaid. Paying later moves the job up through the live
	// sort key without rewriting the tier label.
	tier, wait := queue.Estimate(queue.EstimateInput{
		PageCount: pageCount,
		Urgent:    req.Urgency == model.UrgencyUrgent,
		Paid:      false,
	}, snap.For(resource))

	job := &model.Job{
		Code:                 cr.Code,
		SubmitterID:          submitterID,
		SubmitterLabel:       submitterLabel,
		DocumentName:         req.DocumentName,
		DocumentSizeBytes:    req.DocumentSizeBytes,
		PageCount:            pageCount,
		Copies:               req.Copies,
		ColorMode:            req.ColorMode,
		Urgency:              req.Urgency,
		PickupSlot:           req.PickupSlot,
		Note:                 req.Note,
		Status:               model.StatusWaiting,
		AssignedResource:     resource,
		PriorityTier:         tier,
		EstimatedWaitMinutes: wait,
	}

	if err := s.store.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to persist job: %w", err)
	}
	metrics.SubmissionsTotal.Inc()

	job.QueuePosition = queue.Position(append(jobs, *job), job.ID)
	return job, nil
}

func validateSubmission(req *model.SubmitRequest, pageCount int) error {
	if pageCount < 1 {
		return &queue.InvalidInputError{Field: "pageCount", Reason: "must be at least 1"}
	}
	if req.Copies < 1 || req.Copies > 50 {
		return &queue.InvalidInputError{Field: "copies", Reason: "must be between 1 and 50"}
	}
	if !model.ValidPickupSlot(req.PickupSlot) {
		return &queue.InvalidInputError{Field: "pickupSlot", Reason: "unknown pickup slot"}
	}
	if len(req.Note) > 500 {
		return &queue.InvalidInputError{Field: "note", Reason: "must be at most 500 characters"}
	}
	return nil
}

// Advance applies an operator-driven status change. The collected edge is
// rejected here; only ConfirmPickup reaches the terminal state.
func (s *QueueService) Advance(ctx context.Context, jobID string, target model.Status) (*model.Job, error) {
	job, err := s.store.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	advanced, err := queue.Advance(*job, target)
	if err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, &advanced); err != nil {
		return nil, fmt.Errorf("failed to persist status change: %w", err)
	}
	metrics.TransitionsTotal.WithLabelValues(string(target)).Inc()
	return &advanced, nil
}

// Comment appends an operator comment, optionally flagging the job for
// submitter attention. Comments are append-only and never edited.
func (s *QueueService) Comment(ctx context.Context, jobID, message string, requiresAction bool) (*model.Job, error) {
	if message == "" || len(message) > 500 {
		return nil, &queue.InvalidInputError{Field: "message", Reason: "must be 1-500 characters"}
	}

	job, err := s.store.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status.Terminal() {
		return nil, &queue.InvalidTransitionError{From: job.Status, To: job.Status}
	}

	job.OperatorComments = append(job.OperatorComments, model.OperatorComment{
		ID:             uuid.New().String(),
		Message:        message,
		RequiresAction: requiresAction,
		CreatedAt:      time.Now().UTC(),
	})
	if requiresAction {
		job.NeedsSubmitterAttention = true
	}

	if err := s.store.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to persist comment: %w", err)
	}
	return job, nil
}

// Acknowledge clears the attention flag. The comments themselves stay.
func (s *QueueService) Acknowledge(ctx context.Context, jobID, submitterID string) (*model.Job, error) {
	job, err := s.store.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.SubmitterID != submitterID {
		return nil, ErrNotOwner
	}

	if !job.NeedsSubmitterAttention {
		return job, nil
	}
	job.NeedsSubmitterAttention = false

	if err := s.store.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to persist acknowledgment: %w", err)
	}
	return job, nil
}

// Quote prices a job at the posted rates.
func (s *QueueService) Quote(ctx context.Context, jobID string) (*queue.Quote, error) {
	job, err := s.store.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	q := s.pricing.Price(job.PageCount, job.Copies, job.ColorMode, job.Urgency)
	return &q, nil
}

// MarkPaid records a completed payment exactly once. Amount, reference and
// timestamp travel together; paying a paid job is an error, not a charge.
func (s *QueueService) MarkPaid(ctx context.Context, jobID string, amount int, reference string) (*model.Job, error) {
	job, err := s.store.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status.Terminal() {
		return nil, &queue.InvalidTransitionError{From: job.Status, To: job.Status}
	}
	if job.Payment != nil {
		return nil, queue.ErrAlreadyPaid
	}

	q := s.pricing.Price(job.PageCount, job.Copies, job.ColorMode, job.Urgency)
	if amount != q.TotalAmount {
		return nil, &queue.InvalidInputError{
			Field:  "amount",
			Reason: fmt.Sprintf("expected ₹%d, got ₹%d", q.TotalAmount, amount),
		}
	}

	if reference == "" {
		reference = newPaymentReference()
	}
	job.Payment = &model.Payment{
		Amount:      amount,
		Reference:   reference,
		CompletedAt: time.Now().UTC(),
	}

	if err := s.store.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to persist payment: %w", err)
	}
	metrics.PaymentsTotal.Inc()
	return job, nil
}

func newPaymentReference() string {
	return "PAY-" + strings.ToUpper(uuid.New().String()[:8])
}

// Verify validates a presented pickup code against the full job set. It is
// read-only; ConfirmPickup performs the terminal transition separately.
func (s *QueueService) Verify(ctx context.Context, code string) (*model.Job, error) {
	jobs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read job set: %w", err)
	}

	job, err := queue.Verify(code, jobs)
	if err != nil {
		metrics.VerifyFailuresTotal.WithLabelValues(verifyFailureReason(err)).Inc()
		return nil, err
	}
	return job, nil
}

func verifyFailureReason(err error) string {
	var nr *queue.NotReadyError
	switch {
	case errors.Is(err, queue.ErrMalformedCode):
		return "malformed"
	case errors.Is(err, queue.ErrCodeNotFound):
		return "not_found"
	case errors.Is(err, queue.ErrAlreadyCollected):
		return "already_collected"
	case errors.As(err, &nr):
		return "not_ready"
	default:
		return "other"
	}
}

// ConfirmPickup commits the terminal transition after a verified pickup.
func (s *QueueService) ConfirmPickup(ctx context.Context, jobID string) (*model.Job, error) {
	job, err := s.store.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	collected, err := queue.Collect(*job)
	if err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, &collected); err != nil {
		return nil, fmt.Errorf("failed to persist pickup: %w", err)
	}
	metrics.TransitionsTotal.WithLabelValues(string(model.StatusCollected)).Inc()
	return &collected, nil
}

// ActiveQueue returns waiting and printing jobs in canonical order with
// positions filled in.
func (s *QueueService) ActiveQueue(ctx context.Context) ([]model.Job, error) {
	jobs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read job set: %w", err)
	}
	return queue.ActiveOrder(jobs), nil
}

// ReadyQueue returns printed jobs in canonical order for the pickup display.
func (s *QueueService) ReadyQueue(ctx context.Context) ([]model.Job, error) {
	jobs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read job set: %w", err)
	}
	return queue.ReadyOrder(jobs), nil
}

// JobsFor returns a submitter's jobs, newest first, with live positions on
// the active ones.
func (s *QueueService) JobsFor(ctx context.Context, submitterID string) ([]model.Job, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read job set: %w", err)
	}

	var out []model.Job
	for i := range all {
		if all[i].SubmitterID != submitterID {
			continue
		}
		j := all[i]
		j.QueuePosition = queue.Position(all, j.ID)
		out = append(out, j)
	}

	// Newest first for the submitter's history view.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// Get returns one job with its live queue position.
func (s *QueueService) Get(ctx context.Context, jobID string) (*model.Job, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read job set: %w", err)
	}
	for i := range all {
		if all[i].ID == jobID {
			j := all[i]
			j.QueuePosition = queue.Position(all, jobID)
			return &j, nil
		}
	}
	return nil, store.ErrNotFound
}
