package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/xeroq/api/internal/middleware"
	"github.com/xeroq/api/internal/model"
	"github.com/xeroq/api/internal/queue"
	"github.com/xeroq/api/internal/service"
	"github.com/xeroq/api/internal/store"
	"github.com/xeroq/api/pkg/response"
)

type JobHandler struct {
	service   *service.QueueService
	validator *validator.Validate
}

func NewJobHandler(svc *service.QueueService, v *validator.Validate) *JobHandler {
	return &JobHandler{
		service:   svc,
		validator: v,
	}
}

// Submit handles POST /api/jobs
func (h *JobHandler) Submit(c *fiber.Ctx) error {
	var req model.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	job, err := h.service.Submit(c.Context(), middleware.GetUserID(c), middleware.GetUserName(c), &req)
	if err != nil {
		return writeServiceError(c, err)
	}

	return response.Created(c, job)
}

// Mine handles GET /api/jobs/mine
func (h *JobHandler) Mine(c *fiber.Ctx) error {
	jobs, err := h.service.JobsFor(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return writeServiceError(c, err)
	}

	return response.OK(c, model.QueueResponse{Jobs: jobs, Count: len(jobs)})
}

// Get handles GET /api/jobs/:jobId
func (h *JobHandler) Get(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	if jobID == "" {
		return response.ValidationError(c, "Job ID is required", nil)
	}

	job, err := h.service.Get(c.Context(), jobID)
	if err != nil {
		return writeServiceError(c, err)
	}

	// Submitters only see their own jobs; operators see everything.
	if middleware.GetUserRole(c) != "operator" && job.SubmitterID != middleware.GetUserID(c) {
		return response.Forbidden(c, "Not your job")
	}

	return response.OK(c, job)
}

// Advance handles POST /api/jobs/:jobId/advance (operator only)
func (h *JobHandler) Advance(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	if jobID == "" {
		return response.ValidationError(c, "Job ID is required", nil)
	}

	var req model.AdvanceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	job, err := h.service.Advance(c.Context(), jobID, req.TargetStatus)
	if err != nil {
		return writeServiceError(c, err)
	}

	return response.OK(c, job)
}

// Comment handles POST /api/jobs/:jobId/comments (operator only)
func (h *JobHandler) Comment(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	if jobID == "" {
		return response.ValidationError(c, "Job ID is required", nil)
	}

	var req model.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	job, err := h.service.Comment(c.Context(), jobID, req.Message, req.RequiresAction)
	if err != nil {
		return writeServiceError(c, err)
	}

	return response.OK(c, job)
}

// Acknowledge handles POST /api/jobs/:jobId/acknowledge
func (h *JobHandler) Acknowledge(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	if jobID == "" {
		return response.ValidationError(c, "Job ID is required", nil)
	}

	job, err := h.service.Acknowledge(c.Context(), jobID, middleware.GetUserID(c))
	if err != nil {
		return writeServiceError(c, err)
	}

	return response.OK(c, job)
}

// Quote handles GET /api/jobs/:jobId/quote
func (h *JobHandler) Quote(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	if jobID == "" {
		return response.ValidationError(c, "Job ID is required", nil)
	}

	q, err := h.service.Quote(c.Context(), jobID)
	if err != nil {
		return writeServiceError(c, err)
	}

	return response.OK(c, model.QuoteResponse{
		BaseAmount:  q.BaseAmount,
		Surcharge:   q.Surcharge,
		TotalAmount: q.TotalAmount,
		Breakdown:   q.Breakdown,
	})
}

// Pay handles POST /api/jobs/:jobId/pay
func (h *JobHandler) Pay(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	if jobID == "" {
		return response.ValidationError(c, "Job ID is required", nil)
	}

	var req model.PayRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	job, err := h.service.MarkPaid(c.Context(), jobID, req.Amount, req.Reference)
	if err != nil {
		return writeServiceError(c, err)
	}

	return response.OK(c, job)
}

// Collect handles POST /api/jobs/:jobId/collect (operator only)
func (h *JobHandler) Collect(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	if jobID == "" {
		return response.ValidationError(c, "Job ID is required", nil)
	}

	job, err := h.service.ConfirmPickup(c.Context(), jobID)
	if err != nil {
		return writeServiceError(c, err)
	}

	return response.OK(c, job)
}

// writeServiceError maps typed queue errors onto the API error envelope.
func writeServiceError(c *fiber.Ctx, err error) error {
	var (
		invalidInput *queue.InvalidInputError
		invalidTrans *queue.InvalidTransitionError
		notReady     *queue.NotReadyError
		persistence  *store.PersistenceError
	)

	switch {
	case errors.As(err, &invalidInput):
		return response.ValidationError(c, invalidInput.Error(), map[string]string{invalidInput.Field: invalidInput.Reason})
	case errors.As(err, &invalidTrans):
		return response.Conflict(c, response.CodeInvalidTransition, invalidTrans.Error())
	case errors.As(err, &notReady):
		return response.Conflict(c, response.CodeNotReady, notReady.Error())
	case errors.Is(err, queue.ErrMalformedCode):
		return response.Error(c, fiber.StatusBadRequest, response.CodeMalformedCode, err.Error(), nil)
	case errors.Is(err, queue.ErrCodeNotFound):
		return response.NotFound(c, "No job matches that pickup code")
	case errors.Is(err, queue.ErrAlreadyCollected):
		return response.Conflict(c, response.CodeAlreadyCollected, err.Error())
	case errors.Is(err, queue.ErrAlreadyPaid):
		return response.Conflict(c, response.CodeAlreadyPaid, err.Error())
	case errors.Is(err, service.ErrNotOwner):
		return response.Forbidden(c, "Not your job")
	case errors.Is(err, store.ErrNotFound):
		return response.NotFound(c, "Job not found")
	case errors.As(err, &persistence):
		return response.Error(c, fiber.StatusInternalServerError, response.CodeStoreError, "Storage unavailable", nil)
	default:
		return response.ServiceError(c, err.Error())
	}
}
