package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/xeroq/api/internal/model"
	"github.com/xeroq/api/internal/service"
	"github.com/xeroq/api/pkg/response"
)

type VerifyHandler struct {
	service *service.QueueService
}

func NewVerifyHandler(svc *service.QueueService) *VerifyHandler {
	return &VerifyHandler{service: svc}
}

// Verify handles GET /api/verify/:code (operator only). Read-only: a
// successful lookup does not change the job; collection is confirmed
// separately through the collect endpoint.
func (h *VerifyHandler) Verify(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return response.ValidationError(c, "Pickup code is required", nil)
	}

	job, err := h.service.Verify(c.Context(), code)
	if err != nil {
		return writeServiceError(c, err)
	}

	return response.OK(c, model.VerifyResponse{Job: job})
}
