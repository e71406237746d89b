package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/xeroq/api/internal/model"
	"github.com/xeroq/api/internal/service"
	"github.com/xeroq/api/pkg/response"
)

type QueueHandler struct {
	service *service.QueueService
}

func NewQueueHandler(svc *service.QueueService) *QueueHandler {
	return &QueueHandler{service: svc}
}

// Active handles GET /api/queue/active
func (h *QueueHandler) Active(c *fiber.Ctx) error {
	jobs, err := h.service.ActiveQueue(c.Context())
	if err != nil {
		return writeServiceError(c, err)
	}

	return response.OK(c, model.QueueResponse{Jobs: jobs, Count: len(jobs)})
}

// Ready handles GET /api/queue/ready
func (h *QueueHandler) Ready(c *fiber.Ctx) error {
	jobs, err := h.service.ReadyQueue(c.Context())
	if err != nil {
		return writeServiceError(c, err)
	}

	return response.OK(c, model.QueueResponse{Jobs: jobs, Count: len(jobs)})
}

// Slots handles GET /api/queue/slots
func (h *QueueHandler) Slots(c *fiber.Ctx) error {
	return response.OK(c, model.PickupSlots)
}
