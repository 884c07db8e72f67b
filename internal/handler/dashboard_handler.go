package handler

import (
	"github.com/gofiber/fiber/v2"

	"campus-lostfound/internal/service/item"
)

type DashboardHandler struct {
	itemService item.Service
}

func NewDashboardHandler(itemService item.Service) *DashboardHandler {
	return &DashboardHandler{itemService: itemService}
}

func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.itemService.Stats(c.Context())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}
