package handler

import (
	"github.com/gofiber/fiber/v2"

	"campus-lostfound/internal/middleware"
	"campus-lostfound/internal/service/item"
)

type AuditHandler struct {
	itemService item.Service
}

func NewAuditHandler(itemService item.Service) *AuditHandler {
	return &AuditHandler{itemService: itemService}
}

// ItemActivity lists the trail of an item for its owner, newest first.
func (h *AuditHandler) ItemActivity(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	itemID, err := parseUUIDParam(c, "itemId", "item")
	if err != nil {
		return err
	}

	logs, err := h.itemService.Activity(c.Context(), userID, itemID, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(logs)
}
