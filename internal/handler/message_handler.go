package handler

import (
	"github.com/gofiber/fiber/v2"

	"campus-lostfound/internal/domain"
	"campus-lostfound/internal/middleware"
	"campus-lostfound/internal/service/message"
)

type MessageHandler struct {
	messageService message.Service
}

func NewMessageHandler(messageService message.Service) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

func (h *MessageHandler) Thread(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	itemID, err := parseUUIDParam(c, "itemId", "item")
	if err != nil {
		return err
	}

	thread, err := h.messageService.Thread(c.Context(), userID, itemID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(thread)
}

func (h *MessageHandler) Send(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	itemID, err := parseUUIDParam(c, "itemId", "item")
	if err != nil {
		return err
	}

	var input domain.SendMessageInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	thread, err := h.messageService.Send(c.Context(), userID, itemID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(thread)
}

func (h *MessageHandler) Edit(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	itemID, err := parseUUIDParam(c, "itemId", "item")
	if err != nil {
		return err
	}

	var input domain.SendMessageInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	thread, err := h.messageService.Edit(c.Context(), userID, itemID, c.Params("messageId"), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(thread)
}

func (h *MessageHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	itemID, err := parseUUIDParam(c, "itemId", "item")
	if err != nil {
		return err
	}

	thread, err := h.messageService.Delete(c.Context(), userID, itemID, c.Params("messageId"))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(thread)
}

func (h *MessageHandler) Conversations(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	summaries, err := h.messageService.Conversations(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(summaries)
}
