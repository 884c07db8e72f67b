package handler

import (
	"github.com/gofiber/fiber/v2"

	"campus-lostfound/internal/domain"
	"campus-lostfound/internal/middleware"
	"campus-lostfound/internal/service/comment"
)

type CommentHandler struct {
	commentService comment.Service
}

func NewCommentHandler(commentService comment.Service) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	itemID, err := parseUUIDParam(c, "itemId", "item")
	if err != nil {
		return err
	}

	var input domain.CreateCommentInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	comments, err := h.commentService.Create(c.Context(), userID, itemID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(comments)
}

func (h *CommentHandler) List(c *fiber.Ctx) error {
	itemID, err := parseUUIDParam(c, "itemId", "item")
	if err != nil {
		return err
	}

	comments, err := h.commentService.List(c.Context(), middleware.GetCurrentUserID(c), itemID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(comments)
}

func (h *CommentHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	itemID, err := parseUUIDParam(c, "itemId", "item")
	if err != nil {
		return err
	}

	var input domain.UpdateCommentInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	comments, err := h.commentService.Update(c.Context(), userID, itemID, c.Params("commentId"), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(comments)
}

func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	itemID, err := parseUUIDParam(c, "itemId", "item")
	if err != nil {
		return err
	}

	comments, err := h.commentService.Delete(c.Context(), userID, itemID, c.Params("commentId"))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(comments)
}
