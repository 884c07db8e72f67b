package handler

import (
	"github.com/gofiber/fiber/v2"

	"campus-lostfound/internal/domain"
	"campus-lostfound/internal/middleware"
	"campus-lostfound/internal/service/item"
)

type ItemHandler struct {
	itemService item.Service
}

func NewItemHandler(itemService item.Service) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// itemQuery builds the listing query from status, q and category. The
// status defaults to lost.
func itemQuery(c *fiber.Ctx) (domain.ItemQuery, error) {
	status := domain.ItemStatusLost
	if raw := c.Query("status"); raw != "" {
		parsed, err := domain.ParseItemStatus(raw)
		if err != nil {
			return domain.ItemQuery{}, middleware.BadRequest("Invalid status")
		}
		status = parsed
	}

	categories, err := parseCategories(c.Query("category"))
	if err != nil {
		return domain.ItemQuery{}, err
	}

	return domain.ItemQuery{
		Statuses:   status.ListingStatuses(),
		Search:     c.Query("q"),
		Categories: categories,
		Viewer:     middleware.GetCurrentUserID(c),
	}, nil
}

func (h *ItemHandler) List(c *fiber.Ctx) error {
	q, err := itemQuery(c)
	if err != nil {
		return err
	}

	result, err := h.itemService.List(c.Context(), q, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *ItemHandler) Similar(c *fiber.Ctx) error {
	status, err := domain.ParseItemStatus(c.Query("status", string(domain.ItemStatusLost)))
	if err != nil || !status.IsOpen() {
		return middleware.BadRequest("Status must be lost or found")
	}

	items, err := h.itemService.FindSimilar(c.Context(), status, c.Query("title"))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(items)
}

func (h *ItemHandler) Get(c *fiber.Ctx) error {
	itemID, err := parseUUIDParam(c, "itemId", "item")
	if err != nil {
		return err
	}

	detail, err := h.itemService.Get(c.Context(), middleware.GetCurrentUserID(c), itemID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(detail)
}

func (h *ItemHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var input domain.CreateItemInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	created, err := h.itemService.Create(c.Context(), userID, input, middleware.RequestMeta(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *ItemHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	itemID, err := parseUUIDParam(c, "itemId", "item")
	if err != nil {
		return err
	}

	var input domain.UpdateItemInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	updated, err := h.itemService.Update(c.Context(), userID, itemID, input, middleware.RequestMeta(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	itemID, err := parseUUIDParam(c, "itemId", "item")
	if err != nil {
		return err
	}

	if err := h.itemService.Delete(c.Context(), userID, itemID, middleware.RequestMeta(c)); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *ItemHandler) SetVisibility(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	itemID, err := parseUUIDParam(c, "itemId", "item")
	if err != nil {
		return err
	}

	var input struct {
		IsVisible *bool `json:"is_visible"`
	}
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.IsVisible == nil {
		return middleware.BadRequest("is_visible is required")
	}

	updated, err := h.itemService.SetVisibility(c.Context(), userID, itemID, *input.IsVisible, middleware.RequestMeta(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}
