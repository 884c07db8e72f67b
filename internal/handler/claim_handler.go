package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"campus-lostfound/internal/domain"
	"campus-lostfound/internal/middleware"
	"campus-lostfound/internal/service/claim"
)

type ClaimHandler struct {
	claimService claim.Service
}

func NewClaimHandler(claimService claim.Service) *ClaimHandler {
	return &ClaimHandler{claimService: claimService}
}

func (h *ClaimHandler) Submit(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	itemID, err := parseUUIDParam(c, "itemId", "item")
	if err != nil {
		return err
	}

	var input domain.SubmitClaimInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	created, err := h.claimService.Submit(c.Context(), userID, itemID, input, middleware.RequestMeta(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *ClaimHandler) ListForItem(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	itemID, err := parseUUIDParam(c, "itemId", "item")
	if err != nil {
		return err
	}

	claims, err := h.claimService.ListForItem(c.Context(), userID, itemID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(claims)
}

func (h *ClaimHandler) ListMine(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	claims, err := h.claimService.ListMine(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(claims)
}

type claimDecision func(ctx *fiber.Ctx, ownerID, claimID uuid.UUID) (*domain.Claim, error)

func (h *ClaimHandler) decide(c *fiber.Ctx, decide claimDecision) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	claimID, err := parseUUIDParam(c, "claimId", "claim")
	if err != nil {
		return err
	}

	decided, err := decide(c, userID, claimID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(decided)
}

func (h *ClaimHandler) Approve(c *fiber.Ctx) error {
	return h.decide(c, func(c *fiber.Ctx, ownerID, claimID uuid.UUID) (*domain.Claim, error) {
		return h.claimService.Approve(c.Context(), ownerID, claimID, middleware.RequestMeta(c))
	})
}

func (h *ClaimHandler) Reject(c *fiber.Ctx) error {
	return h.decide(c, func(c *fiber.Ctx, ownerID, claimID uuid.UUID) (*domain.Claim, error) {
		return h.claimService.Reject(c.Context(), ownerID, claimID, middleware.RequestMeta(c))
	})
}

func (h *ClaimHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	claimID, err := parseUUIDParam(c, "claimId", "claim")
	if err != nil {
		return err
	}

	if err := h.claimService.Delete(c.Context(), userID, claimID, middleware.RequestMeta(c)); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}

type itemTransition func(ctx *fiber.Ctx, ownerID, itemID uuid.UUID) (*domain.Item, error)

func (h *ClaimHandler) transition(c *fiber.Ctx, apply itemTransition) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	itemID, err := parseUUIDParam(c, "itemId", "item")
	if err != nil {
		return err
	}

	updated, err := apply(c, userID, itemID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

func (h *ClaimHandler) RevertToLost(c *fiber.Ctx) error {
	return h.transition(c, func(c *fiber.Ctx, ownerID, itemID uuid.UUID) (*domain.Item, error) {
		return h.claimService.RevertToLost(c.Context(), ownerID, itemID, middleware.RequestMeta(c))
	})
}

func (h *ClaimHandler) MarkClaimed(c *fiber.Ctx) error {
	return h.transition(c, func(c *fiber.Ctx, ownerID, itemID uuid.UUID) (*domain.Item, error) {
		return h.claimService.MarkClaimed(c.Context(), ownerID, itemID, middleware.RequestMeta(c))
	})
}

func (h *ClaimHandler) MarkReturned(c *fiber.Ctx) error {
	return h.transition(c, func(c *fiber.Ctx, ownerID, itemID uuid.UUID) (*domain.Item, error) {
		return h.claimService.MarkReturned(c.Context(), ownerID, itemID, middleware.RequestMeta(c))
	})
}
