package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"campus-lostfound/internal/domain"
	"campus-lostfound/internal/middleware"
	"campus-lostfound/internal/realtime"
	"campus-lostfound/internal/service"
)

type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Item         *ItemHandler
	Claim        *ClaimHandler
	Comment      *CommentHandler
	Message      *MessageHandler
	Notification *NotificationHandler
	Media        *MediaHandler
	Dashboard    *DashboardHandler
	Audit        *AuditHandler
	Live         *LiveHandler
}

func NewHandlers(services *service.Services, events realtime.Subscriber) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth),
		User:         NewUserHandler(services.User),
		Item:         NewItemHandler(services.Item),
		Claim:        NewClaimHandler(services.Claim),
		Comment:      NewCommentHandler(services.Comment),
		Message:      NewMessageHandler(services.Message),
		Notification: NewNotificationHandler(services.Notification),
		Media:        NewMediaHandler(services.Media),
		Dashboard:    NewDashboardHandler(services.Item),
		Audit:        NewAuditHandler(services.Item),
		Live:         NewLiveHandler(services, events),
	}
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()

	if page := c.QueryInt("page", 1); page > 0 {
		params.Page = page
	}
	if pageSize := c.QueryInt("page_size", domain.DefaultPageSize); pageSize > 0 {
		params.PageSize = pageSize
	}

	params.Validate()
	return params
}

func parseUUIDParam(c *fiber.Ctx, name, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, middleware.BadRequest("Invalid " + label + " ID")
	}
	return id, nil
}

// parseCategories reads a comma separated category list. Unknown names are
// a client error rather than being silently dropped.
func parseCategories(raw string) ([]domain.ItemCategory, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var out []domain.ItemCategory
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		category, err := domain.ParseItemCategory(part)
		if err != nil {
			return nil, middleware.BadRequest("Invalid category: " + strings.TrimSpace(part))
		}
		out = append(out, category)
	}
	return out, nil
}
