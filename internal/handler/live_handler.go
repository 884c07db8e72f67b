package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"campus-lostfound/internal/domain"
	"campus-lostfound/internal/middleware"
	"campus-lostfound/internal/realtime"
	"campus-lostfound/internal/service"
)

const heartbeatInterval = 25 * time.Second

// LiveHandler serves live queries over server-sent events. Each stream
// sends the full result once and again after every matching change.
type LiveHandler struct {
	services *service.Services
	events   realtime.Subscriber
}

func NewLiveHandler(services *service.Services, events realtime.Subscriber) *LiveHandler {
	return &LiveHandler{services: services, events: events}
}

type livePayload[T any] struct {
	Data  T      `json:"data"`
	Error string `json:"error,omitempty"`
}

func writeEvent(w *bufio.Writer, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return w.Flush()
}

func sseHeaders(c *fiber.Ctx) {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")
}

// streamQuery runs a live query for the lifetime of the connection. The
// request context is gone once the handler returns, so fetch must not
// capture c.
func streamQuery[T any](c *fiber.Ctx, events realtime.Subscriber, fetch realtime.Fetcher[T], subs ...domain.Subscription) error {
	sseHeaders(c)

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		snapshots := make(chan realtime.Snapshot[T], 1)
		query := realtime.NewQuery(fetch)
		go func() {
			defer close(snapshots)
			_ = query.Watch(ctx, events, func(s realtime.Snapshot[T]) error {
				select {
				case snapshots <- s:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			}, subs...)
		}()

		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()

		for {
			select {
			case s, ok := <-snapshots:
				if !ok {
					return
				}
				payload := livePayload[T]{Data: s.Data}
				if s.Err != nil {
					payload.Error = s.Err.Error()
				}
				if err := writeEvent(w, "snapshot", payload); err != nil {
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}

// itemStatuses matches every item row change that carries a status, so a
// listing sees items entering and leaving it. Comment and message writes
// carry no status and are skipped.
func itemStatuses() domain.ChangeFilter {
	return domain.ChangeFilter{
		Column: "status",
		Values: []string{
			string(domain.ItemStatusLost),
			string(domain.ItemStatusFound),
			string(domain.ItemStatusClaimed),
			string(domain.ItemStatusReturned),
		},
	}
}

func rowFilter(id uuid.UUID) domain.ChangeFilter {
	return domain.ChangeFilter{Column: "id", Values: []string{id.String()}}
}

// Items streams a listing page. Values read from the request are copied
// because fiber reuses its buffers once the handler returns.
func (h *LiveHandler) Items(c *fiber.Ctx) error {
	status, err := domain.ParseItemStatus(utils.CopyString(c.Params("status")))
	if err != nil {
		return middleware.BadRequest("Invalid status")
	}
	categories, err := parseCategories(utils.CopyString(c.Query("category")))
	if err != nil {
		return err
	}
	q := domain.ItemQuery{
		Statuses:   status.ListingStatuses(),
		Search:     utils.CopyString(c.Query("q")),
		Categories: categories,
		Viewer:     middleware.GetCurrentUserID(c),
	}
	params := getPaginationParams(c)

	itemService := h.services.Item
	return streamQuery(c, h.events, func(ctx context.Context) (domain.PaginatedResponse[domain.Item], error) {
		return itemService.List(ctx, q, params)
	}, domain.Subscription{Table: domain.TableItems, Filter: itemStatuses()})
}

func (h *LiveHandler) Comments(c *fiber.Ctx) error {
	itemID, err := parseUUIDParam(c, "itemId", "item")
	if err != nil {
		return err
	}
	viewerID := middleware.GetCurrentUserID(c)

	// Fail before switching to a stream when the item cannot be seen.
	if _, err := h.services.Comment.List(c.Context(), viewerID, itemID); err != nil {
		return err
	}

	commentService := h.services.Comment
	return streamQuery(c, h.events, func(ctx context.Context) ([]domain.Comment, error) {
		return commentService.List(ctx, viewerID, itemID)
	}, domain.Subscription{Table: domain.TableItems, Filter: rowFilter(itemID)})
}

func (h *LiveHandler) Messages(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	itemID, err := parseUUIDParam(c, "itemId", "item")
	if err != nil {
		return err
	}

	if _, err := h.services.Item.Get(c.Context(), userID, itemID); err != nil {
		return err
	}

	messageService := h.services.Message
	return streamQuery(c, h.events, func(ctx context.Context) (*domain.Thread, error) {
		return messageService.Thread(ctx, userID, itemID)
	}, domain.Subscription{Table: domain.TableItems, Filter: rowFilter(itemID)})
}

func (h *LiveHandler) Conversations(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	me := []string{userID.String()}

	messageService := h.services.Message
	return streamQuery(c, h.events, func(ctx context.Context) ([]domain.ConversationSummary, error) {
		return messageService.Conversations(ctx, userID)
	},
		domain.Subscription{Table: domain.TableConversations, Filter: domain.ChangeFilter{Column: "participant_id", Values: me}},
		domain.Subscription{Table: domain.TableConversations, Filter: domain.ChangeFilter{Column: "owner_id", Values: me}},
		domain.Subscription{Table: domain.TableItems, Filter: domain.ChangeFilter{Column: "changed", Values: []string{"contact_details"}}},
	)
}

type notificationFeed struct {
	Notifications domain.PaginatedResponse[domain.Notification] `json:"notifications"`
	UnreadCount   int64                                         `json:"unread_count"`
}

func (h *LiveHandler) Notifications(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	params := getPaginationParams(c)

	notifService := h.services.Notification
	return streamQuery(c, h.events, func(ctx context.Context) (notificationFeed, error) {
		list, err := notifService.List(ctx, userID, false, params)
		if err != nil {
			return notificationFeed{}, err
		}
		count, err := notifService.GetUnreadCount(ctx, userID)
		if err != nil {
			return notificationFeed{}, err
		}
		return notificationFeed{Notifications: list, UnreadCount: count}, nil
	}, domain.Subscription{
		Table:  domain.TableNotifications,
		Filter: domain.ChangeFilter{Column: "receiver_id", Values: []string{userID.String()}},
	})
}

// Changes streams raw change events for one table, optionally filtered
// with "column=eq.value" or "column=in.(a,b)".
func (h *LiveHandler) Changes(c *fiber.Ctx) error {
	table := utils.CopyString(c.Query("table"))
	switch table {
	case domain.TableItems, domain.TableClaims, domain.TableConversations:
	case domain.TableNotifications:
		// Other users' notifications are never streamed.
		userID, err := middleware.GetUserID(c)
		if err != nil {
			return err
		}
		return h.streamChanges(c, domain.Subscription{
			Table:  table,
			Filter: domain.ChangeFilter{Column: "receiver_id", Values: []string{userID.String()}},
		})
	default:
		return middleware.BadRequest("Unknown table")
	}

	filter, err := domain.ParseChangeFilter(utils.CopyString(c.Query("filter")))
	if err != nil {
		return middleware.BadRequest(err.Error())
	}
	return h.streamChanges(c, domain.Subscription{Table: table, Filter: filter})
}

func (h *LiveHandler) streamChanges(c *fiber.Ctx, sub domain.Subscription) error {
	sseHeaders(c)

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		events, cancel := h.events.Subscribe(16, sub)
		defer cancel()

		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()

		for {
			select {
			case ev := <-events:
				if err := writeEvent(w, "change", ev); err != nil {
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}
