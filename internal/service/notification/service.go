package notification

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"campus-lostfound/internal/domain"
	"campus-lostfound/internal/pkg/i18n"
	"campus-lostfound/internal/realtime"
	"campus-lostfound/internal/repository"
	"campus-lostfound/internal/service/email"
)

type Service interface {
	Create(ctx context.Context, notif *domain.Notification) error
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	MarkAsRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)

	// Delivered announces a notification that was written as part of another
	// transaction.
	Delivered(ctx context.Context, notif *domain.Notification)
	NotifyNewClaim(owner, claimant *domain.User, item *domain.Item)
	NotifyClaimApproved(ctx context.Context, owner, claimant *domain.User, item *domain.Item)
	NotifyNewMessage(ctx context.Context, sender, owner *domain.User, thread *domain.Thread, text string) error
}

type service struct {
	notifRepo repository.NotificationRepository
	emailSvc  email.Service
	publisher realtime.Publisher
	redis     *redis.Client
	locale    string
	log       *zap.SugaredLogger
}

func NewService(
	notifRepo repository.NotificationRepository,
	emailSvc email.Service,
	publisher realtime.Publisher,
	redis *redis.Client,
	locale string,
	log *zap.SugaredLogger,
) Service {
	return &service{
		notifRepo: notifRepo,
		emailSvc:  emailSvc,
		publisher: publisher,
		redis:     redis,
		locale:    locale,
		log:       log,
	}
}

func unreadKey(userID uuid.UUID) string {
	return "notifications:unread:" + userID.String()
}

func (s *service) invalidate(ctx context.Context, userID uuid.UUID) {
	if s.redis != nil {
		s.redis.Del(ctx, unreadKey(userID))
	}
}

func (s *service) Create(ctx context.Context, notif *domain.Notification) error {
	if err := s.notifRepo.Create(ctx, notif); err != nil {
		return err
	}
	s.Delivered(ctx, notif)
	return nil
}

func (s *service) Delivered(ctx context.Context, notif *domain.Notification) {
	s.invalidate(ctx, notif.ReceiverID)
	s.publisher.Publish(ctx, domain.NotificationChange(domain.ChangeInsert, notif))
}

func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	notifications, total, err := s.notifRepo.ListByUser(ctx, userID, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}

	return domain.NewPaginatedResponse(notifications, params.Page, params.PageSize, total), nil
}

func (s *service) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	notif, err := s.notifRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	// Someone else's notification looks the same as a missing one.
	if notif.ReceiverID != userID {
		return domain.ErrNotificationNotFound
	}
	if notif.IsRead {
		return nil
	}

	if err := s.notifRepo.MarkAsRead(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	s.publisher.Publish(ctx, domain.NotificationChange(domain.ChangeUpdate, notif))
	return nil
}

func (s *service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.notifRepo.MarkAllAsRead(ctx, userID); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	s.publisher.Publish(ctx, domain.NotificationChange(domain.ChangeUpdate, &domain.Notification{ReceiverID: userID}))
	return nil
}

func (s *service) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	cacheKey := unreadKey(userID)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			if n, err := strconv.ParseInt(cached, 10, 64); err == nil {
				return n, nil
			}
		}
	}

	count, err := s.notifRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}

	if s.redis != nil {
		_ = s.redis.Set(ctx, cacheKey, count, 5*time.Minute).Err()
	}

	return count, nil
}

// NotifyNewClaim emails the owner in the background. The in-app row is
// written together with the claim.
func (s *service) NotifyNewClaim(owner, claimant *domain.User, item *domain.Item) {
	if s.emailSvc == nil || owner == nil || !owner.EmailNotifications || owner.Email == "" {
		return
	}
	go func(toEmail, recipientName, claimantEmail, itemTitle string, itemID uuid.UUID) {
		ctx := context.Background()
		if err := s.emailSvc.SendNewClaimEmail(ctx, toEmail, recipientName, claimantEmail, itemTitle, itemID); err != nil {
			s.log.Errorw("failed to send claim email", "item_id", itemID, "error", err)
		}
	}(owner.Email, owner.DisplayName(), claimant.Email, item.Title, item.ID)
}

func (s *service) NotifyClaimApproved(ctx context.Context, owner, claimant *domain.User, item *domain.Item) {
	if claimant == nil || !claimant.InAppNotifications {
		return
	}
	msg := i18n.Format(s.locale, "NOTIF_CLAIM_APPROVED", map[string]string{"item": item.Title})
	notif := domain.NewNotification(domain.NotifClaim, claimant.ID, owner.ID, item.ID, msg)
	if err := s.Create(ctx, notif); err != nil {
		s.log.Warnw("failed to notify claimant of approval", "item_id", item.ID, "claimant_id", claimant.ID, "error", err)
	}
}

// NotifyNewMessage tells the item owner about a message someone else sent.
// The in-app row honours the owner's preference; email goes out in the
// background when enabled.
func (s *service) NotifyNewMessage(ctx context.Context, sender, owner *domain.User, thread *domain.Thread, text string) error {
	if owner == nil || sender.ID == owner.ID {
		return nil
	}

	if owner.InAppNotifications {
		msg := i18n.Format(s.locale, "NOTIF_MESSAGE", map[string]string{"item": thread.ItemTitle})
		notif := domain.NewNotification(domain.NotifMessage, owner.ID, sender.ID, thread.ItemID, msg)
		if err := s.Create(ctx, notif); err != nil {
			return fmt.Errorf("creating message notification: %w", err)
		}
	}

	if s.emailSvc != nil && owner.EmailNotifications && owner.Email != "" {
		go func(toEmail, recipientName, senderName, itemTitle string, itemID uuid.UUID) {
			ctx := context.Background()
			if err := s.emailSvc.SendNewMessageEmail(ctx, toEmail, recipientName, senderName, itemTitle, text, itemID); err != nil {
				s.log.Errorw("failed to send message email", "item_id", itemID, "error", err)
			}
		}(owner.Email, owner.DisplayName(), sender.DisplayName(), thread.ItemTitle, thread.ItemID)
	}

	return nil
}
