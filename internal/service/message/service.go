package message

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"campus-lostfound/internal/domain"
	"campus-lostfound/internal/realtime"
	"campus-lostfound/internal/repository"
	"campus-lostfound/internal/service/notification"
)

type Service interface {
	// Thread returns the messages about an item as viewerID sees them. When
	// the owner reads the thread every message is marked read.
	Thread(ctx context.Context, viewerID, itemID uuid.UUID) (*domain.Thread, error)
	Send(ctx context.Context, senderID, itemID uuid.UUID, input domain.SendMessageInput) (*domain.Thread, error)
	Edit(ctx context.Context, userID, itemID uuid.UUID, messageID string, input domain.SendMessageInput) (*domain.Thread, error)
	Delete(ctx context.Context, userID, itemID uuid.UUID, messageID string) (*domain.Thread, error)
	Conversations(ctx context.Context, userID uuid.UUID) ([]domain.ConversationSummary, error)
	SetNotificationService(notifSvc notification.Service)
}

type service struct {
	messageRepo repository.MessageRepository
	convRepo    repository.ConversationRepository
	itemRepo    repository.ItemRepository
	userRepo    repository.UserRepository
	notifSvc    notification.Service
	publisher   realtime.Publisher
	log         *zap.SugaredLogger
	now         func() time.Time
}

func NewService(
	messageRepo repository.MessageRepository,
	convRepo repository.ConversationRepository,
	itemRepo repository.ItemRepository,
	userRepo repository.UserRepository,
	publisher realtime.Publisher,
	log *zap.SugaredLogger,
) Service {
	return &service{
		messageRepo: messageRepo,
		convRepo:    convRepo,
		itemRepo:    itemRepo,
		userRepo:    userRepo,
		publisher:   publisher,
		log:         log,
		now:         time.Now,
	}
}

func (s *service) SetNotificationService(notifSvc notification.Service) {
	s.notifSvc = notifSvc
}

func (s *service) visibleItem(ctx context.Context, viewerID, itemID uuid.UUID) (*domain.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.VisibleTo(viewerID) {
		return nil, domain.ErrItemNotFound
	}
	return item, nil
}

// viewFor narrows a thread to what viewerID may read: the owner sees every
// message, anyone else only their own and the owner's.
func viewFor(viewerID uuid.UUID, t *domain.Thread) *domain.Thread {
	out := *t
	if viewerID == t.OwnerID {
		out.Messages = append([]domain.Message{}, t.Messages...)
		return &out
	}
	out.Messages = make([]domain.Message, 0, len(t.Messages))
	for _, m := range t.Messages {
		if m.UserID == viewerID || m.UserID == t.OwnerID {
			out.Messages = append(out.Messages, m)
		}
	}
	return &out
}

func (s *service) Thread(ctx context.Context, viewerID, itemID uuid.UUID) (*domain.Thread, error) {
	if _, err := s.visibleItem(ctx, viewerID, itemID); err != nil {
		return nil, err
	}

	thread, err := s.messageRepo.Thread(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if viewerID == thread.OwnerID && domain.CountUnread(thread.Messages) > 0 {
		thread, err = s.messageRepo.Mutate(ctx, itemID, func(current *domain.Thread) ([]domain.Message, error) {
			read, _ := domain.MarkAllRead(current.Messages)
			return read, nil
		})
		if err != nil {
			return nil, err
		}
		s.publisher.Publish(ctx, domain.ItemContentChange(itemID, "contact_details"))
	}

	return viewFor(viewerID, thread), nil
}

func (s *service) Send(ctx context.Context, senderID, itemID uuid.UUID, input domain.SendMessageInput) (*domain.Thread, error) {
	if err := input.Normalize(); err != nil {
		return nil, err
	}
	if _, err := s.visibleItem(ctx, senderID, itemID); err != nil {
		return nil, err
	}

	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if sender == nil {
		return nil, domain.ErrUserNotFound
	}

	now := s.now()
	thread, err := s.messageRepo.Mutate(ctx, itemID, func(current *domain.Thread) ([]domain.Message, error) {
		msg := domain.NewMessage(sender, current.OwnerID, input.Message, now)
		return domain.AddMessage(current.Messages, msg), nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, domain.ItemContentChange(itemID, "contact_details"))

	if senderID != thread.OwnerID && s.notifSvc != nil {
		owner, err := s.userRepo.GetByID(ctx, thread.OwnerID)
		if err == nil {
			err = s.notifSvc.NotifyNewMessage(ctx, sender, owner, thread, input.Message)
		}
		if err != nil {
			s.log.Warnw("failed to notify item owner of message", "item_id", itemID, "sender_id", senderID, "error", err)
		}
	}

	return viewFor(senderID, thread), nil
}

func (s *service) Edit(ctx context.Context, userID, itemID uuid.UUID, messageID string, input domain.SendMessageInput) (*domain.Thread, error) {
	if err := input.Normalize(); err != nil {
		return nil, err
	}
	return s.mutate(ctx, userID, itemID, func(current *domain.Thread) ([]domain.Message, error) {
		return domain.EditMessage(current.Messages, messageID, userID, input.Message)
	})
}

func (s *service) Delete(ctx context.Context, userID, itemID uuid.UUID, messageID string) (*domain.Thread, error) {
	return s.mutate(ctx, userID, itemID, func(current *domain.Thread) ([]domain.Message, error) {
		return domain.RemoveMessage(current.Messages, messageID, userID)
	})
}

func (s *service) mutate(ctx context.Context, userID, itemID uuid.UUID, fn repository.MessageMutation) (*domain.Thread, error) {
	thread, err := s.messageRepo.Mutate(ctx, itemID, fn)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, domain.ItemContentChange(itemID, "contact_details"))
	return viewFor(userID, thread), nil
}

func (s *service) Conversations(ctx context.Context, userID uuid.UUID) ([]domain.ConversationSummary, error) {
	threads, err := s.messageRepo.ListThreadsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	convs, err := s.convRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return domain.SummarizeConversations(userID, threads, convs), nil
}
