package notification_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"campus-lostfound/internal/domain"
	"campus-lostfound/internal/mocks"
	"campus-lostfound/internal/service/notification"
)

func setup() (*mocks.NotificationRepository, *mocks.EmailService, *mocks.Publisher, notification.Service) {
	repo := new(mocks.NotificationRepository)
	emailSvc := new(mocks.EmailService)
	pub := new(mocks.Publisher)
	return repo, emailSvc, pub, notification.NewService(repo, emailSvc, pub, nil, "en", zap.NewNop().Sugar())
}

func TestNotificationService_MarkAsRead(t *testing.T) {
	ctx := context.Background()
	receiver := uuid.New()

	t.Run("Receiver marks it read", func(t *testing.T) {
		repo, _, pub, svc := setup()
		n := &domain.Notification{ID: uuid.New(), ReceiverID: receiver}
		repo.On("GetByID", ctx, n.ID).Return(n, nil).Once()
		repo.On("MarkAsRead", ctx, n.ID).Return(nil).Once()

		err := svc.MarkAsRead(ctx, receiver, n.ID)

		require.NoError(t, err)
		repo.AssertExpectations(t)
		assert.Equal(t, []string{domain.TableNotifications}, pub.Tables())
	})

	t.Run("Someone else's notification is not found", func(t *testing.T) {
		repo, _, _, svc := setup()
		n := &domain.Notification{ID: uuid.New(), ReceiverID: receiver}
		repo.On("GetByID", ctx, n.ID).Return(n, nil).Once()

		err := svc.MarkAsRead(ctx, uuid.New(), n.ID)

		assert.ErrorIs(t, err, domain.ErrNotificationNotFound)
		repo.AssertNotCalled(t, "MarkAsRead", mock.Anything, mock.Anything)
	})

	t.Run("Already read is a no-op", func(t *testing.T) {
		repo, _, pub, svc := setup()
		n := &domain.Notification{ID: uuid.New(), ReceiverID: receiver, IsRead: true}
		repo.On("GetByID", ctx, n.ID).Return(n, nil).Once()

		require.NoError(t, svc.MarkAsRead(ctx, receiver, n.ID))
		assert.Empty(t, pub.Events())
	})
}

func TestNotificationService_GetUnreadCount(t *testing.T) {
	ctx := context.Background()
	repo, _, _, svc := setup()
	userID := uuid.New()
	repo.On("CountUnread", ctx, userID).Return(int64(3), nil).Once()

	count, err := svc.GetUnreadCount(ctx, userID)

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestNotificationService_NotifyNewMessage(t *testing.T) {
	ctx := context.Background()
	sender := &domain.User{ID: uuid.New(), Email: "finder@campus.edu"}
	thread := &domain.Thread{ItemID: uuid.New(), ItemTitle: "Calculator"}

	t.Run("Creates an in-app notification", func(t *testing.T) {
		repo, _, pub, svc := setup()
		owner := &domain.User{ID: uuid.New(), InAppNotifications: true}
		repo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.Type == domain.NotifMessage &&
				n.ReceiverID == owner.ID &&
				*n.SenderID == sender.ID &&
				*n.RelatedItemID == thread.ItemID &&
				n.Message == "New message about your item: Calculator"
		})).Return(nil).Once()

		err := svc.NotifyNewMessage(ctx, sender, owner, thread, "hi")

		require.NoError(t, err)
		repo.AssertExpectations(t)
		assert.Len(t, pub.Events(), 1)
	})

	t.Run("Respects the in-app preference", func(t *testing.T) {
		repo, _, _, svc := setup()
		owner := &domain.User{ID: uuid.New(), InAppNotifications: false}

		require.NoError(t, svc.NotifyNewMessage(ctx, sender, owner, thread, "hi"))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Owner writing to their own item", func(t *testing.T) {
		repo, _, _, svc := setup()

		require.NoError(t, svc.NotifyNewMessage(ctx, sender, sender, thread, "hi"))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Repository error is returned", func(t *testing.T) {
		repo, _, _, svc := setup()
		owner := &domain.User{ID: uuid.New(), InAppNotifications: true}
		repo.On("Create", ctx, mock.Anything).Return(errors.New("insert failed")).Once()

		err := svc.NotifyNewMessage(ctx, sender, owner, thread, "hi")

		assert.Error(t, err)
	})

	t.Run("Emails the owner in the background", func(t *testing.T) {
		_, emailSvc, _, svc := setup()
		owner := &domain.User{ID: uuid.New(), Email: "owner@campus.edu", EmailNotifications: true}
		sent := make(chan struct{})
		emailSvc.On("SendNewMessageEmail", mock.Anything, "owner@campus.edu", "owner", "finder", "Calculator", "hi", thread.ItemID).
			Return(nil).
			Run(func(mock.Arguments) { close(sent) }).
			Once()

		require.NoError(t, svc.NotifyNewMessage(ctx, sender, owner, thread, "hi"))

		select {
		case <-sent:
		case <-time.After(time.Second):
			t.Fatal("message email was not sent")
		}
	})
}

func TestNotificationService_NotifyNewClaim(t *testing.T) {
	_, emailSvc, _, svc := setup()
	owner := &domain.User{ID: uuid.New(), Email: "owner@campus.edu", FullName: "Olivia", EmailNotifications: true}
	claimant := &domain.User{ID: uuid.New(), Email: "bob@campus.edu"}
	item := &domain.Item{ID: uuid.New(), Title: "Wallet"}

	sent := make(chan struct{})
	emailSvc.On("SendNewClaimEmail", mock.Anything, "owner@campus.edu", "Olivia", "bob@campus.edu", "Wallet", item.ID).
		Return(nil).
		Run(func(mock.Arguments) { close(sent) }).
		Once()

	svc.NotifyNewClaim(owner, claimant, item)

	select {
	case <-sent:
	case <-time.After(time.Second):
		t.Fatal("claim email was not sent")
	}

	owner.EmailNotifications = false
	svc.NotifyNewClaim(owner, claimant, item)
	emailSvc.AssertNumberOfCalls(t, "SendNewClaimEmail", 1)
}
