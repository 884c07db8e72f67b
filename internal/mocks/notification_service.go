package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"campus-lostfound/internal/domain"
)

type NotificationService struct {
	mock.Mock
}

func (m *NotificationService) Create(ctx context.Context, notif *domain.Notification) error {
	args := m.Called(ctx, notif)
	return args.Error(0)
}

func (m *NotificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	args := m.Called(ctx, userID, unreadOnly, params)
	return args.Get(0).(domain.PaginatedResponse[domain.Notification]), args.Error(1)
}

func (m *NotificationService) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationService) Delivered(ctx context.Context, notif *domain.Notification) {
	m.Called(ctx, notif)
}

func (m *NotificationService) NotifyNewClaim(owner, claimant *domain.User, item *domain.Item) {
	m.Called(owner, claimant, item)
}

func (m *NotificationService) NotifyClaimApproved(ctx context.Context, owner, claimant *domain.User, item *domain.Item) {
	m.Called(ctx, owner, claimant, item)
}

func (m *NotificationService) NotifyNewMessage(ctx context.Context, sender, owner *domain.User, thread *domain.Thread, text string) error {
	args := m.Called(ctx, sender, owner, thread, text)
	return args.Error(0)
}
