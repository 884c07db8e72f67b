package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"campus-lostfound/internal/domain"
)

type AuditService struct {
	mock.Mock
}

func (m *AuditService) Record(ctx context.Context, userID uuid.UUID, action string, itemID uuid.UUID, oldValue, newValue interface{}, meta *domain.RequestMeta) {
	m.Called(ctx, userID, action, itemID, oldValue, newValue, meta)
}

func (m *AuditService) ItemActivity(ctx context.Context, itemID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.AuditLog], error) {
	args := m.Called(ctx, itemID, params)
	return args.Get(0).(domain.PaginatedResponse[domain.AuditLog]), args.Error(1)
}
