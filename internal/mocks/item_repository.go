package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"campus-lostfound/internal/domain"
)

type ItemRepository struct {
	mock.Mock
}

func (m *ItemRepository) Create(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

// GetByID hands out a copy so services mutating the result do not change
// the fixture registered with On.
func (m *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	item := *args.Get(0).(*domain.Item)
	return &item, args.Error(1)
}

func (m *ItemRepository) Update(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *ItemRepository) UpdateStatus(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *ItemRepository) SetVisibility(ctx context.Context, id uuid.UUID, visible bool) error {
	args := m.Called(ctx, id, visible)
	return args.Error(0)
}

func (m *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ItemRepository) List(ctx context.Context, q domain.ItemQuery, params domain.PaginationParams) ([]domain.Item, int64, error) {
	args := m.Called(ctx, q, params)
	return args.Get(0).([]domain.Item), args.Get(1).(int64), args.Error(2)
}

func (m *ItemRepository) ListByReporter(ctx context.Context, userID uuid.UUID, includeHidden bool) ([]domain.Item, error) {
	args := m.Called(ctx, userID, includeHidden)
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *ItemRepository) FindSimilar(ctx context.Context, status domain.ItemStatus, title string, limit int) ([]domain.Item, error) {
	args := m.Called(ctx, status, title, limit)
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *ItemRepository) CountByStatus(ctx context.Context) (domain.ItemStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.ItemStats), args.Error(1)
}
