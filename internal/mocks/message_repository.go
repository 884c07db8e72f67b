package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"campus-lostfound/internal/domain"
	"campus-lostfound/internal/repository"
)

type MessageRepository struct {
	mock.Mock
}

func (m *MessageRepository) Thread(ctx context.Context, itemID uuid.UUID) (*domain.Thread, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	t := *args.Get(0).(*domain.Thread)
	t.Messages = append([]domain.Message{}, t.Messages...)
	return &t, args.Error(1)
}

// Mutate applies fn to a copy of the thread returned by the On("Mutate")
// expectation and returns the post-image.
func (m *MessageRepository) Mutate(ctx context.Context, itemID uuid.UUID, fn repository.MessageMutation) (*domain.Thread, error) {
	args := m.Called(ctx, itemID)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	t := *args.Get(0).(*domain.Thread)
	t.Messages = append([]domain.Message{}, t.Messages...)
	next, err := fn(&t)
	if err != nil {
		return nil, err
	}
	t.Messages = next
	return &t, nil
}

func (m *MessageRepository) ListThreadsForUser(ctx context.Context, userID uuid.UUID) ([]domain.Thread, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Thread), args.Error(1)
}
