package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"campus-lostfound/internal/domain"
	"campus-lostfound/internal/repository"
)

type CommentRepository struct {
	mock.Mock
}

func (m *CommentRepository) ListByItem(ctx context.Context, itemID uuid.UUID) ([]domain.Comment, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Comment), args.Error(1)
}

// Mutate runs fn against the stored list returned by the On("Mutate")
// expectation, like the real repository does under its row lock.
func (m *CommentRepository) Mutate(ctx context.Context, itemID uuid.UUID, fn repository.CommentMutation) ([]domain.Comment, error) {
	args := m.Called(ctx, itemID)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	var current []domain.Comment
	if args.Get(0) != nil {
		current = append(current, args.Get(0).([]domain.Comment)...)
	}
	return fn(current)
}
