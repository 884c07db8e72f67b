package user

import (
	"context"

	"github.com/google/uuid"

	"campus-lostfound/internal/domain"
	"campus-lostfound/internal/repository"
)

type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// GetProfile returns a user's page. Hidden items are listed only when
	// viewers look at their own page.
	GetProfile(ctx context.Context, viewerID, userID uuid.UUID) (*domain.ProfilePage, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input domain.UpdateProfileInput) (*domain.User, error)
}

type service struct {
	userRepo repository.UserRepository
	itemRepo repository.ItemRepository
}

func NewService(userRepo repository.UserRepository, itemRepo repository.ItemRepository) Service {
	return &service{
		userRepo: userRepo,
		itemRepo: itemRepo,
	}
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *service) GetProfile(ctx context.Context, viewerID, userID uuid.UUID) (*domain.ProfilePage, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.itemRepo.ListByReporter(ctx, userID, viewerID == userID)
	if err != nil {
		return nil, err
	}

	return &domain.ProfilePage{Profile: user, Items: items}, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input domain.UpdateProfileInput) (*domain.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := input.Apply(user); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
