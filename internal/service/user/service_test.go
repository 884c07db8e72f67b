package user_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"campus-lostfound/internal/domain"
	"campus-lostfound/internal/mocks"
	"campus-lostfound/internal/service/user"
)

func TestUserService_GetProfile(t *testing.T) {
	ctx := context.Background()
	profile := &domain.User{ID: uuid.New(), Email: "rina@campus.edu", FullName: "Rina"}

	t.Run("Own page includes hidden items", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		itemRepo := new(mocks.ItemRepository)
		svc := user.NewService(userRepo, itemRepo)
		userRepo.On("GetByID", ctx, profile.ID).Return(profile, nil).Once()
		itemRepo.On("ListByReporter", ctx, profile.ID, true).Return([]domain.Item{{Title: "Scarf"}}, nil).Once()

		page, err := svc.GetProfile(ctx, profile.ID, profile.ID)

		require.NoError(t, err)
		assert.Equal(t, "Rina", page.Profile.FullName)
		assert.Len(t, page.Items, 1)
	})

	t.Run("Visitors see visible items only", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		itemRepo := new(mocks.ItemRepository)
		svc := user.NewService(userRepo, itemRepo)
		userRepo.On("GetByID", ctx, profile.ID).Return(profile, nil).Once()
		itemRepo.On("ListByReporter", ctx, profile.ID, false).Return([]domain.Item{}, nil).Once()

		_, err := svc.GetProfile(ctx, uuid.Nil, profile.ID)

		require.NoError(t, err)
		itemRepo.AssertExpectations(t)
	})

	t.Run("Unknown user", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		svc := user.NewService(userRepo, new(mocks.ItemRepository))
		userRepo.On("GetByID", ctx, mock.Anything).Return(nil, nil).Once()

		_, err := svc.GetProfile(ctx, uuid.Nil, uuid.New())

		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	stored := &domain.User{ID: uuid.New(), FullName: "Rina", EmailNotifications: true}

	userRepo := new(mocks.UserRepository)
	svc := user.NewService(userRepo, new(mocks.ItemRepository))
	userRepo.On("GetByID", ctx, stored.ID).Return(stored, nil)
	userRepo.On("Update", ctx, mock.AnythingOfType("*domain.User")).Return(nil).Once()

	off := false
	room := "B-204"
	updated, err := svc.UpdateProfile(ctx, stored.ID, domain.UpdateProfileInput{
		EmailNotifications: &off,
		RoomNumber:         domain.NullableString{Set: true, Value: &room},
	})
	require.NoError(t, err)
	assert.False(t, updated.EmailNotifications)
	assert.Equal(t, "B-204", *updated.RoomNumber)

	blank := " "
	_, err = svc.UpdateProfile(ctx, stored.ID, domain.UpdateProfileInput{FullName: &blank})
	assert.ErrorAs(t, err, new(*domain.ValidationError))
	userRepo.AssertNumberOfCalls(t, "Update", 1)
}
