package domain_test

import (
	"testing"
	"time"

	"campus-lostfound/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemStatusTransitions(t *testing.T) {
	claimant := uuid.New()

	t.Run("Claim open item", func(t *testing.T) {
		item := &domain.Item{ID: uuid.New(), Status: domain.ItemStatusFound}
		require.NoError(t, item.MarkClaimed(claimant))
		assert.Equal(t, domain.ItemStatusClaimed, item.Status)
		assert.Equal(t, claimant, *item.ClaimedBy)
		assert.NoError(t, item.CheckClaimInvariant())
	})

	t.Run("Cannot claim twice", func(t *testing.T) {
		item := &domain.Item{Status: domain.ItemStatusClaimed, ClaimedBy: &claimant}
		assert.ErrorIs(t, item.MarkClaimed(uuid.New()), domain.ErrInvalidItemTransition)
	})

	t.Run("Revert clears claimant", func(t *testing.T) {
		item := &domain.Item{Status: domain.ItemStatusClaimed, ClaimedBy: &claimant}
		item.RevertToLost()
		assert.Equal(t, domain.ItemStatusLost, item.Status)
		assert.Nil(t, item.ClaimedBy)
		assert.NoError(t, item.CheckClaimInvariant())
	})

	t.Run("Returned keeps claimant", func(t *testing.T) {
		item := &domain.Item{Status: domain.ItemStatusClaimed, ClaimedBy: &claimant}
		require.NoError(t, item.MarkReturned())
		assert.Equal(t, domain.ItemStatusReturned, item.Status)
		assert.Equal(t, claimant, *item.ClaimedBy)
	})

	t.Run("Only claimed items are returned", func(t *testing.T) {
		item := &domain.Item{Status: domain.ItemStatusLost}
		assert.ErrorIs(t, item.MarkReturned(), domain.ErrInvalidItemTransition)
	})

	t.Run("Invariant violations", func(t *testing.T) {
		assert.Error(t, (&domain.Item{Status: domain.ItemStatusClaimed}).CheckClaimInvariant())
		assert.Error(t, (&domain.Item{Status: domain.ItemStatusLost, ClaimedBy: &claimant}).CheckClaimInvariant())
	})
}

func TestListingStatuses(t *testing.T) {
	assert.Equal(t, []domain.ItemStatus{domain.ItemStatusLost, domain.ItemStatusClaimed}, domain.ItemStatusLost.ListingStatuses())
	assert.Equal(t, []domain.ItemStatus{domain.ItemStatusFound}, domain.ItemStatusFound.ListingStatuses())
	assert.Equal(t, domain.ItemStatusFound, domain.ItemStatusLost.Opposite())
}

func TestItemVisibility(t *testing.T) {
	owner := uuid.New()
	hidden := &domain.Item{ReportedBy: owner, IsVisible: false}
	assert.True(t, hidden.VisibleTo(owner))
	assert.False(t, hidden.VisibleTo(uuid.New()))
	assert.False(t, hidden.VisibleTo(uuid.Nil))
	assert.True(t, (&domain.Item{IsVisible: true}).VisibleTo(uuid.Nil))
}

func TestCreateItemInputValidate(t *testing.T) {
	valid := domain.CreateItemInput{
		Title:       "Black umbrella",
		Description: "Left in lecture hall",
		Category:    "Accessories",
		Status:      "found",
		Location:    "Hall B",
		Date:        time.Now(),
	}
	category, status, err := valid.Validate()
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryAccessories, category)
	assert.Equal(t, domain.ItemStatusFound, status)

	claimed := valid
	claimed.Status = "claimed"
	_, _, err = claimed.Validate()
	assert.ErrorAs(t, err, new(*domain.ValidationError))

	badCoords := valid
	badCoords.Coordinates = &domain.Coordinates{Latitude: 100}
	_, _, err = badCoords.Validate()
	assert.ErrorAs(t, err, new(*domain.ValidationError))
}

func TestUpdateItemInputApply(t *testing.T) {
	room := "B-12"
	item := &domain.Item{Title: "Old", RoomNumber: &room, Coordinates: &domain.Coordinates{Latitude: 1, Longitude: 2}}

	title := "  New title "
	in := domain.UpdateItemInput{
		Title:       &title,
		RoomNumber:  domain.NullableString{Set: true},
		ClearCoords: true,
	}
	require.NoError(t, in.Apply(item))
	assert.Equal(t, "New title", item.Title)
	assert.Nil(t, item.RoomNumber)
	assert.Nil(t, item.Coordinates)
}

func TestItemStatusAcceptsApproval(t *testing.T) {
	assert.True(t, domain.ItemStatusLost.AcceptsApproval())
	assert.True(t, domain.ItemStatusFound.AcceptsApproval())
	assert.True(t, domain.ItemStatusClaimed.AcceptsApproval())
	assert.False(t, domain.ItemStatusReturned.AcceptsApproval())
}
