package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"campus-lostfound/internal/domain"
)

type ClaimRepository struct {
	mock.Mock
}

func (m *ClaimRepository) Submit(ctx context.Context, sub *domain.ClaimSubmission) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *ClaimRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Claim, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	claim := *args.Get(0).(*domain.Claim)
	return &claim, args.Error(1)
}

func (m *ClaimRepository) ListByItem(ctx context.Context, itemID uuid.UUID) ([]domain.Claim, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).([]domain.Claim), args.Error(1)
}

func (m *ClaimRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Claim, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Claim), args.Error(1)
}

func (m *ClaimRepository) GetApprovedForItem(ctx context.Context, itemID uuid.UUID) (*domain.Claim, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Claim), args.Error(1)
}

// Approve mirrors the repository on success: the claim becomes approved and
// the item claimed by the claimant.
func (m *ClaimRepository) Approve(ctx context.Context, claim *domain.Claim, item *domain.Item) error {
	args := m.Called(ctx, claim, item)
	if err := args.Error(0); err != nil {
		return err
	}
	claim.Status = domain.ClaimApproved
	claimant := claim.UserID
	item.Status = domain.ItemStatusClaimed
	item.ClaimedBy = &claimant
	return nil
}

func (m *ClaimRepository) UpdateStatus(ctx context.Context, claim *domain.Claim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}

func (m *ClaimRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
