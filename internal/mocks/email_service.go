package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendPasswordResetEmail(ctx context.Context, toEmail, fullName, resetToken string) error {
	args := m.Called(ctx, toEmail, fullName, resetToken)
	return args.Error(0)
}

func (m *EmailService) SendNewClaimEmail(ctx context.Context, toEmail, recipientName, claimantEmail, itemTitle string, itemID uuid.UUID) error {
	args := m.Called(ctx, toEmail, recipientName, claimantEmail, itemTitle, itemID)
	return args.Error(0)
}

func (m *EmailService) SendNewMessageEmail(ctx context.Context, toEmail, recipientName, senderName, itemTitle, preview string, itemID uuid.UUID) error {
	args := m.Called(ctx, toEmail, recipientName, senderName, itemTitle, preview, itemID)
	return args.Error(0)
}
