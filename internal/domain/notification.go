package domain

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID            uuid.UUID        `json:"id" db:"id"`
	Type          NotificationType `json:"type" db:"type"`
	ReceiverID    uuid.UUID        `json:"receiver_id" db:"receiver_id"`
	SenderID      *uuid.UUID       `json:"sender_id,omitempty" db:"sender_id"`
	Message       string           `json:"message" db:"message"`
	IsRead        bool             `json:"is_read" db:"is_read"`
	ReadAt        *time.Time       `json:"read_at,omitempty" db:"read_at"`
	RelatedItemID *uuid.UUID       `json:"related_item_id,omitempty" db:"related_item_id"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
}

type NotificationType string

const (
	NotifClaim   NotificationType = "claim"
	NotifMessage NotificationType = "message"
)

// NewNotification builds an unread notification about itemID.
func NewNotification(t NotificationType, receiver, sender, itemID uuid.UUID, message string) *Notification {
	return &Notification{
		ID:            uuid.New(),
		Type:          t,
		ReceiverID:    receiver,
		SenderID:      &sender,
		Message:       message,
		RelatedItemID: &itemID,
	}
}
