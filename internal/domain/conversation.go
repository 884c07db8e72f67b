package domain

import (
	"time"

	"github.com/google/uuid"
)

// Conversation links an item owner with one other party about that item.
type Conversation struct {
	ID            uuid.UUID `json:"id" db:"id"`
	ItemID        uuid.UUID `json:"item_id" db:"item_id"`
	OwnerID       uuid.UUID `json:"owner_id" db:"owner_id"`
	ParticipantID uuid.UUID `json:"participant_id" db:"participant_id"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`

	ItemTitle string `json:"item_title,omitempty" db:"item_title"`
}
