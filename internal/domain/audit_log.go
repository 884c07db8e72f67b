package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	UserID     uuid.UUID       `json:"user_id" db:"user_id"`
	UserName   *string         `json:"user_name,omitempty" db:"user_name"`
	Action     string          `json:"action" db:"action"`
	EntityType string          `json:"entity_type" db:"entity_type"`
	EntityID   uuid.UUID       `json:"entity_id" db:"entity_id"`
	OldValue   json.RawMessage `json:"old_value,omitempty" db:"old_value"`
	NewValue   json.RawMessage `json:"new_value,omitempty" db:"new_value"`
	IPAddress  *string         `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent  *string         `json:"user_agent,omitempty" db:"user_agent"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

// RequestMeta identifies the client behind an audited write.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// AuditEntityItem is the entity type of every trail entry; claim actions are
// recorded against the claimed item so the owner sees one timeline.
const AuditEntityItem = "item"

const (
	ActionItemCreated     = "item.created"
	ActionItemUpdated     = "item.updated"
	ActionItemDeleted     = "item.deleted"
	ActionItemVisibility  = "item.visibility"
	ActionItemReverted    = "item.reverted"
	ActionItemMarkClaimed = "item.mark_claimed"
	ActionItemReturned    = "item.returned"
	ActionClaimSubmitted  = "claim.submitted"
	ActionClaimApproved   = "claim.approved"
	ActionClaimRejected   = "claim.rejected"
	ActionClaimDeleted    = "claim.deleted"
)

// NewItemAuditLog builds a trail entry for itemID. Nil values are stored as
// SQL NULL rather than a JSON null.
func NewItemAuditLog(userID uuid.UUID, action string, itemID uuid.UUID, oldValue, newValue interface{}, meta *RequestMeta) *AuditLog {
	entry := &AuditLog{
		ID:         uuid.New(),
		UserID:     userID,
		Action:     action,
		EntityType: AuditEntityItem,
		EntityID:   itemID,
		OldValue:   snapshotJSON(oldValue),
		NewValue:   snapshotJSON(newValue),
	}
	if meta != nil {
		if meta.IPAddress != "" {
			ip := meta.IPAddress
			entry.IPAddress = &ip
		}
		if meta.UserAgent != "" {
			ua := meta.UserAgent
			entry.UserAgent = &ua
		}
	}
	return entry
}

func snapshotJSON(v interface{}) json.RawMessage {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil || string(raw) == "null" {
		return nil
	}
	return raw
}
