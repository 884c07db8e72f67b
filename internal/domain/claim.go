package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ClaimStatus string

const (
	ClaimPending  ClaimStatus = "pending"
	ClaimApproved ClaimStatus = "approved"
	ClaimRejected ClaimStatus = "rejected"
)

type Claim struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	ItemID      uuid.UUID   `json:"item_id" db:"item_id"`
	UserID      uuid.UUID   `json:"user_id" db:"user_id"`
	Description string      `json:"description" db:"description"`
	Contact     string      `json:"contact" db:"contact"`
	Status      ClaimStatus `json:"status" db:"status"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`

	Claimant *UserSummary `json:"claimant,omitempty" db:"-"`
}

// Approve moves a pending claim to approved.
func (c *Claim) Approve() error {
	if c.Status != ClaimPending {
		return ErrInvalidClaimTransition
	}
	c.Status = ClaimApproved
	return nil
}

// Reject moves a pending claim to rejected.
func (c *Claim) Reject() error {
	if c.Status != ClaimPending {
		return ErrInvalidClaimTransition
	}
	c.Status = ClaimRejected
	return nil
}

// CanBeRemovedBy reports whether actor may delete the claim: the item owner
// closes it, the claimant withdraws it.
func (c *Claim) CanBeRemovedBy(actor uuid.UUID, item *Item) bool {
	return actor == c.UserID || (item != nil && item.IsOwnedBy(actor))
}

type SubmitClaimInput struct {
	Description string `json:"description"`
	Contact     string `json:"contact"`
}

// Normalize trims the input and rejects empty fields.
func (in *SubmitClaimInput) Normalize() error {
	in.Description = strings.TrimSpace(in.Description)
	in.Contact = strings.TrimSpace(in.Contact)
	if in.Description == "" {
		return NewValidationError("description", "Please provide verification details")
	}
	if in.Contact == "" {
		return NewValidationError("contact", "Please provide a contact detail (email or phone)")
	}
	return nil
}

// ClaimSubmission bundles the rows written when a claim is submitted.
// Notification is nil when the owner has in-app notifications turned off.
type ClaimSubmission struct {
	Claim        *Claim
	Notification *Notification
	Conversation *Conversation
}
