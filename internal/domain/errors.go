package domain

import "errors"

var (
	ErrItemNotFound         = errors.New("item not found")
	ErrClaimNotFound        = errors.New("claim not found")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrMessageNotFound      = errors.New("message not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrUserNotFound         = errors.New("user not found")

	ErrNotItemOwner        = errors.New("only the item owner can perform this action")
	ErrNotCommentAuthor    = errors.New("insufficient permissions to modify this comment")
	ErrNotMessageAuthor    = errors.New("insufficient permissions to modify this message")
	ErrNotClaimParticipant = errors.New("only the item owner or the claimant can remove this claim")
	ErrCannotClaimOwnItem  = errors.New("you cannot claim an item you reported")

	ErrDuplicateClaim         = errors.New("you have already submitted a claim for this item")
	ErrApprovedClaimExists    = errors.New("another claim for this item is already approved")
	ErrNoApprovedClaim        = errors.New("item has no approved claim")
	ErrInvalidClaimTransition = errors.New("claim cannot change to the requested status")
	ErrInvalidItemTransition  = errors.New("item cannot change to the requested status")
	ErrItemNotClaimable       = errors.New("item is not open for claims")
)

// ValidationError reports a rejected input field before any I/O happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
