package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	User         UserRepository
	Session      SessionRepository
	Item         ItemRepository
	Claim        ClaimRepository
	Comment      CommentRepository
	Message      MessageRepository
	Conversation ConversationRepository
	Notification NotificationRepository
	AuditLog     AuditLogRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Session:      NewSessionRepository(db),
		Item:         NewItemRepository(db),
		Claim:        NewClaimRepository(db),
		Comment:      NewCommentRepository(db),
		Message:      NewMessageRepository(db),
		Conversation: NewConversationRepository(db),
		Notification: NewNotificationRepository(db),
		AuditLog:     NewAuditLogRepository(db),
	}
}
