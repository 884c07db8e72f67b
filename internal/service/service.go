package service

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"campus-lostfound/internal/config"
	"campus-lostfound/internal/realtime"
	"campus-lostfound/internal/repository"
	"campus-lostfound/internal/service/audit"
	"campus-lostfound/internal/service/auth"
	"campus-lostfound/internal/service/claim"
	"campus-lostfound/internal/service/comment"
	"campus-lostfound/internal/service/email"
	"campus-lostfound/internal/service/item"
	"campus-lostfound/internal/service/media"
	"campus-lostfound/internal/service/message"
	"campus-lostfound/internal/service/notification"
	"campus-lostfound/internal/service/user"
)

type Services struct {
	Auth         auth.Service
	User         user.Service
	Item         item.Service
	Claim        claim.Service
	Comment      comment.Service
	Message      message.Service
	Notification notification.Service
	Media        media.Service
	Email        email.Service
	Audit        audit.Service
}

func NewServices(repos *repository.Repositories, redis *redis.Client, store media.ObjectStore, publisher realtime.Publisher, cfg *config.Config, log *zap.SugaredLogger) *Services {
	emailService := email.NewService(cfg, log)
	authService := auth.NewService(repos.User, repos.Session, emailService, cfg, log)
	auditService := audit.NewService(repos.AuditLog, log)
	userService := user.NewService(repos.User, repos.Item)
	itemService := item.NewService(repos.Item, repos.User, auditService, publisher, redis, log)
	notificationService := notification.NewService(repos.Notification, emailService, publisher, redis, cfg.DefaultLocale, log)

	claimService := claim.NewService(repos.Claim, repos.Item, repos.User, auditService, publisher, itemService.InvalidateStats, cfg.DefaultLocale, log)
	claimService.SetNotificationService(notificationService)

	commentService := comment.NewService(repos.Comment, repos.Item, repos.User, publisher)

	messageService := message.NewService(repos.Message, repos.Conversation, repos.Item, repos.User, publisher, log)
	messageService.SetNotificationService(notificationService)

	mediaService := media.NewService(store, cfg)

	return &Services{
		Auth:         authService,
		User:         userService,
		Item:         itemService,
		Claim:        claimService,
		Comment:      commentService,
		Message:      messageService,
		Notification: notificationService,
		Media:        mediaService,
		Email:        emailService,
		Audit:        auditService,
	}
}
