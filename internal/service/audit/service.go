package audit

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"campus-lostfound/internal/domain"
	"campus-lostfound/internal/repository"
)

type Service interface {
	// Record writes a trail entry for itemID. Failures are logged, never
	// returned: the write being audited has already committed.
	Record(ctx context.Context, userID uuid.UUID, action string, itemID uuid.UUID, oldValue, newValue interface{}, meta *domain.RequestMeta)
	ItemActivity(ctx context.Context, itemID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.AuditLog], error)
}

type service struct {
	auditRepo repository.AuditLogRepository
	log       *zap.SugaredLogger
}

func NewService(auditRepo repository.AuditLogRepository, log *zap.SugaredLogger) Service {
	return &service{
		auditRepo: auditRepo,
		log:       log,
	}
}

func (s *service) Record(ctx context.Context, userID uuid.UUID, action string, itemID uuid.UUID, oldValue, newValue interface{}, meta *domain.RequestMeta) {
	entry := domain.NewItemAuditLog(userID, action, itemID, oldValue, newValue, meta)
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.log.Warnw("failed to write audit log", "action", action, "item_id", itemID, "error", err)
	}
}

func (s *service) ItemActivity(ctx context.Context, itemID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.AuditLog], error) {
	params.Validate()

	logs, total, err := s.auditRepo.ListForItem(ctx, itemID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.AuditLog]{}, err
	}
	if logs == nil {
		logs = []domain.AuditLog{}
	}

	return domain.NewPaginatedResponse(logs, params.Page, params.PageSize, total), nil
}
