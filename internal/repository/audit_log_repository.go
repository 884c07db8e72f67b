package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"campus-lostfound/internal/domain"
)

// AuditLogRepository stores the activity trail of items.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
	ListForItem(ctx context.Context, itemID uuid.UUID, params domain.PaginationParams) ([]domain.AuditLog, int64, error)
}

type auditLogRepository struct {
	db *sqlx.DB
}

func NewAuditLogRepository(db *sqlx.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, user_id, action, entity_type, entity_id, old_value, new_value, ip_address, user_agent)
		VALUES (:id, :user_id, :action, :entity_type, :entity_id, :old_value, :new_value, :ip_address, :user_agent)
		RETURNING created_at`

	rows, err := r.db.NamedQueryContext(ctx, query, entry)
	if err != nil {
		return fmt.Errorf("inserting audit log: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		return rows.Scan(&entry.CreatedAt)
	}
	return rows.Err()
}

type auditLogRow struct {
	domain.AuditLog
	TotalCount int64 `db:"total_count"`
}

// ListForItem returns one page of the item's trail, newest first, with the
// actor's display name and the total entry count.
func (r *auditLogRepository) ListForItem(ctx context.Context, itemID uuid.UUID, params domain.PaginationParams) ([]domain.AuditLog, int64, error) {
	params.Validate()

	query := `
		SELECT
			al.id, al.user_id, al.action, al.entity_type, al.entity_id,
			al.old_value, al.new_value, al.ip_address, al.user_agent, al.created_at,
			COALESCE(NULLIF(u.full_name, ''), split_part(u.email, '@', 1)) AS user_name,
			COUNT(*) OVER () AS total_count
		FROM audit_logs al
		LEFT JOIN users u ON u.id = al.user_id
		WHERE al.entity_type = $1 AND al.entity_id = $2
		ORDER BY al.created_at DESC
		LIMIT $3 OFFSET $4`

	var rows []auditLogRow
	if err := r.db.SelectContext(ctx, &rows, query, domain.AuditEntityItem, itemID, params.PageSize, params.Offset()); err != nil {
		return nil, 0, fmt.Errorf("listing audit logs: %w", err)
	}

	logs := make([]domain.AuditLog, 0, len(rows))
	var total int64
	for _, row := range rows {
		logs = append(logs, row.AuditLog)
		total = row.TotalCount
	}
	if len(rows) == 0 && params.Page > 1 {
		if err := r.db.GetContext(ctx, &total,
			`SELECT COUNT(*) FROM audit_logs WHERE entity_type = $1 AND entity_id = $2`,
			domain.AuditEntityItem, itemID); err != nil {
			return nil, 0, fmt.Errorf("counting audit logs: %w", err)
		}
	}
	return logs, total, nil
}
