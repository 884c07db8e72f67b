package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"campus-lostfound/internal/domain"
)

type ClaimRepository interface {
	// Submit writes the claim, the optional owner notification and the
	// owner/claimant conversation in one transaction.
	Submit(ctx context.Context, sub *domain.ClaimSubmission) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Claim, error)
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]domain.Claim, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Claim, error)
	GetApprovedForItem(ctx context.Context, itemID uuid.UUID) (*domain.Claim, error)
	// Approve marks claim approved and item claimed by the claimant. The item
	// row is locked for the duration so concurrent approvals serialize.
	Approve(ctx context.Context, claim *domain.Claim, item *domain.Item) error
	UpdateStatus(ctx context.Context, claim *domain.Claim) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type claimRepository struct {
	db *sqlx.DB
}

func NewClaimRepository(db *sqlx.DB) ClaimRepository {
	return &claimRepository{db: db}
}

const claimSelect = `
	SELECT c.id, c.item_id, c.user_id, c.description, c.contact, c.status, c.created_at, c.updated_at,
		u.full_name AS claimant_name, u.email AS claimant_email, u.avatar_url AS claimant_avatar
	FROM claims c
	LEFT JOIN users u ON u.id = c.user_id`

func (r *claimRepository) Submit(ctx context.Context, sub *domain.ClaimSubmission) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		c := sub.Claim
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO claims (id, item_id, user_id, description, contact, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING created_at, updated_at`,
			c.ID, c.ItemID, c.UserID, c.Description, c.Contact, c.Status,
		).Scan(&c.CreatedAt, &c.UpdatedAt)
		if isUniqueViolation(err, "") {
			return domain.ErrDuplicateClaim
		}
		if err != nil {
			return fmt.Errorf("inserting claim: %w", err)
		}

		if n := sub.Notification; n != nil {
			if err := insertNotification(ctx, tx, n); err != nil {
				return fmt.Errorf("inserting claim notification: %w", err)
			}
		}

		if conv := sub.Conversation; conv != nil {
			if err := findOrCreateConversation(ctx, tx, conv); err != nil {
				return fmt.Errorf("opening conversation: %w", err)
			}
		}
		return nil
	})
}

func (r *claimRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Claim, error) {
	var row claimRow
	err := r.db.GetContext(ctx, &row, claimSelect+` WHERE c.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrClaimNotFound
	}
	if err != nil {
		return nil, err
	}
	c := row.toDomain()
	return &c, nil
}

func (r *claimRepository) ListByItem(ctx context.Context, itemID uuid.UUID) ([]domain.Claim, error) {
	return r.list(ctx, claimSelect+` WHERE c.item_id = $1 ORDER BY c.created_at DESC`, itemID)
}

func (r *claimRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Claim, error) {
	return r.list(ctx, claimSelect+` WHERE c.user_id = $1 ORDER BY c.created_at DESC`, userID)
}

func (r *claimRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Claim, error) {
	var rows []claimRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	claims := make([]domain.Claim, 0, len(rows))
	for i := range rows {
		claims = append(claims, rows[i].toDomain())
	}
	return claims, nil
}

func (r *claimRepository) GetApprovedForItem(ctx context.Context, itemID uuid.UUID) (*domain.Claim, error) {
	var row claimRow
	err := r.db.GetContext(ctx, &row, claimSelect+` WHERE c.item_id = $1 AND c.status = 'approved'`, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNoApprovedClaim
	}
	if err != nil {
		return nil, err
	}
	c := row.toDomain()
	return &c, nil
}

func (r *claimRepository) Approve(ctx context.Context, claim *domain.Claim, item *domain.Item) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var status string
		err := tx.GetContext(ctx, &status, `SELECT status FROM items WHERE id = $1 FOR UPDATE`, claim.ItemID)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrItemNotFound
		}
		if err != nil {
			return fmt.Errorf("locking item: %w", err)
		}
		if !domain.ItemStatus(status).AcceptsApproval() {
			return domain.ErrItemNotClaimable
		}

		var current string
		err = tx.GetContext(ctx, &current, `SELECT status FROM claims WHERE id = $1`, claim.ID)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrClaimNotFound
		}
		if err != nil {
			return err
		}
		claim.Status = domain.ClaimStatus(current)
		if err := claim.Approve(); err != nil {
			return err
		}

		var approved bool
		err = tx.GetContext(ctx, &approved,
			`SELECT EXISTS(SELECT 1 FROM claims WHERE item_id = $1 AND status = 'approved' AND id <> $2)`,
			claim.ItemID, claim.ID)
		if err != nil {
			return err
		}
		if approved {
			return domain.ErrApprovedClaimExists
		}

		err = tx.QueryRowxContext(ctx,
			`UPDATE claims SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING updated_at`,
			claim.ID, claim.Status,
		).Scan(&claim.UpdatedAt)
		if isUniqueViolation(err, "idx_claims_one_approved") {
			return domain.ErrApprovedClaimExists
		}
		if err != nil {
			return fmt.Errorf("approving claim: %w", err)
		}

		item.Status = domain.ItemStatusClaimed
		claimant := claim.UserID
		item.ClaimedBy = &claimant
		return updateItemStatus(ctx, tx, item)
	})
}

func (r *claimRepository) UpdateStatus(ctx context.Context, claim *domain.Claim) error {
	err := r.db.QueryRowxContext(ctx,
		`UPDATE claims SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING updated_at`,
		claim.ID, claim.Status,
	).Scan(&claim.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrClaimNotFound
	}
	return err
}

func (r *claimRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM claims WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrClaimNotFound
	}
	return nil
}
