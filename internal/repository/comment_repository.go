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

// CommentMutation derives the new comment list from the stored one. An
// error aborts the write.
type CommentMutation func(current []domain.Comment) ([]domain.Comment, error)

type CommentRepository interface {
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]domain.Comment, error)
	// Mutate applies fn to the locked, freshly read comments of the item
	// and stores the result. It returns what was stored.
	Mutate(ctx context.Context, itemID uuid.UUID, fn CommentMutation) ([]domain.Comment, error)
}

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) ListByItem(ctx context.Context, itemID uuid.UUID) ([]domain.Comment, error) {
	var raw []byte
	err := r.db.GetContext(ctx, &raw, `SELECT comments FROM items WHERE id = $1`, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	comments := domain.DecodeComments(raw)
	domain.SortCommentsNewestFirst(comments)
	return comments, nil
}

func (r *commentRepository) Mutate(ctx context.Context, itemID uuid.UUID, fn CommentMutation) ([]domain.Comment, error) {
	var result []domain.Comment
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var raw []byte
		err := tx.GetContext(ctx, &raw, `SELECT comments FROM items WHERE id = $1 FOR UPDATE`, itemID)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrItemNotFound
		}
		if err != nil {
			return fmt.Errorf("locking comments: %w", err)
		}

		next, err := fn(domain.DecodeComments(raw))
		if err != nil {
			return err
		}

		encoded, err := domain.EncodeComments(next)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE items SET comments = $2::jsonb, updated_at = NOW() WHERE id = $1`,
			itemID, string(encoded),
		); err != nil {
			return fmt.Errorf("writing comments: %w", err)
		}
		result = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
