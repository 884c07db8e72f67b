package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"campus-lostfound/internal/domain"
)

// MessageMutation derives the new message list from the locked thread. An
// error aborts the write.
type MessageMutation func(thread *domain.Thread) ([]domain.Message, error)

type MessageRepository interface {
	Thread(ctx context.Context, itemID uuid.UUID) (*domain.Thread, error)
	Mutate(ctx context.Context, itemID uuid.UUID, fn MessageMutation) (*domain.Thread, error)
	// ListThreadsForUser returns the threads of items userID reported and of
	// items userID has written in, newest first.
	ListThreadsForUser(ctx context.Context, userID uuid.UUID) ([]domain.Thread, error)
}

type messageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) MessageRepository {
	return &messageRepository{db: db}
}

type threadRow struct {
	ItemID         uuid.UUID `db:"id"`
	Title          string    `db:"title"`
	Status         string    `db:"status"`
	ReportedBy     uuid.UUID `db:"reported_by"`
	ContactDetails []byte    `db:"contact_details"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r *threadRow) toDomain() *domain.Thread {
	status, err := domain.ParseItemStatus(r.Status)
	if err != nil {
		status = domain.ItemStatusLost
	}
	return &domain.Thread{
		ItemID:     r.ItemID,
		ItemTitle:  r.Title,
		ItemStatus: status,
		OwnerID:    r.ReportedBy,
		Messages:   domain.DecodeMessages(r.ContactDetails),
		UpdatedAt:  r.UpdatedAt,
	}
}

const threadColumns = `id, title, status, reported_by, contact_details, updated_at`

func (r *messageRepository) Thread(ctx context.Context, itemID uuid.UUID) (*domain.Thread, error) {
	var row threadRow
	err := r.db.GetContext(ctx, &row, `SELECT `+threadColumns+` FROM items WHERE id = $1`, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *messageRepository) Mutate(ctx context.Context, itemID uuid.UUID, fn MessageMutation) (*domain.Thread, error) {
	var thread *domain.Thread
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var row threadRow
		err := tx.GetContext(ctx, &row, `SELECT `+threadColumns+` FROM items WHERE id = $1 FOR UPDATE`, itemID)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrItemNotFound
		}
		if err != nil {
			return fmt.Errorf("locking messages: %w", err)
		}

		thread = row.toDomain()
		next, err := fn(thread)
		if err != nil {
			return err
		}

		encoded, err := domain.EncodeMessages(next)
		if err != nil {
			return err
		}
		if err := tx.QueryRowxContext(ctx,
			`UPDATE items SET contact_details = $2::jsonb, updated_at = NOW() WHERE id = $1 RETURNING updated_at`,
			itemID, string(encoded),
		).Scan(&thread.UpdatedAt); err != nil {
			return fmt.Errorf("writing messages: %w", err)
		}
		thread.Messages = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return thread, nil
}

func (r *messageRepository) ListThreadsForUser(ctx context.Context, userID uuid.UUID) ([]domain.Thread, error) {
	authored, err := json.Marshal([]map[string]string{{"userId": userID.String()}})
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ` + threadColumns + ` FROM items
		WHERE (reported_by = $1 AND jsonb_typeof(contact_details) = 'array' AND jsonb_array_length(contact_details) > 0)
		   OR contact_details @> $2::jsonb
		ORDER BY updated_at DESC`

	var rows []threadRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, string(authored)); err != nil {
		return nil, err
	}
	threads := make([]domain.Thread, 0, len(rows))
	for i := range rows {
		threads = append(threads, *rows[i].toDomain())
	}
	return threads, nil
}
