package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"campus-lostfound/internal/domain"
)

type ConversationRepository interface {
	FindOrCreate(ctx context.Context, conv *domain.Conversation) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Conversation, error)
}

type conversationRepository struct {
	db *sqlx.DB
}

func NewConversationRepository(db *sqlx.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) FindOrCreate(ctx context.Context, conv *domain.Conversation) error {
	return findOrCreateConversation(ctx, r.db, conv)
}

// findOrCreateConversation fills conv with the stored row for its
// (item, owner, participant) triple, inserting it first when missing.
func findOrCreateConversation(ctx context.Context, q sqlx.QueryerContext, conv *domain.Conversation) error {
	query := `
		INSERT INTO conversations (id, item_id, owner_id, participant_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT ON CONSTRAINT conversations_item_owner_participant_key
		DO UPDATE SET updated_at = conversations.updated_at
		RETURNING id, created_at, updated_at`

	return q.QueryRowxContext(ctx, query,
		conv.ID, conv.ItemID, conv.OwnerID, conv.ParticipantID,
	).Scan(&conv.ID, &conv.CreatedAt, &conv.UpdatedAt)
}

func (r *conversationRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Conversation, error) {
	query := `
		SELECT c.id, c.item_id, c.owner_id, c.participant_id, c.created_at, c.updated_at, i.title AS item_title
		FROM conversations c
		INNER JOIN items i ON i.id = c.item_id
		WHERE c.owner_id = $1 OR c.participant_id = $1
		ORDER BY c.updated_at DESC`

	var convs []domain.Conversation
	if err := r.db.SelectContext(ctx, &convs, query, userID); err != nil {
		return nil, err
	}
	return convs, nil
}
