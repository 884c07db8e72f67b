package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"campus-lostfound/internal/domain"
)

type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	Update(ctx context.Context, item *domain.Item) error
	UpdateStatus(ctx context.Context, item *domain.Item) error
	SetVisibility(ctx context.Context, id uuid.UUID, visible bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q domain.ItemQuery, params domain.PaginationParams) ([]domain.Item, int64, error)
	ListByReporter(ctx context.Context, userID uuid.UUID, includeHidden bool) ([]domain.Item, error)
	FindSimilar(ctx context.Context, status domain.ItemStatus, title string, limit int) ([]domain.Item, error)
	CountByStatus(ctx context.Context) (domain.ItemStats, error)
}

type itemRepository struct {
	db *sqlx.DB
}

func NewItemRepository(db *sqlx.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	lat, lng := coordinateArgs(item.Coordinates)
	query := `
		INSERT INTO items (id, title, description, category, status, location, room_number,
			location_lat, location_lng, date, images, reported_by, is_visible)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		item.ID, item.Title, item.Description, item.Category, item.Status, item.Location,
		item.RoomNumber, lat, lng, item.Date, pq.StringArray(item.Images), item.ReportedBy, item.IsVisible,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
}

func (r *itemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	var row itemRow
	query := `SELECT ` + itemColumns + ` FROM items i WHERE i.id = $1`

	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	item := row.toDomain()
	return &item, nil
}

func (r *itemRepository) Update(ctx context.Context, item *domain.Item) error {
	lat, lng := coordinateArgs(item.Coordinates)
	query := `
		UPDATE items
		SET title = $2, description = $3, category = $4, location = $5, room_number = $6,
			location_lat = $7, location_lng = $8, date = $9, images = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		item.ID, item.Title, item.Description, item.Category, item.Location, item.RoomNumber,
		lat, lng, item.Date, pq.StringArray(item.Images),
	).Scan(&item.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrItemNotFound
	}
	return err
}

// UpdateStatus writes status and claimed_by together so the claimant check
// constraint sees a consistent pair.
func (r *itemRepository) UpdateStatus(ctx context.Context, item *domain.Item) error {
	return updateItemStatus(ctx, r.db, item)
}

func updateItemStatus(ctx context.Context, q sqlx.QueryerContext, item *domain.Item) error {
	query := `
		UPDATE items SET status = $2, claimed_by = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := q.QueryRowxContext(ctx, query, item.ID, item.Status, item.ClaimedBy).Scan(&item.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrItemNotFound
	}
	return err
}

func (r *itemRepository) SetVisibility(ctx context.Context, id uuid.UUID, visible bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE items SET is_visible = $2, updated_at = NOW() WHERE id = $1`, id, visible)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// List returns items in q.Statuses that q.Viewer may see, newest first.
// Hidden items are included only for their reporter.
func (r *itemRepository) List(ctx context.Context, q domain.ItemQuery, params domain.PaginationParams) ([]domain.Item, int64, error) {
	params.Validate()

	where, args := itemFilter(q)

	var total int64
	countQuery := `SELECT COUNT(*) FROM items i WHERE ` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM items i
		WHERE %s
		ORDER BY i.created_at DESC
		LIMIT $%d OFFSET $%d`, itemColumns, where, len(args)+1, len(args)+2)

	var rows []itemRow
	if err := r.db.SelectContext(ctx, &rows, query, append(args, params.PageSize, params.Offset())...); err != nil {
		return nil, 0, err
	}
	return itemsFromRows(rows), total, nil
}

func itemFilter(q domain.ItemQuery) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if len(q.Statuses) > 0 {
		statuses := make([]string, len(q.Statuses))
		for i, s := range q.Statuses {
			statuses[i] = string(s)
		}
		add("i.status = ANY($%d)", pq.StringArray(statuses))
	}
	if q.Viewer != uuid.Nil {
		add("(i.is_visible OR i.reported_by = $%d)", q.Viewer)
	} else {
		conds = append(conds, "i.is_visible")
	}
	if term := strings.TrimSpace(q.Search); term != "" {
		add("(i.title ILIKE $%[1]d OR i.description ILIKE $%[1]d OR i.location ILIKE $%[1]d)", "%"+escapeLike(term)+"%")
	}
	if len(q.Categories) > 0 {
		categories := make([]string, len(q.Categories))
		for i, c := range q.Categories {
			categories[i] = string(c)
		}
		add("i.category = ANY($%d)", pq.StringArray(categories))
	}
	return strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *itemRepository) ListByReporter(ctx context.Context, userID uuid.UUID, includeHidden bool) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items i WHERE i.reported_by = $1 AND ($2 OR i.is_visible) ORDER BY i.created_at DESC`

	var rows []itemRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, includeHidden); err != nil {
		return nil, err
	}
	return itemsFromRows(rows), nil
}

// FindSimilar looks for visible items in status whose title or description
// mention title.
func (r *itemRepository) FindSimilar(ctx context.Context, status domain.ItemStatus, title string, limit int) ([]domain.Item, error) {
	pattern := "%" + escapeLike(strings.TrimSpace(title)) + "%"
	query := `
		SELECT ` + itemColumns + ` FROM items i
		WHERE i.status = $1 AND i.is_visible AND (i.title ILIKE $2 OR i.description ILIKE $2)
		ORDER BY i.created_at DESC
		LIMIT $3`

	var rows []itemRow
	if err := r.db.SelectContext(ctx, &rows, query, status, pattern, limit); err != nil {
		return nil, err
	}
	return itemsFromRows(rows), nil
}

func (r *itemRepository) CountByStatus(ctx context.Context) (domain.ItemStats, error) {
	var stats domain.ItemStats
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'lost') AS lost,
			COUNT(*) FILTER (WHERE status = 'found') AS found,
			COUNT(*) FILTER (WHERE status = 'claimed') AS claimed,
			COUNT(*) FILTER (WHERE status = 'returned') AS returned,
			COUNT(*) AS total
		FROM items
		WHERE is_visible`
	err := r.db.QueryRowxContext(ctx, query).Scan(&stats.Lost, &stats.Found, &stats.Claimed, &stats.Returned, &stats.Total)
	return stats, err
}
