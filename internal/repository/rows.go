package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"campus-lostfound/internal/domain"
)

// itemColumns lists the items columns scanned into itemRow. The JSON
// arrays are loaded separately by the comment and message repositories.
const itemColumns = `i.id, i.title, i.description, i.category, i.status, i.location,
	i.room_number, i.location_lat, i.location_lng, i.date, i.images,
	i.reported_by, i.claimed_by, i.is_visible, i.created_at, i.updated_at`

type itemRow struct {
	ID          uuid.UUID       `db:"id"`
	Title       string          `db:"title"`
	Description string          `db:"description"`
	Category    string          `db:"category"`
	Status      string          `db:"status"`
	Location    string          `db:"location"`
	RoomNumber  sql.NullString  `db:"room_number"`
	Lat         sql.NullFloat64 `db:"location_lat"`
	Lng         sql.NullFloat64 `db:"location_lng"`
	Date        time.Time       `db:"date"`
	Images      pq.StringArray  `db:"images"`
	ReportedBy  uuid.UUID       `db:"reported_by"`
	ClaimedBy   uuid.NullUUID   `db:"claimed_by"`
	IsVisible   bool            `db:"is_visible"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

// toDomain converts a stored row. Unknown enum values fall back to "other"
// and "lost" so a hand-edited row still renders.
func (r *itemRow) toDomain() domain.Item {
	item := domain.Item{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		Date:        r.Date,
		Images:      []string(r.Images),
		ReportedBy:  r.ReportedBy,
		IsVisible:   r.IsVisible,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if item.Images == nil {
		item.Images = []string{}
	}

	if c, err := domain.ParseItemCategory(r.Category); err == nil {
		item.Category = c
	} else {
		item.Category = domain.CategoryOther
	}
	if s, err := domain.ParseItemStatus(r.Status); err == nil {
		item.Status = s
	} else {
		item.Status = domain.ItemStatusLost
	}

	if r.RoomNumber.Valid {
		room := r.RoomNumber.String
		item.RoomNumber = &room
	}
	if r.Lat.Valid && r.Lng.Valid {
		item.Coordinates = &domain.Coordinates{Latitude: r.Lat.Float64, Longitude: r.Lng.Float64}
	}
	if r.ClaimedBy.Valid {
		id := r.ClaimedBy.UUID
		item.ClaimedBy = &id
	}
	return item
}

func itemsFromRows(rows []itemRow) []domain.Item {
	items := make([]domain.Item, 0, len(rows))
	for i := range rows {
		items = append(items, rows[i].toDomain())
	}
	return items
}

func coordinateArgs(c *domain.Coordinates) (lat, lng sql.NullFloat64) {
	if c == nil {
		return
	}
	return sql.NullFloat64{Float64: c.Latitude, Valid: true}, sql.NullFloat64{Float64: c.Longitude, Valid: true}
}

// claimRow is a claim joined with its claimant's profile.
type claimRow struct {
	domain.Claim
	ClaimantName   sql.NullString `db:"claimant_name"`
	ClaimantEmail  sql.NullString `db:"claimant_email"`
	ClaimantAvatar sql.NullString `db:"claimant_avatar"`
}

func (r *claimRow) toDomain() domain.Claim {
	c := r.Claim
	if r.ClaimantEmail.Valid {
		u := domain.User{ID: c.UserID, FullName: r.ClaimantName.String, Email: r.ClaimantEmail.String}
		if r.ClaimantAvatar.Valid {
			avatar := r.ClaimantAvatar.String
			u.AvatarURL = &avatar
		}
		c.Claimant = u.Summary()
	}
	return c
}
