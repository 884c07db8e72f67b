package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ItemStatus string

const (
	ItemStatusLost     ItemStatus = "lost"
	ItemStatusFound    ItemStatus = "found"
	ItemStatusClaimed  ItemStatus = "claimed"
	ItemStatusReturned ItemStatus = "returned"
)

func ParseItemStatus(s string) (ItemStatus, error) {
	switch st := ItemStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case ItemStatusLost, ItemStatusFound, ItemStatusClaimed, ItemStatusReturned:
		return st, nil
	default:
		return "", fmt.Errorf("unknown item status %q", s)
	}
}

// IsOpen reports whether an item in this status can still receive claims.
func (s ItemStatus) IsOpen() bool {
	return s == ItemStatusLost || s == ItemStatusFound
}

// AcceptsApproval reports whether approving a claim may move an item in this
// status to claimed. Returned items are final.
func (s ItemStatus) AcceptsApproval() bool {
	return s.IsOpen() || s == ItemStatusClaimed
}

// Opposite returns the status a matching report would carry (a lost item is
// matched against found reports and vice versa).
func (s ItemStatus) Opposite() ItemStatus {
	if s == ItemStatusLost {
		return ItemStatusFound
	}
	return ItemStatusLost
}

// ListingStatuses returns the statuses shown on the listing page for s.
// The lost listing keeps claimed items visible so owners can follow them.
func (s ItemStatus) ListingStatuses() []ItemStatus {
	if s == ItemStatusLost {
		return []ItemStatus{ItemStatusLost, ItemStatusClaimed}
	}
	return []ItemStatus{s}
}

type ItemCategory string

const (
	CategoryElectronics ItemCategory = "electronics"
	CategoryClothing    ItemCategory = "clothing"
	CategoryAccessories ItemCategory = "accessories"
	CategoryKeys        ItemCategory = "keys"
	CategoryDocuments   ItemCategory = "documents"
	CategoryPets        ItemCategory = "pets"
	CategoryOther       ItemCategory = "other"
)

var ItemCategories = []ItemCategory{
	CategoryElectronics,
	CategoryClothing,
	CategoryAccessories,
	CategoryKeys,
	CategoryDocuments,
	CategoryPets,
	CategoryOther,
}

func ParseItemCategory(s string) (ItemCategory, error) {
	c := ItemCategory(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ItemCategories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown item category %q", s)
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

type Item struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Category    ItemCategory `json:"category"`
	Status      ItemStatus   `json:"status"`
	Location    string       `json:"location"`
	RoomNumber  *string      `json:"room_number,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Date        time.Time    `json:"date"`
	Images      []string     `json:"images"`
	ReportedBy  uuid.UUID    `json:"reported_by"`
	ClaimedBy   *uuid.UUID   `json:"claimed_by,omitempty"`
	IsVisible   bool         `json:"is_visible"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	Reporter *UserSummary `json:"reporter,omitempty"`
}

func (i *Item) IsOwnedBy(userID uuid.UUID) bool {
	return i.ReportedBy == userID
}

// VisibleTo reports whether viewer may see the item. Hidden items are only
// shown to the user who reported them.
func (i *Item) VisibleTo(viewer uuid.UUID) bool {
	return i.IsVisible || (viewer != uuid.Nil && i.ReportedBy == viewer)
}

// CheckClaimInvariant verifies that claimed items name a claimant and open
// items do not.
func (i *Item) CheckClaimInvariant() error {
	switch i.Status {
	case ItemStatusClaimed:
		if i.ClaimedBy == nil {
			return fmt.Errorf("claimed item %s has no claimant", i.ID)
		}
	case ItemStatusLost, ItemStatusFound:
		if i.ClaimedBy != nil {
			return fmt.Errorf("open item %s still references claimant %s", i.ID, *i.ClaimedBy)
		}
	}
	return nil
}

// MarkClaimed moves an open item to claimed on behalf of claimant.
func (i *Item) MarkClaimed(claimant uuid.UUID) error {
	if !i.Status.IsOpen() {
		return ErrInvalidItemTransition
	}
	i.Status = ItemStatusClaimed
	i.ClaimedBy = &claimant
	return nil
}

// RevertToLost reopens the item and drops its claimant. Claim rows are left alone.
func (i *Item) RevertToLost() {
	i.Status = ItemStatusLost
	i.ClaimedBy = nil
}

// MarkReturned closes a claimed item; the claimant reference is kept.
func (i *Item) MarkReturned() error {
	if i.Status != ItemStatusClaimed {
		return ErrInvalidItemTransition
	}
	i.Status = ItemStatusReturned
	return nil
}

type CreateItemInput struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Status      string       `json:"status"`
	Location    string       `json:"location"`
	RoomNumber  *string      `json:"room_number,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Date        time.Time    `json:"date"`
	Images      []string     `json:"images,omitempty"`
	IsVisible   *bool        `json:"is_visible,omitempty"`
}

func (in *CreateItemInput) Validate() (ItemCategory, ItemStatus, error) {
	if strings.TrimSpace(in.Title) == "" {
		return "", "", NewValidationError("title", "Title is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return "", "", NewValidationError("description", "Description is required")
	}
	if strings.TrimSpace(in.Location) == "" {
		return "", "", NewValidationError("location", "Location is required")
	}
	category, err := ParseItemCategory(in.Category)
	if err != nil {
		return "", "", NewValidationError("category", "Category is invalid")
	}
	status, err := ParseItemStatus(in.Status)
	if err != nil || !status.IsOpen() {
		return "", "", NewValidationError("status", "Status must be lost or found")
	}
	if in.Coordinates != nil && !in.Coordinates.Valid() {
		return "", "", NewValidationError("coordinates", "Coordinates are out of range")
	}
	return category, status, nil
}

type UpdateItemInput struct {
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	Category    *string        `json:"category,omitempty"`
	Location    *string        `json:"location,omitempty"`
	RoomNumber  NullableString `json:"room_number"`
	Coordinates *Coordinates   `json:"coordinates,omitempty"`
	ClearCoords bool           `json:"clear_coordinates,omitempty"`
	Date        *time.Time     `json:"date,omitempty"`
	Images      *[]string      `json:"images,omitempty"`
}

// Apply copies the set fields of in onto item after validating them.
func (in *UpdateItemInput) Apply(item *Item) error {
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return NewValidationError("title", "Title is required")
		}
		item.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		if strings.TrimSpace(*in.Description) == "" {
			return NewValidationError("description", "Description is required")
		}
		item.Description = strings.TrimSpace(*in.Description)
	}
	if in.Category != nil {
		category, err := ParseItemCategory(*in.Category)
		if err != nil {
			return NewValidationError("category", "Category is invalid")
		}
		item.Category = category
	}
	if in.Location != nil {
		if strings.TrimSpace(*in.Location) == "" {
			return NewValidationError("location", "Location is required")
		}
		item.Location = strings.TrimSpace(*in.Location)
	}
	if in.RoomNumber.Set {
		item.RoomNumber = in.RoomNumber.Value
	}
	if in.ClearCoords {
		item.Coordinates = nil
	} else if in.Coordinates != nil {
		if !in.Coordinates.Valid() {
			return NewValidationError("coordinates", "Coordinates are out of range")
		}
		c := *in.Coordinates
		item.Coordinates = &c
	}
	if in.Date != nil {
		item.Date = *in.Date
	}
	if in.Images != nil {
		item.Images = append([]string{}, (*in.Images)...)
	}
	return nil
}

// ItemQuery selects items for a listing page.
type ItemQuery struct {
	Statuses   []ItemStatus
	Search     string
	Categories []ItemCategory
	Viewer     uuid.UUID
}

type ItemStats struct {
	Lost     int64 `json:"lost"`
	Found    int64 `json:"found"`
	Claimed  int64 `json:"claimed"`
	Returned int64 `json:"returned"`
	Total    int64 `json:"total"`
}

// ItemDetail is the item page payload.
type ItemDetail struct {
	Item
	IsOwner   bool `json:"is_owner"`
	IsClaimer bool `json:"is_claimer"`
}

// ProfilePage is a user's public profile with the items they reported.
type ProfilePage struct {
	Profile *User  `json:"profile"`
	Items   []Item `json:"items"`
}
