package models

import (
	"time"

	"github.com/google/uuid"
)

// Link is one entry on a profile page, ordered by SortOrder.
type Link struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Icon      string    `json:"icon"`
	SortOrder int       `json:"sort_order"`
	IsEnabled bool      `json:"is_enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LinkUpdate is a partial link edit.
type LinkUpdate struct {
	Title     *string
	URL       *string
	Icon      *string
	SortOrder *int
	IsEnabled *bool
}

// Apply copies the set fields of u onto l.
func (u LinkUpdate) Apply(l *Link) {
	if u.Title != nil {
		l.Title = *u.Title
	}
	if u.URL != nil {
		l.URL = *u.URL
	}
	if u.Icon != nil {
		l.Icon = *u.Icon
	}
	if u.SortOrder != nil {
		l.SortOrder = *u.SortOrder
	}
	if u.IsEnabled != nil {
		l.IsEnabled = *u.IsEnabled
	}
}
