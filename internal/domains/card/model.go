package card

import (
	"time"

	"github.com/google/uuid"
)

// BusinessCard is a publishable card pointing at its owner's profile. Like
// the profile sections it is versioned; all mutations go through the
// conditional-update protocol in pkg/occ.
type BusinessCard struct {
	ID       uuid.UUID `db:"id" json:"id"`
	UserID   uuid.UUID `db:"user_id" json:"user_id"`
	Name     string    `db:"name" json:"name"`
	Slug     string    `db:"slug" json:"slug"`
	Title    *string   `db:"title" json:"title,omitempty"`
	Theme    *string   `db:"theme" json:"theme,omitempty"`
	IsActive bool      `db:"is_active" json:"is_active"`

	Version   int       `db:"version" json:"version"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// PublicCard is the anonymous-visitor projection of an active card. No owner
// ID, no version; it is what gets cached for the public page.
type PublicCard struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Slug  string    `json:"slug"`
	Title *string   `json:"title,omitempty"`
	Theme *string   `json:"theme,omitempty"`
}

// Public projects the card for anonymous consumption.
func (c *BusinessCard) Public() *PublicCard {
	return &PublicCard{
		ID:    c.ID,
		Name:  c.Name,
		Slug:  c.Slug,
		Title: c.Title,
		Theme: c.Theme,
	}
}
