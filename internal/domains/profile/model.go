package profile

import (
	"time"

	"github.com/google/uuid"
)

// Every profile section is a versioned entity: version starts at 1 on insert
// and each successful update increments it by exactly 1. Updates are applied
// through the conditional-update protocol in pkg/occ; nothing ever blind-writes
// these rows.

// PersonalInfo is the single-row "about me" section, one per user.
type PersonalInfo struct {
	ID       uuid.UUID `db:"id" json:"id"`
	UserID   uuid.UUID `db:"user_id" json:"user_id"`
	FullName string    `db:"full_name" json:"full_name"`
	Headline *string   `db:"headline" json:"headline,omitempty"`
	Bio      *string   `db:"bio" json:"bio,omitempty"`
	Phone    *string   `db:"phone" json:"phone,omitempty"`
	Email    *string   `db:"email" json:"email,omitempty"`
	Website  *string   `db:"website" json:"website,omitempty"`
	Location *string   `db:"location" json:"location,omitempty"`

	Version   int       `db:"version" json:"version"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ProfessionalInfo is a work entry; a user can have several.
type ProfessionalInfo struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Company   string    `db:"company" json:"company"`
	Title     string    `db:"title" json:"title"`
	StartYear int       `db:"start_year" json:"start_year"`
	EndYear   *int      `db:"end_year" json:"end_year,omitempty"`
	IsPrimary bool      `db:"is_primary" json:"is_primary"`

	Version   int       `db:"version" json:"version"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Education is a degree/certification entry.
type Education struct {
	ID            uuid.UUID `db:"id" json:"id"`
	UserID        uuid.UUID `db:"user_id" json:"user_id"`
	Institution   string    `db:"institution" json:"institution"`
	Degree        string    `db:"degree" json:"degree"`
	Field         *string   `db:"field" json:"field,omitempty"`
	YearCompleted int       `db:"year_completed" json:"year_completed"`

	Version   int       `db:"version" json:"version"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Award is a recognition entry.
type Award struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	Title        string    `db:"title" json:"title"`
	Issuer       *string   `db:"issuer" json:"issuer,omitempty"`
	DateReceived time.Time `db:"date_received" json:"date_received"`
	Description  *string   `db:"description" json:"description,omitempty"`

	Version   int       `db:"version" json:"version"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ProductService is a product or service the user offers.
type ProductService struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	Category    *string   `db:"category" json:"category,omitempty"`
	PhotoURL    *string   `db:"photo_url" json:"photo_url,omitempty"`
	WebsiteLink *string   `db:"website_link" json:"website_link,omitempty"`

	Version   int       `db:"version" json:"version"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Profile aggregates all sections for the dashboard load.
type Profile struct {
	PersonalInfo     *PersonalInfo      `json:"personal_info"`
	ProfessionalInfo []ProfessionalInfo `json:"professional_info"`
	Education        []Education        `json:"education"`
	Awards           []Award            `json:"awards"`
	Products         []ProductService   `json:"products_services"`
}
