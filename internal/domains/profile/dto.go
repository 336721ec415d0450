package profile

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// Save requests double as create and update: a nil/absent ID (or a missing
// personal-info row) means insert with version 1; otherwise the update must
// carry the version the client last saw in ExpectedVersion.

type SavePersonalInfoRequest struct {
	FullName string  `json:"full_name" binding:"required"`
	Headline *string `json:"headline,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty"`
	Website  *string `json:"website,omitempty"`
	Location *string `json:"location,omitempty"`

	ExpectedVersion int `json:"expected_version,omitempty"`
}

func (r SavePersonalInfoRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName,
			validation.Required.Error("full name is required"),
			validation.Length(2, 100),
		),
		validation.Field(&r.Headline, validation.Length(0, 200)),
		validation.Field(&r.Bio, validation.Length(0, 2000)),
		validation.Field(&r.Email, is.Email.Error("invalid email format")),
		validation.Field(&r.Website, is.URL.Error("invalid website URL")),
		validation.Field(&r.Location, validation.Length(0, 200)),
		validation.Field(&r.ExpectedVersion, validation.Min(0)),
	)
}

type SaveProfessionalInfoRequest struct {
	ID        *uuid.UUID `json:"id,omitempty"`
	Company   string     `json:"company" binding:"required"`
	Title     string     `json:"title" binding:"required"`
	StartYear int        `json:"start_year" binding:"required"`
	EndYear   *int       `json:"end_year,omitempty"`
	IsPrimary bool       `json:"is_primary"`

	ExpectedVersion int `json:"expected_version,omitempty"`
}

func (r SaveProfessionalInfoRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Company, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.StartYear, validation.Required, validation.Min(1900), validation.Max(2100)),
		validation.Field(&r.EndYear, validation.Min(1900), validation.Max(2100)),
		validation.Field(&r.ExpectedVersion, validation.Min(0)),
	)
}

type SaveEducationRequest struct {
	ID            *uuid.UUID `json:"id,omitempty"`
	Institution   string     `json:"institution" binding:"required"`
	Degree        string     `json:"degree" binding:"required"`
	Field         *string    `json:"field,omitempty"`
	YearCompleted int        `json:"year_completed" binding:"required"`

	ExpectedVersion int `json:"expected_version,omitempty"`
}

func (r SaveEducationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Institution, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Degree, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.YearCompleted, validation.Required, validation.Min(1900), validation.Max(2100)),
		validation.Field(&r.ExpectedVersion, validation.Min(0)),
	)
}

type SaveAwardRequest struct {
	ID           *uuid.UUID `json:"id,omitempty"`
	Title        string     `json:"title" binding:"required"`
	Issuer       *string    `json:"issuer,omitempty"`
	DateReceived time.Time  `json:"date_received" binding:"required"`
	Description  *string    `json:"description,omitempty"`

	ExpectedVersion int `json:"expected_version,omitempty"`
}

func (r SaveAwardRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.DateReceived, validation.Required),
		validation.Field(&r.Description, validation.Length(0, 2000)),
		validation.Field(&r.ExpectedVersion, validation.Min(0)),
	)
}

type SaveProductServiceRequest struct {
	ID          *uuid.UUID `json:"id,omitempty"`
	Name        string     `json:"name" binding:"required"`
	Description *string    `json:"description,omitempty"`
	Category    *string    `json:"category,omitempty"`
	PhotoURL    *string    `json:"photo_url,omitempty"`
	WebsiteLink *string    `json:"website_link,omitempty"`

	ExpectedVersion int `json:"expected_version,omitempty"`
}

func (r SaveProductServiceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Description, validation.Length(0, 500)),
		validation.Field(&r.Category, validation.Length(0, 100)),
		validation.Field(&r.PhotoURL, is.URL.Error("invalid photo URL")),
		validation.Field(&r.WebsiteLink, is.URL.Error("invalid website URL")),
		validation.Field(&r.ExpectedVersion, validation.Min(0)),
	)
}
