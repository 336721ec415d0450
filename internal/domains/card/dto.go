package card

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type CreateCardRequest struct {
	Name  string  `json:"name" binding:"required"`
	Title *string `json:"title,omitempty"`
	Theme *string `json:"theme,omitempty"`
}

func (r CreateCardRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("card name is required"),
			validation.Length(1, 100),
		),
		validation.Field(&r.Title, validation.Length(0, 200)),
		validation.Field(&r.Theme, validation.Length(0, 50)),
	)
}

type UpdateCardRequest struct {
	Name  string  `json:"name" binding:"required"`
	Title *string `json:"title,omitempty"`
	Theme *string `json:"theme,omitempty"`

	ExpectedVersion int `json:"expected_version" binding:"required"`
}

func (r UpdateCardRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Title, validation.Length(0, 200)),
		validation.Field(&r.Theme, validation.Length(0, 50)),
		validation.Field(&r.ExpectedVersion, validation.Required, validation.Min(1)),
	)
}

type SetActiveRequest struct {
	Active          bool `json:"active"`
	ExpectedVersion int  `json:"expected_version" binding:"required"`
}

func (r SetActiveRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ExpectedVersion, validation.Required, validation.Min(1)),
	)
}

// ViewContext carries the request attributes the telemetry pipeline records
// for a public card view.
type ViewContext struct {
	IPAddress string
	UserAgent string
	Referrer  string
}
