package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type CreateAuthorRequest struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Biography   *string `json:"biography,omitempty"`
	Nationality *string `json:"nationality,omitempty"`
	Photo       *string `json:"photo,omitempty"`
}

func (r CreateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName,
			validation.Required.Error("first name is required"),
			validation.Length(1, 100),
		),
		validation.Field(&r.LastName,
			validation.Required.Error("last name is required"),
			validation.Length(1, 100),
		),
		validation.Field(&r.Biography,
			validation.When(r.Biography != nil, validation.Length(0, 5000)),
		),
		validation.Field(&r.Nationality,
			validation.When(r.Nationality != nil, validation.Length(0, 100)),
		),
		validation.Field(&r.Photo,
			validation.When(r.Photo != nil, is.URL.Error("photo must be a valid URL")),
		),
	)
}

// UpdateAuthorRequest carries only the fields being changed (PATCH).
type UpdateAuthorRequest struct {
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	Biography   *string `json:"biography,omitempty"`
	Nationality *string `json:"nationality,omitempty"`
	Photo       *string `json:"photo,omitempty"`
}

func (r UpdateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName,
			validation.When(r.FirstName != nil, validation.Length(1, 100)),
		),
		validation.Field(&r.LastName,
			validation.When(r.LastName != nil, validation.Length(1, 100)),
		),
		validation.Field(&r.Biography,
			validation.When(r.Biography != nil, validation.Length(0, 5000)),
		),
		validation.Field(&r.Nationality,
			validation.When(r.Nationality != nil, validation.Length(0, 100)),
		),
		validation.Field(&r.Photo,
			validation.When(r.Photo != nil, is.URL.Error("photo must be a valid URL")),
		),
	)
}
