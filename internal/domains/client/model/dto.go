package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var statusRule = validation.In(StatusActive, StatusInactive)

type CreateClientRequest struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	Status  string  `json:"status,omitempty"`
}

func (r CreateClientRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Phone, validation.Length(0, 32)),
		validation.Field(&r.Address, validation.Length(0, 512)),
		validation.Field(&r.Status, statusRule),
	)
}

type UpdateClientRequest struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	Status  *string `json:"status,omitempty"`
}

func (r UpdateClientRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Length(1, 255)),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.Phone, validation.Length(0, 32)),
		validation.Field(&r.Address, validation.Length(0, 512)),
		validation.Field(&r.Status, statusRule),
	)
}
