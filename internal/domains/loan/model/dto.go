package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// CreateLoanRequest carries no librarian id: the librarian is whoever is
// authenticated, taken from the request principal.
type CreateLoanRequest struct {
	ClientID string `json:"client_id"`
	BookID   string `json:"book_id"`
	Quantity int    `json:"quantity,omitempty"`
}

func (r CreateLoanRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ClientID, validation.Required, is.UUIDv4),
		validation.Field(&r.BookID, validation.Required, is.UUIDv4),
		validation.Field(&r.Quantity, validation.Min(0)),
	)
}
