package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var roleRule = validation.In(RoleLibrarian, RoleMember)

type CreateUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

func (r CreateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&r.Role, validation.Required, roleRule),
	)
}

// LoginRequest optionally pins the expected role: a credential match for a
// user of a different role is still rejected.
type LoginRequest struct {
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	ExpectedRole *string `json:"expected_role,omitempty"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.ExpectedRole, roleRule),
	)
}

type UpdateUserRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Password  *string `json:"password,omitempty"`
	Role      *string `json:"role,omitempty"`
}

func (r UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Length(1, 255)),
		validation.Field(&r.LastName, validation.Length(1, 255)),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.Password, validation.Length(8, 72)),
		validation.Field(&r.Role, roleRule),
	)
}
