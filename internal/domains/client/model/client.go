package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

func IsValidStatus(status string) bool {
	return status == StatusActive || status == StatusInactive
}

// Client is a library member who borrows books. Members never log in,
// they are records managed by librarians.
type Client struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     *string   `json:"phone" db:"phone"`
	Address   *string   `json:"address" db:"address"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (c *Client) IsActive() bool {
	return c.Status == StatusActive
}

type ClientFilter struct {
	Status string
	Search string
	Limit  int
	Offset int
}
