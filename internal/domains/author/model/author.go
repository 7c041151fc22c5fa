package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Author struct {
	ID          uuid.UUID `json:"id" db:"id"`
	FirstName   string    `json:"first_name" db:"first_name"`
	LastName    string    `json:"last_name" db:"last_name"`
	Biography   *string   `json:"biography" db:"biography"`
	Nationality *string   `json:"nationality" db:"nationality"`
	Photo       *string   `json:"photo" db:"photo"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// AuthorBook is the "books by this author" projection. Availability is
// derived from stock in the query, the same way the book repository
// derives it, so both surfaces always agree.
type AuthorBook struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	Title           string          `json:"title" db:"title"`
	YearPublished   int             `json:"year_published" db:"year_published"`
	Genre           string          `json:"genre" db:"genre"`
	PhotoURL        string          `json:"photo_url" db:"photo_url"`
	Price           decimal.Decimal `json:"price" db:"price"`
	QuantityInStock int             `json:"quantity_in_stock" db:"quantity_in_stock"`
	IsAvailable     bool            `json:"is_available" db:"is_available"`
}

type AuthorResponse struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Biography   *string   `json:"biography,omitempty"`
	Nationality *string   `json:"nationality,omitempty"`
	Photo       *string   `json:"photo,omitempty"`
}

func (a *Author) ToResponse() *AuthorResponse {
	return &AuthorResponse{
		ID:          a.ID,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Biography:   a.Biography,
		Nationality: a.Nationality,
		Photo:       a.Photo,
	}
}

type AuthorFilter struct {
	Limit  int
	Offset int
	SortBy string
	Order  string
	Search string
}

type AuthorListResponse struct {
	Data       []AuthorResponse `json:"data"`
	TotalCount int64            `json:"total_count"`
}
