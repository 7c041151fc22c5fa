package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Genres form a closed set; anything else is rejected at the boundary.
const (
	GenreFiction        = "Fiction"
	GenreNonFiction     = "Non-Fiction"
	GenreScienceFiction = "Science Fiction"
	GenreBiography      = "Biography"
	GenreMystery        = "Mystery"
	GenreFantasy        = "Fantasy"
	GenreRomance        = "Romance"
	GenreThriller       = "Thriller"
	GenreHistorical     = "Historical"
)

var ValidGenres = []string{
	GenreFiction,
	GenreNonFiction,
	GenreScienceFiction,
	GenreBiography,
	GenreMystery,
	GenreFantasy,
	GenreRomance,
	GenreThriller,
	GenreHistorical,
}

func IsValidGenre(genre string) bool {
	for _, g := range ValidGenres {
		if g == genre {
			return true
		}
	}
	return false
}

// Book is the catalog entity. IsAvailable is stored for query-ability but
// always recomputed from QuantityInStock inside the same transaction as the
// stock write; it is never independent client input.
type Book struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	Title           string          `json:"title" db:"title"`
	YearPublished   int             `json:"year_published" db:"year_published"`
	Genre           string          `json:"genre" db:"genre"`
	PhotoURL        string          `json:"photo_url" db:"photo_url"`
	Images          pq.StringArray  `json:"images" db:"images"`
	Price           decimal.Decimal `json:"price" db:"price"`
	Description     *string         `json:"description" db:"description"`
	QuantityInStock int             `json:"quantity_in_stock" db:"quantity_in_stock"`
	IsAvailable     bool            `json:"is_available" db:"is_available"`
	AuthorID        uuid.UUID       `json:"author_id" db:"author_id"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`

	// Joined data, populated by list/get queries only.
	AuthorFirstName string `json:"author_first_name,omitempty" db:"author_first_name"`
	AuthorLastName  string `json:"author_last_name,omitempty" db:"author_last_name"`
}

// Available is the derivation rule. Every write path stores exactly this.
func (b *Book) Available() bool {
	return b.QuantityInStock > 0
}

// RecomputeAvailability enforces the invariant after a stock mutation.
func (b *Book) RecomputeAvailability() {
	b.IsAvailable = b.Available()
}

type BookFilter struct {
	Genre       string
	IsAvailable *bool
	Limit       int
	Offset      int
	SortBy      string
	Order       string
}

type BookListResponse struct {
	Data       []Book `json:"data"`
	TotalCount int64  `json:"total_count"`
}
