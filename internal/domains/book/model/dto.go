package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type CreateBookRequest struct {
	Title           string   `json:"title"`
	AuthorID        string   `json:"author_id"`
	YearPublished   int      `json:"year_published"`
	Genre           string   `json:"genre"`
	PhotoURL        string   `json:"photo_url"`
	Images          []string `json:"images,omitempty"`
	Price           float64  `json:"price"`
	QuantityInStock *int     `json:"quantity_in_stock,omitempty"`
	Description     *string  `json:"description,omitempty"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 255),
		),
		validation.Field(&r.AuthorID,
			validation.Required.Error("author_id is required"),
			is.UUIDv4.Error("author_id must be a valid UUID"),
		),
		validation.Field(&r.YearPublished,
			validation.Required.Error("year_published is required"),
			validation.Min(1500), validation.Max(2025),
		),
		validation.Field(&r.Genre,
			validation.Required.Error("genre is required"),
			validation.By(genreRule),
		),
		validation.Field(&r.PhotoURL,
			validation.Required.Error("photo_url is required"),
		),
		validation.Field(&r.Price,
			validation.Min(0.0).Error("price must not be negative"),
		),
		validation.Field(&r.QuantityInStock,
			validation.When(r.QuantityInStock != nil, validation.Min(0).Error("quantity_in_stock must not be negative")),
		),
	)
}

// UpdateBookRequest carries only the fields being changed (PATCH).
// IsAvailable is parsed so its presence can be rejected: availability is
// derived from stock, never set by clients.
type UpdateBookRequest struct {
	Title           *string  `json:"title,omitempty"`
	AuthorID        *string  `json:"author_id,omitempty"`
	YearPublished   *int     `json:"year_published,omitempty"`
	Genre           *string  `json:"genre,omitempty"`
	PhotoURL        *string  `json:"photo_url,omitempty"`
	Images          []string `json:"images,omitempty"`
	Price           *float64 `json:"price,omitempty"`
	QuantityInStock *int     `json:"quantity_in_stock,omitempty"`
	Description     *string  `json:"description,omitempty"`
	IsAvailable     *bool    `json:"is_available,omitempty"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.When(r.Title != nil, validation.Length(1, 255)),
		),
		validation.Field(&r.AuthorID,
			validation.When(r.AuthorID != nil, is.UUIDv4.Error("author_id must be a valid UUID")),
		),
		validation.Field(&r.YearPublished,
			validation.When(r.YearPublished != nil, validation.Min(1500), validation.Max(2025)),
		),
		validation.Field(&r.Genre,
			validation.When(r.Genre != nil, validation.By(genrePtrRule)),
		),
		validation.Field(&r.Price,
			validation.When(r.Price != nil, validation.Min(0.0).Error("price must not be negative")),
		),
		validation.Field(&r.QuantityInStock,
			validation.When(r.QuantityInStock != nil, validation.Min(0).Error("quantity_in_stock must not be negative")),
		),
	)
}

type BatchDeleteRequest struct {
	IDs []string `json:"ids"`
}

func (r BatchDeleteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.IDs,
			validation.Required.Error("ids is required"),
			validation.Length(1, 100),
			validation.Each(is.UUIDv4.Error("each id must be a valid UUID")),
		),
	)
}

func genreRule(value interface{}) error {
	genre, _ := value.(string)
	if !IsValidGenre(genre) {
		return ErrInvalidGenre
	}
	return nil
}

func genrePtrRule(value interface{}) error {
	genre, ok := value.(*string)
	if !ok || genre == nil {
		return nil
	}
	if !IsValidGenre(*genre) {
		return ErrInvalidGenre
	}
	return nil
}

// BulkImportResult reports the outcome of an xlsx import.
type BulkImportResult struct {
	Imported int      `json:"imported"`
	BookIDs  []string `json:"book_ids"`
}
