package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/book/model"
)

func validImportRow() []string {
	return []string{
		"The Name of the Rose",
		uuid.New().String(),
		"1980",
		model.GenreMystery,
		"https://covers.local/rose.jpg",
		"15.99",
		"4",
		"A monastery murder mystery",
	}
}

func TestParseImportRow(t *testing.T) {
	row := validImportRow()

	book, err := parseImportRow(row)
	require.NoError(t, err)

	assert.Equal(t, "The Name of the Rose", book.Title)
	assert.Equal(t, 1980, book.YearPublished)
	assert.Equal(t, model.GenreMystery, book.Genre)
	assert.True(t, book.Price.Equal(decimal.RequireFromString("15.99")))
	assert.Equal(t, 4, book.QuantityInStock)
	assert.True(t, book.IsAvailable)
	require.NotNil(t, book.Description)
	assert.Equal(t, "A monastery murder mystery", *book.Description)
}

func TestParseImportRowTrailingCellsOmitted(t *testing.T) {
	// Sheets drop trailing empty cells, so a row can come back short.
	row := validImportRow()[:5]

	book, err := parseImportRow(row)
	require.NoError(t, err)

	assert.True(t, book.Price.IsZero())
	assert.Equal(t, 0, book.QuantityInStock)
	assert.False(t, book.IsAvailable)
	assert.Nil(t, book.Description)
}

func TestParseImportRowRejectsBadRows(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(row []string)
	}{
		{"missing title", func(row []string) { row[0] = "  " }},
		{"bad author id", func(row []string) { row[1] = "not-a-uuid" }},
		{"year too early", func(row []string) { row[2] = "1349" }},
		{"year not numeric", func(row []string) { row[2] = "MCMLXXX" }},
		{"unknown genre", func(row []string) { row[3] = "Telenovela" }},
		{"negative price", func(row []string) { row[5] = "-3.50" }},
		{"negative quantity", func(row []string) { row[6] = "-1" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			row := validImportRow()
			tc.mutate(row)

			_, err := parseImportRow(row)
			assert.Error(t, err)
		})
	}
}
