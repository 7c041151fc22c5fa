package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/author/model"
)

type memoryAuthorRepo struct {
	authors    map[uuid.UUID]*model.Author
	bookCounts map[uuid.UUID]int
	books      map[uuid.UUID][]model.AuthorBook
	lastFilter model.AuthorFilter
}

func newMemoryAuthorRepo() *memoryAuthorRepo {
	return &memoryAuthorRepo{
		authors:    make(map[uuid.UUID]*model.Author),
		bookCounts: make(map[uuid.UUID]int),
		books:      make(map[uuid.UUID][]model.AuthorBook),
	}
}

func (m *memoryAuthorRepo) Create(ctx context.Context, a *model.Author) error {
	cp := *a
	m.authors[a.ID] = &cp
	return nil
}

func (m *memoryAuthorRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	a, ok := m.authors[id]
	if !ok {
		return nil, model.ErrAuthorNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memoryAuthorRepo) GetAll(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int64, error) {
	m.lastFilter = filter
	var authors []model.Author
	for _, a := range m.authors {
		authors = append(authors, *a)
	}
	return authors, int64(len(authors)), nil
}

func (m *memoryAuthorRepo) Update(ctx context.Context, a *model.Author) error {
	if _, ok := m.authors[a.ID]; !ok {
		return model.ErrAuthorNotFound
	}
	cp := *a
	m.authors[a.ID] = &cp
	return nil
}

func (m *memoryAuthorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.authors[id]; !ok {
		return model.ErrAuthorNotFound
	}
	delete(m.authors, id)
	return nil
}

func (m *memoryAuthorRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.authors[id]
	return ok, nil
}

func (m *memoryAuthorRepo) GetBookCount(ctx context.Context, id uuid.UUID) (int, error) {
	return m.bookCounts[id], nil
}

// GetBooksByAuthor derives is_available from stock the way the SQL
// projection does.
func (m *memoryAuthorRepo) GetBooksByAuthor(ctx context.Context, id uuid.UUID) ([]model.AuthorBook, error) {
	books := make([]model.AuthorBook, 0, len(m.books[id]))
	for _, b := range m.books[id] {
		b.IsAvailable = b.QuantityInStock > 0
		books = append(books, b)
	}
	return books, nil
}

func TestDeleteAuthorWithBooksIsRefused(t *testing.T) {
	repo := newMemoryAuthorRepo()
	svc := NewAuthorService(repo)

	author, err := svc.Create(context.Background(), &model.CreateAuthorRequest{
		FirstName: "Umberto",
		LastName:  "Eco",
	})
	require.NoError(t, err)

	repo.bookCounts[author.ID] = 3

	err = svc.Delete(context.Background(), author.ID)
	assert.ErrorIs(t, err, model.ErrAuthorHasBooks)
	assert.Contains(t, repo.authors, author.ID)

	// Once the catalog no longer references the author, deletion goes through.
	repo.bookCounts[author.ID] = 0
	require.NoError(t, svc.Delete(context.Background(), author.ID))
	assert.NotContains(t, repo.authors, author.ID)
}

func TestUpdateAuthorPartialPatch(t *testing.T) {
	repo := newMemoryAuthorRepo()
	svc := NewAuthorService(repo)

	bio := "Semiotician and novelist"
	author, err := svc.Create(context.Background(), &model.CreateAuthorRequest{
		FirstName: "Umberto",
		LastName:  "Eco",
		Biography: &bio,
	})
	require.NoError(t, err)

	nationality := "Italian"
	updated, err := svc.Update(context.Background(), author.ID, &model.UpdateAuthorRequest{
		Nationality: &nationality,
	})
	require.NoError(t, err)

	assert.Equal(t, "Umberto", updated.FirstName)
	require.NotNil(t, updated.Biography)
	assert.Equal(t, bio, *updated.Biography)
	require.NotNil(t, updated.Nationality)
	assert.Equal(t, "Italian", *updated.Nationality)
}

func TestGetBooksDerivesAvailabilityFromStock(t *testing.T) {
	repo := newMemoryAuthorRepo()
	svc := NewAuthorService(repo)

	author, err := svc.Create(context.Background(), &model.CreateAuthorRequest{
		FirstName: "Gabriel",
		LastName:  "García Márquez",
	})
	require.NoError(t, err)

	repo.books[author.ID] = []model.AuthorBook{
		{ID: uuid.New(), Title: "One Hundred Years of Solitude", QuantityInStock: 4},
		{ID: uuid.New(), Title: "The Autumn of the Patriarch", QuantityInStock: 0},
	}

	books, err := svc.GetBooks(context.Background(), author.ID)
	require.NoError(t, err)
	require.Len(t, books, 2)

	byTitle := make(map[string]model.AuthorBook, len(books))
	for _, b := range books {
		byTitle[b.Title] = b
	}
	assert.True(t, byTitle["One Hundred Years of Solitude"].IsAvailable)
	assert.False(t, byTitle["The Autumn of the Patriarch"].IsAvailable)
}

func TestGetBooksUnknownAuthor(t *testing.T) {
	repo := newMemoryAuthorRepo()
	svc := NewAuthorService(repo)

	_, err := svc.GetBooks(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrAuthorNotFound)
}

func TestGetAllDefaultsAndWhitelistsSort(t *testing.T) {
	repo := newMemoryAuthorRepo()
	svc := NewAuthorService(repo)

	_, _, err := svc.GetAll(context.Background(), model.AuthorFilter{})
	require.NoError(t, err)
	assert.Equal(t, "created_at", repo.lastFilter.SortBy)
	assert.Equal(t, "DESC", repo.lastFilter.Order)
	assert.Equal(t, 20, repo.lastFilter.Limit)

	_, _, err = svc.GetAll(context.Background(), model.AuthorFilter{SortBy: "photo; DROP TABLE authors"})
	assert.Error(t, err)
}
