package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/book/model"
)

type fakeBookRepo struct {
	mu      sync.Mutex
	books   map[uuid.UUID]*model.Book
	authors map[uuid.UUID]bool
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{
		books:   make(map[uuid.UUID]*model.Book),
		authors: make(map[uuid.UUID]bool),
	}
}

func (f *fakeBookRepo) Create(ctx context.Context, book *model.Book) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *book
	f.books[book.ID] = &cp
	return nil
}

func (f *fakeBookRepo) CreateTx(ctx context.Context, tx pgx.Tx, book *model.Book) error {
	return f.Create(ctx, book)
}

func (f *fakeBookRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	book, ok := f.books[id]
	if !ok {
		return nil, model.ErrBookNotFound
	}
	cp := *book
	return &cp, nil
}

func (f *fakeBookRepo) List(ctx context.Context, filter *model.BookFilter) ([]model.Book, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var books []model.Book
	for _, b := range f.books {
		books = append(books, *b)
	}
	return books, int64(len(books)), nil
}

// Update mirrors the real repository: the row is re-read at update time,
// patched and written back, never replaced by a copy fetched earlier.
// The mutex is dropped around apply because the patch may call back into
// the repo (author checks).
func (f *fakeBookRepo) Update(ctx context.Context, id uuid.UUID, apply func(*model.Book) error) (*model.Book, error) {
	f.mu.Lock()
	stored, ok := f.books[id]
	if !ok {
		f.mu.Unlock()
		return nil, model.ErrBookNotFound
	}
	cp := *stored
	f.mu.Unlock()

	if err := apply(&cp); err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.books[id] = &cp
	f.mu.Unlock()

	result := cp
	return &result, nil
}

func (f *fakeBookRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.books[id]; !ok {
		return model.ErrBookNotFound
	}
	delete(f.books, id)
	return nil
}

func (f *fakeBookRepo) DeleteBatch(ctx context.Context, ids []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		if _, ok := f.books[id]; !ok {
			return model.ErrBookNotFound
		}
	}
	for _, id := range ids {
		delete(f.books, id)
	}
	return nil
}

func (f *fakeBookRepo) UpdatePhotoURL(ctx context.Context, id uuid.UUID, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	book, ok := f.books[id]
	if !ok {
		return model.ErrBookNotFound
	}
	book.PhotoURL = url
	return nil
}

func (f *fakeBookRepo) AuthorExists(ctx context.Context, authorID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authors[authorID], nil
}

type fakeStorage struct {
	uploads map[string][]byte
}

func (f *fakeStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if f.uploads == nil {
		f.uploads = make(map[string][]byte)
	}
	f.uploads[key] = data
	return "https://storage.local/" + key, nil
}

func intPtr(v int) *int       { return &v }
func boolPtr(v bool) *bool    { return &v }
func strPtr(v string) *string { return &v }

func newBookFixture() (*fakeBookRepo, *fakeStorage, ServiceInterface, uuid.UUID) {
	repo := newFakeBookRepo()
	storage := &fakeStorage{}
	authorID := uuid.New()
	repo.authors[authorID] = true
	return repo, storage, NewBookService(repo, storage), authorID
}

func createRequest(authorID uuid.UUID, quantity *int) *model.CreateBookRequest {
	return &model.CreateBookRequest{
		Title:           "One Hundred Years of Solitude",
		AuthorID:        authorID.String(),
		YearPublished:   1967,
		Genre:           model.GenreFiction,
		PhotoURL:        "https://covers.local/solitude.jpg",
		Price:           12.50,
		QuantityInStock: quantity,
	}
}

func TestCreateBookDerivesAvailability(t *testing.T) {
	_, _, svc, authorID := newBookFixture()

	book, err := svc.Create(context.Background(), createRequest(authorID, intPtr(3)))
	require.NoError(t, err)
	assert.True(t, book.IsAvailable)

	empty, err := svc.Create(context.Background(), createRequest(authorID, intPtr(0)))
	require.NoError(t, err)
	assert.False(t, empty.IsAvailable)

	// Missing quantity means zero copies, not available.
	defaulted, err := svc.Create(context.Background(), createRequest(authorID, nil))
	require.NoError(t, err)
	assert.Equal(t, 0, defaulted.QuantityInStock)
	assert.False(t, defaulted.IsAvailable)
}

func TestCreateBookUnknownAuthor(t *testing.T) {
	_, _, svc, _ := newBookFixture()

	_, err := svc.Create(context.Background(), createRequest(uuid.New(), intPtr(1)))
	assert.ErrorIs(t, err, model.ErrAuthorNotFound)
}

func TestUpdateBookRejectsDirectAvailability(t *testing.T) {
	_, _, svc, authorID := newBookFixture()

	book, err := svc.Create(context.Background(), createRequest(authorID, intPtr(0)))
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), book.ID, &model.UpdateBookRequest{
		IsAvailable: boolPtr(true),
	})
	assert.ErrorIs(t, err, model.ErrAvailabilityDerived)
}

func TestUpdateBookStockRecomputesAvailability(t *testing.T) {
	repo, _, svc, authorID := newBookFixture()

	book, err := svc.Create(context.Background(), createRequest(authorID, intPtr(0)))
	require.NoError(t, err)
	assert.False(t, book.IsAvailable)

	updated, err := svc.Update(context.Background(), book.ID, &model.UpdateBookRequest{
		QuantityInStock: intPtr(7),
	})
	require.NoError(t, err)
	assert.True(t, updated.IsAvailable)

	stored, err := repo.GetByID(context.Background(), book.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsAvailable)

	drained, err := svc.Update(context.Background(), book.ID, &model.UpdateBookRequest{
		QuantityInStock: intPtr(0),
	})
	require.NoError(t, err)
	assert.False(t, drained.IsAvailable)
}

func TestUpdateBookPartialPatch(t *testing.T) {
	_, _, svc, authorID := newBookFixture()

	book, err := svc.Create(context.Background(), createRequest(authorID, intPtr(2)))
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), book.ID, &model.UpdateBookRequest{
		Title: strPtr("Cien años de soledad"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Cien años de soledad", updated.Title)
	assert.Equal(t, book.Genre, updated.Genre)
	assert.Equal(t, book.QuantityInStock, updated.QuantityInStock)
}

// A title-only patch must not write back stock it never touched: a loan
// committed after the book was last read (or cached) keeps its decrement.
func TestUpdateBookKeepsStockChangedElsewhere(t *testing.T) {
	repo, _, svc, authorID := newBookFixture()

	book, err := svc.Create(context.Background(), createRequest(authorID, intPtr(3)))
	require.NoError(t, err)

	// Stock changes behind the service's back, the way the loan
	// repository decrements it.
	repo.mu.Lock()
	repo.books[book.ID].QuantityInStock = 1
	repo.mu.Unlock()

	updated, err := svc.Update(context.Background(), book.ID, &model.UpdateBookRequest{
		Title: strPtr("Retitled"),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, updated.QuantityInStock)
	assert.True(t, updated.IsAvailable)

	stored, err := repo.GetByID(context.Background(), book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.QuantityInStock)
}

func TestUpdateBookInvalidGenre(t *testing.T) {
	_, _, svc, authorID := newBookFixture()

	book, err := svc.Create(context.Background(), createRequest(authorID, intPtr(1)))
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), book.ID, &model.UpdateBookRequest{
		Genre: strPtr("haiku"),
	})
	assert.ErrorIs(t, err, model.ErrInvalidGenre)
}

func TestListRejectsUnknownSortColumn(t *testing.T) {
	_, _, svc, _ := newBookFixture()

	_, _, err := svc.List(context.Background(), &model.BookFilter{SortBy: "password_hash"})
	assert.Error(t, err)
}

func TestListClampsLimit(t *testing.T) {
	_, _, svc, _ := newBookFixture()

	filter := &model.BookFilter{Limit: 5000}
	_, _, err := svc.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, 100, filter.Limit)
}

func TestUploadCoverStoresUnderBookKey(t *testing.T) {
	repo, storage, svc, authorID := newBookFixture()

	book, err := svc.Create(context.Background(), createRequest(authorID, intPtr(1)))
	require.NoError(t, err)

	url, err := svc.UploadCover(context.Background(), book.ID, []byte{0x89, 0x50}, "image/png")
	require.NoError(t, err)

	key := "books/" + book.ID.String() + "/cover.png"
	assert.Contains(t, storage.uploads, key)
	assert.Equal(t, "https://storage.local/"+key, url)

	stored, err := repo.GetByID(context.Background(), book.ID)
	require.NoError(t, err)
	assert.Equal(t, url, stored.PhotoURL)
}

func TestUploadCoverUnknownBook(t *testing.T) {
	_, _, svc, _ := newBookFixture()

	_, err := svc.UploadCover(context.Background(), uuid.New(), []byte("x"), "image/jpeg")
	assert.ErrorIs(t, err, model.ErrBookNotFound)
}
