package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clientmodel "library-backend/internal/domains/client/model"
	"library-backend/internal/domains/loan/model"
	usermodel "library-backend/internal/domains/user/model"
)

// fakeLoanRepo mimics the transactional repository: stock moves under a
// single lock, exactly like the row lock the real one takes.
type fakeLoanRepo struct {
	mu    sync.Mutex
	stock map[uuid.UUID]int
	loans map[uuid.UUID]*model.Loan
}

func newFakeLoanRepo() *fakeLoanRepo {
	return &fakeLoanRepo{
		stock: make(map[uuid.UUID]int),
		loans: make(map[uuid.UUID]*model.Loan),
	}
}

func (f *fakeLoanRepo) Create(ctx context.Context, loan *model.Loan) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	stock, ok := f.stock[loan.BookID]
	if !ok {
		return model.ErrBookNotFound
	}
	if stock < loan.Quantity {
		return model.ErrInsufficientStock
	}

	f.stock[loan.BookID] = stock - loan.Quantity
	cp := *loan
	f.loans[loan.ID] = &cp
	return nil
}

func (f *fakeLoanRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.LoanDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	loan, ok := f.loans[id]
	if !ok {
		return nil, model.ErrLoanNotFound
	}
	return &model.LoanDetail{Loan: *loan}, nil
}

func (f *fakeLoanRepo) List(ctx context.Context, filter model.LoanFilter) ([]model.LoanDetail, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var details []model.LoanDetail
	for _, loan := range f.loans {
		details = append(details, model.LoanDetail{Loan: *loan})
	}
	return details, int64(len(details)), nil
}

func (f *fakeLoanRepo) MarkReturned(ctx context.Context, id uuid.UUID, returnDate time.Time) (*model.Loan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	loan, ok := f.loans[id]
	if !ok {
		return nil, model.ErrLoanNotFound
	}
	if loan.Returned {
		return nil, model.ErrAlreadyReturned
	}

	loan.Returned = true
	loan.ReturnDate = &returnDate
	f.stock[loan.BookID] += loan.Quantity
	cp := *loan
	return &cp, nil
}

func (f *fakeLoanRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	loan, ok := f.loans[id]
	if !ok {
		return model.ErrLoanNotFound
	}
	if !loan.Returned {
		f.stock[loan.BookID] += loan.Quantity
	}
	delete(f.loans, id)
	return nil
}

func (f *fakeLoanRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]model.LoanDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var overdue []model.LoanDetail
	for _, loan := range f.loans {
		if loan.IsOverdue(asOf) {
			overdue = append(overdue, model.LoanDetail{Loan: *loan})
		}
	}
	return overdue, nil
}

func (f *fakeLoanRepo) stockOf(bookID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stock[bookID]
}

type fakeClientRepo struct {
	clients map[uuid.UUID]*clientmodel.Client
}

func (f *fakeClientRepo) Create(ctx context.Context, c *clientmodel.Client) error { return nil }
func (f *fakeClientRepo) GetByID(ctx context.Context, id uuid.UUID) (*clientmodel.Client, error) {
	c, ok := f.clients[id]
	if !ok {
		return nil, clientmodel.ErrClientNotFound
	}
	return c, nil
}
func (f *fakeClientRepo) List(ctx context.Context, filter clientmodel.ClientFilter) ([]clientmodel.Client, int64, error) {
	return nil, 0, nil
}
func (f *fakeClientRepo) Update(ctx context.Context, c *clientmodel.Client) error { return nil }
func (f *fakeClientRepo) Delete(ctx context.Context, id uuid.UUID) error          { return nil }
func (f *fakeClientRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return false, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*usermodel.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u *usermodel.User) error { return nil }
func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*usermodel.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, usermodel.ErrUserNotFound
	}
	return u, nil
}
func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*usermodel.User, error) {
	return nil, usermodel.ErrUserNotFound
}
func (f *fakeUserRepo) List(ctx context.Context, filter usermodel.UserFilter) ([]usermodel.User, int64, error) {
	return nil, 0, nil
}
func (f *fakeUserRepo) Update(ctx context.Context, u *usermodel.User) error { return nil }
func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error      { return nil }
func (f *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return false, nil
}

type loanFixture struct {
	service     ServiceInterface
	repo        *fakeLoanRepo
	bookID      uuid.UUID
	clientID    uuid.UUID
	librarianID uuid.UUID
}

func newLoanFixture(t *testing.T, stock int) *loanFixture {
	t.Helper()

	bookID := uuid.New()
	clientID := uuid.New()
	librarianID := uuid.New()

	repo := newFakeLoanRepo()
	repo.stock[bookID] = stock

	clients := &fakeClientRepo{clients: map[uuid.UUID]*clientmodel.Client{
		clientID: {ID: clientID, Name: "Ada Lovelace", Status: clientmodel.StatusActive},
	}}
	users := &fakeUserRepo{users: map[uuid.UUID]*usermodel.User{
		librarianID: {ID: librarianID, FirstName: "Jorge", LastName: "Mendez", Role: usermodel.RoleLibrarian},
	}}

	return &loanFixture{
		service:     NewLoanService(repo, clients, users, 30),
		repo:        repo,
		bookID:      bookID,
		clientID:    clientID,
		librarianID: librarianID,
	}
}

func (fx *loanFixture) createRequest(quantity int) *model.CreateLoanRequest {
	return &model.CreateLoanRequest{
		ClientID: fx.clientID.String(),
		BookID:   fx.bookID.String(),
		Quantity: quantity,
	}
}

func TestCreateLoanDecrementsStock(t *testing.T) {
	fx := newLoanFixture(t, 5)

	loan, err := fx.service.Create(context.Background(), fx.librarianID, fx.createRequest(2))
	require.NoError(t, err)

	assert.Equal(t, 2, loan.Quantity)
	assert.Equal(t, fx.librarianID, loan.LibrarianID)
	assert.False(t, loan.Returned)
	assert.Equal(t, 3, fx.repo.stockOf(fx.bookID))
	assert.Equal(t, loan.BorrowDate.AddDate(0, 0, 30), loan.DueDate)
}

func TestCreateLoanDefaultsQuantityToOne(t *testing.T) {
	fx := newLoanFixture(t, 5)

	loan, err := fx.service.Create(context.Background(), fx.librarianID, fx.createRequest(0))
	require.NoError(t, err)

	assert.Equal(t, 1, loan.Quantity)
	assert.Equal(t, 4, fx.repo.stockOf(fx.bookID))
}

func TestCreateLoanInsufficientStock(t *testing.T) {
	fx := newLoanFixture(t, 1)

	_, err := fx.service.Create(context.Background(), fx.librarianID, fx.createRequest(2))
	assert.ErrorIs(t, err, model.ErrInsufficientStock)
	assert.Equal(t, 1, fx.repo.stockOf(fx.bookID))
}

func TestCreateLoanExactStockBoundary(t *testing.T) {
	fx := newLoanFixture(t, 3)

	loan, err := fx.service.Create(context.Background(), fx.librarianID, fx.createRequest(3))
	require.NoError(t, err)
	assert.Equal(t, 0, fx.repo.stockOf(fx.bookID))

	// Nothing left for the next borrower.
	_, err = fx.service.Create(context.Background(), fx.librarianID, fx.createRequest(1))
	assert.ErrorIs(t, err, model.ErrInsufficientStock)

	_, err = fx.service.MarkReturned(context.Background(), loan.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, fx.repo.stockOf(fx.bookID))
}

func TestCreateLoanClientInactive(t *testing.T) {
	fx := newLoanFixture(t, 5)
	inactiveID := uuid.New()
	fx2 := fx.service.(*loanService)
	fx2.clients.(*fakeClientRepo).clients[inactiveID] = &clientmodel.Client{
		ID:     inactiveID,
		Status: clientmodel.StatusInactive,
	}

	req := fx.createRequest(1)
	req.ClientID = inactiveID.String()

	_, err := fx.service.Create(context.Background(), fx.librarianID, req)
	assert.ErrorIs(t, err, model.ErrClientInactive)
}

func TestCreateLoanClientNotFound(t *testing.T) {
	fx := newLoanFixture(t, 5)

	req := fx.createRequest(1)
	req.ClientID = uuid.New().String()

	_, err := fx.service.Create(context.Background(), fx.librarianID, req)
	assert.ErrorIs(t, err, model.ErrClientNotFound)
}

func TestCreateLoanRejectsNonLibrarian(t *testing.T) {
	fx := newLoanFixture(t, 5)
	memberID := uuid.New()
	fx.service.(*loanService).users.(*fakeUserRepo).users[memberID] = &usermodel.User{
		ID:   memberID,
		Role: usermodel.RoleMember,
	}

	_, err := fx.service.Create(context.Background(), memberID, fx.createRequest(1))
	assert.ErrorIs(t, err, model.ErrNotLibrarian)
}

func TestCreateLoanLibrarianNotFound(t *testing.T) {
	fx := newLoanFixture(t, 5)

	_, err := fx.service.Create(context.Background(), uuid.New(), fx.createRequest(1))
	assert.ErrorIs(t, err, model.ErrLibrarianNotFound)
}

func TestMarkReturnedTwiceFails(t *testing.T) {
	fx := newLoanFixture(t, 2)

	loan, err := fx.service.Create(context.Background(), fx.librarianID, fx.createRequest(1))
	require.NoError(t, err)

	returned, err := fx.service.MarkReturned(context.Background(), loan.ID)
	require.NoError(t, err)
	assert.True(t, returned.Returned)
	require.NotNil(t, returned.ReturnDate)
	assert.Equal(t, 2, fx.repo.stockOf(fx.bookID))

	_, err = fx.service.MarkReturned(context.Background(), loan.ID)
	assert.ErrorIs(t, err, model.ErrAlreadyReturned)
	assert.Equal(t, 2, fx.repo.stockOf(fx.bookID))
}

func TestDeleteOpenLoanRestoresStock(t *testing.T) {
	fx := newLoanFixture(t, 4)

	loan, err := fx.service.Create(context.Background(), fx.librarianID, fx.createRequest(3))
	require.NoError(t, err)
	assert.Equal(t, 1, fx.repo.stockOf(fx.bookID))

	require.NoError(t, fx.service.Delete(context.Background(), loan.ID))
	assert.Equal(t, 4, fx.repo.stockOf(fx.bookID))
}

func TestDeleteReturnedLoanLeavesStockAlone(t *testing.T) {
	fx := newLoanFixture(t, 4)

	loan, err := fx.service.Create(context.Background(), fx.librarianID, fx.createRequest(2))
	require.NoError(t, err)

	_, err = fx.service.MarkReturned(context.Background(), loan.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, fx.repo.stockOf(fx.bookID))

	require.NoError(t, fx.service.Delete(context.Background(), loan.ID))
	assert.Equal(t, 4, fx.repo.stockOf(fx.bookID))
}

// With one copy left, N concurrent borrowers must produce exactly one
// loan: the conditional decrement in the repository is the only stock
// gate, and it cannot go below zero.
func TestConcurrentLoansNeverOversell(t *testing.T) {
	const attempts = 50

	fx := newLoanFixture(t, 1)

	var wg sync.WaitGroup
	errs := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fx.service.Create(context.Background(), fx.librarianID, fx.createRequest(1))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, failed int
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, model.ErrInsufficientStock)
			failed++
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, failed)
	assert.Equal(t, 0, fx.repo.stockOf(fx.bookID))
}

func TestListOverdue(t *testing.T) {
	fx := newLoanFixture(t, 5)

	loan, err := fx.service.Create(context.Background(), fx.librarianID, fx.createRequest(1))
	require.NoError(t, err)

	// Not overdue yet.
	overdue, err := fx.service.ListOverdue(context.Background(), loan.DueDate.Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, overdue)

	overdue, err = fx.service.ListOverdue(context.Background(), loan.DueDate.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, loan.ID, overdue[0].ID)

	// A returned loan drops out of the scan.
	_, err = fx.service.MarkReturned(context.Background(), loan.ID)
	require.NoError(t, err)

	overdue, err = fx.service.ListOverdue(context.Background(), loan.DueDate.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, overdue)
}
