package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"library-backend/internal/domains/user/model"
	"library-backend/pkg/jwt"
)

type memoryUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (m *memoryUserRepo) Create(ctx context.Context, u *model.User) error {
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memoryUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (m *memoryUserRepo) List(ctx context.Context, filter model.UserFilter) ([]model.User, int64, error) {
	var users []model.User
	for _, u := range m.users {
		if filter.Role == "" || u.Role == filter.Role {
			users = append(users, *u)
		}
	}
	return users, int64(len(users)), nil
}

func (m *memoryUserRepo) Update(ctx context.Context, u *model.User) error {
	if _, ok := m.users[u.ID]; !ok {
		return model.ErrUserNotFound
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memoryUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.users[id]; !ok {
		return model.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memoryUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func newUserFixture() (*memoryUserRepo, ServiceInterface) {
	repo := newMemoryUserRepo()
	manager := jwt.NewManager("test-secret", 15)
	return repo, NewUserService(repo, manager)
}

func registerRequest() *model.CreateUserRequest {
	return &model.CreateUserRequest{
		FirstName: "Marla",
		LastName:  "Svensson",
		Email:     "Marla@Library.Example",
		Password:  "correct horse battery",
		Role:      model.RoleLibrarian,
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	repo, svc := newUserFixture()

	resp, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	assert.Equal(t, "marla@library.example", resp.Email)

	stored := repo.users[resp.ID]
	require.NotNil(t, stored)
	assert.NotContains(t, stored.PasswordHash, "correct horse")
	assert.NoError(t, bcrypt.CompareHashAndPassword(
		[]byte(stored.PasswordHash), []byte("correct horse battery")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	_, svc := newUserFixture()

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	req := registerRequest()
	req.Email = strings.ToUpper(req.Email)
	_, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, model.ErrEmailAlreadyExists)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	_, svc := newUserFixture()

	req := registerRequest()
	req.Role = "admin"
	_, err := svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, model.ErrInvalidRole)
}

func TestLoginSuccess(t *testing.T) {
	_, svc := newUserFixture()

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "marla@library.example",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, model.RoleLibrarian, resp.User.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	_, svc := newUserFixture()

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &model.LoginRequest{
		Email:    "marla@library.example",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestLoginUnknownEmailLooksLikeBadCredentials(t *testing.T) {
	_, svc := newUserFixture()

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "nobody@library.example",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestLoginExpectedRoleMismatch(t *testing.T) {
	_, svc := newUserFixture()

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	expected := model.RoleMember
	_, err = svc.Login(context.Background(), &model.LoginRequest{
		Email:        "marla@library.example",
		Password:     "correct horse battery",
		ExpectedRole: &expected,
	})
	assert.ErrorIs(t, err, model.ErrRoleMismatch)
}

func TestRefreshRoundTrip(t *testing.T) {
	_, svc := newUserFixture()

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "marla@library.example",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, login.User.ID, refreshed.User.ID)
	assert.NotEmpty(t, refreshed.AccessToken)

	// An access token is not a refresh token.
	_, err = svc.Refresh(context.Background(), login.AccessToken)
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestUpdateKeepsHashWithoutNewPassword(t *testing.T) {
	repo, svc := newUserFixture()

	resp, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	originalHash := repo.users[resp.ID].PasswordHash

	newLast := "Svensson-Berg"
	_, err = svc.Update(context.Background(), resp.ID, &model.UpdateUserRequest{LastName: &newLast})
	require.NoError(t, err)
	assert.Equal(t, originalHash, repo.users[resp.ID].PasswordHash)

	newPassword := "a different passphrase"
	_, err = svc.Update(context.Background(), resp.ID, &model.UpdateUserRequest{Password: &newPassword})
	require.NoError(t, err)
	assert.NotEqual(t, originalHash, repo.users[resp.ID].PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword(
		[]byte(repo.users[resp.ID].PasswordHash), []byte(newPassword)))
}
