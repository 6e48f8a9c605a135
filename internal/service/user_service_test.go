package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/respub-api/internal/models"
	appErrors "github.com/noah-isme/respub-api/pkg/errors"
)

type mockUserRepo struct {
	users     map[string]*models.User
	auditLogs []*models.AuditLog
}

func newMockUserRepo(users ...*models.User) *mockUserRepo {
	repo := &mockUserRepo{users: make(map[string]*models.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (m *mockUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	out := make([]models.User, 0, len(m.users))
	for _, user := range m.users {
		out = append(out, *user)
	}
	return out, len(out), nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

func TestUserServiceCreate(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	user, err := svc.Create(context.Background(), CreateUserRequest{
		Email: "Dean@SRM.edu", Role: models.RoleUser,
		College: "SRM Engineering College", Category: "Engineering", Password: "secret99",
	}, "actor", models.LoginRequest{})
	require.NoError(t, err)
	assert.Equal(t, "dean@srm.edu", user.Email)
	assert.NotEmpty(t, user.PasswordHash)
	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionUserCreate, repo.auditLogs[0].Action)
}

func TestUserServiceCreateRejectsUnscopedUser(t *testing.T) {
	svc := NewUserService(newMockUserRepo(), validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Email: "x@srm.edu", Role: models.RoleUser, Password: "secret99",
	}, "actor", models.LoginRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUserServiceCreateDuplicateEmail(t *testing.T) {
	repo := newMockUserRepo(&models.User{ID: "1", Email: "x@srm.edu", Role: models.RoleAdmin})
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Email: "x@srm.edu", Role: models.RoleAdmin, Password: "secret99",
	}, "actor", models.LoginRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestUserServiceUpdateEmptyPasswordKeepsHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("original"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := newMockUserRepo(&models.User{
		ID: "1", Email: "x@srm.edu", Role: models.RoleAdmin, PasswordHash: string(hash),
	})
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	updated, err := svc.Update(context.Background(), "1", UpdateUserRequest{
		Email: "x@srm.edu", Role: models.RoleAdmin, Password: "",
	}, "actor", models.LoginRequest{})
	require.NoError(t, err)
	assert.Equal(t, string(hash), updated.PasswordHash)

	// A non-empty password replaces the hash.
	updated, err = svc.Update(context.Background(), "1", UpdateUserRequest{
		Email: "x@srm.edu", Role: models.RoleAdmin, Password: "brand-new",
	}, "actor", models.LoginRequest{})
	require.NoError(t, err)
	assert.NotEqual(t, string(hash), updated.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("brand-new")))
}

func TestUserServiceUpdateNotFound(t *testing.T) {
	svc := NewUserService(newMockUserRepo(), validator.New(), zap.NewNop())

	_, err := svc.Update(context.Background(), "ghost", UpdateUserRequest{
		Email: "x@srm.edu", Role: models.RoleAdmin,
	}, "actor", models.LoginRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestUserServiceDelete(t *testing.T) {
	repo := newMockUserRepo(&models.User{ID: "1", Email: "x@srm.edu", Role: models.RoleAdmin})
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), "1", "actor", models.LoginRequest{}))
	assert.Empty(t, repo.users)

	err := svc.Delete(context.Background(), "1", "actor", models.LoginRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
