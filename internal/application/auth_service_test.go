package application

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/adisatriyo/inventory-api/internal/domain/entity"
	repo "github.com/adisatriyo/inventory-api/internal/domain/repository"
	"github.com/adisatriyo/inventory-api/pkg/helpers"
)

type mockUserRepo struct {
	createFn        func(ctx context.Context, u *entity.User) error
	getByIDFn       func(ctx context.Context, id string) (*entity.User, error)
	getByUsernameFn func(ctx context.Context, username string) (*entity.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u *entity.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, u)
	}
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repo.ErrNotFound
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, repo.ErrNotFound
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testJWT() *helpers.JWTManager {
	return &helpers.JWTManager{Secret: []byte("test-secret"), TTL: time.Hour}
}

func TestRegister_HashesPassword(t *testing.T) {
	var created *entity.User
	users := &mockUserRepo{
		createFn: func(ctx context.Context, u *entity.User) error {
			u.ID = "u-1"
			created = u
			return nil
		},
	}
	svc := NewAuthService(users, testJWT(), quietLogger())

	u, err := svc.Register(context.Background(), "alice", "secret1")
	require.NoError(t, err)
	require.NotNil(t, created)
	require.Equal(t, "alice", u.Username)
	require.NotEqual(t, "secret1", u.Password)
	require.True(t, helpers.CompareHashAndPassword(u.Password, "secret1"))
}

func TestRegister_DuplicateUsername(t *testing.T) {
	createCalled := false
	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*entity.User, error) {
			return &entity.User{ID: "u-1", Username: username}, nil
		},
		createFn: func(ctx context.Context, u *entity.User) error {
			createCalled = true
			return nil
		},
	}
	svc := NewAuthService(users, testJWT(), quietLogger())

	_, err := svc.Register(context.Background(), "alice", "secret1")
	require.ErrorIs(t, err, ErrUsernameTaken)
	require.False(t, createCalled, "no user may be created on a duplicate username")
}

func TestLogin_UniformErrorForUnknownUserAndWrongPassword(t *testing.T) {
	hash, err := helpers.HashPassword("secret1")
	require.NoError(t, err)

	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*entity.User, error) {
			if username == "alice" {
				return &entity.User{ID: "u-1", Username: "alice", Password: hash}, nil
			}
			return nil, repo.ErrNotFound
		},
	}
	svc := NewAuthService(users, testJWT(), quietLogger())

	_, _, errUnknown := svc.Login(context.Background(), "bob", "whatever")
	_, _, errWrongPwd := svc.Login(context.Background(), "alice", "wrong")

	require.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	require.ErrorIs(t, errWrongPwd, ErrInvalidCredentials)
	// Identical error for both cases: no username enumeration.
	require.Equal(t, errUnknown.Error(), errWrongPwd.Error())
}

func TestLogin_IssuesTokenForSubject(t *testing.T) {
	hash, err := helpers.HashPassword("secret1")
	require.NoError(t, err)

	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*entity.User, error) {
			return &entity.User{ID: "u-42", Username: username, Password: hash}, nil
		},
	}
	jwt := testJWT()
	svc := NewAuthService(users, jwt, quietLogger())

	token, exp, err := svc.Login(context.Background(), "alice", "secret1")
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	claims, err := jwt.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "u-42", claims.UserID)
}

func TestLogin_StorageFailurePropagates(t *testing.T) {
	storeErr := errors.New("connection refused")
	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*entity.User, error) {
			return nil, storeErr
		},
	}
	svc := NewAuthService(users, testJWT(), quietLogger())

	_, _, err := svc.Login(context.Background(), "alice", "secret1")
	require.ErrorIs(t, err, storeErr)
	require.NotErrorIs(t, err, ErrInvalidCredentials, "an outage must not look like bad credentials")
}
