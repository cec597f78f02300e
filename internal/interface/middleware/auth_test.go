package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/adisatriyo/inventory-api/internal/domain/entity"
	repo "github.com/adisatriyo/inventory-api/internal/domain/repository"
	"github.com/adisatriyo/inventory-api/pkg/helpers"
)

type userRepoStub struct {
	getByIDFn func(ctx context.Context, id string) (*entity.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, u *entity.User) error { return nil }

func (s *userRepoStub) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, repo.ErrNotFound
}

func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return nil, repo.ErrNotFound
}

func newAuthedRouter(t *testing.T, jwt *helpers.JWTManager, extra ...gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{BearerAuth(jwt)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		actor := ActorFrom(c)
		username, _ := actor.Username()
		c.JSON(http.StatusOK, gin.H{"uid": actor.UserID, "username": username})
	})
	r.GET("/protected", handlers...)
	return r
}

func doGet(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBearerAuth_MissingToken(t *testing.T) {
	jwt := &helpers.JWTManager{Secret: []byte("s"), TTL: time.Hour}
	r := newAuthedRouter(t, jwt)

	w := doGet(r, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.JSONEq(t, `{"message":"Authentication token is missing"}`, w.Body.String())
}

func TestBearerAuth_MalformedHeader(t *testing.T) {
	jwt := &helpers.JWTManager{Secret: []byte("s"), TTL: time.Hour}
	r := newAuthedRouter(t, jwt)

	w := doGet(r, "Basic abc")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBearerAuth_InvalidToken(t *testing.T) {
	jwt := &helpers.JWTManager{Secret: []byte("s"), TTL: time.Hour}
	r := newAuthedRouter(t, jwt)

	w := doGet(r, "Bearer not-a-token")
	require.Equal(t, http.StatusForbidden, w.Code)
	require.JSONEq(t, `{"message":"Token is not valid"}`, w.Body.String())
}

func TestBearerAuth_WrongSecret(t *testing.T) {
	issuer := &helpers.JWTManager{Secret: []byte("other"), TTL: time.Hour}
	token, _, err := issuer.GenerateToken("u-1")
	require.NoError(t, err)

	jwt := &helpers.JWTManager{Secret: []byte("s"), TTL: time.Hour}
	r := newAuthedRouter(t, jwt)

	w := doGet(r, "Bearer "+token)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestBearerAuth_ValidTokenSetsActor(t *testing.T) {
	jwt := &helpers.JWTManager{Secret: []byte("s"), TTL: time.Hour}
	token, _, err := jwt.GenerateToken("u-1")
	require.NoError(t, err)

	r := newAuthedRouter(t, jwt)
	w := doGet(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"uid":"u-1","username":""}`, w.Body.String())
}

func TestHydrateActor_FillsUsernameFromStore(t *testing.T) {
	jwt := &helpers.JWTManager{Secret: []byte("s"), TTL: time.Hour}
	token, _, err := jwt.GenerateToken("u-1")
	require.NoError(t, err)

	users := &userRepoStub{
		getByIDFn: func(ctx context.Context, id string) (*entity.User, error) {
			return &entity.User{ID: id, Username: "alice"}, nil
		},
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	r := newAuthedRouter(t, jwt, HydrateActor(users, nil, time.Minute, logger))
	w := doGet(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"uid":"u-1","username":"alice"}`, w.Body.String())
}

func TestHydrateActor_DeletedUserStaysClaimsOnly(t *testing.T) {
	jwt := &helpers.JWTManager{Secret: []byte("s"), TTL: time.Hour}
	token, _, err := jwt.GenerateToken("u-1")
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	r := newAuthedRouter(t, jwt, HydrateActor(&userRepoStub{}, nil, time.Minute, logger))
	w := doGet(r, "Bearer "+token)
	// The request still passes; only handlers that need the username reject it.
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"uid":"u-1","username":""}`, w.Body.String())
}

func TestHydrateActor_UnreachableCacheFallsBackToStore(t *testing.T) {
	jwt := &helpers.JWTManager{Secret: []byte("s"), TTL: time.Hour}
	token, _, err := jwt.GenerateToken("u-1")
	require.NoError(t, err)

	users := &userRepoStub{
		getByIDFn: func(ctx context.Context, id string) (*entity.User, error) {
			return &entity.User{ID: id, Username: "alice"}, nil
		},
	}
	// Nothing listens here; every cache call fails fast.
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	r := newAuthedRouter(t, jwt, HydrateActor(users, rdb, time.Minute, logger))
	w := doGet(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"uid":"u-1","username":"alice"}`, w.Body.String())
}
