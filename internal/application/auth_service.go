package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/adisatriyo/inventory-api/internal/domain/entity"
	repo "github.com/adisatriyo/inventory-api/internal/domain/repository"
	"github.com/adisatriyo/inventory-api/pkg/helpers"
)

var (
	// ErrInvalidCredentials covers both unknown usernames and wrong passwords
	// so the login response cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already exists")
)

// AuthService registers users and issues bearer tokens.
type AuthService struct {
	Repo   repo.UserRepository
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewAuthService(repo repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *AuthService {
	return &AuthService{Repo: repo, JWT: jwt, Logger: logger}
}

// Register hashes the password and persists a new user. The username is
// checked before the insert; the unique constraint on users.username backstops
// concurrent registrations.
func (s *AuthService) Register(ctx context.Context, username, password string) (*entity.User, error) {
	existing, err := s.Repo.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &entity.User{Username: username, Password: hash}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login validates the credentials and issues a signed, time-limited token.
// Only an unknown username or a hash mismatch yields ErrInvalidCredentials;
// storage failures propagate so callers can answer 500, not 401.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	u, err := s.Repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", time.Time{}, ErrInvalidCredentials
		}
		return "", time.Time{}, err
	}
	if u == nil {
		return "", time.Time{}, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return "", time.Time{}, ErrInvalidCredentials
	}

	token, exp, err := s.JWT.GenerateToken(u.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		}
		return "", time.Time{}, err
	}
	return token, exp, nil
}
