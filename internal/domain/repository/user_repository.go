package repository

import (
	"context"

	"github.com/adisatriyo/inventory-api/internal/domain/entity"
)

// UserRepository defines the interface for credential store operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
}
