package repository

import (
	"context"

	"github.com/adisatriyo/inventory-api/internal/domain/entity"
)

// ProductRepository defines the interface for product store operations.
type ProductRepository interface {
	List(ctx context.Context) ([]*entity.Product, error)
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	Create(ctx context.Context, p *entity.Product) error
	// Update writes name, qty, category id, url and updated_by; created_by is
	// immutable after creation.
	Update(ctx context.Context, p *entity.Product) error
	Delete(ctx context.Context, id int64) error
}
