package repository

import (
	"context"
	"errors"

	"github.com/adisatriyo/inventory-api/internal/domain/entity"
)

// ErrCategoryReferenced is returned by DeleteIfUnreferenced when at least one
// product still points at the category.
var ErrCategoryReferenced = errors.New("category has associated products")

// CategoryRepository defines the interface for category store operations.
type CategoryRepository interface {
	List(ctx context.Context) ([]*entity.Category, error)
	Create(ctx context.Context, c *entity.Category) error
	Exists(ctx context.Context, id int64) (bool, error)
	// DeleteIfUnreferenced checks for referencing products and deletes the
	// category in a single transaction. Returns ErrCategoryReferenced when
	// products exist and ErrNotFound when the delete matches zero rows.
	DeleteIfUnreferenced(ctx context.Context, id int64) error
}
