package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adisatriyo/inventory-api/internal/domain/entity"
	"github.com/adisatriyo/inventory-api/internal/domain/repository"
)

type CategoryRepository struct {
	pool *pgxpool.Pool
}

func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

func (r *CategoryRepository) List(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, attributes, created_at, updated_at
		FROM categories
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*entity.Category, 0)
	for rows.Next() {
		c := &entity.Category{}
		if err := rows.Scan(&c.ID, &c.Attributes, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CategoryRepository) Create(ctx context.Context, c *entity.Category) error {
	if c.Attributes == nil {
		c.Attributes = map[string]any{}
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO categories (attributes)
		VALUES ($1)
		RETURNING id, created_at, updated_at
	`, c.Attributes)

	return row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CategoryRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)
	`, id).Scan(&exists)
	return exists, err
}

// DeleteIfUnreferenced performs the reference check and the delete inside one
// transaction so a product created between the two statements cannot be
// orphaned.
func (r *CategoryRepository) DeleteIfUnreferenced(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var refs int64
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM products WHERE category_id = $1
	`, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return repository.ErrCategoryReferenced
	}

	res, err := tx.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return tx.Commit(ctx)
}

var _ repository.CategoryRepository = (*CategoryRepository)(nil)
