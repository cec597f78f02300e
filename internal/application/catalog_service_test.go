package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adisatriyo/inventory-api/internal/domain/entity"
	repo "github.com/adisatriyo/inventory-api/internal/domain/repository"
)

type mockCategoryRepo struct {
	listFn   func(ctx context.Context) ([]*entity.Category, error)
	createFn func(ctx context.Context, c *entity.Category) error
	existsFn func(ctx context.Context, id int64) (bool, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (m *mockCategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockCategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	if m.createFn != nil {
		return m.createFn(ctx, c)
	}
	return nil
}

func (m *mockCategoryRepo) Exists(ctx context.Context, id int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, id)
	}
	return true, nil
}

func (m *mockCategoryRepo) DeleteIfUnreferenced(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockProductRepo struct {
	listFn   func(ctx context.Context) ([]*entity.Product, error)
	getFn    func(ctx context.Context, id int64) (*entity.Product, error)
	createFn func(ctx context.Context, p *entity.Product) error
	updateFn func(ctx context.Context, p *entity.Product) error
	deleteFn func(ctx context.Context, id int64) error
}

func (m *mockProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, repo.ErrNotFound
}

func (m *mockProductRepo) Create(ctx context.Context, p *entity.Product) error {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	return nil
}

func (m *mockProductRepo) Update(ctx context.Context, p *entity.Product) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, p)
	}
	return nil
}

func (m *mockProductRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type capturePublisher struct {
	jobs []any
}

func (p *capturePublisher) PublishJSON(ctx context.Context, body any) error {
	p.jobs = append(p.jobs, body)
	return nil
}

func TestDeleteCategory_BlockedByReferences(t *testing.T) {
	cats := &mockCategoryRepo{
		deleteFn: func(ctx context.Context, id int64) error {
			return repo.ErrCategoryReferenced
		},
	}
	svc := NewCatalogService(cats, &mockProductRepo{}, quietLogger())

	err := svc.DeleteCategory(context.Background(), 1)
	require.ErrorIs(t, err, ErrCategoryInUse)
}

func TestDeleteCategory_NotFound(t *testing.T) {
	cats := &mockCategoryRepo{
		deleteFn: func(ctx context.Context, id int64) error {
			return repo.ErrNotFound
		},
	}
	svc := NewCatalogService(cats, &mockProductRepo{}, quietLogger())

	err := svc.DeleteCategory(context.Background(), 99)
	require.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestDeleteCategory_OK(t *testing.T) {
	svc := NewCatalogService(&mockCategoryRepo{}, &mockProductRepo{}, quietLogger())
	require.NoError(t, svc.DeleteCategory(context.Background(), 1))
}

func TestCreateProduct_StampsActingUser(t *testing.T) {
	var created *entity.Product
	products := &mockProductRepo{
		createFn: func(ctx context.Context, p *entity.Product) error {
			p.ID = 1
			created = p
			return nil
		},
	}
	svc := NewCatalogService(&mockCategoryRepo{}, products, quietLogger())

	p, err := svc.CreateProduct(context.Background(), "alice", ProductInput{Name: "Hammer", Qty: 30, CategoryID: 1})
	require.NoError(t, err)
	require.NotNil(t, created)
	require.Equal(t, "alice", p.CreatedBy)
	require.Equal(t, "alice", p.UpdatedBy)
}

func TestCreateProduct_MissingCategory(t *testing.T) {
	created := false
	cats := &mockCategoryRepo{
		existsFn: func(ctx context.Context, id int64) (bool, error) { return false, nil },
	}
	products := &mockProductRepo{
		createFn: func(ctx context.Context, p *entity.Product) error {
			created = true
			return nil
		},
	}
	svc := NewCatalogService(cats, products, quietLogger())

	_, err := svc.CreateProduct(context.Background(), "alice", ProductInput{Name: "Hammer", Qty: 30, CategoryID: 42})
	require.ErrorIs(t, err, ErrCategoryMissing)
	require.False(t, created, "no product may be created for a missing category")
}

func TestUpdateProduct_OverwritesUpdatedByOnly(t *testing.T) {
	var updated *entity.Product
	products := &mockProductRepo{
		updateFn: func(ctx context.Context, p *entity.Product) error {
			updated = p
			return nil
		},
		getFn: func(ctx context.Context, id int64) (*entity.Product, error) {
			return &entity.Product{ID: id, Name: "Hammer", Qty: 25, CategoryID: 1, CreatedBy: "alice", UpdatedBy: "bob"}, nil
		},
	}
	svc := NewCatalogService(&mockCategoryRepo{}, products, quietLogger())

	p, err := svc.UpdateProduct(context.Background(), "bob", 1, ProductInput{Name: "Hammer", Qty: 25, CategoryID: 1})
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.Equal(t, "bob", updated.UpdatedBy)
	require.Empty(t, updated.CreatedBy, "created_by is never part of an update")
	require.Equal(t, "alice", p.CreatedBy)
	require.Equal(t, "bob", p.UpdatedBy)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	products := &mockProductRepo{
		updateFn: func(ctx context.Context, p *entity.Product) error { return repo.ErrNotFound },
	}
	svc := NewCatalogService(&mockCategoryRepo{}, products, quietLogger())

	_, err := svc.UpdateProduct(context.Background(), "bob", 99, ProductInput{Name: "Hammer", Qty: 1, CategoryID: 1})
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestDeleteProduct_NotFound(t *testing.T) {
	products := &mockProductRepo{
		deleteFn: func(ctx context.Context, id int64) error { return repo.ErrNotFound },
	}
	svc := NewCatalogService(&mockCategoryRepo{}, products, quietLogger())

	err := svc.DeleteProduct(context.Background(), 99)
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestCreateProduct_LowStockAlert(t *testing.T) {
	products := &mockProductRepo{
		createFn: func(ctx context.Context, p *entity.Product) error {
			p.ID = 7
			return nil
		},
	}
	pub := &capturePublisher{}
	svc := NewCatalogService(&mockCategoryRepo{}, products, quietLogger())
	svc.Publisher = pub
	svc.LowStockThreshold = 5

	_, err := svc.CreateProduct(context.Background(), "alice", ProductInput{Name: "Nails", Qty: 3, CategoryID: 1})
	require.NoError(t, err)
	require.Len(t, pub.jobs, 1)

	_, err = svc.CreateProduct(context.Background(), "alice", ProductInput{Name: "Screws", Qty: 5, CategoryID: 1})
	require.NoError(t, err)
	require.Len(t, pub.jobs, 1, "qty at the threshold must not alert")
}

func TestCreateProduct_NoPublisherIsSafe(t *testing.T) {
	products := &mockProductRepo{
		createFn: func(ctx context.Context, p *entity.Product) error {
			p.ID = 8
			return nil
		},
	}
	svc := NewCatalogService(&mockCategoryRepo{}, products, quietLogger())
	svc.LowStockThreshold = 5

	_, err := svc.CreateProduct(context.Background(), "alice", ProductInput{Name: "Nails", Qty: 1, CategoryID: 1})
	require.NoError(t, err)
}
