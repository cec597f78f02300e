package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/adisatriyo/inventory-api/internal/domain/entity"
	repo "github.com/adisatriyo/inventory-api/internal/domain/repository"
	"github.com/adisatriyo/inventory-api/pkg/helpers"
	"github.com/adisatriyo/inventory-api/pkg/mailer"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryInUse    = errors.New("cannot delete category with associated products")
	ErrCategoryMissing  = errors.New("category does not exist")
	ErrProductNotFound  = errors.New("product not found")
)

// Publisher is the queue-side of the low-stock alert pipeline.
// *helpers.RabbitPublisher satisfies it.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// CatalogService owns category and product operations, including the
// category deletion guard. Elasticsearch indexing, GCS uploads and alert
// publishing are best-effort extras; the service works with any of them nil.
type CatalogService struct {
	Categories repo.CategoryRepository
	Products   repo.ProductRepository
	Logger     *logrus.Logger

	ES              *elasticsearch.Client
	ESProductsIndex string

	Publisher         Publisher
	LowStockThreshold int

	GCS       *storage.Client
	GCSBucket string
}

// ProductInput carries the caller-supplied product fields; createdBy and
// updatedBy are stamped from the acting user, never from the payload.
type ProductInput struct {
	Name       string
	Qty        int
	CategoryID int64
	URL        string
}

func NewCatalogService(categories repo.CategoryRepository, products repo.ProductRepository, logger *logrus.Logger) *CatalogService {
	return &CatalogService{Categories: categories, Products: products, Logger: logger}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	return s.Categories.List(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, attrs map[string]any) (*entity.Category, error) {
	c := &entity.Category{Attributes: attrs}
	if err := s.Categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCategory refuses to delete a category that products still reference.
// The reference check and the delete run in one transaction at the store.
func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	err := s.Categories.DeleteIfUnreferenced(ctx, id)
	switch {
	case errors.Is(err, repo.ErrCategoryReferenced):
		return ErrCategoryInUse
	case errors.Is(err, repo.ErrNotFound):
		return ErrCategoryNotFound
	default:
		return err
	}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]*entity.Product, error) {
	return s.Products.List(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := s.Products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, username string, in ProductInput) (*entity.Product, error) {
	if err := s.requireCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	p := &entity.Product{
		Name:       in.Name,
		Qty:        in.Qty,
		CategoryID: in.CategoryID,
		URL:        in.URL,
		CreatedBy:  username,
		UpdatedBy:  username,
	}
	if err := s.Products.Create(ctx, p); err != nil {
		return nil, err
	}

	s.indexProduct(ctx, p)
	s.maybeAlertLowStock(ctx, p)
	return p, nil
}

// UpdateProduct overwrites updatedBy with the current acting user; createdBy
// is immutable and never part of the UPDATE.
func (s *CatalogService) UpdateProduct(ctx context.Context, username string, id int64, in ProductInput) (*entity.Product, error) {
	if err := s.requireCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	p := &entity.Product{
		ID:         id,
		Name:       in.Name,
		Qty:        in.Qty,
		CategoryID: in.CategoryID,
		URL:        in.URL,
		UpdatedBy:  username,
	}
	if err := s.Products.Update(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	// Re-read so the index sees createdBy and the stored timestamps.
	if full, err := s.Products.GetByID(ctx, id); err == nil {
		p = full
	}
	s.indexProduct(ctx, p)
	s.maybeAlertLowStock(ctx, p)
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.Products.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	s.removeProductIndex(ctx, id)
	return nil
}

// UploadProductImage stores the image in GCS and points the product's url at
// the uploaded object.
func (s *CatalogService) UploadProductImage(ctx context.Context, username string, id int64, r io.Reader, filename, contentType string) (*entity.Product, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return nil, errors.New("object storage not configured")
	}
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("products", strconv.FormatInt(id, 10), uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return nil, err
	}

	p.URL = url
	p.UpdatedBy = username
	if err := s.Products.Update(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	s.indexProduct(ctx, p)
	return p, nil
}

func (s *CatalogService) requireCategory(ctx context.Context, id int64) error {
	ok, err := s.Categories.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCategoryMissing
	}
	return nil
}

func (s *CatalogService) maybeAlertLowStock(ctx context.Context, p *entity.Product) {
	if s.Publisher == nil || s.LowStockThreshold <= 0 || p.Qty >= s.LowStockThreshold {
		return
	}
	job := mailer.AlertJob{
		ProductID:   p.ID,
		ProductName: p.Name,
		Qty:         p.Qty,
		Threshold:   s.LowStockThreshold,
		UpdatedBy:   p.UpdatedBy,
	}
	if err := s.Publisher.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("product_id", p.ID).Warn("publish low-stock alert failed")
	}
}

func (s *CatalogService) indexProduct(ctx context.Context, p *entity.Product) {
	if s.ES == nil || s.ESProductsIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         p.ID,
		"name":       p.Name,
		"qty":        p.Qty,
		"categoryId": p.CategoryID,
		"url":        p.URL,
		"createdBy":  p.CreatedBy,
		"updatedBy":  p.UpdatedBy,
		"createdAt":  p.CreatedAt.Format(time.RFC3339Nano),
		"updatedAt":  p.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{
		Index:      s.ESProductsIndex,
		DocumentID: strconv.FormatInt(p.ID, 10),
		Body:       strings.NewReader(string(b)),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("product_id", p.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("product_id", p.ID).Warn("es index response error")
	}
}

func (s *CatalogService) removeProductIndex(ctx context.Context, id int64) {
	if s.ES == nil || s.ESProductsIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESProductsIndex, DocumentID: strconv.FormatInt(id, 10)}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		return
	}
	_ = res.Body.Close()
}

// SearchProducts performs a simple multi_match search on name, url and the
// audit stamps.
func (s *CatalogService) SearchProducts(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESProductsIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "url", "createdBy", "updatedBy"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESProductsIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
