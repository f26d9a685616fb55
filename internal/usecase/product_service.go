package usecase

import (
	"context"
	"fmt"

	"github.com/labelcheck/backend/internal/domain"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// ProductService manages product records in the product store
type ProductService struct {
	products domain.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(products domain.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

// SaveProduct stores a product record, assigning an ID when it has none
func (s *ProductService) SaveProduct(ctx context.Context, product *domain.ProductInfo) (*domain.ProductInfo, error) {
	if product == nil || product.ProductName == "" {
		return nil, fmt.Errorf("%w: productName is required", domain.ErrInvalidRequest)
	}
	return s.products.Save(ctx, product)
}

// GetProduct loads a product record by ID
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.ProductInfo, error) {
	if id == "" {
		return nil, domain.ErrInvalidRequest
	}
	return s.products.Get(ctx, id)
}

// ListProducts returns the most recently updated products; limit is clamped to [1, 100]
func (s *ProductService) ListProducts(ctx context.Context, limit int) ([]*domain.ProductInfo, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.products.ListRecent(ctx, limit)
}
