package service

import (
	"context"
	"log/slog"

	"github.com/reparto-app/reparto-sales-service/internal/logging"
	"github.com/reparto-app/reparto-sales-service/internal/models"
	"github.com/reparto-app/reparto-sales-service/internal/repository"
)

// ProductService handles product catalog business logic.
type ProductService struct {
	repo   repository.ProductRepository
	logger *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{
		repo:   repo,
		logger: logging.Component("product-service"),
	}
}

// GetProduct retrieves a product by ID.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// ListProducts retrieves products matching the filter.
func (s *ProductService) ListProducts(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, error) {
	return s.repo.List(ctx, filter)
}

// CreateProduct creates a new catalog entry.
func (s *ProductService) CreateProduct(ctx context.Context, req *models.UpsertProductRequest) (*models.Product, error) {
	if err := ValidateUpsertProductRequest(req); err != nil {
		return nil, err
	}

	product, err := s.repo.Create(ctx, req)
	if err != nil {
		s.logger.Error("failed to create product", "name", req.Name, "error", err)
		return nil, err
	}

	s.logger.Info("product created", "product_id", product.ID, "name", product.Name)
	return product, nil
}

// UpdateProduct updates an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, req *models.UpsertProductRequest) (*models.Product, error) {
	if err := ValidateUpsertProductRequest(req); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, req)
}

// DeleteProduct removes a product.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product deleted", "product_id", id)
	return nil
}
