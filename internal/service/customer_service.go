package service

import (
	"context"
	"log/slog"

	"github.com/reparto-app/reparto-sales-service/internal/config"
	"github.com/reparto-app/reparto-sales-service/internal/logging"
	"github.com/reparto-app/reparto-sales-service/internal/models"
	"github.com/reparto-app/reparto-sales-service/internal/repository"
)

// CustomerService handles customer business logic.
type CustomerService struct {
	repo   repository.CustomerRepository
	cache  repository.CustomerCache
	config *config.Config
	logger *slog.Logger
}

// NewCustomerService creates a new customer service.
func NewCustomerService(repo repository.CustomerRepository, cache repository.CustomerCache, cfg *config.Config) *CustomerService {
	return &CustomerService{
		repo:   repo,
		cache:  cache,
		config: cfg,
		logger: logging.Component("customer-service"),
	}
}

// GetCustomer retrieves a customer by ID, consulting the cache first.
func (s *CustomerService) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	if s.config.Features.EnableCaching {
		if customer, err := s.cache.Get(ctx, id); err == nil && customer != nil {
			return customer, nil
		}
	}

	customer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.config.Features.EnableCaching {
		if err := s.cache.Set(ctx, customer); err != nil {
			s.logger.Warn("failed to cache customer", "customer_id", id, "error", err)
		}
	}

	return customer, nil
}

// ListCustomers retrieves all customers.
func (s *CustomerService) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	return s.repo.List(ctx)
}

// CreateCustomer creates a new customer.
func (s *CustomerService) CreateCustomer(ctx context.Context, req *models.UpsertCustomerRequest) (*models.Customer, error) {
	if err := ValidateUpsertCustomerRequest(req); err != nil {
		return nil, err
	}

	customer, err := s.repo.Create(ctx, req)
	if err != nil {
		s.logger.Error("failed to create customer", "name", req.Name, "error", err)
		return nil, err
	}

	s.logger.Info("customer created", "customer_id", customer.ID, "name", customer.Name)
	return customer, nil
}

// UpdateCustomer updates an existing customer and invalidates its cache
// entry.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id string, req *models.UpsertCustomerRequest) (*models.Customer, error) {
	if err := ValidateUpsertCustomerRequest(req); err != nil {
		return nil, err
	}

	customer, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return customer, nil
}

// DeleteCustomer removes a customer.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	s.logger.Info("customer deleted", "customer_id", id)
	return nil
}

func (s *CustomerService) invalidate(ctx context.Context, id string) {
	if !s.config.Features.EnableCaching {
		return
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		s.logger.Warn("failed to invalidate customer cache", "customer_id", id, "error", err)
	}
}
