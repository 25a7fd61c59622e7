package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/reparto-app/reparto-sales-service/internal/logging"
	"github.com/reparto-app/reparto-sales-service/internal/models"
	"github.com/reparto-app/reparto-sales-service/internal/repository"
	"github.com/reparto-app/reparto-sales-service/internal/settlement"
)

// QuoteService manages per-operator draft quotes. Drafts are priced at save
// time from the customer's price list and current product prices; the total
// folds in the customer's prior debt, which may be negative.
type QuoteService struct {
	drafts    repository.DraftStore
	customers repository.CustomerRepository
	products  repository.ProductRepository
	logger    *slog.Logger
}

// NewQuoteService creates a new quote service.
func NewQuoteService(drafts repository.DraftStore, customers repository.CustomerRepository, products repository.ProductRepository) *QuoteService {
	return &QuoteService{
		drafts:    drafts,
		customers: customers,
		products:  products,
		logger:    logging.Component("quote-service"),
	}
}

// ListQuotes returns the operator's draft quotes, newest first.
func (s *QuoteService) ListQuotes(ctx context.Context, operatorID string) ([]*models.Quote, error) {
	return s.drafts.List(ctx, operatorID)
}

// SaveQuote prices and stores a draft quote for the operator.
func (s *QuoteService) SaveQuote(ctx context.Context, operatorID string, req *models.SaveQuoteRequest) (*models.Quote, error) {
	if err := ValidateSaveQuoteRequest(req); err != nil {
		return nil, err
	}

	customer, err := s.customers.GetByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	items := make([]models.QuoteItem, 0, len(req.Items))
	lines := make([]settlement.LineItem, 0, len(req.Items))
	for _, reqItem := range req.Items {
		product, err := s.products.GetByID(ctx, reqItem.ProductID)
		if err != nil {
			return nil, err
		}

		unitPrice := product.PriceFor(customer.List)
		items = append(items, models.QuoteItem{
			Product:   *product,
			Quantity:  reqItem.Quantity,
			UnitPrice: unitPrice,
			Subtotal:  unitPrice * float64(reqItem.Quantity),
		})
		lines = append(lines, settlement.LineItem{UnitPrice: unitPrice, Quantity: reqItem.Quantity})
	}

	subtotal, total := settlement.QuoteTotal(lines, customer.Debt)

	quote := &models.Quote{
		ID:        uuid.New().String(),
		Customer:  *customer,
		Items:     items,
		Subtotal:  subtotal,
		Total:     total,
		CreatedAt: time.Now(),
	}

	if err := s.drafts.Save(ctx, operatorID, quote); err != nil {
		return nil, err
	}

	s.logger.Info("quote saved",
		"operator_id", operatorID,
		"quote_id", quote.ID,
		"customer_id", customer.ID,
		"total", quote.Total)
	return quote, nil
}

// GetQuote returns one of the operator's draft quotes.
func (s *QuoteService) GetQuote(ctx context.Context, operatorID, quoteID string) (*models.Quote, error) {
	return s.drafts.Get(ctx, operatorID, quoteID)
}

// DeleteQuote discards a draft quote.
func (s *QuoteService) DeleteQuote(ctx context.Context, operatorID, quoteID string) error {
	if err := s.drafts.Delete(ctx, operatorID, quoteID); err != nil {
		return err
	}
	s.logger.Info("quote discarded", "operator_id", operatorID, "quote_id", quoteID)
	return nil
}
