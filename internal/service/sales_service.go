package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/reparto-app/reparto-sales-service/internal/errs"
	"github.com/reparto-app/reparto-sales-service/internal/logging"
	"github.com/reparto-app/reparto-sales-service/internal/models"
	"github.com/reparto-app/reparto-sales-service/internal/repository"
)

// SalesService produces the historical sales report.
type SalesService struct {
	sales  repository.SaleRepository
	logger *slog.Logger
}

// NewSalesService creates a new sales report service.
func NewSalesService(sales repository.SaleRepository) *SalesService {
	return &SalesService{
		sales:  sales,
		logger: logging.Component("sales-service"),
	}
}

// ListSales returns the sales in the filter period plus a summary. A zero
// From or To defaults to the current day's bounds.
func (s *SalesService) ListSales(ctx context.Context, filter *models.SalesFilter) ([]*models.SaleRow, *models.SalesSummary, error) {
	normalized := normalizeSalesFilter(filter)
	if normalized.From.After(normalized.To) {
		return nil, nil, errs.NewValidationError("from", "from cannot be after to")
	}

	rows, err := s.sales.ListBetween(ctx, normalized)
	if err != nil {
		return nil, nil, err
	}

	return rows, Summarize(rows), nil
}

// Summarize aggregates report rows. TotalCollected sums the raw amounts the
// operator entered, without fee normalization, and TotalDebt is the plain
// difference between sales and collected. It goes negative when the period
// was overpaid.
func Summarize(rows []*models.SaleRow) *models.SalesSummary {
	summary := &models.SalesSummary{Count: len(rows)}
	for _, row := range rows {
		summary.TotalSales += row.Total
		summary.TotalCollected += row.CashAmount + row.TransferAmount
	}
	summary.TotalDebt = summary.TotalSales - summary.TotalCollected
	return summary
}

func normalizeSalesFilter(filter *models.SalesFilter) *models.SalesFilter {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())

	normalized := &models.SalesFilter{From: filter.From, To: filter.To}
	if normalized.From.IsZero() {
		normalized.From = dayStart
	}
	if normalized.To.IsZero() {
		normalized.To = dayEnd
	}
	return normalized
}
