package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/reparto-app/reparto-sales-service/internal/config"
	"github.com/reparto-app/reparto-sales-service/internal/errs"
	"github.com/reparto-app/reparto-sales-service/internal/events"
	"github.com/reparto-app/reparto-sales-service/internal/logging"
	"github.com/reparto-app/reparto-sales-service/internal/metrics"
	"github.com/reparto-app/reparto-sales-service/internal/models"
	"github.com/reparto-app/reparto-sales-service/internal/repository"
	"github.com/reparto-app/reparto-sales-service/internal/settlement"
)

// Step markers for the delivery write sequence. The three writes are not
// transactional: a failure at a later step leaves the earlier steps
// committed.
const (
	deliverStepStatus = iota + 1
	deliverStepSale
	deliverStepDebt
)

// OrderService handles order lifecycle business logic: creation from a
// request or a draft quote, delivery with settlement, and cancellation.
type OrderService struct {
	orders    repository.OrderRepository
	customers repository.CustomerRepository
	products  repository.ProductRepository
	sales     repository.SaleRepository
	drafts    repository.DraftStore
	cache     repository.CustomerCache
	publisher events.Publisher
	config    *config.Config
	logger    *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orders repository.OrderRepository,
	customers repository.CustomerRepository,
	products repository.ProductRepository,
	sales repository.SaleRepository,
	drafts repository.DraftStore,
	cache repository.CustomerCache,
	publisher events.Publisher,
	cfg *config.Config,
) *OrderService {
	return &OrderService{
		orders:    orders,
		customers: customers,
		products:  products,
		sales:     sales,
		drafts:    drafts,
		cache:     cache,
		publisher: publisher,
		config:    cfg,
		logger:    logging.Component("order-service"),
	}
}

// GetOrder retrieves an order with its items and customer.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.orders.GetByID(ctx, id)
}

// ListOrders retrieves orders matching the filter.
func (s *OrderService) ListOrders(ctx context.Context, filter *models.OrderListFilter) ([]*models.Order, int, error) {
	if err := ValidateOrderListFilter(filter); err != nil {
		return nil, 0, err
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return s.orders.List(ctx, filter)
}

// CreateOrder creates a pending order. Unit prices are frozen from the
// customer's price list at this moment, and the order total folds in the
// customer's prior debt. Stock is decremented per line after the order is
// written; a failed decrement is logged and the remaining lines proceed,
// and stock may go negative.
func (s *OrderService) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	if err := ValidateCreateOrderRequest(req); err != nil {
		return nil, err
	}

	customer, err := s.customers.GetByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	lines := make([]settlement.LineItem, 0, len(req.Items))
	for _, reqItem := range req.Items {
		product, err := s.products.GetByID(ctx, reqItem.ProductID)
		if err != nil {
			return nil, err
		}

		unitPrice := product.PriceFor(customer.List)
		items = append(items, models.OrderItem{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			Quantity:  reqItem.Quantity,
			UnitPrice: unitPrice,
		})
		lines = append(lines, settlement.LineItem{UnitPrice: unitPrice, Quantity: reqItem.Quantity})
	}

	_, total := settlement.QuoteTotal(lines, customer.Debt)

	var deliveryDate *time.Time
	if req.DeliveryDate != "" {
		d, err := time.Parse("2006-01-02", req.DeliveryDate)
		if err != nil {
			return nil, errs.NewValidationError("delivery_date", "delivery date must be YYYY-MM-DD")
		}
		deliveryDate = &d
	}

	now := time.Now()
	order := &models.Order{
		ID:             uuid.New().String(),
		CustomerID:     customer.ID,
		DeliveryDate:   deliveryDate,
		DeliveryWindow: req.DeliveryWindow,
		Status:         models.OrderStatusPending,
		List:           customer.List,
		Total:          total,
		Items:          items,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.decrementStock(ctx, order)

	metrics.OrdersCreated.WithLabelValues(string(order.List)).Inc()
	if s.config.Features.EnableEvents {
		if err := s.publisher.PublishOrderCreated(ctx, order); err != nil {
			s.logger.Warn("failed to publish order created event", "order_id", order.ID, "error", err)
		}
	}

	return order, nil
}

// PromoteQuote turns one of the operator's draft quotes into a pending
// order, keeping the prices frozen when the quote was saved, then removes
// the draft.
func (s *OrderService) PromoteQuote(ctx context.Context, operatorID, quoteID string, req *models.CreateOrderRequest) (*models.Order, error) {
	quote, err := s.drafts.Get(ctx, operatorID, quoteID)
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(quote.Items))
	for _, qi := range quote.Items {
		items = append(items, models.OrderItem{
			ID:        uuid.New().String(),
			ProductID: qi.Product.ID,
			Quantity:  qi.Quantity,
			UnitPrice: qi.UnitPrice,
		})
	}

	var deliveryDate *time.Time
	if req != nil && req.DeliveryDate != "" {
		d, err := time.Parse("2006-01-02", req.DeliveryDate)
		if err != nil {
			return nil, errs.NewValidationError("delivery_date", "delivery date must be YYYY-MM-DD")
		}
		deliveryDate = &d
	}
	var deliveryWindow string
	if req != nil {
		deliveryWindow = req.DeliveryWindow
	}

	now := time.Now()
	order := &models.Order{
		ID:             uuid.New().String(),
		CustomerID:     quote.Customer.ID,
		DeliveryDate:   deliveryDate,
		DeliveryWindow: deliveryWindow,
		Status:         models.OrderStatusPending,
		List:           quote.Customer.List,
		Total:          quote.Total,
		Items:          items,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.decrementStock(ctx, order)

	if err := s.drafts.Delete(ctx, operatorID, quoteID); err != nil {
		// The order exists either way; a stale draft is the lesser problem.
		s.logger.Warn("failed to remove promoted draft",
			"operator_id", operatorID, "quote_id", quoteID, "error", err)
	}

	metrics.OrdersCreated.WithLabelValues(string(order.List)).Inc()
	if s.config.Features.EnableEvents {
		if err := s.publisher.PublishOrderCreated(ctx, order); err != nil {
			s.logger.Warn("failed to publish order created event", "order_id", order.ID, "error", err)
		}
	}

	s.logger.Info("quote promoted", "quote_id", quoteID, "order_id", order.ID)
	return order, nil
}

// DeliverOrder settles a pending order against the payment entered at the
// door and marks it delivered.
//
// The settlement runs first and is pure; if it rejects the payment, nothing
// is written. The writes then run in a fixed sequence: order status, sale
// record, customer debt. The sequence is not transactional; a failure is
// wrapped in a RemoteOperationError whose Step records how far it got.
func (s *OrderService) DeliverOrder(ctx context.Context, id string, req *models.DeliverOrderRequest) (*models.Order, *settlement.Result, error) {
	if err := ValidateDeliverOrderRequest(req); err != nil {
		return nil, nil, err
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if !order.CanDeliver() {
		return nil, nil, errs.NewValidationError("status", "order cannot be delivered in current state")
	}

	result, err := settlement.Settle(order.Total, req.CashAmount, req.TransferAmount, s.config.DebtTolerance)
	if err != nil {
		metrics.SettlementRejections.Inc()
		return nil, nil, err
	}

	if err := s.orders.UpdateStatus(ctx, id, models.OrderStatusDelivered); err != nil {
		return nil, nil, &errs.RemoteOperationError{Op: "deliver_order", Step: deliverStepStatus, Err: err}
	}

	sale := &models.Sale{
		ID:             uuid.New().String(),
		CustomerID:     order.CustomerID,
		SoldAt:         time.Now(),
		CashAmount:     req.CashAmount,
		TransferAmount: req.TransferAmount,
		Total:          order.Total,
	}
	if err := s.sales.Create(ctx, sale); err != nil {
		return nil, nil, &errs.RemoteOperationError{Op: "deliver_order", Step: deliverStepSale, Err: err}
	}

	if err := s.customers.SetDebt(ctx, order.CustomerID, result.NewDebt); err != nil {
		return nil, nil, &errs.RemoteOperationError{Op: "deliver_order", Step: deliverStepDebt, Err: err}
	}

	if s.config.Features.EnableCaching {
		if err := s.cache.Delete(ctx, order.CustomerID); err != nil {
			s.logger.Warn("failed to invalidate customer cache", "customer_id", order.CustomerID, "error", err)
		}
	}

	order.Status = models.OrderStatusDelivered
	order.UpdatedAt = time.Now()

	metrics.OrdersDelivered.Inc()
	metrics.SettlementDifference.Observe(result.Difference)
	metrics.DebtWritten.Observe(result.NewDebt)

	if s.config.Features.EnableEvents {
		if err := s.publisher.PublishOrderDelivered(ctx, order, result); err != nil {
			s.logger.Warn("failed to publish order delivered event", "order_id", order.ID, "error", err)
		}
	}

	s.logger.Info("order delivered",
		"order_id", order.ID,
		"customer_id", order.CustomerID,
		"total", order.Total,
		"total_paid", result.TotalPaid,
		"new_debt", result.NewDebt)

	return order, &result, nil
}

// CancelOrder cancels a pending order. Stock decremented at creation is not
// restored.
func (s *OrderService) CancelOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.CanCancel() {
		return nil, errs.NewValidationError("status", "order cannot be cancelled in current state")
	}

	if err := s.orders.UpdateStatus(ctx, id, models.OrderStatusCancelled); err != nil {
		return nil, err
	}

	order.Status = models.OrderStatusCancelled
	order.UpdatedAt = time.Now()

	metrics.OrdersCancelled.Inc()
	if s.config.Features.EnableEvents {
		if err := s.publisher.PublishOrderCancelled(ctx, order); err != nil {
			s.logger.Warn("failed to publish order cancelled event", "order_id", order.ID, "error", err)
		}
	}

	s.logger.Info("order cancelled", "order_id", order.ID)
	return order, nil
}

func (s *OrderService) decrementStock(ctx context.Context, order *models.Order) {
	for _, item := range order.Items {
		if err := s.products.AdjustStock(ctx, item.ProductID, -item.Quantity); err != nil {
			s.logger.Error("failed to decrement stock",
				"order_id", order.ID, "product_id", item.ProductID, "error", err)
		}
	}
}
