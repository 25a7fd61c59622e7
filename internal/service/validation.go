package service

import (
	"strings"
	"time"

	"github.com/reparto-app/reparto-sales-service/internal/errs"
	"github.com/reparto-app/reparto-sales-service/internal/models"
)

// ValidateUpsertCustomerRequest validates a customer create/update request.
func ValidateUpsertCustomerRequest(req *models.UpsertCustomerRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return errs.NewValidationError("name", "name is required")
	}

	switch req.List {
	case "", models.PriceListRetail, models.PriceListWholesale:
		// Empty defaults to retail at the repository layer.
	default:
		return errs.NewValidationError("list", "list must be retail or wholesale")
	}

	if req.NationalID < 0 {
		return errs.NewValidationError("national_id", "national ID cannot be negative")
	}

	return nil
}

// ValidateUpsertProductRequest validates a product create/update request.
func ValidateUpsertProductRequest(req *models.UpsertProductRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return errs.NewValidationError("name", "name is required")
	}

	if req.RetailPrice <= 0 {
		return errs.NewValidationError("retail_price", "retail price must be positive")
	}

	if req.WholesalePrice <= 0 {
		return errs.NewValidationError("wholesale_price", "wholesale price must be positive")
	}

	if req.Code < 0 {
		return errs.NewValidationError("code", "code cannot be negative")
	}

	return nil
}

// ValidateCreateOrderRequest validates an order creation request. Unit
// prices are resolved server-side, so only identity and quantities are
// checked here.
func ValidateCreateOrderRequest(req *models.CreateOrderRequest) error {
	if req.CustomerID == "" {
		return errs.NewValidationError("customer_id", "customer ID is required")
	}

	if len(req.Items) == 0 {
		return errs.NewValidationError("items", "at least one item is required")
	}

	for _, item := range req.Items {
		if item.ProductID == "" {
			return errs.NewValidationError("items", "product ID is required for item")
		}
		if item.Quantity <= 0 {
			return errs.NewValidationError("items", "quantity must be positive")
		}
	}

	if req.DeliveryDate != "" {
		if _, err := time.Parse("2006-01-02", req.DeliveryDate); err != nil {
			return errs.NewValidationError("delivery_date", "delivery date must be YYYY-MM-DD")
		}
	}

	return nil
}

// ValidateDeliverOrderRequest validates the payment entered at delivery.
// Zero amounts are allowed here; the settlement itself rejects a delivery
// where nothing at all was paid.
func ValidateDeliverOrderRequest(req *models.DeliverOrderRequest) error {
	if req.CashAmount < 0 {
		return errs.NewValidationError("cash_amount", "cash amount cannot be negative")
	}

	if req.TransferAmount < 0 {
		return errs.NewValidationError("transfer_amount", "transfer amount cannot be negative")
	}

	return nil
}

// ValidateSaveQuoteRequest validates a draft quote save.
func ValidateSaveQuoteRequest(req *models.SaveQuoteRequest) error {
	if req.CustomerID == "" {
		return errs.NewValidationError("customer_id", "customer ID is required")
	}

	if len(req.Items) == 0 {
		return errs.NewValidationError("items", "at least one item is required")
	}

	for _, item := range req.Items {
		if item.ProductID == "" {
			return errs.NewValidationError("items", "product ID is required for item")
		}
		if item.Quantity <= 0 {
			return errs.NewValidationError("items", "quantity must be positive")
		}
	}

	return nil
}

// ValidateOrderListFilter validates and clamps a list filter.
func ValidateOrderListFilter(filter *models.OrderListFilter) error {
	if filter.Limit < 0 {
		return errs.NewValidationError("limit", "limit cannot be negative")
	}

	if filter.Offset < 0 {
		return errs.NewValidationError("offset", "offset cannot be negative")
	}

	if filter.Status != nil {
		switch *filter.Status {
		case models.OrderStatusPending, models.OrderStatusDelivered, models.OrderStatusCancelled:
		default:
			return errs.NewValidationError("status", "invalid order status")
		}
	}

	if filter.Limit > 100 {
		filter.Limit = 100
	}

	return nil
}

// ValidateRegisterRequest validates a new operator signup.
func ValidateRegisterRequest(req *models.RegisterRequest) error {
	if req.Name == "" {
		return errs.NewValidationError("name", "name is required")
	}

	if req.Email == "" {
		return errs.NewValidationError("email", "email is required")
	}

	if len(req.Password) < 6 {
		return errs.NewValidationError("password", "password must be at least 6 characters")
	}

	return nil
}

// ValidateLoginRequest validates a login attempt.
func ValidateLoginRequest(req *models.LoginRequest) error {
	if req.Email == "" {
		return errs.NewValidationError("email", "email is required")
	}

	if req.Password == "" {
		return errs.NewValidationError("password", "password is required")
	}

	return nil
}
