package repository

import (
	"context"

	"github.com/reparto-app/reparto-sales-service/internal/models"
)

// CustomerRepository persists customers.
type CustomerRepository interface {
	GetByID(ctx context.Context, id string) (*models.Customer, error)
	List(ctx context.Context) ([]*models.Customer, error)
	Create(ctx context.Context, req *models.UpsertCustomerRequest) (*models.Customer, error)
	Update(ctx context.Context, id string, req *models.UpsertCustomerRequest) (*models.Customer, error)
	Delete(ctx context.Context, id string) error

	// SetDebt overwrites the customer's stored debt with a new balance.
	SetDebt(ctx context.Context, id string, debt float64) error
}

// ProductRepository persists products.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, error)
	Create(ctx context.Context, req *models.UpsertProductRequest) (*models.Product, error)
	Update(ctx context.Context, id string, req *models.UpsertProductRequest) (*models.Product, error)
	Delete(ctx context.Context, id string) error

	// AdjustStock adds delta to the product's stock. Stock may go negative;
	// there is no backorder check.
	AdjustStock(ctx context.Context, id string, delta int) error
}

// OrderRepository persists orders and their items.
type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context, filter *models.OrderListFilter) ([]*models.Order, int, error)
	Create(ctx context.Context, order *models.Order) error
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
}

// SaleRepository persists settled sales.
type SaleRepository interface {
	Create(ctx context.Context, sale *models.Sale) error
	ListBetween(ctx context.Context, filter *models.SalesFilter) ([]*models.SaleRow, error)
}

// OperatorRepository manages operator accounts for authentication.
type OperatorRepository interface {
	Create(ctx context.Context, operator *models.Operator, passwordHash string) error
	GetByEmail(ctx context.Context, email string) (*models.Operator, string, error)
	GetByID(ctx context.Context, id string) (*models.Operator, error)
}

// CustomerCache caches customer reads. Implementations must treat a miss as
// (nil, nil); cache failures are logged by callers, never fatal.
type CustomerCache interface {
	Get(ctx context.Context, id string) (*models.Customer, error)
	Set(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id string) error
}

// DraftStore holds per-operator draft quotes. Drafts have no database
// identity and are created and deleted entirely through this store.
type DraftStore interface {
	List(ctx context.Context, operatorID string) ([]*models.Quote, error)
	Get(ctx context.Context, operatorID, quoteID string) (*models.Quote, error)
	Save(ctx context.Context, operatorID string, quote *models.Quote) error
	Delete(ctx context.Context, operatorID, quoteID string) error
}
