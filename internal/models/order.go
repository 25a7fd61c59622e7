package models

import "time"

// OrderStatus is the lifecycle state of an order. Draft quotes are not
// orders: they live client-side (Redis draft store) until promoted.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is a promoted quote awaiting delivery. Immutable once created except
// for the status transition to delivered or cancelled.
type Order struct {
	ID             string      `json:"id"`
	CustomerID     string      `json:"customer_id"`
	DeliveryDate   *time.Time  `json:"delivery_date,omitempty"`
	DeliveryWindow string      `json:"delivery_window,omitempty"`
	Status         OrderStatus `json:"status"`
	List           PriceList   `json:"list"`
	Total          float64     `json:"total"`
	Items          []OrderItem `json:"items,omitempty"`
	Customer       *Customer   `json:"customer,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// OrderItem is one line of an order. UnitPrice is frozen at order creation
// from the customer's price list.
type OrderItem struct {
	ID        string   `json:"id"`
	ProductID string   `json:"product_id"`
	Quantity  int      `json:"quantity"`
	UnitPrice float64  `json:"unit_price"`
	Product   *Product `json:"product,omitempty"`
}

// CreateOrderRequest promotes a quote into a pending order.
type CreateOrderRequest struct {
	CustomerID     string            `json:"customer_id"`
	DeliveryDate   string            `json:"delivery_date"`
	DeliveryWindow string            `json:"delivery_window"`
	Items          []CreateOrderItem `json:"items"`
}

// CreateOrderItem is one requested line. UnitPrice is resolved server-side
// from the customer's price list; the client never sends prices.
type CreateOrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// DeliverOrderRequest records the two-part payment entered at delivery time.
// Absent or unparsable amounts default to zero.
type DeliverOrderRequest struct {
	CashAmount     float64 `json:"cash_amount"`
	TransferAmount float64 `json:"transfer_amount"`
}

// OrderListFilter narrows an order listing.
type OrderListFilter struct {
	CustomerID string
	Status     *OrderStatus
	Limit      int
	Offset     int
}

// CanCancel reports whether the order may still be cancelled.
func (o *Order) CanCancel() bool {
	return o.Status == OrderStatusPending
}

// CanDeliver reports whether the order may be settled and marked delivered.
func (o *Order) CanDeliver() bool {
	return o.Status == OrderStatusPending
}
