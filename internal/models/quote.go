package models

import "time"

// Quote is a draft proposal of line items for a customer. Quotes have no
// database identity: they live in the per-operator draft store until they are
// discarded or promoted to a pending order.
type Quote struct {
	ID        string      `json:"id"`
	Customer  Customer    `json:"customer"`
	Items     []QuoteItem `json:"items"`
	Subtotal  float64     `json:"subtotal"`
	Total     float64     `json:"total"` // subtotal plus the customer's prior debt
	CreatedAt time.Time   `json:"created_at"`
}

// QuoteItem is one line of a draft quote.
type QuoteItem struct {
	Product   Product `json:"product"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

// SaveQuoteRequest creates a draft quote for the calling operator.
type SaveQuoteRequest struct {
	CustomerID string            `json:"customer_id"`
	Items      []CreateOrderItem `json:"items"`
}
