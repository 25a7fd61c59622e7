package models

import "time"

// PriceList selects which of a product's two prices applies to a customer.
type PriceList string

const (
	PriceListRetail    PriceList = "retail"
	PriceListWholesale PriceList = "wholesale"
)

// Customer is a business the distributor sells to (a kiosk, a corner store).
// Debt is a point-in-time balance: each settlement overwrites it with the
// newly computed value, it is not a ledger.
type Customer struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Address        string    `json:"address,omitempty"`
	BetweenStreets string    `json:"between_streets,omitempty"`
	Kind           string    `json:"kind,omitempty"` // free-form: "kiosco", "almacén", ...
	List           PriceList `json:"list"`
	Debt           float64   `json:"debt"`
	NationalID     int64     `json:"national_id,omitempty"`
	Alias          string    `json:"alias,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// UpsertCustomerRequest carries the fields an operator can set when creating
// or updating a customer.
type UpsertCustomerRequest struct {
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Address        string    `json:"address"`
	BetweenStreets string    `json:"between_streets"`
	Kind           string    `json:"kind"`
	List           PriceList `json:"list"`
	Debt           float64   `json:"debt"`
	NationalID     int64     `json:"national_id"`
	Alias          string    `json:"alias"`
}
