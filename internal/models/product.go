package models

import "time"

// Product is a catalog entry with separate retail and wholesale prices.
// Stock may go negative: orders decrement it without a backorder check.
type Product struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	RetailPrice    float64   `json:"retail_price"`
	WholesalePrice float64   `json:"wholesale_price"`
	Stock          int       `json:"stock"`
	Category       string    `json:"category,omitempty"`
	Code           int64     `json:"code,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// PriceFor returns the unit price for the given price list.
func (p *Product) PriceFor(list PriceList) float64 {
	if list == PriceListWholesale {
		return p.WholesalePrice
	}
	return p.RetailPrice
}

// UpsertProductRequest carries the fields an operator can set when creating
// or updating a product.
type UpsertProductRequest struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	RetailPrice    float64 `json:"retail_price"`
	WholesalePrice float64 `json:"wholesale_price"`
	Stock          int     `json:"stock"`
	Category       string  `json:"category"`
	Code           int64   `json:"code"`
}

// ProductFilter narrows a product listing.
type ProductFilter struct {
	Search   string
	Category string
}
