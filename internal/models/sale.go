package models

import "time"

// Sale is the record written when an order is settled. CashAmount and
// TransferAmount are the raw figures the operator entered; the transfer-fee
// normalization is recomputed wherever it is needed rather than stored.
type Sale struct {
	ID             string    `json:"id"`
	CustomerID     string    `json:"customer_id"`
	SoldAt         time.Time `json:"sold_at"`
	CashAmount     float64   `json:"cash_amount"`
	TransferAmount float64   `json:"transfer_amount"`
	Total          float64   `json:"total"`
}

// SaleRow is a sale joined with customer display data plus the report-side
// outstanding figure (computed with the display rounding policy, which is a
// different normalization than the one used at settlement time).
type SaleRow struct {
	Sale
	CustomerName string    `json:"customer_name"`
	CustomerKind string    `json:"customer_kind,omitempty"`
	CustomerList PriceList `json:"customer_list"`
	Outstanding  float64   `json:"outstanding"`
	Settled      bool      `json:"settled"`
}

// SalesSummary aggregates a report period. TotalCollected sums the raw cash
// and transfer amounts, without fee normalization.
type SalesSummary struct {
	TotalSales     float64 `json:"total_sales"`
	TotalCollected float64 `json:"total_collected"`
	TotalDebt      float64 `json:"total_debt"`
	Count          int     `json:"count"`
}

// SalesFilter selects the report period. Zero times mean "today".
type SalesFilter struct {
	From time.Time
	To   time.Time
}
