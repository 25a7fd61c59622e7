// Package settlement implements the order-settlement and debt-reconciliation
// arithmetic. Everything here is pure: callers persist the results.
package settlement

import (
	"math"

	"github.com/reparto-app/reparto-sales-service/internal/errs"
)

// TransferSurcharge is the multiplier the electronic-payment channel applies
// on top of the amount the merchant actually receives. A transfer of T yields
// T / TransferSurcharge in received funds.
const TransferSurcharge = 1.03

// DefaultTolerance is the currency-unit band within which a payment/total
// mismatch is treated as paid in full.
const DefaultTolerance = 99

// Result is the outcome of settling one order.
type Result struct {
	// TotalPaid is cash plus the fee-normalized transfer amount.
	TotalPaid float64 `json:"total_paid"`
	// Difference is orderTotal minus TotalPaid. Positive means the customer
	// still owes money, negative means they overpaid.
	Difference float64 `json:"difference"`
	// NewDebt replaces the customer's stored debt. It is zero whenever
	// |Difference| is within tolerance; otherwise it equals Difference, so an
	// overpayment beyond tolerance becomes stored credit.
	NewDebt float64 `json:"new_debt"`
}

// NormalizeTransfer converts a raw transfer amount into the value the
// merchant actually receives, removing the channel surcharge.
//
// roundToHundred additionally rounds the normalized value to the nearest
// multiple of 100. That rounding is a display policy used only by the
// historical sales report; the settlement path always passes false. The two
// behaviors are kept as explicit call-site choices rather than unified.
func NormalizeTransfer(amount float64, roundToHundred bool) float64 {
	if amount == 0 {
		return 0
	}
	v := amount / TransferSurcharge
	if roundToHundred {
		v = math.Round(v/100) * 100
	}
	return v
}

// Settle converts a two-part payment into a settlement result for an order.
//
// It returns errs.ErrNoPayment when the combined payment is zero or less; the
// caller must reject the settlement and leave all stored state untouched.
// Settle itself never mutates anything and is safe to call repeatedly with
// the same inputs.
func Settle(orderTotal, cashAmount, transferAmount, tolerance float64) (Result, error) {
	totalPaid := cashAmount + NormalizeTransfer(transferAmount, false)
	if totalPaid <= 0 {
		return Result{}, errs.ErrNoPayment
	}

	difference := orderTotal - totalPaid

	// Mismatches within tolerance wipe any previously stored debt rather
	// than carrying a residual forward: debt is a balance, not a ledger.
	newDebt := 0.0
	if difference > tolerance || difference < -tolerance {
		newDebt = difference
	}

	return Result{
		TotalPaid:  totalPaid,
		Difference: difference,
		NewDebt:    newDebt,
	}, nil
}

// LineItem is one priced line of a quote.
type LineItem struct {
	UnitPrice float64
	Quantity  int
}

// QuoteTotal computes a quote's subtotal and total. The total folds in the
// customer's prior debt, which may be negative (stored credit). An empty item
// list yields a zero subtotal.
func QuoteTotal(items []LineItem, priorDebt float64) (subtotal, total float64) {
	for _, it := range items {
		subtotal += it.UnitPrice * float64(it.Quantity)
	}
	return subtotal, subtotal + priorDebt
}

// OutstandingAfterSale computes the report-side outstanding balance for a
// recorded sale: the transfer is normalized WITH the round-to-hundred display
// policy, unlike at settlement time. The two paths can disagree near rounding
// boundaries.
func OutstandingAfterSale(total, cashAmount, transferAmount float64) float64 {
	paid := cashAmount + NormalizeTransfer(transferAmount, true)
	return total - paid
}
