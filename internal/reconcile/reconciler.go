// Package reconcile derives an invoice's authoritative payment status from
// its append-only payment history.
package reconcile

import (
	"github.com/shopspring/decimal"

	"finbook/internal/domain"
)

// paidEpsilon is the absolute rounding buffer: an invoice counts as fully
// paid when the received total is within this much of the grand total.
var paidEpsilon = decimal.NewFromFloat(0.5)

// TotalPaid sums amount_received across payments.
func TotalPaid(payments []domain.Payment) decimal.Decimal {
	total := decimal.Zero
	for i := range payments {
		total = total.Add(payments[i].AmountReceived)
	}
	return total
}

// Reconcile folds the payment set against the grand total into the
// invoice's new status. Rules, in order:
//
//   - totalPaid >= grandTotal - epsilon  -> PAID
//   - totalPaid > 0                      -> PARTIAL
//   - otherwise the pre-existing non-payment status is preserved
//
// Reconciliation only ever moves status upward: a PAID invoice is never
// downgraded (payments are append-only; voiding does not exist here).
func Reconcile(current domain.InvoiceStatus, grandTotal decimal.Decimal, payments []domain.Payment) domain.InvoiceStatus {
	if current == domain.InvoiceStatusPaid {
		return domain.InvoiceStatusPaid
	}

	totalPaid := TotalPaid(payments)
	switch {
	case totalPaid.GreaterThanOrEqual(grandTotal.Sub(paidEpsilon)):
		return domain.InvoiceStatusPaid
	case totalPaid.GreaterThan(decimal.Zero):
		return domain.InvoiceStatusPartial
	default:
		return current
	}
}
