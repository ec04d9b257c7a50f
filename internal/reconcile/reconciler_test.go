package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"finbook/internal/domain"
)

func payments(amounts ...float64) []domain.Payment {
	ps := make([]domain.Payment, 0, len(amounts))
	for _, a := range amounts {
		ps = append(ps, domain.Payment{AmountReceived: decimal.NewFromFloat(a)})
	}
	return ps
}

func TestTotalPaid(t *testing.T) {
	assert.True(t, TotalPaid(nil).IsZero())
	assert.True(t, TotalPaid(payments(100.25, 899.75)).Equal(decimal.NewFromInt(1000)))
}

func TestReconcile_FullPaymentIsPaid(t *testing.T) {
	got := Reconcile(domain.InvoiceStatusSent, decimal.NewFromInt(1000), payments(1000))
	assert.Equal(t, domain.InvoiceStatusPaid, got)
}

func TestReconcile_WithinEpsilonIsPaid(t *testing.T) {
	// 999.60 against 1000.00 is within the 0.5 rounding buffer.
	got := Reconcile(domain.InvoiceStatusSent, decimal.NewFromInt(1000), payments(999.60))
	assert.Equal(t, domain.InvoiceStatusPaid, got)

	// Exactly at the boundary counts as paid.
	got = Reconcile(domain.InvoiceStatusSent, decimal.NewFromInt(1000), payments(999.50))
	assert.Equal(t, domain.InvoiceStatusPaid, got)
}

func TestReconcile_BelowEpsilonIsPartial(t *testing.T) {
	got := Reconcile(domain.InvoiceStatusSent, decimal.NewFromInt(1000), payments(999.49))
	assert.Equal(t, domain.InvoiceStatusPartial, got)
}

func TestReconcile_MultiplePaymentsAccumulate(t *testing.T) {
	got := Reconcile(domain.InvoiceStatusSent, decimal.NewFromInt(1000), payments(400, 350))
	assert.Equal(t, domain.InvoiceStatusPartial, got)

	got = Reconcile(domain.InvoiceStatusPartial, decimal.NewFromInt(1000), payments(400, 350, 250))
	assert.Equal(t, domain.InvoiceStatusPaid, got)
}

func TestReconcile_NoPaymentsPreservesStatus(t *testing.T) {
	for _, status := range []domain.InvoiceStatus{
		domain.InvoiceStatusDraft,
		domain.InvoiceStatusSent,
		domain.InvoiceStatusOverdue,
	} {
		got := Reconcile(status, decimal.NewFromInt(1000), nil)
		assert.Equal(t, status, got)
	}
}

func TestReconcile_PaidIsNeverDowngraded(t *testing.T) {
	// Even with an empty payment set, PAID stays PAID.
	got := Reconcile(domain.InvoiceStatusPaid, decimal.NewFromInt(1000), nil)
	assert.Equal(t, domain.InvoiceStatusPaid, got)

	got = Reconcile(domain.InvoiceStatusPaid, decimal.NewFromInt(1000), payments(10))
	assert.Equal(t, domain.InvoiceStatusPaid, got)
}

func TestReconcile_OverdueMovesToPaid(t *testing.T) {
	got := Reconcile(domain.InvoiceStatusOverdue, decimal.NewFromInt(500), payments(500))
	assert.Equal(t, domain.InvoiceStatusPaid, got)
}

func TestReconcile_OverpaymentIsPaid(t *testing.T) {
	got := Reconcile(domain.InvoiceStatusSent, decimal.NewFromInt(500), payments(600))
	assert.Equal(t, domain.InvoiceStatusPaid, got)
}
