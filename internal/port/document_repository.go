package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"finbook/internal/domain"
)

// InvoiceFilters narrows invoice listings and exports.
type InvoiceFilters struct {
	Status   domain.InvoiceStatus
	ClientID *uuid.UUID
	FromDate *time.Time
	ToDate   *time.Time
}

// InvoiceRepository defines the contract for invoice persistence. Create
// relies on the unique index on number as the final collision authority;
// Update never touches number or is_manual_entry.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	List(ctx context.Context, filters *InvoiceFilters, offset, limit int) ([]domain.Invoice, int, error)
	Update(ctx context.Context, inv *domain.Invoice) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InvoiceStatus) error
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// QuotationRepository defines the contract for quotation persistence.
type QuotationRepository interface {
	Create(ctx context.Context, q *domain.Quotation) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Quotation, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	List(ctx context.Context, offset, limit int) ([]domain.Quotation, int, error)
	Update(ctx context.Context, q *domain.Quotation) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.QuotationStatus, invoiceID *uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PaymentRepository defines the contract for the append-only payment ledger.
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]domain.Payment, error)
	SetReceiptKey(ctx context.Context, id uuid.UUID, key string) error
}
