package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"finbook/internal/domain"
	"finbook/internal/port"
)

type paymentRepo struct {
	db *sqlx.DB
}

// NewPaymentRepo creates a PostgreSQL-backed PaymentRepository. Payments
// are append-only: there is no update or delete path.
func NewPaymentRepo(db *sqlx.DB) port.PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	p.CreatedAt = time.Now().UTC()

	query := `INSERT INTO payments (
		id, invoice_id, amount_received, payment_date,
		method, reference, notes, receipt_key, created_by, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := queryer(ctx, r.db).ExecContext(ctx, query,
		p.ID, p.InvoiceID, p.AmountReceived, p.PaymentDate,
		p.Method, p.Reference, p.Notes, p.ReceiptKey, p.CreatedBy, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("paymentRepo.Create: %w", err)
	}
	return nil
}

func (r *paymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	var p domain.Payment
	err := sqlx.GetContext(ctx, queryer(ctx, r.db), &p,
		"SELECT * FROM payments WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("paymentRepo.GetByID: %w", err)
	}
	return &p, nil
}

func (r *paymentRepo) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := sqlx.SelectContext(ctx, queryer(ctx, r.db), &payments,
		"SELECT * FROM payments WHERE invoice_id = $1 ORDER BY payment_date, created_at",
		invoiceID)
	if err != nil {
		return nil, fmt.Errorf("paymentRepo.ListByInvoice: %w", err)
	}
	return payments, nil
}

// SetReceiptKey attaches an uploaded receipt object key to a payment. The
// ledger itself stays immutable; the receipt key is storage metadata.
func (r *paymentRepo) SetReceiptKey(ctx context.Context, id uuid.UUID, key string) error {
	result, err := queryer(ctx, r.db).ExecContext(ctx,
		"UPDATE payments SET receipt_key = $1 WHERE id = $2", key, id)
	if err != nil {
		return fmt.Errorf("paymentRepo.SetReceiptKey: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}
