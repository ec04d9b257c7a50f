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

type quotationRepo struct {
	db *sqlx.DB
}

// NewQuotationRepo creates a PostgreSQL-backed QuotationRepository.
func NewQuotationRepo(db *sqlx.DB) port.QuotationRepository {
	return &quotationRepo{db: db}
}

func (r *quotationRepo) Create(ctx context.Context, q *domain.Quotation) error {
	now := time.Now().UTC()
	q.CreatedAt = now
	q.UpdatedAt = now

	query := `INSERT INTO quotations (
		id, number, is_manual_entry, client_id, client_state_code, client_country,
		issue_date, valid_until, currency, line_items,
		subtotal, tax_regime, gst_rate, cgst_amount, sgst_amount, igst_amount, grand_total,
		status, notes, invoice_id, created_by, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6,
		$7, $8, $9, $10,
		$11, $12, $13, $14, $15, $16, $17,
		$18, $19, $20, $21, $22, $23
	)`

	_, err := queryer(ctx, r.db).ExecContext(ctx, query,
		q.ID, q.Number, q.IsManualEntry, q.ClientID, q.ClientStateCode, q.ClientCountry,
		q.IssueDate, q.ValidUntil, q.Currency, q.LineItems,
		q.Subtotal, q.TaxRegime, q.GSTRate, q.CGSTAmount, q.SGSTAmount, q.IGSTAmount, q.GrandTotal,
		q.Status, q.Notes, q.InvoiceID, q.CreatedBy, q.CreatedAt, q.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "quotations_number_key") {
			return domain.NewDuplicateNumberError(domain.DocumentTypeQuotation, q.Number)
		}
		if isSerializationFailure(err) {
			return domain.ErrSequenceContention
		}
		return fmt.Errorf("quotationRepo.Create: %w", err)
	}
	return nil
}

func (r *quotationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	var q domain.Quotation
	err := sqlx.GetContext(ctx, queryer(ctx, r.db), &q,
		"SELECT * FROM quotations WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrQuotationNotFound
		}
		return nil, fmt.Errorf("quotationRepo.GetByID: %w", err)
	}
	return &q, nil
}

func (r *quotationRepo) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, queryer(ctx, r.db), &exists,
		"SELECT EXISTS (SELECT 1 FROM quotations WHERE number = $1)", number)
	if err != nil {
		return false, fmt.Errorf("quotationRepo.ExistsByNumber: %w", err)
	}
	return exists, nil
}

func (r *quotationRepo) List(ctx context.Context, offset, limit int) ([]domain.Quotation, int, error) {
	q := queryer(ctx, r.db)

	var total int
	err := sqlx.GetContext(ctx, q, &total, "SELECT COUNT(*) FROM quotations")
	if err != nil {
		return nil, 0, fmt.Errorf("quotationRepo.List count: %w", err)
	}

	var quotations []domain.Quotation
	err = sqlx.SelectContext(ctx, q, &quotations,
		`SELECT * FROM quotations ORDER BY issue_date DESC, created_at DESC
		 LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("quotationRepo.List: %w", err)
	}
	return quotations, total, nil
}

// Update writes the mutable fields only; number and is_manual_entry never change.
func (r *quotationRepo) Update(ctx context.Context, q *domain.Quotation) error {
	q.UpdatedAt = time.Now().UTC()
	result, err := queryer(ctx, r.db).ExecContext(ctx,
		`UPDATE quotations SET
			client_id = $1, client_state_code = $2, client_country = $3,
			issue_date = $4, valid_until = $5, currency = $6, line_items = $7,
			subtotal = $8, tax_regime = $9, gst_rate = $10,
			cgst_amount = $11, sgst_amount = $12, igst_amount = $13, grand_total = $14,
			notes = $15, updated_at = $16
		 WHERE id = $17`,
		q.ClientID, q.ClientStateCode, q.ClientCountry,
		q.IssueDate, q.ValidUntil, q.Currency, q.LineItems,
		q.Subtotal, q.TaxRegime, q.GSTRate,
		q.CGSTAmount, q.SGSTAmount, q.IGSTAmount, q.GrandTotal,
		q.Notes, q.UpdatedAt,
		q.ID)
	if err != nil {
		return fmt.Errorf("quotationRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrQuotationNotFound
	}
	return nil
}

func (r *quotationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.QuotationStatus, invoiceID *uuid.UUID) error {
	result, err := queryer(ctx, r.db).ExecContext(ctx,
		`UPDATE quotations SET status = $1, invoice_id = COALESCE($2, invoice_id), updated_at = $3
		 WHERE id = $4`,
		status, invoiceID, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("quotationRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrQuotationNotFound
	}
	return nil
}

func (r *quotationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := queryer(ctx, r.db).ExecContext(ctx,
		"DELETE FROM quotations WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("quotationRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrQuotationNotFound
	}
	return nil
}
