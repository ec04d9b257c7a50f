package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"finbook/internal/domain"
	"finbook/internal/port"
)

type invoiceRepo struct {
	db *sqlx.DB
}

// NewInvoiceRepo creates a PostgreSQL-backed InvoiceRepository.
func NewInvoiceRepo(db *sqlx.DB) port.InvoiceRepository {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	now := time.Now().UTC()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	query := `INSERT INTO invoices (
		id, number, is_manual_entry, client_id, client_state_code, client_country,
		issue_date, due_date, currency, line_items,
		subtotal, tax_regime, gst_rate, cgst_amount, sgst_amount, igst_amount, grand_total,
		status, notes, created_by, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6,
		$7, $8, $9, $10,
		$11, $12, $13, $14, $15, $16, $17,
		$18, $19, $20, $21, $22
	)`

	_, err := queryer(ctx, r.db).ExecContext(ctx, query,
		inv.ID, inv.Number, inv.IsManualEntry, inv.ClientID, inv.ClientStateCode, inv.ClientCountry,
		inv.IssueDate, inv.DueDate, inv.Currency, inv.LineItems,
		inv.Subtotal, inv.TaxRegime, inv.GSTRate, inv.CGSTAmount, inv.SGSTAmount, inv.IGSTAmount, inv.GrandTotal,
		inv.Status, inv.Notes, inv.CreatedBy, inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "invoices_number_key") {
			return domain.NewDuplicateNumberError(domain.DocumentTypeInvoice, inv.Number)
		}
		if isSerializationFailure(err) {
			return domain.ErrSequenceContention
		}
		return fmt.Errorf("invoiceRepo.Create: %w", err)
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := sqlx.GetContext(ctx, queryer(ctx, r.db), &inv,
		"SELECT * FROM invoices WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByID: %w", err)
	}
	return &inv, nil
}

func (r *invoiceRepo) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, queryer(ctx, r.db), &exists,
		"SELECT EXISTS (SELECT 1 FROM invoices WHERE number = $1)", number)
	if err != nil {
		return false, fmt.Errorf("invoiceRepo.ExistsByNumber: %w", err)
	}
	return exists, nil
}

// listFilterClause builds the WHERE clause and args for invoice filters.
func listFilterClause(filters *port.InvoiceFilters) (string, []interface{}) {
	clauses := []string{}
	args := []interface{}{}
	next := func() string { return "$" + strconv.Itoa(len(args)+1) }

	if filters != nil {
		if filters.Status != "" {
			clauses = append(clauses, "status = "+next())
			args = append(args, filters.Status)
		}
		if filters.ClientID != nil {
			clauses = append(clauses, "client_id = "+next())
			args = append(args, *filters.ClientID)
		}
		if filters.FromDate != nil {
			clauses = append(clauses, "issue_date >= "+next())
			args = append(args, *filters.FromDate)
		}
		if filters.ToDate != nil {
			clauses = append(clauses, "issue_date <= "+next())
			args = append(args, *filters.ToDate)
		}
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *invoiceRepo) List(ctx context.Context, filters *port.InvoiceFilters, offset, limit int) ([]domain.Invoice, int, error) {
	where, args := listFilterClause(filters)
	q := queryer(ctx, r.db)

	var total int
	err := sqlx.GetContext(ctx, q, &total, "SELECT COUNT(*) FROM invoices"+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.List count: %w", err)
	}

	limitArgs := append(args, limit, offset)
	query := fmt.Sprintf(
		"SELECT * FROM invoices%s ORDER BY issue_date DESC, created_at DESC LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2)

	var invoices []domain.Invoice
	err = sqlx.SelectContext(ctx, q, &invoices, query, limitArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.List: %w", err)
	}
	return invoices, total, nil
}

// Update writes the mutable fields only. Number and is_manual_entry are
// immutable after creation and are deliberately absent here.
func (r *invoiceRepo) Update(ctx context.Context, inv *domain.Invoice) error {
	inv.UpdatedAt = time.Now().UTC()
	result, err := queryer(ctx, r.db).ExecContext(ctx,
		`UPDATE invoices SET
			client_id = $1, client_state_code = $2, client_country = $3,
			issue_date = $4, due_date = $5, currency = $6, line_items = $7,
			subtotal = $8, tax_regime = $9, gst_rate = $10,
			cgst_amount = $11, sgst_amount = $12, igst_amount = $13, grand_total = $14,
			notes = $15, updated_at = $16
		 WHERE id = $17`,
		inv.ClientID, inv.ClientStateCode, inv.ClientCountry,
		inv.IssueDate, inv.DueDate, inv.Currency, inv.LineItems,
		inv.Subtotal, inv.TaxRegime, inv.GSTRate,
		inv.CGSTAmount, inv.SGSTAmount, inv.IGSTAmount, inv.GrandTotal,
		inv.Notes, inv.UpdatedAt,
		inv.ID)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func (r *invoiceRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InvoiceStatus) error {
	result, err := queryer(ctx, r.db).ExecContext(ctx,
		"UPDATE invoices SET status = $1, updated_at = $2 WHERE id = $3",
		status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("invoiceRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

// MarkOverdue flips past-due sent/partial invoices to overdue and returns
// how many rows changed.
func (r *invoiceRepo) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	result, err := queryer(ctx, r.db).ExecContext(ctx,
		`UPDATE invoices SET status = $1, updated_at = NOW()
		 WHERE due_date IS NOT NULL AND due_date < $2 AND status IN ($3, $4)`,
		domain.InvoiceStatusOverdue, asOf,
		domain.InvoiceStatusSent, domain.InvoiceStatusPartial)
	if err != nil {
		return 0, fmt.Errorf("invoiceRepo.MarkOverdue: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

func (r *invoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := queryer(ctx, r.db).ExecContext(ctx,
		"DELETE FROM invoices WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}
