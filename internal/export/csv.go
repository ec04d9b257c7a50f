// Package export renders the invoice register as CSV and XLSX files.
package export

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/google/uuid"

	"finbook/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the register header row.
var columns = []string{
	"Invoice Number",
	"Issue Date",
	"Due Date",
	"Client Name",
	"Client State Code",
	"Client Country",
	"Currency",
	"Subtotal",
	"Tax Regime",
	"GST Rate",
	"CGST",
	"SGST",
	"IGST",
	"Grand Total",
	"Status",
	"Manual Number",
	"Created At",
}

const dateLayout = "2006-01-02"

// Writer wraps csv.Writer for exporting the invoice register.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w. Callers wanting Excel
// compatibility should write BOM to w first.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the register header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteInvoices converts a batch of invoices to CSV rows and writes them.
// clientNames maps client IDs to display names; missing entries render empty.
func (w *Writer) WriteInvoices(invoices []domain.Invoice, clientNames map[uuid.UUID]string) error {
	for i := range invoices {
		if err := w.csv.Write(invoiceToRow(&invoices[i], clientNames)); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from previous writes or flushes.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func invoiceToRow(inv *domain.Invoice, clientNames map[uuid.UUID]string) []string {
	return []string{
		inv.Number,
		inv.IssueDate.Format(dateLayout),
		formatDatePtr(inv.DueDate),
		clientNames[inv.ClientID],
		formatIntPtr(inv.ClientStateCode),
		inv.ClientCountry,
		inv.Currency,
		inv.Subtotal.StringFixed(2),
		string(inv.TaxRegime),
		inv.GSTRate.StringFixed(2),
		inv.CGSTAmount.StringFixed(2),
		inv.SGSTAmount.StringFixed(2),
		inv.IGSTAmount.StringFixed(2),
		inv.GrandTotal.StringFixed(2),
		string(inv.Status),
		formatBool(inv.IsManualEntry),
		inv.CreatedAt.Format(time.RFC3339),
	}
}
