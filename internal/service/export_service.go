package service

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"finbook/internal/domain"
	"finbook/internal/export"
	"finbook/internal/port"
)

// exportPageSize is how many invoices are fetched per page while streaming
// an export.
const exportPageSize = 500

// ExportService renders the invoice register to CSV or XLSX.
type ExportService interface {
	InvoiceRegisterCSV(ctx context.Context, filters *port.InvoiceFilters, w io.Writer) error
	InvoiceRegisterXLSX(ctx context.Context, filters *port.InvoiceFilters, w io.Writer) error
}

type exportService struct {
	invoiceRepo port.InvoiceRepository
	clientRepo  port.ClientRepository
}

// NewExportService creates a new ExportService implementation.
func NewExportService(invoiceRepo port.InvoiceRepository, clientRepo port.ClientRepository) ExportService {
	return &exportService{invoiceRepo: invoiceRepo, clientRepo: clientRepo}
}

// InvoiceRegisterCSV streams the filtered register as CSV, page by page,
// prefixed with a UTF-8 BOM so Excel opens it cleanly.
func (s *exportService) InvoiceRegisterCSV(ctx context.Context, filters *port.InvoiceFilters, w io.Writer) error {
	if _, err := w.Write(export.BOM); err != nil {
		return fmt.Errorf("exportService: write BOM: %w", err)
	}

	cw := export.NewWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return fmt.Errorf("exportService: write header: %w", err)
	}

	names := make(map[uuid.UUID]string)
	for offset := 0; ; offset += exportPageSize {
		invoices, total, err := s.invoiceRepo.List(ctx, filters, offset, exportPageSize)
		if err != nil {
			return fmt.Errorf("exportService: list invoices: %w", err)
		}
		if err := s.resolveClientNames(ctx, invoices, names); err != nil {
			return err
		}
		if err := cw.WriteInvoices(invoices, names); err != nil {
			return fmt.Errorf("exportService: write rows: %w", err)
		}
		if offset+len(invoices) >= total || len(invoices) == 0 {
			break
		}
	}

	cw.Flush()
	return cw.Error()
}

// InvoiceRegisterXLSX renders the filtered register as an XLSX workbook.
// The workbook is built in memory, so unlike CSV this does not stream.
func (s *exportService) InvoiceRegisterXLSX(ctx context.Context, filters *port.InvoiceFilters, w io.Writer) error {
	var all []domain.Invoice
	names := make(map[uuid.UUID]string)
	for offset := 0; ; offset += exportPageSize {
		invoices, total, err := s.invoiceRepo.List(ctx, filters, offset, exportPageSize)
		if err != nil {
			return fmt.Errorf("exportService: list invoices: %w", err)
		}
		if err := s.resolveClientNames(ctx, invoices, names); err != nil {
			return err
		}
		all = append(all, invoices...)
		if offset+len(invoices) >= total || len(invoices) == 0 {
			break
		}
	}
	return export.WriteXLSX(w, all, names)
}

// resolveClientNames fills names for any client IDs not already cached.
// A client deleted after its invoices were issued renders an empty name
// rather than failing the export.
func (s *exportService) resolveClientNames(ctx context.Context, invoices []domain.Invoice, names map[uuid.UUID]string) error {
	for i := range invoices {
		id := invoices[i].ClientID
		if _, ok := names[id]; ok {
			continue
		}
		client, err := s.clientRepo.GetByID(ctx, id)
		if err != nil {
			names[id] = ""
			continue
		}
		names[id] = client.Name
	}
	return nil
}
