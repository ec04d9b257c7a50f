package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"finbook/internal/service"
)

// ExportHandler handles invoice register export endpoints.
type ExportHandler struct {
	exportService service.ExportService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// InvoicesCSV handles GET /api/v1/exports/invoices.csv
func (h *ExportHandler) InvoicesCSV(c *gin.Context) {
	filters, err := parseInvoiceFilters(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FILTER", err.Error())
		return
	}

	filename := fmt.Sprintf("invoices-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.exportService.InvoiceRegisterCSV(c.Request.Context(), filters, c.Writer); err != nil {
		// Headers may already be written; abort the stream.
		_ = c.Error(err)
		c.Abort()
	}
}

// InvoicesXLSX handles GET /api/v1/exports/invoices.xlsx
func (h *ExportHandler) InvoicesXLSX(c *gin.Context) {
	filters, err := parseInvoiceFilters(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FILTER", err.Error())
		return
	}

	filename := fmt.Sprintf("invoices-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.exportService.InvoiceRegisterXLSX(c.Request.Context(), filters, c.Writer); err != nil {
		_ = c.Error(err)
		c.Abort()
	}
}
