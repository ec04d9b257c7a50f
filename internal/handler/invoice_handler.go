package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"finbook/internal/domain"
	"finbook/internal/middleware"
	"finbook/internal/port"
	"finbook/internal/service"
)

// InvoiceHandler handles invoice management endpoints.
type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

type invoiceRequest struct {
	ClientID      uuid.UUID         `json:"client_id" binding:"required"`
	IssueDate     *time.Time        `json:"issue_date"`
	DueDate       *time.Time        `json:"due_date"`
	Currency      string            `json:"currency"`
	LineItems     []domain.LineItem `json:"line_items" binding:"required"`
	Notes         string            `json:"notes"`
	NumberingMode string            `json:"numbering_mode"`
	Number        string            `json:"number"`
}

func (r *invoiceRequest) numberingPolicy() domain.NumberingPolicy {
	if r.NumberingMode == string(domain.NumberingManual) {
		return domain.ManualNumbering(r.Number)
	}
	return domain.AutoNumbering()
}

// Create handles POST /api/v1/invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "client_id and line_items are required")
		return
	}

	input := &service.CreateInvoiceInput{
		ClientID:  req.ClientID,
		DueDate:   req.DueDate,
		Currency:  req.Currency,
		LineItems: req.LineItems,
		Notes:     req.Notes,
		Numbering: req.numberingPolicy(),
		CreatedBy: userID,
	}
	if req.IssueDate != nil {
		input.IssueDate = *req.IssueDate
	}

	inv, err := h.invoiceService.Create(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, inv)
}

// GetByID handles GET /api/v1/invoices/:id
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid invoice ID")
		return
	}

	inv, err := h.invoiceService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, inv)
}

// List handles GET /api/v1/invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)
	filters, err := parseInvoiceFilters(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FILTER", err.Error())
		return
	}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), filters, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, invoices, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Update handles PUT /api/v1/invoices/:id
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid invoice ID")
		return
	}

	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "line_items are required")
		return
	}

	input := &service.UpdateInvoiceInput{
		InvoiceID: id,
		DueDate:   req.DueDate,
		Currency:  req.Currency,
		LineItems: req.LineItems,
		Notes:     req.Notes,
	}
	if req.IssueDate != nil {
		input.IssueDate = *req.IssueDate
	}

	inv, err := h.invoiceService.Update(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, inv)
}

// Send handles POST /api/v1/invoices/:id/send
func (h *InvoiceHandler) Send(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid invoice ID")
		return
	}

	inv, err := h.invoiceService.Send(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, inv)
}

// MarkOverdue handles POST /api/v1/invoices/mark-overdue
func (h *InvoiceHandler) MarkOverdue(c *gin.Context) {
	n, err := h.invoiceService.MarkOverdue(c.Request.Context(), time.Now().UTC())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"marked_overdue": n})
}

// Delete handles DELETE /api/v1/invoices/:id
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid invoice ID")
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"deleted": true})
}

func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}

func parseInvoiceFilters(c *gin.Context) (*port.InvoiceFilters, error) {
	filters := &port.InvoiceFilters{
		Status: domain.InvoiceStatus(c.Query("status")),
	}
	if v := c.Query("client_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, err
		}
		filters.ClientID = &id
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, err
		}
		filters.FromDate = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, err
		}
		filters.ToDate = &t
	}
	return filters, nil
}
