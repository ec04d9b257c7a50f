package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"finbook/internal/domain"
	"finbook/internal/middleware"
	"finbook/internal/service"
)

// QuotationHandler handles quotation management endpoints.
type QuotationHandler struct {
	quotationService service.QuotationService
}

// NewQuotationHandler creates a new QuotationHandler.
func NewQuotationHandler(quotationService service.QuotationService) *QuotationHandler {
	return &QuotationHandler{quotationService: quotationService}
}

type quotationRequest struct {
	ClientID      uuid.UUID         `json:"client_id" binding:"required"`
	IssueDate     *time.Time        `json:"issue_date"`
	ValidUntil    *time.Time        `json:"valid_until"`
	Currency      string            `json:"currency"`
	LineItems     []domain.LineItem `json:"line_items" binding:"required"`
	Notes         string            `json:"notes"`
	NumberingMode string            `json:"numbering_mode"`
	Number        string            `json:"number"`
}

// Create handles POST /api/v1/quotations
func (h *QuotationHandler) Create(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	var req quotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "client_id and line_items are required")
		return
	}

	numbering := domain.AutoNumbering()
	if req.NumberingMode == string(domain.NumberingManual) {
		numbering = domain.ManualNumbering(req.Number)
	}

	input := &service.CreateQuotationInput{
		ClientID:   req.ClientID,
		ValidUntil: req.ValidUntil,
		Currency:   req.Currency,
		LineItems:  req.LineItems,
		Notes:      req.Notes,
		Numbering:  numbering,
		CreatedBy:  userID,
	}
	if req.IssueDate != nil {
		input.IssueDate = *req.IssueDate
	}

	q, err := h.quotationService.Create(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, q)
}

// GetByID handles GET /api/v1/quotations/:id
func (h *QuotationHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid quotation ID")
		return
	}

	q, err := h.quotationService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, q)
}

// List handles GET /api/v1/quotations
func (h *QuotationHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	quotations, total, err := h.quotationService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, quotations, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Send handles POST /api/v1/quotations/:id/send
func (h *QuotationHandler) Send(c *gin.Context) {
	h.transition(c, h.quotationService.Send)
}

// Accept handles POST /api/v1/quotations/:id/accept
func (h *QuotationHandler) Accept(c *gin.Context) {
	h.transition(c, h.quotationService.Accept)
}

// Decline handles POST /api/v1/quotations/:id/decline
func (h *QuotationHandler) Decline(c *gin.Context) {
	h.transition(c, h.quotationService.Decline)
}

// Convert handles POST /api/v1/quotations/:id/convert
func (h *QuotationHandler) Convert(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid quotation ID")
		return
	}

	var req struct {
		DueDate *time.Time `json:"due_date"`
	}
	// Body is optional for conversion.
	_ = c.ShouldBindJSON(&req)

	inv, err := h.quotationService.ConvertToInvoice(c.Request.Context(), &service.ConvertQuotationInput{
		QuotationID: id,
		DueDate:     req.DueDate,
		CreatedBy:   userID,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, inv)
}

// Delete handles DELETE /api/v1/quotations/:id
func (h *QuotationHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid quotation ID")
		return
	}

	if err := h.quotationService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"deleted": true})
}

func (h *QuotationHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*domain.Quotation, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid quotation ID")
		return
	}

	q, err := fn(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, q)
}
