package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finbook/internal/domain"
	"finbook/internal/middleware"
	"finbook/internal/service"
)

// PaymentHandler handles payment recording and receipt endpoints.
type PaymentHandler struct {
	paymentService service.PaymentService
	maxUploadBytes int64
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService service.PaymentService, maxFileSizeMB int64) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		maxUploadBytes: maxFileSizeMB * 1024 * 1024,
	}
}

// Record handles POST /api/v1/invoices/:id/payments
func (h *PaymentHandler) Record(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid invoice ID")
		return
	}

	var req struct {
		AmountReceived decimal.Decimal `json:"amount_received" binding:"required"`
		PaymentDate    *time.Time      `json:"payment_date"`
		Method         string          `json:"method"`
		Reference      string          `json:"reference"`
		Notes          string          `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "amount_received is required")
		return
	}

	input := &service.RecordPaymentInput{
		InvoiceID:      invoiceID,
		AmountReceived: req.AmountReceived,
		Method:         domain.PaymentMethod(req.Method),
		Reference:      req.Reference,
		Notes:          req.Notes,
		CreatedBy:      userID,
	}
	if req.PaymentDate != nil {
		input.PaymentDate = *req.PaymentDate
	}

	payment, invoice, err := h.paymentService.Record(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, gin.H{"payment": payment, "invoice": invoice})
}

// ListByInvoice handles GET /api/v1/invoices/:id/payments
func (h *PaymentHandler) ListByInvoice(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid invoice ID")
		return
	}

	payments, err := h.paymentService.ListByInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, payments)
}

// AttachReceipt handles POST /api/v1/payments/:id/receipt (multipart upload).
func (h *PaymentHandler) AttachReceipt(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid payment ID")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "file is required")
		return
	}
	if fileHeader.Size > h.maxUploadBytes {
		HandleError(c, domain.ErrFileTooLarge)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "cannot read uploaded file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxUploadBytes+1))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "cannot read uploaded file")
		return
	}

	payment, err := h.paymentService.AttachReceipt(c.Request.Context(), &service.AttachReceiptInput{
		PaymentID:   paymentID,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, payment)
}

// GetReceiptURL handles GET /api/v1/payments/:id/receipt
func (h *PaymentHandler) GetReceiptURL(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid payment ID")
		return
	}

	url, err := h.paymentService.GetReceiptURL(c.Request.Context(), paymentID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"url": url})
}
