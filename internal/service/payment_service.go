package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finbook/internal/config"
	"finbook/internal/domain"
	"finbook/internal/port"
	"finbook/internal/reconcile"
)

// RecordPaymentInput is the DTO for recording a payment against an invoice.
type RecordPaymentInput struct {
	InvoiceID      uuid.UUID
	AmountReceived decimal.Decimal
	PaymentDate    time.Time
	Method         domain.PaymentMethod
	Reference      string
	Notes          string
	CreatedBy      uuid.UUID
}

// AttachReceiptInput is the DTO for attaching a receipt file to a payment.
type AttachReceiptInput struct {
	PaymentID   uuid.UUID
	FileName    string
	ContentType string
	Data        []byte
}

// PaymentService defines the payment recording and reconciliation contract.
type PaymentService interface {
	Record(ctx context.Context, input *RecordPaymentInput) (*domain.Payment, *domain.Invoice, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]domain.Payment, error)
	AttachReceipt(ctx context.Context, input *AttachReceiptInput) (*domain.Payment, error)
	GetReceiptURL(ctx context.Context, paymentID uuid.UUID) (string, error)
}

type paymentService struct {
	tx          port.TxRunner
	paymentRepo port.PaymentRepository
	invoiceRepo port.InvoiceRepository
	storage     port.ObjectStorage
	s3cfg       config.S3Config
}

// NewPaymentService creates a new PaymentService implementation.
func NewPaymentService(
	tx port.TxRunner,
	paymentRepo port.PaymentRepository,
	invoiceRepo port.InvoiceRepository,
	storage port.ObjectStorage,
	s3cfg config.S3Config,
) PaymentService {
	return &paymentService{
		tx:          tx,
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		storage:     storage,
		s3cfg:       s3cfg,
	}
}

// Record appends a payment to an invoice's ledger and reconciles the
// invoice status from the full payment set, all inside one transaction so
// the ledger and the derived status can never drift apart.
func (s *paymentService) Record(ctx context.Context, input *RecordPaymentInput) (*domain.Payment, *domain.Invoice, error) {
	if input.AmountReceived.LessThanOrEqual(decimal.Zero) {
		return nil, nil, domain.NewValidationError("amount_received", "amount must be positive")
	}

	paymentDate := input.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = time.Now().UTC()
	}

	p := &domain.Payment{
		ID:             uuid.New(),
		InvoiceID:      input.InvoiceID,
		AmountReceived: input.AmountReceived,
		PaymentDate:    paymentDate,
		Method:         input.Method,
		Reference:      input.Reference,
		Notes:          input.Notes,
		CreatedBy:      input.CreatedBy,
	}

	var inv *domain.Invoice
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.invoiceRepo.GetByID(ctx, input.InvoiceID)
		if err != nil {
			return err
		}

		if err := s.paymentRepo.Create(ctx, p); err != nil {
			return err
		}

		payments, err := s.paymentRepo.ListByInvoice(ctx, inv.ID)
		if err != nil {
			return err
		}

		newStatus := reconcile.Reconcile(inv.Status, inv.GrandTotal, payments)
		if newStatus != inv.Status {
			if err := s.invoiceRepo.UpdateStatus(ctx, inv.ID, newStatus); err != nil {
				return err
			}
			inv.Status = newStatus
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	log.Printf("[INFO] paymentService.Record: payment %s of %s against invoice %s, status=%s",
		p.ID, p.AmountReceived.StringFixed(2), inv.Number, inv.Status)
	return p, inv, nil
}

func (s *paymentService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	return s.paymentRepo.GetByID(ctx, id)
}

func (s *paymentService) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]domain.Payment, error) {
	if _, err := s.invoiceRepo.GetByID(ctx, invoiceID); err != nil {
		return nil, err
	}
	return s.paymentRepo.ListByInvoice(ctx, invoiceID)
}

// AttachReceipt uploads a receipt file and links its storage key to the
// payment. Only PDF, JPG and PNG files within the configured size limit are
// accepted.
func (s *paymentService) AttachReceipt(ctx context.Context, input *AttachReceiptInput) (*domain.Payment, error) {
	fileType, ok := domain.AllowedContentTypes[input.ContentType]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}
	maxBytes := s.s3cfg.MaxFileSizeMB * 1024 * 1024
	if int64(len(input.Data)) > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	p, err := s.paymentRepo.GetByID(ctx, input.PaymentID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("receipts/%s/%s.%s", p.InvoiceID, p.ID, fileType)
	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(input.Data),
		ContentType: input.ContentType,
	})
	if err != nil {
		return nil, fmt.Errorf("paymentService.AttachReceipt: %w", err)
	}

	if err := s.paymentRepo.SetReceiptKey(ctx, p.ID, key); err != nil {
		return nil, err
	}
	p.ReceiptKey = key
	return p, nil
}

func (s *paymentService) GetReceiptURL(ctx context.Context, paymentID uuid.UUID) (string, error) {
	p, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return "", err
	}
	if p.ReceiptKey == "" {
		return "", domain.ErrNotFound
	}
	return s.storage.GetPresignedURL(ctx, s.s3cfg.Bucket, p.ReceiptKey, s.s3cfg.PresignExpiry)
}
