package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"finbook/internal/config"
	"finbook/internal/domain"
	"finbook/internal/port"
	"finbook/internal/service"
	"finbook/mocks"
)

type paymentFixture struct {
	paymentRepo *mocks.MockPaymentRepo
	invoiceRepo *mocks.MockInvoiceRepo
	storage     *mocks.MockObjectStorage
	svc         service.PaymentService
}

func setupPaymentService() *paymentFixture {
	f := &paymentFixture{
		paymentRepo: new(mocks.MockPaymentRepo),
		invoiceRepo: new(mocks.MockInvoiceRepo),
		storage:     new(mocks.MockObjectStorage),
	}
	f.svc = service.NewPaymentService(
		&mocks.MockTxRunner{}, f.paymentRepo, f.invoiceRepo, f.storage,
		config.S3Config{Bucket: "finbook-receipts", MaxFileSizeMB: 10, PresignExpiry: 3600},
	)
	return f
}

func sentInvoice(grandTotal int64) *domain.Invoice {
	return &domain.Invoice{
		ID:         uuid.New(),
		Number:     "INV-IN2425-001",
		GrandTotal: decimal.NewFromInt(grandTotal),
		Status:     domain.InvoiceStatusSent,
	}
}

func ledger(invoiceID uuid.UUID, amounts ...float64) []domain.Payment {
	ps := make([]domain.Payment, 0, len(amounts))
	for _, a := range amounts {
		ps = append(ps, domain.Payment{
			ID:             uuid.New(),
			InvoiceID:      invoiceID,
			AmountReceived: decimal.NewFromFloat(a),
		})
	}
	return ps
}

func TestRecordPayment_PartialPayment(t *testing.T) {
	f := setupPaymentService()
	inv := sentInvoice(1000)

	f.invoiceRepo.On("GetByID", mock.Anything, inv.ID).Return(inv, nil)
	f.paymentRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Payment")).Return(nil)
	f.paymentRepo.On("ListByInvoice", mock.Anything, inv.ID).Return(ledger(inv.ID, 400), nil)
	f.invoiceRepo.On("UpdateStatus", mock.Anything, inv.ID, domain.InvoiceStatusPartial).Return(nil)

	payment, updated, err := f.svc.Record(context.Background(), &service.RecordPaymentInput{
		InvoiceID:      inv.ID,
		AmountReceived: decimal.NewFromInt(400),
		CreatedBy:      uuid.New(),
	})

	assert.NoError(t, err)
	assert.True(t, payment.AmountReceived.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, domain.InvoiceStatusPartial, updated.Status)
	f.invoiceRepo.AssertExpectations(t)
}

func TestRecordPayment_FinalPaymentWithinEpsilon(t *testing.T) {
	f := setupPaymentService()
	inv := sentInvoice(1000)
	inv.Status = domain.InvoiceStatusPartial

	f.invoiceRepo.On("GetByID", mock.Anything, inv.ID).Return(inv, nil)
	f.paymentRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Payment")).Return(nil)
	// 400 + 599.60 = 999.60, within the 0.5 buffer of 1000.
	f.paymentRepo.On("ListByInvoice", mock.Anything, inv.ID).Return(ledger(inv.ID, 400, 599.60), nil)
	f.invoiceRepo.On("UpdateStatus", mock.Anything, inv.ID, domain.InvoiceStatusPaid).Return(nil)

	_, updated, err := f.svc.Record(context.Background(), &service.RecordPaymentInput{
		InvoiceID:      inv.ID,
		AmountReceived: decimal.NewFromFloat(599.60),
		CreatedBy:      uuid.New(),
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, updated.Status)
}

func TestRecordPayment_StatusUnchangedSkipsUpdate(t *testing.T) {
	f := setupPaymentService()
	inv := sentInvoice(1000)
	inv.Status = domain.InvoiceStatusPartial

	f.invoiceRepo.On("GetByID", mock.Anything, inv.ID).Return(inv, nil)
	f.paymentRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Payment")).Return(nil)
	f.paymentRepo.On("ListByInvoice", mock.Anything, inv.ID).Return(ledger(inv.ID, 100, 50), nil)

	_, updated, err := f.svc.Record(context.Background(), &service.RecordPaymentInput{
		InvoiceID:      inv.ID,
		AmountReceived: decimal.NewFromInt(50),
		CreatedBy:      uuid.New(),
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPartial, updated.Status)
	f.invoiceRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordPayment_NonPositiveAmountRejected(t *testing.T) {
	f := setupPaymentService()

	_, _, err := f.svc.Record(context.Background(), &service.RecordPaymentInput{
		InvoiceID:      uuid.New(),
		AmountReceived: decimal.Zero,
		CreatedBy:      uuid.New(),
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
	f.paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRecordPayment_MissingInvoice(t *testing.T) {
	f := setupPaymentService()
	id := uuid.New()

	f.invoiceRepo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrInvoiceNotFound)

	_, _, err := f.svc.Record(context.Background(), &service.RecordPaymentInput{
		InvoiceID:      id,
		AmountReceived: decimal.NewFromInt(100),
		CreatedBy:      uuid.New(),
	})

	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
}

func TestAttachReceipt_UploadsAndLinksKey(t *testing.T) {
	f := setupPaymentService()
	p := &domain.Payment{ID: uuid.New(), InvoiceID: uuid.New()}

	f.paymentRepo.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	f.storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(&port.UploadOutput{Location: "https://example/receipt"}, nil)
	f.paymentRepo.On("SetReceiptKey", mock.Anything, p.ID, mock.AnythingOfType("string")).Return(nil)

	got, err := f.svc.AttachReceipt(context.Background(), &service.AttachReceiptInput{
		PaymentID:   p.ID,
		FileName:    "receipt.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.4"),
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, got.ReceiptKey)
	f.storage.AssertExpectations(t)
}

func TestAttachReceipt_RejectsUnsupportedType(t *testing.T) {
	f := setupPaymentService()

	_, err := f.svc.AttachReceipt(context.Background(), &service.AttachReceiptInput{
		PaymentID:   uuid.New(),
		FileName:    "virus.exe",
		ContentType: "application/octet-stream",
		Data:        []byte{0x4D, 0x5A},
	})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	f.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestGetReceiptURL_NoReceipt(t *testing.T) {
	f := setupPaymentService()
	p := &domain.Payment{ID: uuid.New(), InvoiceID: uuid.New()}

	f.paymentRepo.On("GetByID", mock.Anything, p.ID).Return(p, nil)

	_, err := f.svc.GetReceiptURL(context.Background(), p.ID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
