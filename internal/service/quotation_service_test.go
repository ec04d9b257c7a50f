package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"finbook/internal/domain"
	"finbook/internal/service"
	"finbook/internal/tax"
	"finbook/mocks"
)

type quotationFixture struct {
	quotationRepo *mocks.MockQuotationRepo
	invoiceRepo   *mocks.MockInvoiceRepo
	clientRepo    *mocks.MockClientRepo
	profileRepo   *mocks.MockCompanyProfileRepo
	seqRepo       *mocks.MockSequenceRepo
	svc           service.QuotationService
}

func setupQuotationService() *quotationFixture {
	f := &quotationFixture{
		quotationRepo: new(mocks.MockQuotationRepo),
		invoiceRepo:   new(mocks.MockInvoiceRepo),
		clientRepo:    new(mocks.MockClientRepo),
		profileRepo:   new(mocks.MockCompanyProfileRepo),
		seqRepo:       new(mocks.MockSequenceRepo),
	}
	classifier := tax.NewClassifier("India", decimal.NewFromInt(18))
	f.svc = service.NewQuotationService(
		&mocks.MockTxRunner{}, f.quotationRepo, f.invoiceRepo, f.clientRepo,
		f.profileRepo, f.seqRepo, classifier, defaultNumberingCfg(),
	)
	return f
}

func TestCreateQuotation_GlobalScopeNumber(t *testing.T) {
	f := setupQuotationService()
	client := testClient(intPtr(29), "India")

	f.clientRepo.On("GetByID", mock.Anything, client.ID).Return(client, nil)
	f.profileRepo.On("Get", mock.Anything).Return(testProfile(intPtr(29)), nil)
	// Quotations draw from one running sequence regardless of fiscal year.
	f.seqRepo.On("Next", mock.Anything, "quotation-global").Return(int64(12), nil)
	f.quotationRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Quotation")).Return(nil)

	q, err := f.svc.Create(context.Background(), &service.CreateQuotationInput{
		ClientID:  client.ID,
		IssueDate: time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
		LineItems: lineItems(1000),
		CreatedBy: uuid.New(),
	})

	assert.NoError(t, err)
	assert.Equal(t, "QTN-IN-012", q.Number)
	assert.Equal(t, domain.QuotationStatusDraft, q.Status)
	f.seqRepo.AssertExpectations(t)
}

func TestQuotationTransitions(t *testing.T) {
	f := setupQuotationService()
	q := &domain.Quotation{ID: uuid.New(), Status: domain.QuotationStatusDraft}

	f.quotationRepo.On("GetByID", mock.Anything, q.ID).Return(q, nil)
	f.quotationRepo.On("UpdateStatus", mock.Anything, q.ID, domain.QuotationStatusSent, (*uuid.UUID)(nil)).Return(nil)

	got, err := f.svc.Send(context.Background(), q.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.QuotationStatusSent, got.Status)
}

func TestAcceptQuotation_RequiresSent(t *testing.T) {
	f := setupQuotationService()
	q := &domain.Quotation{ID: uuid.New(), Status: domain.QuotationStatusDraft}

	f.quotationRepo.On("GetByID", mock.Anything, q.ID).Return(q, nil)

	_, err := f.svc.Accept(context.Background(), q.ID)

	assert.ErrorIs(t, err, domain.ErrValidation)
	f.quotationRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConvertQuotation_CreatesInvoiceAndMarksConverted(t *testing.T) {
	f := setupQuotationService()
	q := &domain.Quotation{
		ID:            uuid.New(),
		Number:        "QTN-IN-012",
		ClientID:      uuid.New(),
		ClientCountry: "India",
		Currency:      "INR",
		Subtotal:      decimal.NewFromInt(1000),
		TaxRegime:     domain.TaxRegimeIntrastate,
		GSTRate:       decimal.NewFromInt(18),
		CGSTAmount:    decimal.NewFromInt(90),
		SGSTAmount:    decimal.NewFromInt(90),
		GrandTotal:    decimal.NewFromInt(1180),
		Status:        domain.QuotationStatusAccepted,
	}

	f.quotationRepo.On("GetByID", mock.Anything, q.ID).Return(q, nil)
	f.seqRepo.On("Next", mock.Anything, mock.MatchedBy(func(key string) bool {
		return key != "quotation-global" // invoice scope, not the quotation counter
	})).Return(int64(5), nil)
	f.invoiceRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Invoice")).Return(nil)
	f.quotationRepo.On("UpdateStatus", mock.Anything, q.ID, domain.QuotationStatusConverted, mock.AnythingOfType("*uuid.UUID")).Return(nil)

	inv, err := f.svc.ConvertToInvoice(context.Background(), &service.ConvertQuotationInput{
		QuotationID: q.ID,
		CreatedBy:   uuid.New(),
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusDraft, inv.Status)
	assert.True(t, inv.GrandTotal.Equal(q.GrandTotal))
	assert.Contains(t, inv.Number, "INV-IN")
	f.quotationRepo.AssertExpectations(t)
	f.invoiceRepo.AssertExpectations(t)
}

func TestConvertQuotation_AlreadyConverted(t *testing.T) {
	f := setupQuotationService()
	q := &domain.Quotation{ID: uuid.New(), Status: domain.QuotationStatusConverted}

	f.quotationRepo.On("GetByID", mock.Anything, q.ID).Return(q, nil)

	_, err := f.svc.ConvertToInvoice(context.Background(), &service.ConvertQuotationInput{
		QuotationID: q.ID,
		CreatedBy:   uuid.New(),
	})

	assert.ErrorIs(t, err, domain.ErrQuotationConverted)
	f.invoiceRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestConvertQuotation_RequiresAccepted(t *testing.T) {
	f := setupQuotationService()
	q := &domain.Quotation{ID: uuid.New(), Status: domain.QuotationStatusSent}

	f.quotationRepo.On("GetByID", mock.Anything, q.ID).Return(q, nil)

	_, err := f.svc.ConvertToInvoice(context.Background(), &service.ConvertQuotationInput{
		QuotationID: q.ID,
		CreatedBy:   uuid.New(),
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeleteQuotation_OnlyDraft(t *testing.T) {
	f := setupQuotationService()
	q := &domain.Quotation{ID: uuid.New(), Status: domain.QuotationStatusSent}

	f.quotationRepo.On("GetByID", mock.Anything, q.ID).Return(q, nil)

	err := f.svc.Delete(context.Background(), q.ID)

	assert.ErrorIs(t, err, domain.ErrQuotationNotDraft)
	f.quotationRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
