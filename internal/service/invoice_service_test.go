package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"finbook/internal/config"
	"finbook/internal/domain"
	"finbook/internal/service"
	"finbook/internal/tax"
	"finbook/mocks"
)

func intPtr(n int) *int { return &n }

func defaultNumberingCfg() config.NumberingConfig {
	return config.NumberingConfig{
		InvoiceTemplate:   "INV-{CC}{FY}-{SEQ:3}",
		InvoiceScope:      config.ScopeFiscalYear,
		QuotationTemplate: "QTN-{CC}-{SEQ:3}",
		QuotationScope:    config.ScopeGlobal,
	}
}

type invoiceFixture struct {
	invoiceRepo *mocks.MockInvoiceRepo
	clientRepo  *mocks.MockClientRepo
	profileRepo *mocks.MockCompanyProfileRepo
	seqRepo     *mocks.MockSequenceRepo
	emailSender *mocks.MockEmailSender
	svc         service.InvoiceService
}

func setupInvoiceService() *invoiceFixture {
	f := &invoiceFixture{
		invoiceRepo: new(mocks.MockInvoiceRepo),
		clientRepo:  new(mocks.MockClientRepo),
		profileRepo: new(mocks.MockCompanyProfileRepo),
		seqRepo:     new(mocks.MockSequenceRepo),
		emailSender: new(mocks.MockEmailSender),
	}
	classifier := tax.NewClassifier("India", decimal.NewFromInt(18))
	f.svc = service.NewInvoiceService(
		&mocks.MockTxRunner{}, f.invoiceRepo, f.clientRepo, f.profileRepo,
		f.seqRepo, f.emailSender, classifier, defaultNumberingCfg(),
	)
	return f
}

func testClient(stateCode *int, country string) *domain.Client {
	return &domain.Client{
		ID:        uuid.New(),
		Name:      "Acme Traders",
		Email:     "billing@acme.example",
		StateCode: stateCode,
		Country:   country,
	}
}

func testProfile(homeState *int) *domain.CompanyProfile {
	return &domain.CompanyProfile{
		ID:            1,
		Name:          "Finbook Services",
		HomeStateCode: homeState,
		Country:       "India",
	}
}

func lineItems(amounts ...float64) []domain.LineItem {
	items := make([]domain.LineItem, 0, len(amounts))
	for _, a := range amounts {
		items = append(items, domain.LineItem{
			Description: "Consulting",
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   decimal.NewFromFloat(a),
			Amount:      decimal.NewFromFloat(a),
		})
	}
	return items
}

func TestCreateInvoice_AutoNumbering(t *testing.T) {
	f := setupInvoiceService()
	client := testClient(intPtr(29), "India")

	f.clientRepo.On("GetByID", mock.Anything, client.ID).Return(client, nil)
	f.profileRepo.On("Get", mock.Anything).Return(testProfile(intPtr(29)), nil)
	f.seqRepo.On("Next", mock.Anything, "invoice-fy-2425").Return(int64(7), nil)
	f.invoiceRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Invoice")).Return(nil)

	inv, err := f.svc.Create(context.Background(), &service.CreateInvoiceInput{
		ClientID:  client.ID,
		IssueDate: time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
		LineItems: lineItems(1000),
		CreatedBy: uuid.New(),
	})

	assert.NoError(t, err)
	assert.Equal(t, "INV-IN2425-007", inv.Number)
	assert.False(t, inv.IsManualEntry)
	assert.Equal(t, domain.InvoiceStatusDraft, inv.Status)
	assert.Equal(t, domain.TaxRegimeIntrastate, inv.TaxRegime)
	assert.True(t, inv.CGSTAmount.Equal(decimal.NewFromInt(90)))
	assert.True(t, inv.SGSTAmount.Equal(decimal.NewFromInt(90)))
	assert.True(t, inv.IGSTAmount.IsZero())
	assert.True(t, inv.GrandTotal.Equal(decimal.NewFromInt(1180)))

	f.seqRepo.AssertExpectations(t)
	f.invoiceRepo.AssertExpectations(t)
}

func TestCreateInvoice_ManualNumber(t *testing.T) {
	f := setupInvoiceService()
	client := testClient(intPtr(29), "India")

	f.clientRepo.On("GetByID", mock.Anything, client.ID).Return(client, nil)
	f.profileRepo.On("Get", mock.Anything).Return(testProfile(intPtr(29)), nil)
	f.invoiceRepo.On("ExistsByNumber", mock.Anything, "LEGACY-042").Return(false, nil)
	f.invoiceRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Invoice")).Return(nil)

	inv, err := f.svc.Create(context.Background(), &service.CreateInvoiceInput{
		ClientID:  client.ID,
		IssueDate: time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
		LineItems: lineItems(500),
		Numbering: domain.ManualNumbering("LEGACY-042"),
		CreatedBy: uuid.New(),
	})

	assert.NoError(t, err)
	assert.Equal(t, "LEGACY-042", inv.Number)
	assert.True(t, inv.IsManualEntry)
	// No sequence is consumed on the manual path.
	f.seqRepo.AssertNotCalled(t, "Next", mock.Anything, mock.Anything)
}

func TestCreateInvoice_ManualCollisionReturnsConflict(t *testing.T) {
	f := setupInvoiceService()
	client := testClient(intPtr(29), "India")

	f.clientRepo.On("GetByID", mock.Anything, client.ID).Return(client, nil)
	f.profileRepo.On("Get", mock.Anything).Return(testProfile(intPtr(29)), nil)
	f.invoiceRepo.On("ExistsByNumber", mock.Anything, "INV-IN2425-007").Return(true, nil)

	_, err := f.svc.Create(context.Background(), &service.CreateInvoiceInput{
		ClientID:  client.ID,
		IssueDate: time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
		LineItems: lineItems(500),
		Numbering: domain.ManualNumbering("INV-IN2425-007"),
		CreatedBy: uuid.New(),
	})

	assert.ErrorIs(t, err, domain.ErrDuplicateNumber)
	var dup *domain.DuplicateNumberError
	assert.ErrorAs(t, err, &dup)
	assert.Equal(t, "INV-IN2425-007", dup.Number)
	f.invoiceRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateInvoice_ManualEmptyNumberIsValidationError(t *testing.T) {
	f := setupInvoiceService()
	client := testClient(intPtr(29), "India")

	f.clientRepo.On("GetByID", mock.Anything, client.ID).Return(client, nil)
	f.profileRepo.On("Get", mock.Anything).Return(testProfile(intPtr(29)), nil)

	_, err := f.svc.Create(context.Background(), &service.CreateInvoiceInput{
		ClientID:  client.ID,
		IssueDate: time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
		LineItems: lineItems(500),
		Numbering: domain.ManualNumbering("   "),
		CreatedBy: uuid.New(),
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
	f.seqRepo.AssertNotCalled(t, "Next", mock.Anything, mock.Anything)
	f.invoiceRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateInvoice_UnconfiguredProfileFallsBackToInterstate(t *testing.T) {
	f := setupInvoiceService()
	client := testClient(intPtr(29), "India")

	f.clientRepo.On("GetByID", mock.Anything, client.ID).Return(client, nil)
	f.profileRepo.On("Get", mock.Anything).Return(nil, domain.ErrProfileNotConfigured)
	f.seqRepo.On("Next", mock.Anything, "invoice-fy-2425").Return(int64(1), nil)
	f.invoiceRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Invoice")).Return(nil)

	inv, err := f.svc.Create(context.Background(), &service.CreateInvoiceInput{
		ClientID:  client.ID,
		IssueDate: time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
		LineItems: lineItems(1000),
		CreatedBy: uuid.New(),
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.TaxRegimeInterstate, inv.TaxRegime)
	assert.True(t, inv.IGSTAmount.Equal(decimal.NewFromInt(180)))
	assert.True(t, inv.CGSTAmount.IsZero())
}

func TestCreateInvoice_ExportIsZeroRated(t *testing.T) {
	f := setupInvoiceService()
	client := testClient(nil, "Germany")

	f.clientRepo.On("GetByID", mock.Anything, client.ID).Return(client, nil)
	f.profileRepo.On("Get", mock.Anything).Return(testProfile(intPtr(29)), nil)
	f.seqRepo.On("Next", mock.Anything, "invoice-fy-2425").Return(int64(3), nil)
	f.invoiceRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Invoice")).Return(nil)

	inv, err := f.svc.Create(context.Background(), &service.CreateInvoiceInput{
		ClientID:  client.ID,
		IssueDate: time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
		LineItems: lineItems(2500),
		CreatedBy: uuid.New(),
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.TaxRegimeExport, inv.TaxRegime)
	assert.True(t, inv.GrandTotal.Equal(decimal.NewFromInt(2500)))
	// Client country drives the template's country code.
	assert.Equal(t, "INV-DE2425-003", inv.Number)
}

func TestCreateInvoice_InsertFailurePropagates(t *testing.T) {
	f := setupInvoiceService()
	client := testClient(intPtr(29), "India")
	boom := errors.New("connection reset")

	f.clientRepo.On("GetByID", mock.Anything, client.ID).Return(client, nil)
	f.profileRepo.On("Get", mock.Anything).Return(testProfile(intPtr(29)), nil)
	f.seqRepo.On("Next", mock.Anything, "invoice-fy-2425").Return(int64(8), nil)
	f.invoiceRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Invoice")).Return(boom)

	_, err := f.svc.Create(context.Background(), &service.CreateInvoiceInput{
		ClientID:  client.ID,
		IssueDate: time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
		LineItems: lineItems(100),
		CreatedBy: uuid.New(),
	})

	assert.ErrorIs(t, err, boom)
}

func TestCreateInvoice_NoLineItems(t *testing.T) {
	f := setupInvoiceService()

	_, err := f.svc.Create(context.Background(), &service.CreateInvoiceInput{
		ClientID:  uuid.New(),
		CreatedBy: uuid.New(),
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateInvoice_PreservesNumberAndManualFlag(t *testing.T) {
	f := setupInvoiceService()
	client := testClient(intPtr(29), "India")
	existing := &domain.Invoice{
		ID:            uuid.New(),
		Number:        "INV-IN2425-001",
		IsManualEntry: true,
		ClientID:      client.ID,
		IssueDate:     time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
		Status:        domain.InvoiceStatusDraft,
	}

	f.invoiceRepo.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)
	f.clientRepo.On("GetByID", mock.Anything, client.ID).Return(client, nil)
	f.profileRepo.On("Get", mock.Anything).Return(testProfile(intPtr(29)), nil)
	f.invoiceRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Invoice")).Return(nil)

	inv, err := f.svc.Update(context.Background(), &service.UpdateInvoiceInput{
		InvoiceID: existing.ID,
		LineItems: lineItems(2000),
	})

	assert.NoError(t, err)
	assert.Equal(t, "INV-IN2425-001", inv.Number)
	assert.True(t, inv.IsManualEntry)
	assert.True(t, inv.Subtotal.Equal(decimal.NewFromInt(2000)))
	f.seqRepo.AssertNotCalled(t, "Next", mock.Anything, mock.Anything)
}

func TestSendInvoice_DraftBecomesSent(t *testing.T) {
	f := setupInvoiceService()
	client := testClient(intPtr(29), "India")
	inv := &domain.Invoice{
		ID:         uuid.New(),
		Number:     "INV-IN2425-004",
		ClientID:   client.ID,
		IssueDate:  time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
		Currency:   "INR",
		GrandTotal: decimal.NewFromInt(1180),
		Status:     domain.InvoiceStatusDraft,
	}

	f.invoiceRepo.On("GetByID", mock.Anything, inv.ID).Return(inv, nil)
	f.clientRepo.On("GetByID", mock.Anything, client.ID).Return(client, nil)
	f.profileRepo.On("Get", mock.Anything).Return(testProfile(intPtr(29)), nil)
	f.emailSender.On("SendInvoiceEmail", mock.Anything, mock.AnythingOfType("port.InvoiceEmail")).Return(nil)
	f.invoiceRepo.On("UpdateStatus", mock.Anything, inv.ID, domain.InvoiceStatusSent).Return(nil)

	got, err := f.svc.Send(context.Background(), inv.ID)

	assert.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusSent, got.Status)
	f.emailSender.AssertExpectations(t)
	f.invoiceRepo.AssertExpectations(t)
}

func TestSendInvoice_PaidIsNotSendable(t *testing.T) {
	f := setupInvoiceService()
	inv := &domain.Invoice{
		ID:     uuid.New(),
		Status: domain.InvoiceStatusPaid,
	}

	f.invoiceRepo.On("GetByID", mock.Anything, inv.ID).Return(inv, nil)

	_, err := f.svc.Send(context.Background(), inv.ID)

	assert.ErrorIs(t, err, domain.ErrInvoiceNotSendable)
	f.emailSender.AssertNotCalled(t, "SendInvoiceEmail", mock.Anything, mock.Anything)
}

func TestDeleteInvoice_OnlyDraft(t *testing.T) {
	f := setupInvoiceService()
	sent := &domain.Invoice{ID: uuid.New(), Status: domain.InvoiceStatusSent}

	f.invoiceRepo.On("GetByID", mock.Anything, sent.ID).Return(sent, nil)

	err := f.svc.Delete(context.Background(), sent.ID)

	assert.ErrorIs(t, err, domain.ErrValidation)
	f.invoiceRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
