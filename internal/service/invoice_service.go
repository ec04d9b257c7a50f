package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finbook/internal/config"
	"finbook/internal/domain"
	"finbook/internal/port"
	"finbook/internal/tax"
)

// CreateInvoiceInput is the DTO for creating an invoice.
type CreateInvoiceInput struct {
	ClientID  uuid.UUID
	IssueDate time.Time
	DueDate   *time.Time
	Currency  string
	LineItems []domain.LineItem
	Notes     string
	Numbering domain.NumberingPolicy
	CreatedBy uuid.UUID
}

// UpdateInvoiceInput is the DTO for updating an invoice's editable fields.
// The number and the manual-entry flag are immutable after creation and are
// deliberately absent here.
type UpdateInvoiceInput struct {
	InvoiceID uuid.UUID
	IssueDate time.Time
	DueDate   *time.Time
	Currency  string
	LineItems []domain.LineItem
	Notes     string
}

// InvoiceService defines the invoice management contract.
type InvoiceService interface {
	Create(ctx context.Context, input *CreateInvoiceInput) (*domain.Invoice, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	List(ctx context.Context, filters *port.InvoiceFilters, offset, limit int) ([]domain.Invoice, int, error)
	Update(ctx context.Context, input *UpdateInvoiceInput) (*domain.Invoice, error)
	Send(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type invoiceService struct {
	tx          port.TxRunner
	invoiceRepo port.InvoiceRepository
	clientRepo  port.ClientRepository
	profileRepo port.CompanyProfileRepository
	seqRepo     port.SequenceRepository
	emailSender port.EmailSender
	classifier  *tax.Classifier
	rule        numberingRule
}

// NewInvoiceService creates a new InvoiceService implementation.
func NewInvoiceService(
	tx port.TxRunner,
	invoiceRepo port.InvoiceRepository,
	clientRepo port.ClientRepository,
	profileRepo port.CompanyProfileRepository,
	seqRepo port.SequenceRepository,
	emailSender port.EmailSender,
	classifier *tax.Classifier,
	numberingCfg config.NumberingConfig,
) InvoiceService {
	return &invoiceService{
		tx:          tx,
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		profileRepo: profileRepo,
		seqRepo:     seqRepo,
		emailSender: emailSender,
		classifier:  classifier,
		rule:        invoiceNumberingRule(numberingCfg),
	}
}

func (s *invoiceService) Create(ctx context.Context, input *CreateInvoiceInput) (*domain.Invoice, error) {
	if len(input.LineItems) == 0 {
		return nil, domain.NewValidationError("line_items", "at least one line item is required")
	}

	client, err := s.clientRepo.GetByID(ctx, input.ClientID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrClientNotFound
		}
		return nil, fmt.Errorf("invoiceService.Create: load client: %w", err)
	}

	homeState, homeCountry := s.homeJurisdiction(ctx)
	classification := s.classifier.Classify(homeState, client.StateCode, client.Country)
	if classification.Degraded {
		log.Printf("[WARN] invoiceService.Create: home state not configured, defaulting client %s to interstate", client.ID)
	}

	subtotal := lineItemTotal(input.LineItems)
	cgst, sgst, igst := classification.Amounts(subtotal)

	lineItemsJSON, err := json.Marshal(input.LineItems)
	if err != nil {
		return nil, fmt.Errorf("invoiceService.Create: marshal line items: %w", err)
	}

	issueDate := input.IssueDate
	if issueDate.IsZero() {
		issueDate = time.Now().UTC()
	}
	currency := input.Currency
	if currency == "" {
		currency = "INR"
	}

	inv := &domain.Invoice{
		ID:              uuid.New(),
		ClientID:        client.ID,
		ClientStateCode: client.StateCode,
		ClientCountry:   client.Country,
		IssueDate:       issueDate,
		DueDate:         input.DueDate,
		Currency:        currency,
		LineItems:       lineItemsJSON,
		Subtotal:        subtotal,
		TaxRegime:       classification.Regime,
		GSTRate:         classification.Rate,
		CGSTAmount:      cgst,
		SGSTAmount:      sgst,
		IGSTAmount:      igst,
		GrandTotal:      subtotal.Add(cgst).Add(sgst).Add(igst),
		Status:          domain.InvoiceStatusDraft,
		Notes:           input.Notes,
		CreatedBy:       input.CreatedBy,
	}

	// {CC} in the number template derives from the client's country; an
	// empty client country means domestic, so fall back to the issuer's.
	country := client.Country
	if country == "" {
		country = homeCountry
	}
	if country == "" {
		country = tax.DefaultHomeCountry
	}

	// The sequence allocation and the insert share one transaction: a
	// failed insert rolls the counter back, so committed numbers are
	// gap-free within a scope.
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		number, manual, err := resolveNumber(ctx, input.Numbering, s.rule, s.seqRepo, country, issueDate)
		if err != nil {
			return err
		}
		if manual {
			exists, err := s.invoiceRepo.ExistsByNumber(ctx, number)
			if err != nil {
				return fmt.Errorf("check number: %w", err)
			}
			if exists {
				return domain.NewDuplicateNumberError(domain.DocumentTypeInvoice, number)
			}
		}
		inv.Number = number
		inv.IsManualEntry = manual
		return s.invoiceRepo.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[INFO] invoiceService.Create: created invoice %s number=%s regime=%s", inv.ID, inv.Number, inv.TaxRegime)
	return inv, nil
}

func (s *invoiceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, id)
}

func (s *invoiceService) List(ctx context.Context, filters *port.InvoiceFilters, offset, limit int) ([]domain.Invoice, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.invoiceRepo.List(ctx, filters, offset, limit)
}

func (s *invoiceService) Update(ctx context.Context, input *UpdateInvoiceInput) (*domain.Invoice, error) {
	if len(input.LineItems) == 0 {
		return nil, domain.NewValidationError("line_items", "at least one line item is required")
	}

	inv, err := s.invoiceRepo.GetByID(ctx, input.InvoiceID)
	if err != nil {
		return nil, err
	}

	client, err := s.clientRepo.GetByID(ctx, inv.ClientID)
	if err != nil {
		return nil, fmt.Errorf("invoiceService.Update: load client: %w", err)
	}

	homeState, _ := s.homeJurisdiction(ctx)
	classification := s.classifier.Classify(homeState, client.StateCode, client.Country)
	if classification.Degraded {
		log.Printf("[WARN] invoiceService.Update: home state not configured, defaulting client %s to interstate", client.ID)
	}

	subtotal := lineItemTotal(input.LineItems)
	cgst, sgst, igst := classification.Amounts(subtotal)

	lineItemsJSON, err := json.Marshal(input.LineItems)
	if err != nil {
		return nil, fmt.Errorf("invoiceService.Update: marshal line items: %w", err)
	}

	if !input.IssueDate.IsZero() {
		inv.IssueDate = input.IssueDate
	}
	inv.DueDate = input.DueDate
	if input.Currency != "" {
		inv.Currency = input.Currency
	}
	inv.LineItems = lineItemsJSON
	inv.Subtotal = subtotal
	inv.TaxRegime = classification.Regime
	inv.GSTRate = classification.Rate
	inv.CGSTAmount = cgst
	inv.SGSTAmount = sgst
	inv.IGSTAmount = igst
	inv.GrandTotal = subtotal.Add(cgst).Add(sgst).Add(igst)
	inv.ClientStateCode = client.StateCode
	inv.ClientCountry = client.Country
	inv.Notes = input.Notes

	if err := s.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *invoiceService) Send(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != domain.InvoiceStatusDraft && inv.Status != domain.InvoiceStatusSent {
		return nil, domain.ErrInvoiceNotSendable
	}

	client, err := s.clientRepo.GetByID(ctx, inv.ClientID)
	if err != nil {
		return nil, fmt.Errorf("invoiceService.Send: load client: %w", err)
	}
	if client.Email == "" {
		return nil, domain.NewValidationError("client.email", "client has no email address")
	}

	companyName := "Finbook"
	if profile, err := s.profileRepo.Get(ctx); err == nil {
		companyName = profile.Name
	}

	email := port.InvoiceEmail{
		ToEmail:     client.Email,
		ToName:      client.Name,
		Number:      inv.Number,
		IssueDate:   inv.IssueDate.Format("02 Jan 2006"),
		Currency:    inv.Currency,
		GrandTotal:  inv.GrandTotal.StringFixed(2),
		CompanyName: companyName,
	}
	if inv.DueDate != nil {
		email.DueDate = inv.DueDate.Format("02 Jan 2006")
	}

	if err := s.emailSender.SendInvoiceEmail(ctx, email); err != nil {
		return nil, fmt.Errorf("invoiceService.Send: %w", err)
	}

	if inv.Status == domain.InvoiceStatusDraft {
		if err := s.invoiceRepo.UpdateStatus(ctx, inv.ID, domain.InvoiceStatusSent); err != nil {
			return nil, err
		}
		inv.Status = domain.InvoiceStatusSent
	}

	log.Printf("[INFO] invoiceService.Send: invoice %s sent to %s", inv.Number, client.Email)
	return inv, nil
}

func (s *invoiceService) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	n, err := s.invoiceRepo.MarkOverdue(ctx, asOf)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Printf("[INFO] invoiceService.MarkOverdue: %d invoice(s) marked overdue as of %s", n, asOf.Format("2006-01-02"))
	}
	return n, nil
}

func (s *invoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	inv, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if inv.Status != domain.InvoiceStatusDraft {
		return domain.NewValidationError("status", "only draft invoices can be deleted")
	}
	return s.invoiceRepo.Delete(ctx, id)
}

// homeJurisdiction loads the company profile's home state and country. An
// unconfigured profile is not an error here: classification degrades to the
// interstate fallback instead.
func (s *invoiceService) homeJurisdiction(ctx context.Context) (*int, string) {
	profile, err := s.profileRepo.Get(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrProfileNotConfigured) {
			log.Printf("[ERROR] invoiceService: load company profile: %v", err)
		}
		return nil, ""
	}
	return profile.HomeStateCode, profile.Country
}

func lineItemTotal(items []domain.LineItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].Amount)
	}
	return total
}
