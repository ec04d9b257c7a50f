package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"finbook/internal/config"
	"finbook/internal/domain"
	"finbook/internal/port"
	"finbook/internal/tax"
)

// CreateQuotationInput is the DTO for creating a quotation.
type CreateQuotationInput struct {
	ClientID   uuid.UUID
	IssueDate  time.Time
	ValidUntil *time.Time
	Currency   string
	LineItems  []domain.LineItem
	Notes      string
	Numbering  domain.NumberingPolicy
	CreatedBy  uuid.UUID
}

// ConvertQuotationInput is the DTO for converting an accepted quotation
// into an invoice.
type ConvertQuotationInput struct {
	QuotationID uuid.UUID
	DueDate     *time.Time
	CreatedBy   uuid.UUID
}

// QuotationService defines the quotation management contract.
type QuotationService interface {
	Create(ctx context.Context, input *CreateQuotationInput) (*domain.Quotation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Quotation, error)
	List(ctx context.Context, offset, limit int) ([]domain.Quotation, int, error)
	Send(ctx context.Context, id uuid.UUID) (*domain.Quotation, error)
	Accept(ctx context.Context, id uuid.UUID) (*domain.Quotation, error)
	Decline(ctx context.Context, id uuid.UUID) (*domain.Quotation, error)
	ConvertToInvoice(ctx context.Context, input *ConvertQuotationInput) (*domain.Invoice, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type quotationService struct {
	tx            port.TxRunner
	quotationRepo port.QuotationRepository
	invoiceRepo   port.InvoiceRepository
	clientRepo    port.ClientRepository
	profileRepo   port.CompanyProfileRepository
	seqRepo       port.SequenceRepository
	classifier    *tax.Classifier
	rule          numberingRule
	invoiceRule   numberingRule
}

// NewQuotationService creates a new QuotationService implementation.
func NewQuotationService(
	tx port.TxRunner,
	quotationRepo port.QuotationRepository,
	invoiceRepo port.InvoiceRepository,
	clientRepo port.ClientRepository,
	profileRepo port.CompanyProfileRepository,
	seqRepo port.SequenceRepository,
	classifier *tax.Classifier,
	numberingCfg config.NumberingConfig,
) QuotationService {
	return &quotationService{
		tx:            tx,
		quotationRepo: quotationRepo,
		invoiceRepo:   invoiceRepo,
		clientRepo:    clientRepo,
		profileRepo:   profileRepo,
		seqRepo:       seqRepo,
		classifier:    classifier,
		rule:          quotationNumberingRule(numberingCfg),
		invoiceRule:   invoiceNumberingRule(numberingCfg),
	}
}

func (s *quotationService) Create(ctx context.Context, input *CreateQuotationInput) (*domain.Quotation, error) {
	if len(input.LineItems) == 0 {
		return nil, domain.NewValidationError("line_items", "at least one line item is required")
	}

	client, err := s.clientRepo.GetByID(ctx, input.ClientID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrClientNotFound
		}
		return nil, fmt.Errorf("quotationService.Create: load client: %w", err)
	}

	homeState, homeCountry := s.homeJurisdiction(ctx)
	classification := s.classifier.Classify(homeState, client.StateCode, client.Country)
	if classification.Degraded {
		log.Printf("[WARN] quotationService.Create: home state not configured, defaulting client %s to interstate", client.ID)
	}

	subtotal := lineItemTotal(input.LineItems)
	cgst, sgst, igst := classification.Amounts(subtotal)

	lineItemsJSON, err := json.Marshal(input.LineItems)
	if err != nil {
		return nil, fmt.Errorf("quotationService.Create: marshal line items: %w", err)
	}

	issueDate := input.IssueDate
	if issueDate.IsZero() {
		issueDate = time.Now().UTC()
	}
	currency := input.Currency
	if currency == "" {
		currency = "INR"
	}

	q := &domain.Quotation{
		ID:              uuid.New(),
		ClientID:        client.ID,
		ClientStateCode: client.StateCode,
		ClientCountry:   client.Country,
		IssueDate:       issueDate,
		ValidUntil:      input.ValidUntil,
		Currency:        currency,
		LineItems:       lineItemsJSON,
		Subtotal:        subtotal,
		TaxRegime:       classification.Regime,
		GSTRate:         classification.Rate,
		CGSTAmount:      cgst,
		SGSTAmount:      sgst,
		IGSTAmount:      igst,
		GrandTotal:      subtotal.Add(cgst).Add(sgst).Add(igst),
		Status:          domain.QuotationStatusDraft,
		Notes:           input.Notes,
		CreatedBy:       input.CreatedBy,
	}

	country := client.Country
	if country == "" {
		country = homeCountry
	}
	if country == "" {
		country = tax.DefaultHomeCountry
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		number, manual, err := resolveNumber(ctx, input.Numbering, s.rule, s.seqRepo, country, issueDate)
		if err != nil {
			return err
		}
		if manual {
			exists, err := s.quotationRepo.ExistsByNumber(ctx, number)
			if err != nil {
				return fmt.Errorf("check number: %w", err)
			}
			if exists {
				return domain.NewDuplicateNumberError(domain.DocumentTypeQuotation, number)
			}
		}
		q.Number = number
		q.IsManualEntry = manual
		return s.quotationRepo.Create(ctx, q)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[INFO] quotationService.Create: created quotation %s number=%s", q.ID, q.Number)
	return q, nil
}

func (s *quotationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	return s.quotationRepo.GetByID(ctx, id)
}

func (s *quotationService) List(ctx context.Context, offset, limit int) ([]domain.Quotation, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.quotationRepo.List(ctx, offset, limit)
}

func (s *quotationService) Send(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	return s.transition(ctx, id, domain.QuotationStatusSent, domain.QuotationStatusDraft, domain.QuotationStatusSent)
}

func (s *quotationService) Accept(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	return s.transition(ctx, id, domain.QuotationStatusAccepted, domain.QuotationStatusSent, domain.QuotationStatusAccepted)
}

func (s *quotationService) Decline(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	return s.transition(ctx, id, domain.QuotationStatusDeclined, domain.QuotationStatusSent, domain.QuotationStatusDeclined)
}

// transition moves a quotation to target if its current status is one of
// allowedFrom. Converted quotations are immutable.
func (s *quotationService) transition(ctx context.Context, id uuid.UUID, target domain.QuotationStatus, allowedFrom ...domain.QuotationStatus) (*domain.Quotation, error) {
	q, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.Status == domain.QuotationStatusConverted {
		return nil, domain.ErrQuotationConverted
	}
	if q.Status == target {
		return q, nil
	}

	allowed := false
	for _, from := range allowedFrom {
		if q.Status == from {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, domain.NewValidationError("status", fmt.Sprintf("cannot move quotation from %s to %s", q.Status, target))
	}

	if err := s.quotationRepo.UpdateStatus(ctx, q.ID, target, nil); err != nil {
		return nil, err
	}
	q.Status = target
	return q, nil
}

// ConvertToInvoice creates an invoice from an accepted quotation and marks
// the quotation converted, in one transaction. The invoice gets a freshly
// allocated number from the invoice sequence; tax fields carry over as
// classified at quotation time.
func (s *quotationService) ConvertToInvoice(ctx context.Context, input *ConvertQuotationInput) (*domain.Invoice, error) {
	q, err := s.quotationRepo.GetByID(ctx, input.QuotationID)
	if err != nil {
		return nil, err
	}
	if q.Status == domain.QuotationStatusConverted {
		return nil, domain.ErrQuotationConverted
	}
	if q.Status != domain.QuotationStatusAccepted {
		return nil, domain.NewValidationError("status", "only accepted quotations can be converted")
	}

	issueDate := time.Now().UTC()
	inv := &domain.Invoice{
		ID:              uuid.New(),
		ClientID:        q.ClientID,
		ClientStateCode: q.ClientStateCode,
		ClientCountry:   q.ClientCountry,
		IssueDate:       issueDate,
		DueDate:         input.DueDate,
		Currency:        q.Currency,
		LineItems:       q.LineItems,
		Subtotal:        q.Subtotal,
		TaxRegime:       q.TaxRegime,
		GSTRate:         q.GSTRate,
		CGSTAmount:      q.CGSTAmount,
		SGSTAmount:      q.SGSTAmount,
		IGSTAmount:      q.IGSTAmount,
		GrandTotal:      q.GrandTotal,
		Status:          domain.InvoiceStatusDraft,
		Notes:           q.Notes,
		CreatedBy:       input.CreatedBy,
	}

	country := q.ClientCountry
	if country == "" {
		country = tax.DefaultHomeCountry
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		number, _, err := resolveNumber(ctx, domain.AutoNumbering(), s.invoiceRule, s.seqRepo, country, issueDate)
		if err != nil {
			return err
		}
		inv.Number = number
		if err := s.invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}
		return s.quotationRepo.UpdateStatus(ctx, q.ID, domain.QuotationStatusConverted, &inv.ID)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[INFO] quotationService.ConvertToInvoice: quotation %s -> invoice %s", q.Number, inv.Number)
	return inv, nil
}

func (s *quotationService) Delete(ctx context.Context, id uuid.UUID) error {
	q, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if q.Status != domain.QuotationStatusDraft {
		return domain.ErrQuotationNotDraft
	}
	return s.quotationRepo.Delete(ctx, id)
}

func (s *quotationService) homeJurisdiction(ctx context.Context) (*int, string) {
	profile, err := s.profileRepo.Get(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrProfileNotConfigured) {
			log.Printf("[ERROR] quotationService: load company profile: %v", err)
		}
		return nil, ""
	}
	return profile.HomeStateCode, profile.Country
}
