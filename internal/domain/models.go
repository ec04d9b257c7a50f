package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents an authenticated application user.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Client represents a customer that invoices and quotations are issued to.
type Client struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Address   string    `db:"address" json:"address"`
	GSTIN     string    `db:"gstin" json:"gstin"`
	StateCode *int      `db:"state_code" json:"state_code"`
	Country   string    `db:"country" json:"country"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CompanyProfile holds the business's own registration and bank details.
// A single row; HomeStateCode may be nil on an unconfigured install, in
// which case tax classification degrades to the interstate fallback.
type CompanyProfile struct {
	ID            int       `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Address       string    `db:"address" json:"address"`
	GSTIN         string    `db:"gstin" json:"gstin"`
	HomeStateCode *int      `db:"home_state_code" json:"home_state_code"`
	Country       string    `db:"country" json:"country"`
	BankName      string    `db:"bank_name" json:"bank_name"`
	AccountNumber string    `db:"account_number" json:"account_number"`
	IFSCCode      string    `db:"ifsc_code" json:"ifsc_code"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// SequenceCounter is the persisted counter row backing document numbering.
// One row per scope key; last_count is monotonically non-decreasing and is
// only ever mutated by the sequence repository's atomic increment.
type SequenceCounter struct {
	ScopeKey  string    `db:"scope_key" json:"scope_key"`
	LastCount int64     `db:"last_count" json:"last_count"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// LineItem is a single billed line on an invoice or quotation. Amounts are
// caller-computed; the service derives tax from the subtotal.
type LineItem struct {
	Description string          `json:"description"`
	HSNSACCode  string          `json:"hsn_sac_code,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// Invoice is a numbered, payable document issued to a client.
// Number and IsManualEntry are written once at creation and never change.
type Invoice struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	Number          string          `db:"number" json:"number"`
	IsManualEntry   bool            `db:"is_manual_entry" json:"is_manual_entry"`
	ClientID        uuid.UUID       `db:"client_id" json:"client_id"`
	ClientStateCode *int            `db:"client_state_code" json:"client_state_code"`
	ClientCountry   string          `db:"client_country" json:"client_country"`
	IssueDate       time.Time       `db:"issue_date" json:"issue_date"`
	DueDate         *time.Time      `db:"due_date" json:"due_date"`
	Currency        string          `db:"currency" json:"currency"`
	LineItems       json.RawMessage `db:"line_items" json:"line_items"`
	Subtotal        decimal.Decimal `db:"subtotal" json:"subtotal"`
	TaxRegime       TaxRegime       `db:"tax_regime" json:"tax_regime"`
	GSTRate         decimal.Decimal `db:"gst_rate" json:"gst_rate"`
	CGSTAmount      decimal.Decimal `db:"cgst_amount" json:"cgst_amount"`
	SGSTAmount      decimal.Decimal `db:"sgst_amount" json:"sgst_amount"`
	IGSTAmount      decimal.Decimal `db:"igst_amount" json:"igst_amount"`
	GrandTotal      decimal.Decimal `db:"grand_total" json:"grand_total"`
	Status          InvoiceStatus   `db:"status" json:"status"`
	Notes           string          `db:"notes" json:"notes"`
	CreatedBy       uuid.UUID       `db:"created_by" json:"created_by"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// Quotation is structurally an invoice without payment state.
type Quotation struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	Number          string          `db:"number" json:"number"`
	IsManualEntry   bool            `db:"is_manual_entry" json:"is_manual_entry"`
	ClientID        uuid.UUID       `db:"client_id" json:"client_id"`
	ClientStateCode *int            `db:"client_state_code" json:"client_state_code"`
	ClientCountry   string          `db:"client_country" json:"client_country"`
	IssueDate       time.Time       `db:"issue_date" json:"issue_date"`
	ValidUntil      *time.Time      `db:"valid_until" json:"valid_until"`
	Currency        string          `db:"currency" json:"currency"`
	LineItems       json.RawMessage `db:"line_items" json:"line_items"`
	Subtotal        decimal.Decimal `db:"subtotal" json:"subtotal"`
	TaxRegime       TaxRegime       `db:"tax_regime" json:"tax_regime"`
	GSTRate         decimal.Decimal `db:"gst_rate" json:"gst_rate"`
	CGSTAmount      decimal.Decimal `db:"cgst_amount" json:"cgst_amount"`
	SGSTAmount      decimal.Decimal `db:"sgst_amount" json:"sgst_amount"`
	IGSTAmount      decimal.Decimal `db:"igst_amount" json:"igst_amount"`
	GrandTotal      decimal.Decimal `db:"grand_total" json:"grand_total"`
	Status          QuotationStatus `db:"status" json:"status"`
	Notes           string          `db:"notes" json:"notes"`
	InvoiceID       *uuid.UUID      `db:"invoice_id" json:"invoice_id"`
	CreatedBy       uuid.UUID       `db:"created_by" json:"created_by"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// Payment is an append-only record of money received against an invoice.
// Payments are never updated or deleted; an invoice's status is a function
// of its full payment set plus its grand total.
type Payment struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	InvoiceID      uuid.UUID       `db:"invoice_id" json:"invoice_id"`
	AmountReceived decimal.Decimal `db:"amount_received" json:"amount_received"`
	PaymentDate    time.Time       `db:"payment_date" json:"payment_date"`
	Method         PaymentMethod   `db:"method" json:"method"`
	Reference      string          `db:"reference" json:"reference"`
	Notes          string          `db:"notes" json:"notes"`
	ReceiptKey     string          `db:"receipt_key" json:"receipt_key"`
	CreatedBy      uuid.UUID       `db:"created_by" json:"created_by"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// NumberingMode selects how a document number is assigned.
type NumberingMode string

const (
	NumberingAuto   NumberingMode = "auto"
	NumberingManual NumberingMode = "manual"
)

// NumberingPolicy is the tagged variant for number assignment: either
// auto-generation from the configured sequence scope, or a caller-supplied
// manual number. Manual mode with an empty number is a validation error,
// never a silent fallback to auto.
type NumberingPolicy struct {
	Mode   NumberingMode
	Number string
}

// AutoNumbering returns the auto-generation policy.
func AutoNumbering() NumberingPolicy {
	return NumberingPolicy{Mode: NumberingAuto}
}

// ManualNumbering returns a policy carrying a caller-supplied number.
func ManualNumbering(number string) NumberingPolicy {
	return NumberingPolicy{Mode: NumberingManual, Number: number}
}
