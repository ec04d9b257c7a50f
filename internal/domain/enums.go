package domain

// DocumentType distinguishes the two numbered document kinds.
type DocumentType string

const (
	DocumentTypeInvoice   DocumentType = "invoice"
	DocumentTypeQuotation DocumentType = "quotation"
)

// InvoiceStatus represents the lifecycle of an invoice.
// DRAFT -> SENT -> PARTIAL/PAID, with OVERDUE as a time-based transition
// from SENT or PARTIAL. Reconciliation never moves a PAID invoice back.
type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "draft"
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusPartial InvoiceStatus = "partial"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

// QuotationStatus represents the lifecycle of a quotation. Quotations carry
// no payment-driven transitions.
type QuotationStatus string

const (
	QuotationStatusDraft     QuotationStatus = "draft"
	QuotationStatusSent      QuotationStatus = "sent"
	QuotationStatusAccepted  QuotationStatus = "accepted"
	QuotationStatusDeclined  QuotationStatus = "declined"
	QuotationStatusConverted QuotationStatus = "converted"
)

// TaxRegime classifies a transaction for GST purposes.
type TaxRegime string

const (
	TaxRegimeIntrastate TaxRegime = "intrastate"
	TaxRegimeInterstate TaxRegime = "interstate"
	TaxRegimeExport     TaxRegime = "export"
)

// PaymentMethod enumerates common payment channels. Free-form values are
// accepted; these are the ones the UI offers.
type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodUPI          PaymentMethod = "upi"
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCheque       PaymentMethod = "cheque"
	PaymentMethodCard         PaymentMethod = "card"
)

// UserRole defines the application role hierarchy.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

// FileType represents the allowed file types for receipt uploads.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}
