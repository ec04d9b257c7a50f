package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user is inactive")

	ErrInvoiceNotFound   = errors.New("invoice not found")
	ErrQuotationNotFound = errors.New("quotation not found")
	ErrClientNotFound    = errors.New("client not found")
	ErrPaymentNotFound   = errors.New("payment not found")

	// ErrDuplicateNumber is the sentinel behind DuplicateNumberError; use
	// errors.Is against this and errors.As for the conflicting number.
	ErrDuplicateNumber = errors.New("document number already exists")

	// ErrSequenceContention marks a transaction isolation conflict during
	// counter increment. The whole operation is safe to retry from scratch;
	// nothing is retried internally.
	ErrSequenceContention = errors.New("sequence allocation conflict, retry the operation")

	ErrValidation           = errors.New("invalid input")
	ErrQuotationNotDraft    = errors.New("quotation is not in draft status")
	ErrQuotationConverted   = errors.New("quotation has already been converted")
	ErrInvoiceNotSendable   = errors.New("invoice cannot be sent in its current status")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrFileTooLarge         = errors.New("file exceeds maximum allowed size")
	ErrDuplicateEmail       = errors.New("email already exists")
	ErrProfileNotConfigured = errors.New("company profile is not configured")
)

// DuplicateNumberError reports a manual-number collision, naming the
// conflicting number so the caller can act on it.
type DuplicateNumberError struct {
	DocType DocumentType
	Number  string
}

func (e *DuplicateNumberError) Error() string {
	return fmt.Sprintf("%s number %q already exists", e.DocType, e.Number)
}

func (e *DuplicateNumberError) Unwrap() error { return ErrDuplicateNumber }

// NewDuplicateNumberError builds a DuplicateNumberError for the given
// document type and number.
func NewDuplicateNumberError(docType DocumentType, number string) error {
	return &DuplicateNumberError{DocType: docType, Number: number}
}

// ValidationError carries a field-level message and unwraps to ErrValidation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError builds a field-level ValidationError.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
