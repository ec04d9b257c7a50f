package port

import "context"

// InvoiceEmail carries everything needed to deliver an invoice to a client.
type InvoiceEmail struct {
	ToEmail     string
	ToName      string
	Number      string
	IssueDate   string
	DueDate     string
	Currency    string
	GrandTotal  string
	CompanyName string
}

// EmailSender defines the contract for sending invoice emails.
type EmailSender interface {
	SendInvoiceEmail(ctx context.Context, email InvoiceEmail) error
}
