package noop

import (
	"context"
	"log"

	"finbook/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs instead of sending.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendInvoiceEmail(_ context.Context, email port.InvoiceEmail) error {
	log.Printf("[NOOP EMAIL] Invoice %s to %s (%s): %s %s due %s",
		email.Number, email.ToName, email.ToEmail, email.Currency, email.GrandTotal, email.DueDate)
	return nil
}
