package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"finbook/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendInvoiceEmail(ctx context.Context, email port.InvoiceEmail) error {
	subject := fmt.Sprintf("Invoice %s from %s", email.Number, email.CompanyName)
	htmlBody := buildInvoiceHTML(email)
	textBody := buildInvoiceText(email)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{email.ToEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildInvoiceText(email port.InvoiceEmail) string {
	due := ""
	if email.DueDate != "" {
		due = fmt.Sprintf("\nDue date: %s", email.DueDate)
	}
	return fmt.Sprintf("Hi %s,\n\nPlease find the details of invoice %s below.\n\nIssued: %s%s\nAmount due: %s %s\n\nThank you for your business.\n%s",
		email.ToName, email.Number, email.IssueDate, due, email.Currency, email.GrandTotal, email.CompanyName)
}

func buildInvoiceHTML(email port.InvoiceEmail) string {
	dueRow := ""
	if email.DueDate != "" {
		dueRow = fmt.Sprintf(`<tr><td style="padding: 4px 12px 4px 0; color: #666;">Due date</td><td style="padding: 4px 0;">%s</td></tr>`, email.DueDate)
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Invoice %s</h2>
  <p>Hi %s,</p>
  <p>Please find the details of your invoice below.</p>
  <table style="border-collapse: collapse; margin: 20px 0;">
    <tr><td style="padding: 4px 12px 4px 0; color: #666;">Invoice number</td><td style="padding: 4px 0;">%s</td></tr>
    <tr><td style="padding: 4px 12px 4px 0; color: #666;">Issued</td><td style="padding: 4px 0;">%s</td></tr>
    %s
    <tr><td style="padding: 4px 12px 4px 0; color: #666;">Amount due</td><td style="padding: 4px 0; font-weight: bold;">%s %s</td></tr>
  </table>
  <p>Thank you for your business.</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">%s</p>
</body>
</html>`, email.Number, email.ToName, email.Number, email.IssueDate, dueRow, email.Currency, email.GrandTotal, email.CompanyName)
}
