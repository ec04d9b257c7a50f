package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"finbook/internal/config"
	"finbook/internal/domain"
	"finbook/internal/numbering"
	"finbook/internal/port"
)

// numberingRule is the resolved numbering policy for one document type:
// which template to render and how the sequence scope is keyed.
type numberingRule struct {
	docType  domain.DocumentType
	template string
	scope    string
}

func invoiceNumberingRule(cfg config.NumberingConfig) numberingRule {
	return numberingRule{
		docType:  domain.DocumentTypeInvoice,
		template: cfg.InvoiceTemplate,
		scope:    cfg.InvoiceScope,
	}
}

func quotationNumberingRule(cfg config.NumberingConfig) numberingRule {
	return numberingRule{
		docType:  domain.DocumentTypeQuotation,
		template: cfg.QuotationTemplate,
		scope:    cfg.QuotationScope,
	}
}

func (r numberingRule) scopeKey(issueDate time.Time) string {
	if r.scope == config.ScopeFiscalYear {
		return numbering.FiscalYearScopeKey(string(r.docType), issueDate)
	}
	return numbering.GlobalScopeKey(string(r.docType))
}

// resolveNumber turns a NumberingPolicy into a concrete document number and
// reports whether it was a manual entry. Manual mode trusts the caller's
// number (the unique index is the final collision authority; an existence
// pre-check upstream only gives a friendlier error before the insert). Auto
// mode allocates from the sequence repository, so it must run inside the
// transaction that inserts the document.
func resolveNumber(ctx context.Context, policy domain.NumberingPolicy, rule numberingRule, seqs port.SequenceRepository, country string, issueDate time.Time) (string, bool, error) {
	switch policy.Mode {
	case domain.NumberingManual:
		number := strings.TrimSpace(policy.Number)
		if number == "" {
			return "", false, domain.NewValidationError("number", "manual numbering requires a non-empty number")
		}
		return number, true, nil
	case domain.NumberingAuto, "":
		seq, err := seqs.Next(ctx, rule.scopeKey(issueDate))
		if err != nil {
			return "", false, fmt.Errorf("allocate sequence: %w", err)
		}
		number := numbering.Render(rule.template, numbering.Context{
			Country:   country,
			IssueDate: issueDate,
			Sequence:  seq,
		})
		return number, false, nil
	default:
		return "", false, domain.NewValidationError("numbering_mode", fmt.Sprintf("unknown numbering mode %q", policy.Mode))
	}
}
