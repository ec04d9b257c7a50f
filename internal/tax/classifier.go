package tax

import (
	"strings"

	"github.com/shopspring/decimal"

	"finbook/internal/domain"
)

// DefaultHomeCountry is the jurisdiction the GST rules apply to.
const DefaultHomeCountry = "India"

// DefaultCombinedRate is the standard combined GST rate percentage applied
// when no rate is configured.
var DefaultCombinedRate = decimal.NewFromInt(18)

var two = decimal.NewFromInt(2)

// Classification is the result of classifying a transaction: the regime,
// the applicable combined rate, and the per-component rate breakdown, all
// as percentages. Absolute amounts are computed by the caller from the
// document subtotal.
type Classification struct {
	Regime   domain.TaxRegime
	Rate     decimal.Decimal
	CGSTRate decimal.Decimal
	SGSTRate decimal.Decimal
	IGSTRate decimal.Decimal

	// Degraded is set when the home state is unconfigured and the
	// interstate fallback was applied. Callers must surface this as a
	// warning, not treat it as a silent success.
	Degraded bool
}

// Classifier determines the tax regime for a transaction from the
// business's home state versus the client's state and country. It is pure
// and safe for unlimited concurrent use.
type Classifier struct {
	homeCountry  string
	combinedRate decimal.Decimal
}

// NewClassifier builds a Classifier. Zero-value rate falls back to the
// default combined rate; empty homeCountry falls back to India.
func NewClassifier(homeCountry string, combinedRate decimal.Decimal) *Classifier {
	if homeCountry == "" {
		homeCountry = DefaultHomeCountry
	}
	if combinedRate.IsZero() {
		combinedRate = DefaultCombinedRate
	}
	return &Classifier{homeCountry: homeCountry, combinedRate: combinedRate}
}

// Classify applies the regime decision order, first match wins:
//
//  1. Client country present and different from the home country
//     (case-insensitive) -> EXPORT, zero-rated.
//  2. Client state equals home state -> INTRASTATE, combined rate split
//     evenly into CGST and SGST.
//  3. Otherwise -> INTERSTATE, full combined rate as IGST.
//
// A nil homeState means the system is unconfigured: Classify does not fail,
// it returns the INTERSTATE default with Degraded set.
func (c *Classifier) Classify(homeState, clientState *int, clientCountry string) Classification {
	country := strings.TrimSpace(clientCountry)
	if country != "" && !strings.EqualFold(country, c.homeCountry) {
		return Classification{Regime: domain.TaxRegimeExport}
	}

	if homeState == nil {
		return Classification{
			Regime:   domain.TaxRegimeInterstate,
			Rate:     c.combinedRate,
			IGSTRate: c.combinedRate,
			Degraded: true,
		}
	}

	if clientState != nil && *clientState == *homeState {
		half := c.combinedRate.Div(two)
		return Classification{
			Regime:   domain.TaxRegimeIntrastate,
			Rate:     c.combinedRate,
			CGSTRate: half,
			SGSTRate: half,
		}
	}

	return Classification{
		Regime:   domain.TaxRegimeInterstate,
		Rate:     c.combinedRate,
		IGSTRate: c.combinedRate,
	}
}

// Amounts computes the absolute tax amounts for a subtotal as
// subtotal x componentRate / 100, each rounded to 2 decimal places.
func (cl Classification) Amounts(subtotal decimal.Decimal) (cgst, sgst, igst decimal.Decimal) {
	hundred := decimal.NewFromInt(100)
	cgst = subtotal.Mul(cl.CGSTRate).Div(hundred).Round(2)
	sgst = subtotal.Mul(cl.SGSTRate).Div(hundred).Round(2)
	igst = subtotal.Mul(cl.IGSTRate).Div(hundred).Round(2)
	return cgst, sgst, igst
}
