package numbering

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFiscalYearStart(t *testing.T) {
	assert.Equal(t, 2024, FiscalYearStart(date(2024, time.April, 1)))
	assert.Equal(t, 2024, FiscalYearStart(date(2024, time.December, 31)))
	assert.Equal(t, 2024, FiscalYearStart(date(2025, time.January, 1)))
	assert.Equal(t, 2024, FiscalYearStart(date(2025, time.March, 31)))
	assert.Equal(t, 2025, FiscalYearStart(date(2025, time.April, 1)))
}

func TestFiscalYearPair(t *testing.T) {
	assert.Equal(t, "2425", FiscalYearPair(date(2024, time.June, 15)))
	assert.Equal(t, "2425", FiscalYearPair(date(2025, time.February, 28)))
	assert.Equal(t, "2526", FiscalYearPair(date(2025, time.April, 1)))
	// Century boundary pads both halves.
	assert.Equal(t, "9900", FiscalYearPair(date(1999, time.May, 1)))
	assert.Equal(t, "0001", FiscalYearPair(date(2000, time.July, 1)))
}

func TestScopeKeys(t *testing.T) {
	assert.Equal(t, "invoice-fy-2425", FiscalYearScopeKey("invoice", date(2024, time.September, 10)))
	assert.Equal(t, "invoice-fy-2526", FiscalYearScopeKey("invoice", date(2025, time.April, 1)))
	assert.Equal(t, "quotation-global", GlobalScopeKey("quotation"))
}

func TestCountryCode(t *testing.T) {
	assert.Equal(t, "IN", CountryCode("India"))
	assert.Equal(t, "IN", CountryCode("  india "))
	assert.Equal(t, "AE", CountryCode("UAE"))
	// Unmapped names fall back to the first two letters, uppercased.
	assert.Equal(t, "EL", CountryCode("Elbonia"))
	assert.Equal(t, "", CountryCode(""))
}
