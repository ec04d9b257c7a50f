package numbering

import (
	"fmt"
	"time"
)

// fiscalYearStartMonth is April: the Indian fiscal year runs Apr 1 to Mar 31.
const fiscalYearStartMonth = time.April

// FiscalYearStart returns the calendar year in which the fiscal year
// containing date begins. For January-March dates that is the previous
// calendar year.
func FiscalYearStart(date time.Time) int {
	if date.Month() < fiscalYearStartMonth {
		return date.Year() - 1
	}
	return date.Year()
}

// FiscalYearPair renders the two-digit-pair fiscal year string for date,
// e.g. "2425" for any date in FY 2024-25.
func FiscalYearPair(date time.Time) string {
	start := FiscalYearStart(date)
	return fmt.Sprintf("%02d%02d", start%100, (start+1)%100)
}

// FiscalYearScopeKey returns the sequence scope key for fiscal-year-scoped
// numbering, e.g. "fy-2425". Each fiscal year is an independent counter
// starting at zero the first time it is used.
func FiscalYearScopeKey(docType string, date time.Time) string {
	return fmt.Sprintf("%s-fy-%s", docType, FiscalYearPair(date))
}

// GlobalScopeKey returns the fixed, never-reset scope key for a document
// type that keeps one running sequence forever.
func GlobalScopeKey(docType string) string {
	return docType + "-global"
}
