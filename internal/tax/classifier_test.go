package tax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"finbook/internal/domain"
)

func intPtr(n int) *int { return &n }

func defaultClassifier() *Classifier {
	return NewClassifier("India", decimal.NewFromInt(18))
}

func TestClassify_Export(t *testing.T) {
	c := defaultClassifier()

	got := c.Classify(intPtr(29), intPtr(29), "Germany")

	assert.Equal(t, domain.TaxRegimeExport, got.Regime)
	assert.True(t, got.Rate.IsZero())
	assert.True(t, got.CGSTRate.IsZero())
	assert.True(t, got.SGSTRate.IsZero())
	assert.True(t, got.IGSTRate.IsZero())
	assert.False(t, got.Degraded)
}

func TestClassify_ExportCaseInsensitiveHomeCountry(t *testing.T) {
	c := defaultClassifier()

	got := c.Classify(intPtr(29), intPtr(29), "INDIA")
	assert.Equal(t, domain.TaxRegimeIntrastate, got.Regime)

	got = c.Classify(intPtr(29), intPtr(29), "  india  ")
	assert.Equal(t, domain.TaxRegimeIntrastate, got.Regime)
}

func TestClassify_Intrastate(t *testing.T) {
	c := defaultClassifier()

	got := c.Classify(intPtr(29), intPtr(29), "India")

	assert.Equal(t, domain.TaxRegimeIntrastate, got.Regime)
	assert.True(t, got.Rate.Equal(decimal.NewFromInt(18)))
	assert.True(t, got.CGSTRate.Equal(decimal.NewFromInt(9)))
	assert.True(t, got.SGSTRate.Equal(decimal.NewFromInt(9)))
	assert.True(t, got.IGSTRate.IsZero())
}

func TestClassify_Interstate(t *testing.T) {
	c := defaultClassifier()

	got := c.Classify(intPtr(29), intPtr(27), "India")

	assert.Equal(t, domain.TaxRegimeInterstate, got.Regime)
	assert.True(t, got.IGSTRate.Equal(decimal.NewFromInt(18)))
	assert.True(t, got.CGSTRate.IsZero())
	assert.True(t, got.SGSTRate.IsZero())
}

func TestClassify_NilClientStateIsInterstate(t *testing.T) {
	c := defaultClassifier()

	got := c.Classify(intPtr(29), nil, "India")

	assert.Equal(t, domain.TaxRegimeInterstate, got.Regime)
	assert.False(t, got.Degraded)
}

func TestClassify_UnconfiguredHomeStateDegradesToInterstate(t *testing.T) {
	c := defaultClassifier()

	got := c.Classify(nil, intPtr(29), "India")

	assert.Equal(t, domain.TaxRegimeInterstate, got.Regime)
	assert.True(t, got.IGSTRate.Equal(decimal.NewFromInt(18)))
	assert.True(t, got.Degraded)
}

func TestClassify_ExportWinsOverUnconfiguredHomeState(t *testing.T) {
	c := defaultClassifier()

	got := c.Classify(nil, nil, "Singapore")

	assert.Equal(t, domain.TaxRegimeExport, got.Regime)
	assert.False(t, got.Degraded)
}

func TestClassify_OddRateSplitsExactly(t *testing.T) {
	c := NewClassifier("India", decimal.NewFromInt(5))

	got := c.Classify(intPtr(7), intPtr(7), "India")

	assert.True(t, got.CGSTRate.Equal(decimal.NewFromFloat(2.5)))
	assert.True(t, got.SGSTRate.Equal(decimal.NewFromFloat(2.5)))
}

func TestAmounts(t *testing.T) {
	c := defaultClassifier()

	intra := c.Classify(intPtr(29), intPtr(29), "India")
	cgst, sgst, igst := intra.Amounts(decimal.NewFromInt(1000))
	assert.True(t, cgst.Equal(decimal.NewFromInt(90)))
	assert.True(t, sgst.Equal(decimal.NewFromInt(90)))
	assert.True(t, igst.IsZero())

	inter := c.Classify(intPtr(29), intPtr(27), "India")
	cgst, sgst, igst = inter.Amounts(decimal.NewFromFloat(999.99))
	assert.True(t, cgst.IsZero())
	assert.True(t, sgst.IsZero())
	assert.True(t, igst.Equal(decimal.NewFromFloat(180.00)))
}

func TestNewClassifier_Defaults(t *testing.T) {
	c := NewClassifier("", decimal.Zero)

	got := c.Classify(intPtr(29), intPtr(27), "India")
	assert.Equal(t, domain.TaxRegimeInterstate, got.Regime)
	assert.True(t, got.Rate.Equal(decimal.NewFromInt(18)))
}
