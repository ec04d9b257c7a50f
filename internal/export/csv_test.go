package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"finbook/internal/domain"
)

func sampleInvoice(clientID uuid.UUID) domain.Invoice {
	due := time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC)
	state := 29
	return domain.Invoice{
		ID:              uuid.New(),
		Number:          "INV-IN2425-001",
		IsManualEntry:   false,
		ClientID:        clientID,
		ClientStateCode: &state,
		ClientCountry:   "India",
		IssueDate:       time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
		DueDate:         &due,
		Currency:        "INR",
		Subtotal:        decimal.NewFromInt(1000),
		TaxRegime:       domain.TaxRegimeIntrastate,
		GSTRate:         decimal.NewFromInt(18),
		CGSTAmount:      decimal.NewFromInt(90),
		SGSTAmount:      decimal.NewFromInt(90),
		GrandTotal:      decimal.NewFromInt(1180),
		Status:          domain.InvoiceStatusSent,
		CreatedAt:       time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC),
	}
}

func TestCSVWriter(t *testing.T) {
	clientID := uuid.New()
	names := map[uuid.UUID]string{clientID: "Acme Traders"}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	assert.NoError(t, w.WriteHeader())
	assert.NoError(t, w.WriteInvoices([]domain.Invoice{sampleInvoice(clientID)}, names))
	w.Flush()
	assert.NoError(t, w.Error())

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, columns, records[0])

	row := records[1]
	assert.Equal(t, "INV-IN2425-001", row[0])
	assert.Equal(t, "2024-06-15", row[1])
	assert.Equal(t, "2024-07-15", row[2])
	assert.Equal(t, "Acme Traders", row[3])
	assert.Equal(t, "29", row[4])
	assert.Equal(t, "1000.00", row[7])
	assert.Equal(t, "intrastate", row[8])
	assert.Equal(t, "1180.00", row[13])
	assert.Equal(t, "no", row[15])
}

func TestCSVWriter_MissingClientAndNilFields(t *testing.T) {
	inv := sampleInvoice(uuid.New())
	inv.DueDate = nil
	inv.ClientStateCode = nil

	var buf bytes.Buffer
	w := NewWriter(&buf)
	assert.NoError(t, w.WriteHeader())
	assert.NoError(t, w.WriteInvoices([]domain.Invoice{inv}, map[uuid.UUID]string{}))
	w.Flush()

	records, err := csv.NewReader(&buf).ReadAll()
	assert.NoError(t, err)

	row := records[1]
	assert.Equal(t, "", row[2]) // due date
	assert.Equal(t, "", row[3]) // client name
	assert.Equal(t, "", row[4]) // state code
}

func TestWriteXLSX(t *testing.T) {
	clientID := uuid.New()
	var buf bytes.Buffer

	err := WriteXLSX(&buf, []domain.Invoice{sampleInvoice(clientID)}, map[uuid.UUID]string{clientID: "Acme Traders"})

	assert.NoError(t, err)
	// XLSX files are zip archives; check the magic bytes.
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")))
}
