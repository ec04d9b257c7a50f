package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"finbook/internal/domain"
)

const sheetName = "Invoices"

// WriteXLSX renders the invoice register as an XLSX workbook with a single
// sheet. Monetary columns carry numeric values so spreadsheet formulas work
// on them directly.
func WriteXLSX(w io.Writer, invoices []domain.Invoice, clientNames map[uuid.UUID]string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	f.SetSheetName("Sheet1", sheetName)

	for col, title := range columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, title); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i := range invoices {
		row := invoiceToRow(&invoices[i], clientNames)
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("row cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, cellValue(col, value)); err != nil {
				return fmt.Errorf("write row %d: %w", i+1, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// numericColumns are register columns whose values parse as numbers.
var numericColumns = map[int]bool{
	7:  true, // Subtotal
	9:  true, // GST Rate
	10: true, // CGST
	11: true, // SGST
	12: true, // IGST
	13: true, // Grand Total
}

func cellValue(col int, value string) interface{} {
	if numericColumns[col] && value != "" {
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			return n
		}
	}
	return value
}
