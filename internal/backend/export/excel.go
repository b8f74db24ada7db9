// Package export renders extraction results as an Excel workbook.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jo-hoe/adscan/internal/backend/extraction"
)

const (
	// Filename is the fixed name offered for the workbook download.
	Filename = "Combined_Extracted_Data.xlsx"
	// SheetName is the single sheet holding the flattened rows.
	SheetName = "Extracted Data"
	// ContentType is the MIME type of .xlsx downloads.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Workbook renders the records into a single sheet workbook held in
// memory. The first row carries the fixed column headers, data rows
// follow in record order.
func Workbook(records []extraction.FlatRecord) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName(file.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(extraction.Columns))
	for i, column := range extraction.Columns {
		header[i] = column
	}
	if err := file.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to locate row %d: %w", i+2, err)
		}
		values := record.Values()
		row := make([]any, len(values))
		for j, value := range values {
			row[j] = value
		}
		if err := file.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buffer, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buffer.Bytes(), nil
}
