package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"taxextract/internal/domain"
)

const sheetName = "Extractions"

// numericColumns are written as numbers so spreadsheets can sort and filter them.
var numericColumns = map[int]bool{4: true, 7: true}

var columnWidths = map[string]float64{
	"A": 16, "B": 28, "C": 48, "D": 12, "E": 10, "F": 40,
	"G": 36, "H": 12, "I": 12, "J": 16, "K": 22,
}

// WriteXLSX writes rows as a single-sheet workbook to out.
func WriteXLSX(out io.Writer, rows []domain.Extraction) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	idx, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	for i, h := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for r := range rows {
		for c, v := range extractionToRow(&rows[r]) {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			var value any = v
			if numericColumns[c] && v != "" {
				if n, err := strconv.ParseFloat(v, 64); err == nil {
					value = n
				}
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("writing row %d: %w", r+1, err)
			}
		}
	}

	for col, width := range columnWidths {
		_ = f.SetColWidth(sheetName, col, col, width)
	}
	_ = f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// Write encodes rows in format to out.
func Write(out io.Writer, format Format, rows []domain.Extraction) error {
	switch format {
	case FormatXLSX:
		return WriteXLSX(out, rows)
	case FormatCSV:
		return WriteCSV(out, rows)
	}
	return fmt.Errorf("unsupported export format %q", format)
}
