package export

import (
	"fmt"
	"net/http"

	"github.com/xuri/excelize/v2"
)

// Excel represents a single-sheet Excel workbook exporter.
type Excel struct {
	file    *excelize.File
	sheet   string
	headers []string
	nextRow int
}

// NewExcel creates a workbook with one named sheet.
func NewExcel(sheet string) *Excel {
	f := excelize.NewFile()
	// The default workbook ships with "Sheet1"; rename rather than juggle two.
	if sheet != "Sheet1" {
		_ = f.SetSheetName("Sheet1", sheet)
	}
	return &Excel{file: f, sheet: sheet, nextRow: 1}
}

// Headers writes the bolded header row.
func (e *Excel) Headers(headers ...string) *Excel {
	e.headers = headers
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = e.file.SetCellValue(e.sheet, cell, h)
	}
	if style, err := e.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		_ = e.file.SetCellStyle(e.sheet, "A1", last, style)
	}
	e.nextRow = 2
	return e
}

// Row appends a data row.
func (e *Excel) Row(values ...any) *Excel {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, e.nextRow)
		_ = e.file.SetCellValue(e.sheet, cell, v)
	}
	e.nextRow++
	return e
}

// WriteHTTP writes the workbook as a file download on the given response.
func (e *Excel) WriteHTTP(w http.ResponseWriter, filename string) error {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	return e.file.Write(w)
}

// Close releases workbook resources.
func (e *Excel) Close() error {
	return e.file.Close()
}
