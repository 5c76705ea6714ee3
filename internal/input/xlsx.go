package input

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXReader serializes a spreadsheet into CSV-equivalent text lines. The
// densest sheet is selected; cells are kept raw, so date cells arrive as
// Excel serial numbers and flow through the serial-date parser.
type XLSXReader struct{}

// Format returns the reader name.
func (x *XLSXReader) Format() string { return "xlsx" }

// Rows opens the workbook and stringifies the best sheet row by row.
func (x *XLSXReader) Rows(r io.Reader) ([]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheet, rows, err := densestSheet(f)
	if err != nil {
		return nil, err
	}
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets with content")
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = quoteCell(cell)
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return lines, nil
}

// densestSheet returns the sheet with the most non-empty rows.
func densestSheet(f *excelize.File) (string, [][]string, error) {
	var bestName string
	var bestRows [][]string
	bestCount := 0

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return "", nil, fmt.Errorf("reading sheet %q: %w", name, err)
		}
		count := 0
		for _, row := range rows {
			for _, cell := range row {
				if strings.TrimSpace(cell) != "" {
					count++
					break
				}
			}
		}
		if count > bestCount {
			bestName, bestRows, bestCount = name, rows, count
		}
	}
	return bestName, bestRows, nil
}

// quoteCell wraps cells that would confuse comma splitting.
func quoteCell(cell string) string {
	if strings.ContainsAny(cell, ",\"\n") {
		return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
	}
	return cell
}
