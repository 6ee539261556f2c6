package ingestion

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hrsuite/bulkupload/internal/domain"
)

var (
	// ErrUnsupportedFormat is returned when an uploaded file is not a spreadsheet.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrNotSpreadsheet is returned when the payload cannot be decoded as a workbook.
	ErrNotSpreadsheet = errors.New("not a valid spreadsheet")
)

// AcceptsFile reports whether the file name carries a spreadsheet extension.
func AcceptsFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xls":
		return true
	default:
		return false
	}
}

// ParseWorkbook decodes the first worksheet of an Excel payload into an
// ordered sequence of rows. The first sheet row is treated as the header;
// empty cells surface as absent keys and fully empty rows are skipped, the
// same way the front-end's previous decoder behaved. Cells keep their native
// types: booleans, numbers, and date-formatted numbers as time.Time.
func ParseWorkbook(payload []byte) ([]domain.Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotSpreadsheet, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrNotSpreadsheet)
	}
	sheet := sheets[0]

	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from %q: %w", sheet, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	headers := make([]string, len(raw[0]))
	for i, name := range raw[0] {
		headers[i] = strings.TrimSpace(name)
	}

	rows := make([]domain.Row, 0, len(raw)-1)
	for rawIdx, cells := range raw[1:] {
		row := domain.Row{}
		for col, value := range cells {
			if col >= len(headers) || headers[col] == "" {
				continue
			}
			if strings.TrimSpace(value) == "" {
				continue
			}
			cell, cellErr := excelize.CoordinatesToCellName(col+1, rawIdx+2)
			if cellErr != nil {
				continue
			}
			row[headers[col]] = typedCell(f, sheet, cell, value)
		}
		if len(row) == 0 {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// typedCell maps a raw cell value onto its native Go type using the cell's
// declared type and number format.
func typedCell(f *excelize.File, sheet, cell, raw string) any {
	cellType, err := f.GetCellType(sheet, cell)
	if err == nil {
		switch cellType {
		case excelize.CellTypeBool:
			return raw == "1" || strings.EqualFold(raw, "true")
		case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
			return raw
		}
	}

	if num, parseErr := strconv.ParseFloat(raw, 64); parseErr == nil {
		if dateStyled(f, sheet, cell) {
			if ts, dateErr := excelize.ExcelDateToTime(num, false); dateErr == nil {
				return ts
			}
		}
		return num
	}
	return raw
}

// dateStyled reports whether the cell's number format renders it as a date.
func dateStyled(f *excelize.File, sheet, cell string) bool {
	styleID, err := f.GetCellStyle(sheet, cell)
	if err != nil {
		return false
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	if (style.NumFmt >= 14 && style.NumFmt <= 22) || (style.NumFmt >= 45 && style.NumFmt <= 47) {
		return true
	}
	if style.CustomNumFmt != nil {
		return customFormatIsDate(*style.CustomNumFmt)
	}
	return false
}

func customFormatIsDate(code string) bool {
	var stripped strings.Builder
	inQuote := false
	inBracket := false
	for _, r := range strings.ToLower(code) {
		switch {
		case r == '"':
			inQuote = !inQuote
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case !inQuote && !inBracket:
			stripped.WriteRune(r)
		}
	}
	return strings.ContainsAny(stripped.String(), "ymd")
}
