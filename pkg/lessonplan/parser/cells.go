package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Workbook is the planning workbook, opened once per run and only read from.
type Workbook struct {
	f      *excelize.File
	logger *zap.Logger
}

// Open loads a workbook from disk.
func Open(path string, logger *zap.Logger) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	return NewWorkbook(f, logger), nil
}

// NewWorkbook wraps an already opened excelize file.
func NewWorkbook(f *excelize.File, logger *zap.Logger) *Workbook {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workbook{f: f, logger: logger}
}

// Close releases the underlying file.
func (wb *Workbook) Close() error {
	return wb.f.Close()
}

// Sheet selects a sheet by name. All cell reads go through the returned handle.
func (wb *Workbook) Sheet(name string) (*Sheet, error) {
	idx, err := wb.f.GetSheetIndex(name)
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}
	wb.logger.Debug("sheet selected", zap.String("sheet", name))
	return &Sheet{f: wb.f, name: name}, nil
}

// Sheet is a selected worksheet.
type Sheet struct {
	f    *excelize.File
	name string
}

// Name returns the sheet name.
func (s *Sheet) Name() string {
	return s.name
}

// raw returns the unformatted cell value.
func (s *Sheet) raw(cell string) (string, error) {
	return s.f.GetCellValue(s.name, cell, excelize.Options{RawCellValue: true})
}

// Value returns the cell value as int64, float64 or string, or nil when empty.
func (s *Sheet) Value(cell string) (interface{}, error) {
	v, err := s.raw(cell)
	if err != nil {
		return nil, err
	}
	if v == "" {
		return nil, nil
	}
	return parseValue(v), nil
}

// Number returns the numeric value of a cell.
func (s *Sheet) Number(cell string) (float64, error) {
	v, err := s.raw(cell)
	if err != nil {
		return 0, err
	}
	if v == "" {
		return 0, &CellError{Sheet: s.name, Cell: cell, Want: "number", Err: ErrEmptyCell}
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, &CellError{Sheet: s.name, Cell: cell, Want: "number", Value: v, Err: err}
	}
	return n, nil
}

// Text returns the value of a cell that must not be empty.
func (s *Sheet) Text(cell string) (string, error) {
	v, err := s.raw(cell)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", &CellError{Sheet: s.name, Cell: cell, Want: "text", Err: ErrEmptyCell}
	}
	return v, nil
}

// String returns the cell value formatted as text, or "" when empty.
func (s *Sheet) String(cell string) (string, error) {
	v, err := s.Value(cell)
	if err != nil {
		return "", err
	}
	return formatValue(v), nil
}

// Duration returns the cell value formatted as H:MM when the cell holds a
// date, time or duration. Any other cell gives "".
func (s *Sheet) Duration(cell string) (string, error) {
	typ, err := s.f.GetCellType(s.name, cell)
	if err != nil {
		return "", err
	}
	v, err := s.raw(cell)
	if err != nil || v == "" {
		return "", err
	}

	if typ == excelize.CellTypeDate {
		t, err := parseISOTime(v)
		if err != nil {
			return "", &CellError{Sheet: s.name, Cell: cell, Want: "date", Value: v, Err: err}
		}
		return FormatClock(t.Hour(), t.Minute()), nil
	}

	serial, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return "", nil
	}
	isDate, err := s.hasDateFormat(cell)
	if err != nil || !isDate {
		return "", err
	}
	return FormatClock(SerialToClock(serial)), nil
}

// hasDateFormat reports whether the cell's number format displays a date or time.
func (s *Sheet) hasDateFormat(cell string) (bool, error) {
	styleID, err := s.f.GetCellStyle(s.name, cell)
	if err != nil {
		return false, err
	}
	style, err := s.f.GetStyle(styleID)
	if err != nil || style == nil {
		return false, err
	}
	if builtinDateFormats[style.NumFmt] {
		return true, nil
	}
	return style.CustomNumFmt != nil && isDateFormat(*style.CustomNumFmt), nil
}

// LastRow returns the index of the last row holding data (1-based), 0 for an empty sheet.
func (s *Sheet) LastRow() (int, error) {
	rows, err := s.f.GetRows(s.name)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) interface{} {
	// Try integer first
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	// Try float
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	// Return as string
	return s
}

// formatValue renders a parsed cell value the way it should appear on the form.
func formatValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"15:04:05",
}

func parseISOTime(v string) (time.Time, error) {
	var lastErr error
	for _, layout := range isoLayouts {
		t, err := time.Parse(layout, v)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
