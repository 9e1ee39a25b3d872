package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"pricebook/domain/pricebook"
	"pricebook/internal"

	"github.com/xuri/excelize/v2"
)

// DataReader reads Excel and CSV files into a pricebook dataset
type DataReader struct {
	config ReaderConfig
	logger *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(config ReaderConfig, logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if config.Delimiter == 0 {
		config.Delimiter = ','
	}
	return &DataReader{config: config, logger: logger}
}

// ReadDataset reads the header row and all data rows of one sheet
func (r *DataReader) ReadDataset(ctx context.Context, path, sheet string) (*pricebook.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fileType, err := DetectFileType(path)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("[DataReader] Starting to read %s file: %s", fileType, path)

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(string(fileType)), path)
		}
		return nil, fmt.Errorf("cannot access %s: %w", path, err)
	}

	if sheet == "" {
		sheet = r.config.DefaultSheet
	}

	switch fileType {
	case FileTypeCSV:
		return r.readCSVData(ctx, path)
	default:
		return r.readExcelData(ctx, path, sheet)
	}
}

// readExcelData reads one worksheet using excelize's cell types to classify values
func (r *DataReader) readExcelData(ctx context.Context, path, sheet string) (*pricebook.Dataset, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()
	r.logger.Debug("[DataReader] Excel file opened in %.2fms", float64(time.Since(startTime).Nanoseconds())/1e6)

	sheetName, err := resolveSheet(f, sheet)
	if err != nil {
		return nil, err
	}

	readStart := time.Now()
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}
	r.logger.Debug("[DataReader] %s read in %.2fms (%d rows)", sheetName, float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	if len(rows) == 0 {
		r.logger.Warn("[DataReader] Sheet %q is empty", sheetName)
		return pricebook.NewDataset(nil, nil)
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	body := trimTrailingEmptyRows(rows[1:])
	columns := HeaderNames(rows[0], rowWidth(rows[0], body))
	classifier := &cellClassifier{
		file:        f,
		sheet:       sheetName,
		date1904:    date1904,
		detectDates: r.config.DetectDates,
		naValues:    r.config.NAValues,
		dateStyles:  make(map[int]bool),
	}

	dataRows := make([][]pricebook.Cell, 0, len(body))
	for i, row := range body {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cells := make([]pricebook.Cell, len(row))
		for j, raw := range row {
			// Row 1 is the header and excelize coordinates are 1-based
			axis, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, err
			}
			cell, err := classifier.classify(axis, raw)
			if err != nil {
				return nil, fmt.Errorf("cell %s: %w", axis, err)
			}
			cells[j] = cell
		}
		r.logger.Trace("[DataReader] %s row %d: %d cells", sheetName, i+2, len(cells))
		dataRows = append(dataRows, cells)
	}

	r.logger.Debug("[DataReader] XLSX file processed (%d columns, %d rows)", len(columns), len(dataRows))
	return pricebook.NewDataset(columns, dataRows)
}

// readCSVData reads CSV data; fields that parse as numbers are numeric cells
func (r *DataReader) readCSVData(ctx context.Context, path string) (*pricebook.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = r.config.Delimiter
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	r.logger.Debug("[DataReader] CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	if len(rows) == 0 {
		return pricebook.NewDataset(nil, nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	header := rows[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	body := trimTrailingEmptyRows(rows[1:])
	columns := HeaderNames(header, rowWidth(header, body))

	dataRows := make([][]pricebook.Cell, 0, len(body))
	for _, row := range body {
		cells := make([]pricebook.Cell, len(row))
		for j, field := range row {
			cells[j] = classifyText(field, r.config.NAValues)
		}
		dataRows = append(dataRows, cells)
	}

	r.logger.Debug("[DataReader] CSV file processed (%d columns, %d rows)", len(columns), len(dataRows))
	return pricebook.NewDataset(columns, dataRows)
}

// HeaderNames builds unique column names for a header row spanning width columns.
// Blank headers become "Unnamed: <index>" and repeats get ".1", ".2", ... suffixes.
// Names are compared as written, so "Rate" and "Rate " stay distinct here and
// only merge when the record keys are trimmed.
func HeaderNames(header []string, width int) []string {
	if width < len(header) {
		width = len(header)
	}
	names := make([]string, width)
	used := make(map[string]bool, width)
	counts := make(map[string]int, width)
	for i := 0; i < width; i++ {
		name := ""
		if i < len(header) {
			name = header[i]
		}
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		candidate := name
		for used[candidate] {
			counts[name]++
			candidate = fmt.Sprintf("%s.%d", name, counts[name])
		}
		used[candidate] = true
		names[i] = candidate
	}
	return names
}

// resolveSheet returns the requested sheet, or the first one when none is named
func resolveSheet(f *excelize.File, sheet string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	if sheet == "" {
		return sheets[0], nil
	}
	for _, name := range sheets {
		if name == sheet {
			return name, nil
		}
	}
	return "", fmt.Errorf("sheet %q not found (available: %s)", sheet, strings.Join(sheets, ", "))
}

type cellClassifier struct {
	file        *excelize.File
	sheet       string
	date1904    bool
	detectDates bool
	naValues    map[string]bool
	dateStyles  map[int]bool
}

// classify maps a raw cell value and its stored type onto the cell variant
func (c *cellClassifier) classify(axis, raw string) (pricebook.Cell, error) {
	if raw == "" || c.naValues[raw] {
		return pricebook.Missing(), nil
	}

	cellType, err := c.file.GetCellType(c.sheet, axis)
	if err != nil {
		return pricebook.Cell{}, err
	}

	switch cellType {
	case excelize.CellTypeBool:
		// Booleans count as integers
		if raw == "1" || strings.EqualFold(raw, "TRUE") {
			return pricebook.Number(1), nil
		}
		return pricebook.Number(0), nil
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return pricebook.Text(raw), nil
		}
		if c.detectDates {
			isDate, err := c.isDateCell(axis)
			if err != nil {
				return pricebook.Cell{}, err
			}
			if isDate {
				t, err := excelize.ExcelDateToTime(v, c.date1904)
				if err != nil {
					return pricebook.Cell{}, err
				}
				return pricebook.Text(t.Format(timestampLayout)), nil
			}
		}
		return pricebook.Number(v), nil
	default:
		return pricebook.Text(raw), nil
	}
}

func (c *cellClassifier) isDateCell(axis string) (bool, error) {
	styleID, err := c.file.GetCellStyle(c.sheet, axis)
	if err != nil {
		return false, err
	}
	if isDate, ok := c.dateStyles[styleID]; ok {
		return isDate, nil
	}
	style, err := c.file.GetStyle(styleID)
	if err != nil {
		return false, err
	}
	isDate := builtInDateFormats[style.NumFmt]
	if style.CustomNumFmt != nil {
		isDate = IsDateFormat(*style.CustomNumFmt)
	}
	c.dateStyles[styleID] = isDate
	return isDate, nil
}

// builtInDateFormats are the OOXML built-in number format IDs that render dates or times
var builtInDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	45: true, 46: true, 47: true,
}

// IsDateFormat reports whether a custom number format code renders a date or time
func IsDateFormat(code string) bool {
	var b strings.Builder
	inQuote := false
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case ch == '"':
			inQuote = !inQuote
		case inQuote:
		case ch == '\\' || ch == '_' || ch == '*':
			i++ // skip the escaped or padding character
		case ch == '[':
			end := strings.IndexByte(code[i:], ']')
			if end < 0 {
				return false
			}
			// Elapsed time like [h] or [mm] is a time; colors and locales are not
			token := strings.ToLower(code[i+1 : i+end])
			if strings.Trim(token, "hms") == "" && token != "" {
				return true
			}
			i += end
		default:
			b.WriteByte(ch)
		}
	}
	return strings.ContainsAny(strings.ToLower(b.String()), "dyhs")
}

// classifyText classifies an untyped CSV field
func classifyText(field string, naValues map[string]bool) pricebook.Cell {
	trimmed := strings.TrimSpace(field)
	if trimmed == "" || naValues[field] {
		return pricebook.Missing()
	}
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		return pricebook.Number(v)
	}
	return pricebook.Text(field)
}

func trimTrailingEmptyRows(rows [][]string) [][]string {
	end := len(rows)
	for end > 0 && isEmptyRow(rows[end-1]) {
		end--
	}
	return rows[:end]
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}

func rowWidth(header []string, body [][]string) int {
	width := len(header)
	for _, row := range body {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}
