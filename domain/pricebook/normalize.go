package pricebook

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NormalizeColumnName strips surrounding whitespace from a header
func NormalizeColumnName(name string) string {
	return strings.TrimSpace(name)
}

// NormalizeColumns trims every header and drops names that repeat after trimming,
// giving the key order of each normalized record
func NormalizeColumns(columns []string) []string {
	names := make([]string, 0, len(columns))
	seen := make(map[string]bool, len(columns))
	for _, column := range columns {
		name := NormalizeColumnName(column)
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// NormalizeCell converts a raw cell to its output string.
// Missing cells become "", numbers are fixed to two decimals and text is trimmed.
func NormalizeCell(c Cell) (string, error) {
	switch c.Kind {
	case CellMissing:
		return "", nil
	case CellNumeric:
		if math.IsNaN(c.Number) || math.IsInf(c.Number, 0) {
			return "", fmt.Errorf("%w: %v", ErrNonFiniteNumber, c.Number)
		}
		return strconv.FormatFloat(c.Number, 'f', 2, 64), nil
	case CellText:
		return strings.TrimSpace(c.Text), nil
	default:
		return "", fmt.Errorf("%w: %v", ErrUnknownCellKind, c.Kind)
	}
}

// NormalizeRow pairs normalized column names with normalized cells.
// A repeated key keeps its first position and takes the later value.
func NormalizeRow(columns []string, row []Cell) (Record, error) {
	if len(row) != len(columns) {
		return nil, fmt.Errorf("row has %d cells for %d columns", len(row), len(columns))
	}
	record := make(Record, 0, len(columns))
	var seen map[string]int
	for i, cell := range row {
		value, err := NormalizeCell(cell)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", columns[i], err)
		}
		if pos, ok := seen[columns[i]]; ok {
			record[pos].Value = value
			continue
		}
		if seen == nil {
			seen = make(map[string]int, len(columns))
		}
		seen[columns[i]] = len(record)
		record = append(record, Field{Key: columns[i], Value: value})
	}
	return record, nil
}

// Normalize converts every dataset row into a record, one to one.
// The result is never nil so an empty dataset encodes as [].
func Normalize(ds *Dataset) ([]Record, error) {
	if ds == nil {
		return nil, fmt.Errorf("dataset is nil")
	}

	columns := make([]string, len(ds.Columns))
	for i, name := range ds.Columns {
		columns[i] = NormalizeColumnName(name)
	}

	records := make([]Record, 0, len(ds.Rows))
	for i, row := range ds.Rows {
		record, err := NormalizeRow(columns, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		records = append(records, record)
	}
	return records, nil
}
