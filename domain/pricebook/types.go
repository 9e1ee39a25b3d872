package pricebook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// CellKind is the runtime category of a raw spreadsheet cell
type CellKind int

const (
	CellMissing CellKind = iota
	CellNumeric
	CellText
)

func (k CellKind) String() string {
	switch k {
	case CellMissing:
		return "missing"
	case CellNumeric:
		return "numeric"
	case CellText:
		return "text"
	default:
		return fmt.Sprintf("CellKind(%d)", int(k))
	}
}

// Cell is a raw cell value. Only the field matching Kind is meaningful.
type Cell struct {
	Kind   CellKind
	Number float64
	Text   string
}

// Missing returns a cell with no value
func Missing() Cell {
	return Cell{Kind: CellMissing}
}

// Number returns a numeric cell
func Number(v float64) Cell {
	return Cell{Kind: CellNumeric, Number: v}
}

// Text returns a textual cell
func Text(s string) Cell {
	return Cell{Kind: CellText, Text: s}
}

// Dataset is a sheet read into memory: named columns and rows of raw cells.
// Every row holds exactly len(Columns) cells.
type Dataset struct {
	Columns []string
	Rows    [][]Cell
}

// NewDataset builds a dataset, padding short rows with missing cells.
// Rows longer than the column set are rejected.
func NewDataset(columns []string, rows [][]Cell) (*Dataset, error) {
	ds := &Dataset{
		Columns: append([]string(nil), columns...),
		Rows:    make([][]Cell, 0, len(rows)),
	}
	for i, row := range rows {
		if len(row) > len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d cells, want at most %d", ErrRowTooWide, i, len(row), len(columns))
		}
		padded := make([]Cell, len(columns))
		copy(padded, row)
		ds.Rows = append(ds.Rows, padded)
	}
	return ds, nil
}

// RowCount returns the number of data rows
func (d *Dataset) RowCount() int {
	return len(d.Rows)
}

// Field is one key/value pair of a record
type Field struct {
	Key   string
	Value string
}

// Record is a normalized row. Field order is the source column order.
type Record []Field

// Get returns the value stored under key
func (r Record) Get(key string) (string, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Keys returns the record keys in order
func (r Record) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Key
	}
	return keys
}

// MarshalJSON encodes the record as a JSON object keeping field order
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, f.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSONString(&buf, f.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of strings keeping key order
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("record must be a JSON object, got %v", tok)
	}

	fields := Record{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected record key %v", keyTok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		fields = append(fields, Field{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = fields
	return nil
}

// writeJSONString writes s as a JSON string without HTML escaping.
// U+2028 and U+2029 are written raw like every other non-ASCII rune.
func writeJSONString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates each value with a newline
	encoded := tmp.Bytes()[:tmp.Len()-1]
	if !strings.ContainsAny(s, "\u2028\u2029") {
		buf.Write(encoded)
		return nil
	}
	buf.Write(unescapeLineSeparators(encoded))
	return nil
}

// unescapeLineSeparators turns the \u2028 and \u2029 escapes of an encoded JSON
// string back into raw runes. Every backslash in the input starts an escape.
func unescapeLineSeparators(encoded []byte) []byte {
	out := make([]byte, 0, len(encoded))
	for i := 0; i < len(encoded); i++ {
		if encoded[i] != '\\' || i+1 >= len(encoded) {
			out = append(out, encoded[i])
			continue
		}
		if encoded[i+1] == 'u' && i+6 <= len(encoded) {
			switch string(encoded[i+2 : i+6]) {
			case "2028":
				out = append(out, "\u2028"...)
				i += 5
				continue
			case "2029":
				out = append(out, "\u2029"...)
				i += 5
				continue
			}
		}
		out = append(out, encoded[i], encoded[i+1])
		i++
	}
	return out
}
