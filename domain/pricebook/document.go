package pricebook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// DocumentIndent is the indentation used for the output document
const DocumentIndent = "    "

// EncodeDocument writes records as an indented JSON array.
// Non-ASCII and HTML characters are written as-is.
func EncodeDocument(w io.Writer, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", DocumentIndent)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return nil
}

// MarshalDocument returns the encoded document bytes
func MarshalDocument(records []Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeDocument(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeDocument parses a document produced by EncodeDocument
func DecodeDocument(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}
