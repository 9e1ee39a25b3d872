package pricebook

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"testing"
)

var twoDecimals = regexp.MustCompile(`^-?\d+\.\d\d$`)

// TestNormalizeCell covers the three cell kinds
func TestNormalizeCell(t *testing.T) {
	tests := []struct {
		name     string
		cell     Cell
		expected string
	}{
		{"missing", Missing(), ""},
		{"zero", Number(0), "0.00"},
		{"one decimal", Number(3.1), "3.10"},
		{"negative", Number(-2.5), "-2.50"},
		{"integer", Number(42), "42.00"},
		{"rounds down on binary value", Number(2.675), "2.67"},
		{"half to even", Number(0.125), "0.12"},
		{"rounds up", Number(1.005001), "1.01"},
		{"small negative keeps sign", Number(-0.001), "-0.00"},
		{"large", Number(1234567.891), "1234567.89"},
		{"text trimmed", Text("  Widget \t"), "Widget"},
		{"internal whitespace kept", Text(" Field  Engineer "), "Field  Engineer"},
		{"empty text", Text(""), ""},
		{"whitespace only text", Text("   "), ""},
		{"numeric-looking text stays text", Text(" 3.1 "), "3.1"},
		{"non-ascii text", Text(" Zürich "), "Zürich"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCell(tt.cell)
			if err != nil {
				t.Fatalf("NormalizeCell(%+v) unexpected error: %v", tt.cell, err)
			}
			if got != tt.expected {
				t.Errorf("NormalizeCell(%+v) = %q, want %q", tt.cell, got, tt.expected)
			}
		})
	}
}

// TestNormalizeCellRejectsNonFinite tests that NaN and infinities fail
func TestNormalizeCellRejectsNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := NormalizeCell(Number(v))
		if !errors.Is(err, ErrNonFiniteNumber) {
			t.Errorf("NormalizeCell(%v) error = %v, want ErrNonFiniteNumber", v, err)
		}
	}
}

// TestNormalizeCellUnknownKind tests the default branch of the switch
func TestNormalizeCellUnknownKind(t *testing.T) {
	_, err := NormalizeCell(Cell{Kind: CellKind(99)})
	if !errors.Is(err, ErrUnknownCellKind) {
		t.Errorf("Expected ErrUnknownCellKind, got %v", err)
	}
}

// TestNumericFormattingLaw checks shape, precision and idempotence of numeric output
func TestNumericFormattingLaw(t *testing.T) {
	values := []float64{0, 0.004, 0.005, 0.015, 1, 1.5, 3.14159, -7.777, 99.999, 1e6 + 0.123, -1234.5}
	for _, v := range values {
		got, err := NormalizeCell(Number(v))
		if err != nil {
			t.Fatalf("NormalizeCell(%v) unexpected error: %v", v, err)
		}
		if !twoDecimals.MatchString(got) {
			t.Errorf("NormalizeCell(%v) = %q does not have two decimals", v, got)
		}

		parsed, err := strconv.ParseFloat(got, 64)
		if err != nil {
			t.Fatalf("ParseFloat(%q): %v", got, err)
		}
		if math.Abs(parsed-v) > 0.005+1e-9 {
			t.Errorf("NormalizeCell(%v) = %q is more than half a cent away", v, got)
		}

		again, err := NormalizeCell(Text(got))
		if err != nil {
			t.Fatalf("re-normalizing %q: %v", got, err)
		}
		if again != got {
			t.Errorf("re-normalizing %q as text gave %q", got, again)
		}
	}
}

// TestNormalizeScenario tests the canonical widget row
func TestNormalizeScenario(t *testing.T) {
	ds, err := NewDataset(
		[]string{"Item ", "Price", "Notes"},
		[][]Cell{{Text("Widget "), Number(3.1), Missing()}},
	)
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}

	records, err := Normalize(ds)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}

	want := Record{
		{Key: "Item", Value: "Widget"},
		{Key: "Price", Value: "3.10"},
		{Key: "Notes", Value: ""},
	}
	if len(records[0]) != len(want) {
		t.Fatalf("Expected %d fields, got %d", len(want), len(records[0]))
	}
	for i, f := range want {
		if records[0][i] != f {
			t.Errorf("field %d = %+v, want %+v", i, records[0][i], f)
		}
	}
}

// TestNormalizeKeepsRowCountAndKeys checks the one-to-one and same-keys invariants
func TestNormalizeKeepsRowCountAndKeys(t *testing.T) {
	columns := []string{" Region", "Country ", "City", "Rate"}
	rows := [][]Cell{
		{Text("APAC"), Text("India"), Text("Pune"), Number(45)},
		{Text("EMEA")},
		{},
		{Missing(), Missing(), Missing(), Missing()},
		{Text("NA"), Text("USA"), Text(" Austin "), Number(80.255)},
	}
	ds, err := NewDataset(columns, rows)
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}

	records, err := Normalize(ds)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(records) != len(rows) {
		t.Fatalf("Expected %d records, got %d", len(rows), len(records))
	}

	wantKeys := []string{"Region", "Country", "City", "Rate"}
	for i, r := range records {
		keys := r.Keys()
		if len(keys) != len(wantKeys) {
			t.Fatalf("record %d has %d keys, want %d", i, len(keys), len(wantKeys))
		}
		for j := range wantKeys {
			if keys[j] != wantKeys[j] {
				t.Errorf("record %d key %d = %q, want %q", i, j, keys[j], wantKeys[j])
			}
		}
	}

	if v, _ := records[1].Get("Rate"); v != "" {
		t.Errorf("Expected padded cell to be empty, got %q", v)
	}
	if v, _ := records[4].Get("City"); v != "Austin" {
		t.Errorf("Expected trimmed city, got %q", v)
	}
}

// TestNormalizeEmptyDataset tests that zero rows produce an empty, non-nil slice
func TestNormalizeEmptyDataset(t *testing.T) {
	ds, err := NewDataset([]string{"Item", "Price"}, nil)
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	records, err := Normalize(ds)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", records)
	}
}

// TestNormalizeReportsRow tests that a failing cell aborts with its position
func TestNormalizeReportsRow(t *testing.T) {
	ds, err := NewDataset([]string{"Price"}, [][]Cell{{Number(1)}, {Number(math.NaN())}})
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	records, err := Normalize(ds)
	if err == nil {
		t.Fatal("Expected error for NaN cell")
	}
	if records != nil {
		t.Errorf("Expected no partial records, got %d", len(records))
	}
	if !errors.Is(err, ErrNonFiniteNumber) {
		t.Errorf("Expected ErrNonFiniteNumber in chain, got %v", err)
	}
}

// TestNewDatasetRejectsWideRows tests the column bound check
func TestNewDatasetRejectsWideRows(t *testing.T) {
	_, err := NewDataset([]string{"A"}, [][]Cell{{Text("x"), Text("y")}})
	if !errors.Is(err, ErrRowTooWide) {
		t.Errorf("Expected ErrRowTooWide, got %v", err)
	}
}

func TestNormalizeNilDataset(t *testing.T) {
	if _, err := Normalize(nil); err == nil {
		t.Error("Expected error for nil dataset")
	}
}

// TestNormalizeRowMergesTrimmedKeys tests headers that only differ by surrounding whitespace
func TestNormalizeRowMergesTrimmedKeys(t *testing.T) {
	ds, err := NewDataset([]string{"Rate", "City", "Rate "}, [][]Cell{{Number(1), Text("Pune"), Number(2)}})
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	records, err := Normalize(ds)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	got := records[0]
	if len(got) != 2 {
		t.Fatalf("Expected 2 fields, got %d: %v", len(got), got)
	}
	if got[0].Key != "Rate" || got[0].Value != "2.00" {
		t.Errorf("Expected Rate=2.00 first, got %s=%s", got[0].Key, got[0].Value)
	}
	if got[1].Key != "City" {
		t.Errorf("Expected City second, got %s", got[1].Key)
	}
}

func TestNormalizeColumns(t *testing.T) {
	got := NormalizeColumns([]string{"Rate", " City", "Rate ", "Notes"})
	want := []string{"Rate", "City", "Notes"}
	if len(got) != len(want) {
		t.Fatalf("NormalizeColumns = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %d = %q, want %q", i, got[i], want[i])
		}
	}
}
