package excel

// ReaderConfig holds configuration for the spreadsheet reader
type ReaderConfig struct {
	// Sheet used when the caller does not name one; empty means the first sheet
	DefaultSheet string `json:"default_sheet"`
	// Delimiter for CSV input
	Delimiter rune `json:"delimiter"`
	// DetectDates renders date-formatted numeric cells as timestamps instead of numbers
	DetectDates bool `json:"detect_dates"`
	// NAValues are text cells read as missing; matched against the raw, untrimmed value
	NAValues map[string]bool `json:"na_values"`
}

// DefaultNAValues returns the placeholder strings spreadsheets commonly use for "no value"
func DefaultNAValues() map[string]bool {
	values := []string{
		"#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
		"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
		"n/a", "nan", "null",
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// DefaultReaderConfig returns sensible defaults for spreadsheet reading
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		Delimiter:   ',',
		DetectDates: true,
		NAValues:    DefaultNAValues(),
	}
}
