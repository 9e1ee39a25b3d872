package app

import (
	"strconv"

	"pricebook/domain/pricebook"

	"github.com/montanaflynn/stats"
)

// ColumnSummary describes the numeric values of one column
type ColumnSummary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Empty  int     `json:"empty"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Sum    float64 `json:"sum"`
}

// SummaryService computes per-column statistics over normalized records
type SummaryService struct{}

// NewSummaryService creates a summary service
func NewSummaryService() *SummaryService {
	return &SummaryService{}
}

// Summarize returns one summary per numeric column, in column order.
// A column is numeric when it has at least one value and every non-empty value parses as a number.
func (s *SummaryService) Summarize(records []pricebook.Record) ([]ColumnSummary, error) {
	if len(records) == 0 {
		return []ColumnSummary{}, nil
	}

	columns := records[0].Keys()
	summaries := make([]ColumnSummary, 0, len(columns))
	for _, column := range columns {
		values, empty, ok := numericValues(records, column)
		if !ok || len(values) == 0 {
			continue
		}
		summary, err := summarize(column, values)
		if err != nil {
			return nil, err
		}
		summary.Empty = empty
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func numericValues(records []pricebook.Record, column string) ([]float64, int, bool) {
	values := make([]float64, 0, len(records))
	empty := 0
	for _, record := range records {
		raw, _ := record.Get(column)
		if raw == "" {
			empty++
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, 0, false
		}
		values = append(values, v)
	}
	return values, empty, true
}

func summarize(column string, data []float64) (ColumnSummary, error) {
	summary := ColumnSummary{Column: column, Count: len(data)}

	var err error
	if summary.Min, err = stats.Min(data); err != nil {
		return summary, err
	}
	if summary.Max, err = stats.Max(data); err != nil {
		return summary, err
	}
	if summary.Mean, err = stats.Mean(data); err != nil {
		return summary, err
	}
	if summary.Median, err = stats.Median(data); err != nil {
		return summary, err
	}
	if summary.Sum, err = stats.Sum(data); err != nil {
		return summary, err
	}
	return summary, nil
}
