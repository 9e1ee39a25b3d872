package app

import (
	"testing"

	"pricebook/domain/pricebook"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rateRecords() []pricebook.Record {
	return []pricebook.Record{
		{{Key: "City", Value: "Pune"}, {Key: "Rate", Value: "45.00"}, {Key: "Hours", Value: "8.00"}},
		{{Key: "City", Value: "Austin"}, {Key: "Rate", Value: "80.00"}, {Key: "Hours", Value: ""}},
		{{Key: "City", Value: "Berlin"}, {Key: "Rate", Value: "70.00"}, {Key: "Hours", Value: "4.00"}},
	}
}

func TestSummarizeNumericColumns(t *testing.T) {
	summaries, err := NewSummaryService().Summarize(rateRecords())
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	rate := summaries[0]
	assert.Equal(t, "Rate", rate.Column)
	assert.Equal(t, 3, rate.Count)
	assert.Equal(t, 0, rate.Empty)
	assert.InDelta(t, 45.0, rate.Min, 1e-9)
	assert.InDelta(t, 80.0, rate.Max, 1e-9)
	assert.InDelta(t, 65.0, rate.Mean, 1e-9)
	assert.InDelta(t, 70.0, rate.Median, 1e-9)
	assert.InDelta(t, 195.0, rate.Sum, 1e-9)

	hours := summaries[1]
	assert.Equal(t, "Hours", hours.Column)
	assert.Equal(t, 2, hours.Count)
	assert.Equal(t, 1, hours.Empty)
	assert.InDelta(t, 6.0, hours.Mean, 1e-9)
}

func TestSummarizeSkipsTextAndEmptyColumns(t *testing.T) {
	records := []pricebook.Record{
		{{Key: "Code", Value: "A1"}, {Key: "Blank", Value: ""}},
		{{Key: "Code", Value: "12.00"}, {Key: "Blank", Value: ""}},
	}
	summaries, err := NewSummaryService().Summarize(records)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestSummarizeNoRecords(t *testing.T) {
	summaries, err := NewSummaryService().Summarize(nil)
	require.NoError(t, err)
	assert.NotNil(t, summaries)
	assert.Empty(t, summaries)
}
