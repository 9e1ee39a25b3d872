package app

import (
	"os"
	"path/filepath"
	"testing"

	"pricebook/domain/pricebook"
	"pricebook/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryRecords(t *testing.T) {
	q := NewQueryService()

	result, err := q.QueryRecords(rateRecords(), `#(City=="Austin").Rate`)
	require.NoError(t, err)
	assert.Equal(t, "80.00", result.String())

	result, err = q.QueryRecords(rateRecords(), "#.City")
	require.NoError(t, err)
	assert.Equal(t, `["Pune","Austin","Berlin"]`, result.Raw)

	result, err = q.QueryRecords(rateRecords(), "#")
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Int())
}

func TestQueryRecordsNotFound(t *testing.T) {
	_, err := NewQueryService().QueryRecords(rateRecords(), `#(City=="Oslo").Rate`)
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestQueryEmptyExpression(t *testing.T) {
	_, err := NewQueryService().QueryRecords(rateRecords(), "  ")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestQueryFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "servicedata.json")
	data, err := pricebook.MarshalDocument(rateRecords())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	result, err := NewQueryService().QueryFile(path, "1.City")
	require.NoError(t, err)
	assert.Equal(t, "Austin", result.String())

	_, err = NewQueryService().QueryFile(filepath.Join(dir, "absent.json"), "0")
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("[{"), 0o644))
	_, err = NewQueryService().QueryFile(broken, "0")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestFilter(t *testing.T) {
	records := rateRecords()

	assert.Len(t, Filter(records, nil), 3)
	assert.Len(t, Filter(records, map[string]string{"City": "Pune"}), 1)
	assert.Len(t, Filter(records, map[string]string{"City": "Pune", "Rate": "80.00"}), 0)
	assert.Len(t, Filter(records, map[string]string{"Missing": ""}), 0)
}
