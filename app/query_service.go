package app

import (
	"fmt"
	"os"
	"strings"

	"pricebook/domain/pricebook"
	"pricebook/internal/errors"

	"github.com/tidwall/gjson"
)

// QueryService evaluates gjson paths against converted documents
type QueryService struct{}

// NewQueryService creates a query service
func NewQueryService() *QueryService {
	return &QueryService{}
}

// QueryFile evaluates expr against the document stored at path
func (q *QueryService) QueryFile(path, expr string) (gjson.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return gjson.Result{}, errors.NotFound(fmt.Sprintf("document %s", path))
		}
		return gjson.Result{}, errors.Wrapf(err, "failed to read document %s", path)
	}
	return q.QueryDocument(data, expr)
}

// QueryRecords evaluates expr against in-memory records
func (q *QueryService) QueryRecords(records []pricebook.Record, expr string) (gjson.Result, error) {
	data, err := pricebook.MarshalDocument(records)
	if err != nil {
		return gjson.Result{}, err
	}
	return q.QueryDocument(data, expr)
}

// QueryDocument evaluates expr against raw document bytes
func (q *QueryService) QueryDocument(data []byte, expr string) (gjson.Result, error) {
	if strings.TrimSpace(expr) == "" {
		return gjson.Result{}, errors.InvalidInput("query expression is empty")
	}
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, errors.InvalidInput("document is not valid JSON")
	}
	result := gjson.GetBytes(data, expr)
	if !result.Exists() {
		return result, errors.NotFound(fmt.Sprintf("path %q", expr))
	}
	return result, nil
}

// Filter keeps records whose fields equal every value in match
func Filter(records []pricebook.Record, match map[string]string) []pricebook.Record {
	filtered := make([]pricebook.Record, 0, len(records))
	for _, record := range records {
		keep := true
		for key, want := range match {
			if got, ok := record.Get(key); !ok || got != want {
				keep = false
				break
			}
		}
		if keep {
			filtered = append(filtered, record)
		}
	}
	return filtered
}
