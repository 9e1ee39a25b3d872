package app

import (
	"context"
	"fmt"
	"time"

	"pricebook/domain/core"
	"pricebook/domain/pricebook"
	"pricebook/internal"
	"pricebook/internal/errors"
	"pricebook/ports"
)

// Phase names the step of a conversion that failed
type Phase string

const (
	PhaseRead      Phase = "read"
	PhaseNormalize Phase = "normalize"
	PhaseWrite     Phase = "write"
)

// ConversionRequest defines the inputs for one conversion run
type ConversionRequest struct {
	InputPath  string
	OutputPath string
	Sheet      string // empty selects the first sheet
}

// Outcome is the single result of a conversion. Phase is empty on success.
type Outcome struct {
	RunID      core.RunID         `json:"run_id"`
	Success    bool               `json:"success"`
	Phase      Phase              `json:"phase,omitempty"`
	Code       string             `json:"code,omitempty"`
	Message    string             `json:"message"`
	InputPath  string             `json:"input_path"`
	OutputPath string             `json:"output_path"`
	Columns    []string           `json:"columns"`
	RowCount   int                `json:"row_count"`
	RuntimeMs  int64              `json:"runtime_ms"`
	Records    []pricebook.Record `json:"-"`
	Err        error              `json:"-"`
}

// ConversionService reads a workbook, normalizes it and writes the JSON document
type ConversionService struct {
	reader  ports.DatasetReaderPort
	writer  ports.DocumentWriterPort
	summary *SummaryService
	logger  *internal.Logger
}

// NewConversionService creates a conversion service
func NewConversionService(reader ports.DatasetReaderPort, writer ports.DocumentWriterPort, logger *internal.Logger) *ConversionService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ConversionService{
		reader:  reader,
		writer:  writer,
		summary: NewSummaryService(),
		logger:  logger,
	}
}

// Convert runs read, normalize and write in order and stops at the first failure.
// The writer is never called unless the first two phases succeed.
func (s *ConversionService) Convert(ctx context.Context, req ConversionRequest) Outcome {
	startTime := time.Now()
	outcome := Outcome{
		RunID:      core.NewRunID(),
		InputPath:  req.InputPath,
		OutputPath: req.OutputPath,
	}
	s.logger.Info("Conversion %s started: %s -> %s", outcome.RunID, req.InputPath, req.OutputPath)

	columns, records, phase, err := s.load(ctx, req.InputPath, req.Sheet)
	if err == nil {
		outcome.Columns = columns
		outcome.RowCount = len(records)
		if werr := s.writer.WriteDocument(ctx, req.OutputPath, records); werr != nil {
			phase, err = PhaseWrite, errors.WriteFailed(werr)
		}
	}
	outcome.RuntimeMs = time.Since(startTime).Milliseconds()

	if err != nil {
		outcome.Phase = phase
		outcome.Code = errors.GetCode(err)
		outcome.Err = err
		outcome.Message = fmt.Sprintf("Error converting Excel to JSON: %v", err)
		s.logger.Error("Conversion %s failed in %s phase: %v", outcome.RunID, phase, err)
		return outcome
	}

	outcome.Success = true
	outcome.Records = records
	outcome.Message = fmt.Sprintf("Successfully converted Excel to JSON. Output saved to %s", req.OutputPath)
	s.logger.Info("Conversion %s finished: %d records in %dms", outcome.RunID, len(records), outcome.RuntimeMs)
	s.logSummary(records)
	return outcome
}

// Load runs the read and normalize phases without writing anything
func (s *ConversionService) Load(ctx context.Context, inputPath, sheet string) ([]string, []pricebook.Record, error) {
	columns, records, _, err := s.load(ctx, inputPath, sheet)
	return columns, records, err
}

func (s *ConversionService) load(ctx context.Context, inputPath, sheet string) ([]string, []pricebook.Record, Phase, error) {
	ds, err := s.reader.ReadDataset(ctx, inputPath, sheet)
	if err != nil {
		return nil, nil, PhaseRead, errors.ReadFailed(err)
	}
	s.logger.Debug("Read %d rows x %d columns from %s", ds.RowCount(), len(ds.Columns), inputPath)

	if err := ctx.Err(); err != nil {
		return nil, nil, PhaseNormalize, errors.NormalizeFailed(err)
	}
	records, err := pricebook.Normalize(ds)
	if err != nil {
		return nil, nil, PhaseNormalize, errors.NormalizeFailed(err)
	}

	return pricebook.NormalizeColumns(ds.Columns), records, "", nil
}

func (s *ConversionService) logSummary(records []pricebook.Record) {
	if s.logger.GetLevel() < internal.LogLevelDebug {
		return
	}
	summaries, err := s.summary.Summarize(records)
	if err != nil {
		s.logger.Warn("Could not summarize numeric columns: %v", err)
		return
	}
	for _, cs := range summaries {
		s.logger.Debug("Column %q: n=%d min=%.2f max=%.2f mean=%.2f", cs.Column, cs.Count, cs.Min, cs.Max, cs.Mean)
	}
}
