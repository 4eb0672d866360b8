package core

import (
	"context"
	"fmt"
	"io"
	"time"
)

// PreviewSummary contains the summary counts for an import preview.
type PreviewSummary struct {
	TotalRows       int `json:"totalRows"`
	KeptRows        int `json:"keptRows"`
	SkippedRows     int `json:"skippedRows"`
	ZeroedCells     int `json:"zeroedCells"`
	StepCount       int `json:"stepCount"`
	DuplicateLabels int `json:"duplicateLabels"`
}

// RowPreview is a single kept row for preview display.
type RowPreview struct {
	LineNumber int       `json:"lineNumber"`
	Label      string    `json:"label"`
	Values     []float64 `json:"values"`
}

// DuplicatePreview is a label that appears on more than one kept line.
// Duplicates are imported as separate bars.
type DuplicatePreview struct {
	Label       string `json:"label"`
	LineNumbers []int  `json:"lineNumbers"`
}

// PreviewResponse is what an import would do, without doing it.
type PreviewResponse struct {
	Summary          PreviewSummary     `json:"summary"`
	LabelHeader      string             `json:"labelHeader"`
	StepLabels       []string           `json:"stepLabels"`
	RowSamples       []RowPreview       `json:"rowSamples"`
	SkippedSamples   []SkippedLine      `json:"skippedSamples"`
	DuplicateSamples []DuplicatePreview `json:"duplicateSamples"`
	ProcessingTimeMs int64              `json:"processingTimeMs"`
}

// Sample limits
const (
	maxRowSamples       = 10
	maxSkippedSamples   = 20
	maxDuplicateSamples = 10
)

// PreviewImport decodes r under the same limits as Import and reports what
// an import would keep and drop. No session is changed.
func (s *Service) PreviewImport(ctx context.Context, r io.Reader, size int64) (*PreviewResponse, error) {
	startTime := time.Now()

	if max := s.cfg.MaxImportSize; max > 0 && size > max {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, size, max)
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	table, report, err := Decode(&LimitedReader{R: r, Limit: s.cfg.MaxImportSize})
	if err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}

	resp := buildPreview(table, report)
	resp.ProcessingTimeMs = time.Since(startTime).Milliseconds()
	return resp, nil
}

func buildPreview(table Table, report DecodeReport) *PreviewResponse {
	resp := &PreviewResponse{
		Summary: PreviewSummary{
			TotalRows:   report.RowsRead,
			KeptRows:    report.RowsKept,
			SkippedRows: len(report.Skipped),
			ZeroedCells: report.ZeroedCells,
			StepCount:   table.StepCount(),
		},
		LabelHeader: report.LabelHeader,
		StepLabels:  table.StepLabels,
	}

	if n := min(len(report.Skipped), maxSkippedSamples); n > 0 {
		resp.SkippedSamples = append([]SkippedLine(nil), report.Skipped[:n]...)
	}

	lines := keptLineNumbers(report)
	seenLabels := make(map[string][]int)
	order := make([]string, 0)

	for i, row := range table.Rows {
		line := lines[i]
		if len(resp.RowSamples) < maxRowSamples {
			resp.RowSamples = append(resp.RowSamples, RowPreview{
				LineNumber: line,
				Label:      row.Label,
				Values:     append([]float64(nil), row.Values...),
			})
		}
		if _, ok := seenLabels[row.Label]; !ok {
			order = append(order, row.Label)
		}
		seenLabels[row.Label] = append(seenLabels[row.Label], line)
	}

	for _, label := range order {
		lineNums := seenLabels[label]
		if len(lineNums) < 2 {
			continue
		}
		resp.Summary.DuplicateLabels++
		if len(resp.DuplicateSamples) < maxDuplicateSamples {
			resp.DuplicateSamples = append(resp.DuplicateSamples, DuplicatePreview{
				Label:       label,
				LineNumbers: lineNums,
			})
		}
	}

	return resp
}

// keptLineNumbers recovers the source line of each kept row: data lines
// start at 2 and every line not reported as skipped became a row, in order.
func keptLineNumbers(report DecodeReport) []int {
	skipped := make(map[int]bool, len(report.Skipped))
	for _, s := range report.Skipped {
		skipped[s.Line] = true
	}

	lines := make([]int, 0, report.RowsKept)
	for line := 2; line < report.RowsRead+2; line++ {
		if !skipped[line] {
			lines = append(lines, line)
		}
	}
	return lines
}
