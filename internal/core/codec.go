package core

// codec.go reads and writes the race table text format:
//
//	Dimension,Jan,Feb,Mar
//	USA,21.4,21.6,21.8
//	China,14.3,14.5,14.7
//
// The first header cell names the label column and is not validated. Cells are
// split on a bare comma; quoting is not supported, so labels can't contain
// commas.
//
// Decoding is lenient at the row and cell level:
//   - a data row whose column count differs from the header is dropped
//   - a data row with an empty label is dropped
//   - a value cell that doesn't parse as a number becomes 0
//
// Only whole-file shape problems are errors.

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Delimiter separates cells on a line.
const Delimiter = ","

// DefaultLabelHeader is the conventional first header cell.
const DefaultLabelHeader = "Dimension"

// SkipReason explains why a data line was dropped during decode.
type SkipReason string

const (
	SkipColumnCount SkipReason = "column count differs from header"
	SkipEmptyLabel  SkipReason = "empty label"
)

// SkippedLine is a data line that did not make it into the table.
type SkippedLine struct {
	Line   int        `json:"line"` // 1-based, header is line 1
	Reason SkipReason `json:"reason"`
}

// DecodeReport describes what the lenient decode policy threw away.
type DecodeReport struct {
	LabelHeader string        `json:"label_header"`
	RowsRead    int           `json:"rows_read"`
	RowsKept    int           `json:"rows_kept"`
	Skipped     []SkippedLine `json:"skipped,omitempty"`
	ZeroedCells int           `json:"zeroed_cells"`
}

// Decode parses a table from r. The input has any BOM removed and invalid
// UTF-8 replaced before parsing.
func Decode(r io.Reader) (Table, DecodeReport, error) {
	data, err := io.ReadAll(WrapForImport(r))
	if err != nil {
		return Table{}, DecodeReport{}, fmt.Errorf("read input: %w", err)
	}
	return DecodeString(sanitizeText(string(data)))
}

// DecodeString parses a table from text.
func DecodeString(text string) (Table, DecodeReport, error) {
	var report DecodeReport

	lines := splitLines(strings.TrimSpace(text))
	if len(lines) < 2 {
		return Table{}, report, ErrEmptyInput
	}

	header := splitCells(lines[0])
	if len(header) < 2 {
		return Table{}, report, ErrNoStepColumns
	}
	report.LabelHeader = header[0]

	table := Table{
		StepLabels: append([]string(nil), header[1:]...),
	}

	for i, line := range lines[1:] {
		lineNo := i + 2
		report.RowsRead++

		cells := splitCells(line)
		if len(cells) != len(header) {
			report.Skipped = append(report.Skipped, SkippedLine{Line: lineNo, Reason: SkipColumnCount})
			continue
		}

		label := cells[0]
		if label == "" {
			report.Skipped = append(report.Skipped, SkippedLine{Line: lineNo, Reason: SkipEmptyLabel})
			continue
		}

		values := make([]float64, len(cells)-1)
		for j, cell := range cells[1:] {
			v, ok := parseValue(cell)
			if !ok {
				report.ZeroedCells++
			}
			values[j] = v
		}

		table.Rows = append(table.Rows, Row{Label: label, Values: values})
	}

	report.RowsKept = len(table.Rows)
	if len(table.Rows) == 0 {
		return Table{}, report, ErrNoValidRows
	}

	return table, report, nil
}

// Encode writes t in the import format. labelHeader names the first column;
// an empty string means DefaultLabelHeader. format renders each value and
// may be nil, in which case the shortest exact representation is used.
func Encode(w io.Writer, t Table, labelHeader string, format func(float64) string) error {
	if labelHeader == "" {
		labelHeader = DefaultLabelHeader
	}
	if format == nil {
		format = FormatValue
	}

	bw := bufio.NewWriter(w)

	bw.WriteString(labelHeader)
	for _, step := range t.StepLabels {
		bw.WriteString(Delimiter)
		bw.WriteString(step)
	}

	for _, r := range t.Rows {
		bw.WriteByte('\n')
		bw.WriteString(r.Label)
		for _, v := range r.Values {
			bw.WriteString(Delimiter)
			bw.WriteString(format(v))
		}
	}

	return bw.Flush()
}

// EncodeString is Encode into a string.
func EncodeString(t Table, labelHeader string, format func(float64) string) string {
	var b strings.Builder
	_ = Encode(&b, t, labelHeader, format)
	return b.String()
}

// FormatValue renders v with the fewest digits that parse back to v.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FixedFormat returns a formatter with a fixed number of decimals.
func FixedFormat(decimals int) func(float64) string {
	return func(v float64) string {
		return strconv.FormatFloat(v, 'f', decimals, 64)
	}
}

// ParseValues parses a comma-separated list of numbers the way the add-row
// form does: entries that aren't numbers are dropped, not zeroed.
func ParseValues(text string) []float64 {
	var values []float64
	for _, cell := range strings.Split(text, Delimiter) {
		if v, ok := parseValue(strings.TrimSpace(cell)); ok {
			values = append(values, v)
		}
	}
	return values
}

// parseValue parses a decimal cell. NaN and infinities count as unparseable.
func parseValue(cell string) (float64, bool) {
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func splitCells(line string) []string {
	cells := strings.Split(line, Delimiter)
	for i, c := range cells {
		cells[i] = strings.TrimSpace(c)
	}
	return cells
}
