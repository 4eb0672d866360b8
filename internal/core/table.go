package core

import (
	"fmt"
	"strings"
)

// Row is one named dimension with a value per time step.
type Row struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// Table is the dataset behind a race: rows in insertion order and the
// labels of the time steps every row has a value for.
type Table struct {
	Rows       []Row    `json:"rows"`
	StepLabels []string `json:"step_labels"`
}

// StepCount returns the number of time steps.
func (t Table) StepCount() int {
	return len(t.StepLabels)
}

// Clone returns a deep copy so callers can't reach into store state.
func (t Table) Clone() Table {
	out := Table{
		Rows:       make([]Row, len(t.Rows)),
		StepLabels: append([]string(nil), t.StepLabels...),
	}
	for i, r := range t.Rows {
		out.Rows[i] = Row{
			Label:  r.Label,
			Values: append([]float64(nil), r.Values...),
		}
	}
	return out
}

// Validate checks the shape invariant: every row has exactly StepCount values
// and a non-empty label.
func (t Table) Validate() error {
	if t.StepCount() == 0 {
		return ErrNoStepColumns
	}
	for i, r := range t.Rows {
		if strings.TrimSpace(r.Label) == "" {
			return fmt.Errorf("row %d: empty label: %w", i, ErrInvalidInput)
		}
		if len(r.Values) != t.StepCount() {
			return fmt.Errorf("row %d (%s): %d values, want %d: %w",
				i, r.Label, len(r.Values), t.StepCount(), ErrShapeMismatch)
		}
	}
	return nil
}

// Store holds a table and the current step index.
//
// Store is not safe for concurrent use; Session serialises access to it.
type Store struct {
	table     Table
	stepIndex int
}

// NewStore creates a store holding a copy of t.
func NewStore(t Table) *Store {
	return &Store{table: t.Clone()}
}

// Table returns a copy of the current table.
func (s *Store) Table() Table {
	return s.table.Clone()
}

// StepIndex returns the current time step.
func (s *Store) StepIndex() int {
	return s.stepIndex
}

// StepCount returns the number of time steps in the current table.
func (s *Store) StepCount() int {
	return s.table.StepCount()
}

// LastIndex returns the terminal step index, or -1 for a table with no steps.
func (s *Store) LastIndex() int {
	return s.table.StepCount() - 1
}

// RowCount returns the number of rows.
func (s *Store) RowCount() int {
	return len(s.table.Rows)
}

// ReplaceTable overwrites rows and step labels and rewinds to step 0.
func (s *Store) ReplaceTable(t Table) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("replace table: %w", err)
	}
	s.table = t.Clone()
	s.stepIndex = 0
	return nil
}

// AddRow appends a row. The table is untouched on error.
func (s *Store) AddRow(label string, values []float64) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return fmt.Errorf("add row: label is required: %w", ErrInvalidInput)
	}
	if len(values) == 0 {
		return fmt.Errorf("add row %q: no numeric values: %w", label, ErrInvalidInput)
	}
	if len(values) != s.table.StepCount() {
		return fmt.Errorf("add row %q: got %d values, want %d: %w",
			label, len(values), s.table.StepCount(), ErrShapeMismatch)
	}

	s.table.Rows = append(s.table.Rows, Row{
		Label:  label,
		Values: append([]float64(nil), values...),
	})
	return nil
}

// RemoveRow deletes the row at index, keeping the order of the rest.
func (s *Store) RemoveRow(index int) (Row, error) {
	if index < 0 || index >= len(s.table.Rows) {
		return Row{}, fmt.Errorf("remove row %d of %d: %w", index, len(s.table.Rows), ErrIndexOutOfRange)
	}
	removed := s.table.Rows[index]
	s.table.Rows = append(s.table.Rows[:index:index], s.table.Rows[index+1:]...)
	return removed, nil
}

// MaxValue returns the largest value across all rows and steps.
func (s *Store) MaxValue() float64 {
	return MaxValue(s.table)
}

func (s *Store) setStepIndex(i int) {
	s.stepIndex = i
}
