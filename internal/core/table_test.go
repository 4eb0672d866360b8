package core

import (
	"errors"
	"testing"
)

func TestStore_AddRow(t *testing.T) {
	tests := []struct {
		name    string
		label   string
		values  []float64
		wantErr error
	}{
		{name: "valid row", label: "C", values: []float64{4, 5, 6}},
		{name: "label is trimmed", label: "  D ", values: []float64{0, 0, 0}},
		{name: "too few values", label: "C", values: []float64{1, 2}, wantErr: ErrShapeMismatch},
		{name: "too many values", label: "C", values: []float64{1, 2, 3, 4}, wantErr: ErrShapeMismatch},
		{name: "empty label", label: "", values: []float64{1, 2, 3}, wantErr: ErrInvalidInput},
		{name: "whitespace label", label: "   ", values: []float64{1, 2, 3}, wantErr: ErrInvalidInput},
		{name: "no values", label: "C", values: nil, wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(threeStepTable())
			before := s.RowCount()

			err := s.AddRow(tt.label, tt.values)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("AddRow() error = %v, want %v", err, tt.wantErr)
				}
				if got := s.RowCount(); got != before {
					t.Errorf("row count changed on error: %d -> %d", before, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("AddRow() unexpected error: %v", err)
			}
			if got := s.RowCount(); got != before+1 {
				t.Errorf("RowCount = %d, want %d", got, before+1)
			}
		})
	}
}

func TestStore_AddRowCopiesValues(t *testing.T) {
	s := NewStore(threeStepTable())
	values := []float64{7, 8, 9}
	if err := s.AddRow("C", values); err != nil {
		t.Fatal(err)
	}
	values[0] = 100

	got := s.Table().Rows[2].Values
	if got[0] != 7 {
		t.Errorf("store shares caller's slice: got %v", got)
	}
}

func TestStore_RemoveRow(t *testing.T) {
	s := NewStore(Table{
		StepLabels: []string{"x"},
		Rows: []Row{
			{Label: "A", Values: []float64{1}},
			{Label: "B", Values: []float64{2}},
			{Label: "C", Values: []float64{3}},
		},
	})

	removed, err := s.RemoveRow(1)
	if err != nil {
		t.Fatalf("RemoveRow(1) error = %v", err)
	}
	if removed.Label != "B" {
		t.Errorf("removed %q, want B", removed.Label)
	}

	var labels []string
	for _, r := range s.Table().Rows {
		labels = append(labels, r.Label)
	}
	if !equalStrings(labels, []string{"A", "C"}) {
		t.Errorf("remaining = %v, want [A C]", labels)
	}
}

func TestStore_RemoveRowOutOfRange(t *testing.T) {
	for _, idx := range []int{-1, 2, 10} {
		s := NewStore(threeStepTable())
		if _, err := s.RemoveRow(idx); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("RemoveRow(%d) error = %v, want ErrIndexOutOfRange", idx, err)
		}
		if s.RowCount() != 2 {
			t.Errorf("RemoveRow(%d) mutated the table", idx)
		}
	}
}

func TestStore_ReplaceTableRewinds(t *testing.T) {
	s := NewStore(threeStepTable())
	s.setStepIndex(2)

	next := Table{
		StepLabels: []string{"a", "b"},
		Rows:       []Row{{Label: "Z", Values: []float64{1, 2}}},
	}
	if err := s.ReplaceTable(next); err != nil {
		t.Fatalf("ReplaceTable() error = %v", err)
	}
	if s.StepIndex() != 0 {
		t.Errorf("StepIndex = %d, want 0", s.StepIndex())
	}
	if s.StepCount() != 2 || s.RowCount() != 1 {
		t.Errorf("table not replaced: steps=%d rows=%d", s.StepCount(), s.RowCount())
	}
}

func TestStore_ReplaceTableRejectsBadShape(t *testing.T) {
	s := NewStore(threeStepTable())
	bad := Table{
		StepLabels: []string{"a", "b"},
		Rows:       []Row{{Label: "Z", Values: []float64{1}}},
	}
	if err := s.ReplaceTable(bad); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("ReplaceTable() error = %v, want ErrShapeMismatch", err)
	}
	if s.StepCount() != 3 {
		t.Error("table replaced despite error")
	}
}

func TestStore_TableIsACopy(t *testing.T) {
	s := NewStore(threeStepTable())
	tbl := s.Table()
	tbl.Rows[0].Values[0] = 99
	tbl.StepLabels[0] = "changed"

	again := s.Table()
	if again.Rows[0].Values[0] != 1 || again.StepLabels[0] != "s1" {
		t.Error("Table() exposes internal state")
	}
}
