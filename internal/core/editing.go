package core

import (
	"fmt"
	"strings"
)

// AddRowText adds a row from form input: a label and a comma-separated list
// of values. Entries that aren't numbers are dropped before the shape check,
// so "1,x,3" on a three-step table is a shape mismatch.
func AddRowText(s *Store, label, valuesText string) error {
	if strings.TrimSpace(label) == "" || strings.TrimSpace(valuesText) == "" {
		return fmt.Errorf("add row: label and values are required: %w", ErrInvalidInput)
	}
	return s.AddRow(label, ParseValues(valuesText))
}

// RemoveRow deletes the row at index.
func RemoveRow(s *Store, index int) (Row, error) {
	return s.RemoveRow(index)
}
