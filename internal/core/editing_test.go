package core

import (
	"errors"
	"testing"
)

func TestAddRowText(t *testing.T) {
	tests := []struct {
		name    string
		label   string
		values  string
		wantErr error
		want    []float64
	}{
		{name: "valid", label: "C", values: "7,8,9", want: []float64{7, 8, 9}},
		{name: "spaces", label: "C", values: " 7 , 8 , 9 ", want: []float64{7, 8, 9}},
		{name: "empty label", label: "", values: "1,2,3", wantErr: ErrInvalidInput},
		{name: "empty values", label: "C", values: "   ", wantErr: ErrInvalidInput},
		{name: "nothing numeric", label: "C", values: "a,b,c", wantErr: ErrInvalidInput},
		{name: "too few", label: "C", values: "1,2", wantErr: ErrShapeMismatch},
		{name: "junk dropped then short", label: "C", values: "1,x,3", wantErr: ErrShapeMismatch},
		{name: "junk dropped to fit", label: "C", values: "1,x,2,3", want: []float64{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(threeStepTable())
			err := AddRowText(store, tt.label, tt.values)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				if store.RowCount() != 2 {
					t.Errorf("failed add changed row count to %d", store.RowCount())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			rows := store.Table().Rows
			if last := rows[len(rows)-1]; !equalFloats(last.Values, tt.want) {
				t.Errorf("values = %v, want %v", last.Values, tt.want)
			}
		})
	}
}
