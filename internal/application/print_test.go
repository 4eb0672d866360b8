package application

import (
	"bytes"
	"strings"
	"testing"

	"github.com/JonMunkholm/racechart/internal/core"
)

func TestPrintRace(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintRace(&buf, tuiSample.Table, "Goals"); err != nil {
		t.Fatalf("PrintRace: %v", err)
	}
	out := buf.String()

	for _, step := range tuiSample.Table.StepLabels {
		if !strings.Contains(out, "Goals - "+step) {
			t.Errorf("output missing step %s", step)
		}
	}

	// Apr ranks A (9), C (8), B (1).
	apr := out[strings.Index(out, "Goals - Apr"):]
	a, c, b := strings.Index(apr, " A "), strings.Index(apr, " C "), strings.Index(apr, " B ")
	if a < 0 || !(a < c && c < b) {
		t.Errorf("Apr table not in rank order:\n%s", apr)
	}
}

func TestPrintRace_NoSteps(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintRace(&buf, core.Table{}, "Empty"); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "Empty: no steps\n" {
		t.Errorf("output = %q", got)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{21.4, "21.4"},
		{1234567.5, "1,234,567.5"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
