package core

import (
	"testing"
)

// testSample is registered under the default key so Service works in
// package tests without importing the samples package.
var testSample = SampleDefinition{
	Key:         DefaultSampleKey,
	Label:       "test sample",
	Metric:      "Test Metric",
	LabelHeader: DefaultLabelHeader,
	Table: Table{
		StepLabels: []string{"Jan", "Feb", "Mar", "Apr"},
		Rows: []Row{
			{Label: "A", Values: []float64{1, 4, 2, 9}},
			{Label: "B", Values: []float64{3, 3, 5, 1}},
			{Label: "C", Values: []float64{2, 5, 5, 8}},
		},
	},
}

func init() {
	RegisterSample(testSample)
}

func threeStepTable() Table {
	return Table{
		StepLabels: []string{"s1", "s2", "s3"},
		Rows: []Row{
			{Label: "A", Values: []float64{1, 2, 3}},
			{Label: "B", Values: []float64{3, 2, 1}},
		},
	}
}

func newTestSession(t *testing.T) (*Session, *ManualTimer) {
	t.Helper()
	timer := NewManualTimer()
	sess := NewSession(SessionOptions{
		ID:     "test",
		Sample: testSample,
		Timer:  timer,
	})
	t.Cleanup(sess.Close)
	return sess, timer
}

func rowLabels(rows []RankedRow) []string {
	labels := make([]string, len(rows))
	for i, r := range rows {
		labels[i] = r.Label
	}
	return labels
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
