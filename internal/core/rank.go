package core

import (
	"math"
	"sort"
)

// Palette is the bar colour cycle. A row's colour is chosen by its position
// in the table, so it keeps the same colour however its rank changes.
var Palette = []string{
	"#3b82f6", // blue
	"#ef4444", // red
	"#10b981", // green
	"#f59e0b", // amber
	"#8b5cf6", // violet
	"#06b6d4", // cyan
	"#84cc16", // lime
	"#f97316", // orange
}

// RankedRow is a row's standing at one time step.
type RankedRow struct {
	Label      string  `json:"label"`
	Value      float64 `json:"value"`
	ColorIndex int     `json:"color_index"`
	Color      string  `json:"color"`
	Rank       int     `json:"rank"`
	Position   int     `json:"position"`
}

// Rank orders the table's rows by descending value at stepIndex.
//
// Rows with equal values keep their table order. A step outside a row's
// values counts as 0.
func Rank(t Table, stepIndex int) []RankedRow {
	ranked := make([]RankedRow, len(t.Rows))
	for i, r := range t.Rows {
		var v float64
		if stepIndex >= 0 && stepIndex < len(r.Values) {
			v = r.Values[stepIndex]
		}
		ci := i % len(Palette)
		ranked[i] = RankedRow{
			Label:      r.Label,
			Value:      v,
			ColorIndex: ci,
			Color:      Palette[ci],
			Position:   i,
		}
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Value > ranked[b].Value
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// MaxValue returns the global maximum over every row and step, or 0 when the
// table holds no values. It is the denominator for bar widths.
func MaxValue(t Table) float64 {
	max := math.Inf(-1)
	for _, r := range t.Rows {
		for _, v := range r.Values {
			if v > max {
				max = v
			}
		}
	}
	if math.IsInf(max, -1) {
		return 0
	}
	return max
}

// BarFraction returns value/max clamped to [0, 1].
func BarFraction(value, max float64) float64 {
	if max <= 0 || value <= 0 || math.IsNaN(value) {
		return 0
	}
	f := value / max
	if f > 1 {
		return 1
	}
	return f
}
