package application

import (
	"fmt"
	"io"
	"strconv"

	"github.com/JonMunkholm/racechart/internal/core"
	"github.com/olekukonko/tablewriter"
)

// PrintRace writes the ranking at every step as a table, in step order.
func PrintRace(w io.Writer, t core.Table, metric string) error {
	if len(t.StepLabels) == 0 {
		_, err := fmt.Fprintf(w, "%s: no steps\n", metric)
		return err
	}

	for i, step := range t.StepLabels {
		if _, err := fmt.Fprintf(w, "%s - %s\n", metric, step); err != nil {
			return err
		}

		table := tablewriter.NewWriter(w)
		table.Header("Rank", "Name", "Value")
		for _, r := range core.Rank(t, i) {
			if err := table.Append(strconv.Itoa(r.Rank), r.Label, FormatValue(r.Value)); err != nil {
				return fmt.Errorf("step %s: %w", step, err)
			}
		}
		if err := table.Render(); err != nil {
			return fmt.Errorf("step %s: %w", step, err)
		}
	}
	return nil
}
