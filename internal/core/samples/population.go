package samples

import "github.com/JonMunkholm/racechart/internal/core"

func init() {
	registerPopulation()
}

// registerPopulation adds a small yearly dataset with a lead change and a tie,
// handy for checking rank stability by eye.
func registerPopulation() {
	core.RegisterSample(core.SampleDefinition{
		Key:         "cities",
		Label:       "Metro population, yearly",
		Metric:      "Population (millions)",
		LabelHeader: "City",
		Format:      core.FixedFormat(1),
		Table: core.Table{
			StepLabels: []string{"2000", "2005", "2010", "2015", "2020"},
			Rows: []core.Row{
				{Label: "Tokyo", Values: []float64{34.5, 35.6, 36.8, 37.3, 37.4}},
				{Label: "Delhi", Values: []float64{15.7, 19.0, 22.2, 25.9, 30.3}},
				{Label: "Shanghai", Values: []float64{13.6, 16.4, 20.3, 23.5, 27.1}},
				{Label: "Sao Paulo", Values: []float64{17.0, 18.3, 19.7, 20.9, 22.0}},
				{Label: "Mexico City", Values: []float64{18.5, 19.3, 20.1, 21.3, 22.0}},
			},
		},
	})
}
