package samples

import "github.com/JonMunkholm/racechart/internal/core"

// GDPMetric is the default metric caption.
const GDPMetric = "GDP (Trillions USD)"

var months = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

func init() {
	registerGDP()
}

func registerGDP() {
	core.RegisterSample(core.SampleDefinition{
		Key:         core.DefaultSampleKey,
		Label:       "GDP by country, monthly",
		Metric:      GDPMetric,
		LabelHeader: core.DefaultLabelHeader,
		Format:      core.FixedFormat(1),
		Table: core.Table{
			StepLabels: months,
			Rows: []core.Row{
				{Label: "USA", Values: []float64{21.4, 21.6, 21.8, 22.0, 22.2, 22.4, 22.6, 22.8, 23.0, 23.2, 23.4, 23.6}},
				{Label: "China", Values: []float64{14.3, 14.5, 14.7, 14.9, 15.1, 15.3, 15.5, 15.7, 15.9, 16.1, 16.3, 16.5}},
				{Label: "Japan", Values: []float64{5.1, 5.0, 4.9, 4.8, 4.9, 5.0, 5.1, 5.2, 5.1, 5.0, 4.9, 5.0}},
				{Label: "Germany", Values: []float64{3.8, 3.9, 4.0, 4.1, 4.0, 3.9, 3.8, 3.9, 4.0, 4.1, 4.2, 4.3}},
				{Label: "India", Values: []float64{2.9, 3.0, 3.1, 3.2, 3.3, 3.4, 3.5, 3.6, 3.7, 3.8, 3.9, 4.0}},
				{Label: "UK", Values: []float64{2.8, 2.7, 2.6, 2.7, 2.8, 2.9, 3.0, 2.9, 2.8, 2.7, 2.8, 2.9}},
				{Label: "France", Values: []float64{2.6, 2.7, 2.8, 2.7, 2.6, 2.7, 2.8, 2.9, 2.8, 2.7, 2.8, 2.9}},
				{Label: "Brazil", Values: []float64{1.8, 1.9, 2.0, 1.9, 1.8, 1.9, 2.0, 2.1, 2.0, 1.9, 2.0, 2.1}},
			},
		},
	})
}
