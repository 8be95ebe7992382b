package domain

// ChartKind selects how a chart is drawn
type ChartKind string

const (
	ChartBar        ChartKind = "bar"
	ChartPie        ChartKind = "pie"
	ChartStackedBar ChartKind = "stacked_bar"
)

// Series is one named list of values, aligned with Chart.Categories
type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Chart is an already aggregated data set handed to a renderer
type Chart struct {
	Name       string    `json:"name"`
	Title      string    `json:"title"`
	Kind       ChartKind `json:"kind"`
	Categories []string  `json:"categories"`
	Series     []Series  `json:"series"`
}
