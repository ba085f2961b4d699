package insights

import "watchdog/internal/analytics"

// ChartData is a renderer-agnostic chart document. The web frontend
// feeds it straight into a charting library; the CLI writes it out as
// a JSON artifact next to the report.
type ChartData struct {
	Title    string         `json:"title"`
	Type     string         `json:"type"`
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

// ChartDataset is one series within a chart.
type ChartDataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// chartFromRanking turns the top aggregates of a ranking into a bar
// chart of their summed metric. Returns nil when the ranking is empty
// so callers can omit the chart entirely.
func chartFromRanking(title, seriesLabel string, ranking []analytics.Aggregate, limit int) *ChartData {
	if len(ranking) == 0 {
		return nil
	}
	top := ranking
	if limit > 0 && len(top) > limit {
		top = top[:limit]
	}

	labels := make([]string, len(top))
	data := make([]float64, len(top))
	for i, agg := range top {
		labels[i] = agg.Name
		data[i] = agg.Sum
	}

	return &ChartData{
		Title:  title,
		Type:   "bar",
		Labels: labels,
		Datasets: []ChartDataset{
			{Label: seriesLabel, Data: data},
		},
	}
}
