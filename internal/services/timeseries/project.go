package timeseries

// LabelLayout is the label format for points with a timestamp.
const LabelLayout = "2006-01-02"

// Dataset is one named line of a chart.
type Dataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// Chart is the label/dataset shape consumed by the dashboard charts.
// Labels[i] corresponds to Datasets[k].Data[i] for every k.
type Chart struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Project turns series into a chart with one dataset per field. When fields
// is empty every field present in the series is projected. Missing values are
// reported as zero so indices stay aligned.
func Project(series Series, fields []string) Chart {
	if len(fields) == 0 {
		fields = series.FieldNames()
	}
	chart := Chart{
		Labels:   make([]string, len(series)),
		Datasets: make([]Dataset, len(fields)),
	}
	for k, name := range fields {
		chart.Datasets[k] = Dataset{Label: name, Data: make([]float64, len(series))}
	}
	for i, p := range series {
		chart.Labels[i] = PointLabel(p)
		for k, name := range fields {
			v, _ := p.Field(name)
			chart.Datasets[k].Data[i] = v
		}
	}
	return chart
}

// PointLabel formats the timestamp of p, or returns its source label when the
// timestamp is missing.
func PointLabel(p TimePoint) string {
	if p.HasTime() {
		return p.Timestamp.Format(LabelLayout)
	}
	return p.Label
}
