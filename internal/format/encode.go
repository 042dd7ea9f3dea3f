package format

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/imishinist/nnresults/internal/models"
)

// Output formats
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// MetricView is the serialized form of one MetricSummary entry.
type MetricView struct {
	Metric  string   `json:"metric" yaml:"metric"`
	Average *float64 `json:"average" yaml:"average"`
}

// ModelView is the serialized form of one per-model average.
type ModelView struct {
	Model   string   `json:"model" yaml:"model"`
	Average *float64 `json:"average" yaml:"average"`
	Count   int      `json:"count" yaml:"count"`
}

// SeriesView is the serialized form of one loss point.
type SeriesView struct {
	Date string  `json:"fecha" yaml:"fecha"`
	Loss float64 `json:"loss" yaml:"loss"`
}

func SummaryViews(summary models.MetricSummary, places int) []MetricView {
	views := make([]MetricView, 0, len(summary))
	for _, e := range summary {
		views = append(views, MetricView{
			Metric:  string(e.Metric),
			Average: RoundedMean(e.Mean, places),
		})
	}
	return views
}

func ModelViews(groups []models.ModelAverage, places int) []ModelView {
	views := make([]ModelView, 0, len(groups))
	for _, g := range groups {
		views = append(views, ModelView{
			Model:   g.Model,
			Average: RoundedMean(g.Mean, places),
			Count:   g.Mean.Count,
		})
	}
	return views
}

func SeriesViews(points []models.SeriesPoint) []SeriesView {
	views := make([]SeriesView, 0, len(points))
	for _, p := range points {
		views = append(views, SeriesView{Date: p.Date, Loss: p.Value})
	}
	return views
}

// Encode writes v as JSON or YAML.
func Encode(w io.Writer, output string, v interface{}) error {
	switch output {
	case OutputJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
	case OutputYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unsupported output format: %s (supported: json, yaml)", output)
	}
	return nil
}
