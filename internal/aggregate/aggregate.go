package aggregate

import (
	"math"

	"github.com/imishinist/nnresults/internal/models"
)

// ZeroCoerce is the numeric policy shared by every aggregate: numbers count
// as themselves, anything else (absent, empty, text) counts as 0.
func ZeroCoerce(v models.Value) float64 {
	if v.Kind != models.KindNumber || math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
		return 0
	}
	return v.Num
}

// MeanOf averages one metric over records. The result is undefined when
// records is empty.
func MeanOf(records []models.Record, metric models.MetricName) models.Mean {
	var mean models.Mean
	for _, r := range records {
		mean.Sum += ZeroCoerce(r.Field(metric))
		mean.Count++
	}
	return mean
}

// MetricSummary averages every tracked metric across all records.
func MetricSummary(records []models.Record) models.MetricSummary {
	summary := make(models.MetricSummary, 0, len(models.MetricNames))
	for _, m := range models.MetricNames {
		summary = append(summary, models.MetricAverage{
			Metric: m,
			Mean:   MeanOf(records, m),
		})
	}
	return summary
}

// GroupedAverage averages metric per model label. Groups are returned in the
// order their label first appears in records.
func GroupedAverage(records []models.Record, metric models.MetricName) []models.ModelAverage {
	grouped := make(map[string]int)
	result := make([]models.ModelAverage, 0)

	for _, r := range records {
		i, exists := grouped[r.Model]
		if !exists {
			i = len(result)
			grouped[r.Model] = i
			result = append(result, models.ModelAverage{Model: r.Model})
		}
		result[i].Mean.Sum += ZeroCoerce(r.Field(metric))
		result[i].Mean.Count++
	}

	return result
}

// LossSeries returns the date → loss points of records in input order.
func LossSeries(records []models.Record) []models.SeriesPoint {
	points := make([]models.SeriesPoint, 0, len(records))
	for _, r := range records {
		points = append(points, models.SeriesPoint{
			Date:  r.Date,
			Value: ZeroCoerce(r.Loss),
		})
	}
	return points
}
