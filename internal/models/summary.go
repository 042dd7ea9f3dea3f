package models

import "math"

// Mean is an arithmetic mean kept as sum and count so that an average over
// zero values stays distinguishable from a real 0.
type Mean struct {
	Sum   float64
	Count int
}

func (m Mean) Defined() bool {
	return m.Count > 0
}

// Value returns the mean, or NaN when no values contributed.
func (m Mean) Value() float64 {
	if m.Count == 0 {
		return math.NaN()
	}
	return m.Sum / float64(m.Count)
}

// MetricAverage is one row of a MetricSummary.
type MetricAverage struct {
	Metric MetricName
	Mean   Mean
}

// MetricSummary holds the global average of every tracked metric, in
// declaration order.
type MetricSummary []MetricAverage

// Get returns the mean for a metric; ok is false if the metric is unknown.
func (s MetricSummary) Get(name MetricName) (Mean, bool) {
	for _, e := range s {
		if e.Metric == name {
			return e.Mean, true
		}
	}
	return Mean{}, false
}

// ModelAverage is the average of one metric over the records of one model.
type ModelAverage struct {
	Model string
	Mean  Mean
}

// SeriesPoint is one point of the loss-over-time view.
type SeriesPoint struct {
	Date  string
	Value float64
}
