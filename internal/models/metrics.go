package models

import (
	"fmt"
	"time"
)

// MetricName identifies one of the tracked numeric fields of a Record.
type MetricName string

const (
	MetricAccuracy     MetricName = "accuracy"
	MetricPrecision    MetricName = "precision"
	MetricRecall       MetricName = "recall"
	MetricLoss         MetricName = "loss"
	MetricTrainingTime MetricName = "trainingTime"
)

// MetricNames lists the tracked metrics in declaration order.
var MetricNames = []MetricName{
	MetricAccuracy,
	MetricPrecision,
	MetricRecall,
	MetricLoss,
	MetricTrainingTime,
}

// Column returns the input file header for the metric.
func (m MetricName) Column() string {
	if m == MetricTrainingTime {
		return "tiempo_entrenamiento"
	}
	return string(m)
}

// ParseMetricName accepts a metric name or its input column name.
func ParseMetricName(s string) (MetricName, error) {
	for _, m := range MetricNames {
		if s == string(m) || s == m.Column() {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown metric: %s (valid: accuracy, precision, recall, loss, trainingTime)", s)
}

// Metric is a single MLflow metric data point.
type Metric struct {
	Key       string    `json:"key"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
	Step      int64     `json:"step"`
}

type TimeConfig struct {
	Resolution string // 1m, 5m, 1h, 1d
	Alignment  string // floor, ceil, round
	StepMode   string // auto, timestamp, sequence
}
