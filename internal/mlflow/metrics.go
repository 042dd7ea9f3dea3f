package mlflow

import (
	"context"
	"fmt"
	"time"

	"github.com/databricks/databricks-sdk-go/service/ml"

	"github.com/imishinist/nnresults/internal/models"
)

func (c *Client) LogMetric(ctx context.Context, runID string, metric models.Metric) error {
	logMetric := ml.LogMetric{
		RunId: runID,
		Key:   metric.Key,
		Value: metric.Value,
		Step:  metric.Step,
	}

	if metric.Timestamp.IsZero() {
		logMetric.Timestamp = time.Now().UnixMilli()
	} else {
		logMetric.Timestamp = metric.Timestamp.UnixMilli()
	}

	if err := c.client.Experiments.LogMetric(ctx, logMetric); err != nil {
		return fmt.Errorf("failed to log metric %s: %w", metric.Key, err)
	}

	return nil
}

// LogMetrics logs metrics one by one, stopping at the first failure.
func (c *Client) LogMetrics(ctx context.Context, runID string, metrics []models.Metric) error {
	for _, metric := range metrics {
		if err := c.LogMetric(ctx, runID, metric); err != nil {
			return err
		}
	}
	return nil
}
