package mlflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"github.com/imishinist/nnresults/internal/models"
	"github.com/imishinist/nnresults/internal/pipeline"
	timeutils "github.com/imishinist/nnresults/internal/time"
)

// Tracker is the part of the MLflow API a summary is published through.
type Tracker interface {
	CreateRun(ctx context.Context, config *models.RunConfig) (*models.RunInfo, error)
	LogParams(ctx context.Context, runID string, params map[string]string) error
	LogMetrics(ctx context.Context, runID string, metrics []models.Metric) error
	UpdateRun(ctx context.Context, runID string, status models.RunStatus) error
}

type PublishOptions struct {
	Run        models.RunConfig
	TimeConfig models.TimeConfig
	// History also logs the loss of every record as a metric history.
	History bool
	Now     time.Time
}

var _ Tracker = (*Client)(nil)

var invalidKeyChars = regexp.MustCompile(`[^A-Za-z0-9_\-. /]`)

// MetricKey builds an MLflow-safe metric key.
func MetricKey(parts ...string) string {
	key := ""
	for i, p := range parts {
		if i > 0 {
			key += "."
		}
		key += invalidKeyChars.ReplaceAllString(p, "_")
	}
	return key
}

// SummaryMetrics converts a report into MLflow metrics. Undefined averages
// are left out.
func SummaryMetrics(report *pipeline.Report, opts PublishOptions) ([]models.Metric, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	var metrics []models.Metric
	for _, e := range report.Summary {
		if !e.Mean.Defined() {
			continue
		}
		metrics = append(metrics, models.Metric{
			Key:       MetricKey("avg_" + string(e.Metric)),
			Value:     e.Mean.Value(),
			Timestamp: now,
		})
	}

	for _, g := range report.Grouped {
		if !g.Mean.Defined() {
			continue
		}
		metrics = append(metrics, models.Metric{
			Key:       MetricKey(string(report.Metric), g.Model),
			Value:     g.Mean.Value(),
			Timestamp: now,
		})
	}

	if opts.History {
		history, err := timeutils.BuildHistory(string(models.MetricLoss), report.Series, opts.TimeConfig, now)
		if err != nil {
			return nil, fmt.Errorf("failed to build loss history: %w", err)
		}
		metrics = append(metrics, history...)
	}

	return metrics, nil
}

// Publish records a report as a new MLflow run. The run is ended FINISHED on
// success and FAILED if logging fails after it was created.
func Publish(ctx context.Context, tracker Tracker, report *pipeline.Report, opts PublishOptions) (*models.RunInfo, error) {
	if report.Dataset.Empty() {
		return nil, fmt.Errorf("no records to publish from %s", report.Dataset.Source())
	}

	metrics, err := SummaryMetrics(report, opts)
	if err != nil {
		return nil, err
	}

	runInfo, err := tracker.CreateRun(ctx, &opts.Run)
	if err != nil {
		return nil, err
	}

	params := map[string]string{
		"source":       report.Dataset.Source(),
		"records":      strconv.Itoa(report.Dataset.Len()),
		"group_metric": string(report.Metric),
	}

	logErr := tracker.LogParams(ctx, runInfo.RunID, params)
	if logErr == nil {
		logErr = tracker.LogMetrics(ctx, runInfo.RunID, metrics)
	}

	if logErr != nil {
		slog.Debug("Marking run as failed", "run_id", runInfo.RunID, "error", logErr)
		if err := tracker.UpdateRun(ctx, runInfo.RunID, models.RunStatusFailed); err != nil {
			return nil, errors.Join(logErr, err)
		}
		return nil, logErr
	}

	if err := tracker.UpdateRun(ctx, runInfo.RunID, models.RunStatusFinished); err != nil {
		return nil, err
	}
	runInfo.Status = models.RunStatusFinished

	slog.Debug("Published summary", "run_id", runInfo.RunID, "metrics", len(metrics))
	return runInfo, nil
}
