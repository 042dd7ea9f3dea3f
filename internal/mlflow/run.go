package mlflow

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/databricks/databricks-sdk-go/service/ml"

	"github.com/imishinist/nnresults/internal/models"
)

func (c *Client) CreateRun(ctx context.Context, config *models.RunConfig) (*models.RunInfo, error) {
	if config.ExperimentID == "" {
		return nil, fmt.Errorf("experiment ID must be provided")
	}

	runName := config.RunName
	if runName == "" {
		runName = "summary-" + time.Now().Format("2006-01-02-15-04-05")
	}

	keys := make([]string, 0, len(config.Tags))
	for key := range config.Tags {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	tags := make([]ml.RunTag, 0, len(keys)+2)
	for _, key := range keys {
		tags = append(tags, ml.RunTag{Key: key, Value: config.Tags[key]})
	}

	tags = append(tags, ml.RunTag{
		Key:   "mlflow.runName",
		Value: runName,
	})

	if config.Description != "" {
		tags = append(tags, ml.RunTag{
			Key:   "mlflow.note.content",
			Value: config.Description,
		})
	}

	startTime := time.Now()
	resp, err := c.client.Experiments.CreateRun(ctx, ml.CreateRun{
		ExperimentId: config.ExperimentID,
		RunName:      runName,
		StartTime:    startTime.UnixMilli(),
		Tags:         tags,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	return &models.RunInfo{
		RunID:        resp.Run.Info.RunId,
		ExperimentID: config.ExperimentID,
		RunName:      runName,
		Status:       models.RunStatusRunning,
		StartTime:    startTime,
	}, nil
}

func (c *Client) UpdateRun(ctx context.Context, runID string, status models.RunStatus) error {
	var mlStatus ml.UpdateRunStatus
	switch status {
	case models.RunStatusRunning:
		mlStatus = ml.UpdateRunStatusRunning
	case models.RunStatusFinished:
		mlStatus = ml.UpdateRunStatusFinished
	case models.RunStatusFailed:
		mlStatus = ml.UpdateRunStatusFailed
	case models.RunStatusKilled:
		mlStatus = ml.UpdateRunStatusKilled
	default:
		mlStatus = ml.UpdateRunStatusFinished
	}

	updateRun := ml.UpdateRun{
		RunId:  runID,
		Status: mlStatus,
	}

	if status.Terminal() {
		updateRun.EndTime = time.Now().UnixMilli()
	}

	if _, err := c.client.Experiments.UpdateRun(ctx, updateRun); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	return nil
}
