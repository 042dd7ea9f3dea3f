package models

import "time"

// RunConfig describes the MLflow run a summary is published to.
type RunConfig struct {
	ExperimentID string            `json:"experiment_id"`
	RunName      string            `json:"run_name,omitempty"`
	Tags         map[string]string `json:"tags,omitempty"`
	Description  string            `json:"description,omitempty"`
}

type RunInfo struct {
	RunID        string    `json:"run_id"`
	ExperimentID string    `json:"experiment_id"`
	RunName      string    `json:"run_name"`
	Status       RunStatus `json:"status"`
	StartTime    time.Time `json:"start_time"`
}

type RunStatus string

const (
	RunStatusRunning  RunStatus = "RUNNING"
	RunStatusFinished RunStatus = "FINISHED"
	RunStatusFailed   RunStatus = "FAILED"
	RunStatusKilled   RunStatus = "KILLED"
)

func (s RunStatus) Terminal() bool {
	return s == RunStatusFinished || s == RunStatusFailed || s == RunStatusKilled
}
