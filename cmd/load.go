package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/imishinist/nnresults/internal/config"
	"github.com/imishinist/nnresults/internal/loader"
	"github.com/imishinist/nnresults/internal/mlflow"
	"github.com/imishinist/nnresults/internal/pipeline"
)

// loadReport validates the configuration, loads the source and builds its
// report.
func loadReport(ctx context.Context, cfg *config.Config) (*pipeline.Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opener loader.ArtifactOpener
	if cfg.NeedsTracking() {
		client, err := mlflow.NewClient(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create MLflow client: %w", err)
		}
		opener = client
	}

	src, err := loader.NewSource(cfg.Source, opener)
	if err != nil {
		return nil, err
	}

	report, err := pipeline.New(src, cfg.MetricName()).Report(ctx)
	if err != nil {
		if errors.Is(err, loader.ErrSourceUnavailable) {
			return nil, fmt.Errorf("data not found: %w", err)
		}
		return nil, err
	}

	return report, nil
}

// reportEmpty prints the no-data message for table output and reports
// whether the caller should stop.
func reportEmpty(w io.Writer, cfg *config.Config, report *pipeline.Report) bool {
	if !report.Dataset.Empty() || cfg.Output != "table" {
		return false
	}
	fmt.Fprintf(w, "No data found in %s\n", report.Dataset.Source())
	return true
}
