package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/imishinist/nnresults/internal/config"
	"github.com/imishinist/nnresults/internal/mlflow"
	"github.com/imishinist/nnresults/internal/models"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish the summary to a new MLflow run",
	Long: `Create an MLflow run holding the metric averages (avg_<metric>), the
per-model averages (<metric>.<model>) and, with --history, the loss of every
record stamped with its fecha.`,
	Example: `  # Publish averages to experiment 1
  nnresults publish --source datos.csv --experiment-id 1

  # Include the loss history aligned to hours
  nnresults publish --source datos.csv --experiment-id 1 --history --time-resolution 1h`,
	RunE: runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)

	publishCmd.Flags().String("experiment-id", "", "Experiment ID (overrides MLFLOW_EXPERIMENT_ID)")
	publishCmd.Flags().String("run-name", "", "Run name (default: timestamp-based)")
	publishCmd.Flags().StringArray("tag", []string{}, "Tags in key=value format")
	publishCmd.Flags().String("description", "", "Run description")
	publishCmd.Flags().Bool("history", false, "Also log the loss of every record as metric history")
	publishCmd.Flags().String("time-resolution", "", "Time resolution for history (1m/5m/1h/1d)")
	publishCmd.Flags().String("time-alignment", "", "Time alignment for history (floor/ceil/round)")
	publishCmd.Flags().String("step-mode", "", "Step mode for history (auto/timestamp/sequence)")
}

func runPublish(cmd *cobra.Command, args []string) error {
	cfg := config.New()
	applyTimeFlags(cmd, cfg)

	runConfig, err := buildRunConfig(cmd, cfg)
	if err != nil {
		return err
	}

	client, err := mlflow.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create MLflow client: %w", err)
	}

	report, err := loadReport(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	history, _ := cmd.Flags().GetBool("history")
	runInfo, err := mlflow.Publish(cmd.Context(), client, report, mlflow.PublishOptions{
		Run:        *runConfig,
		TimeConfig: cfg.TimeConfig(),
		History:    history,
	})
	if err != nil {
		return fmt.Errorf("failed to publish summary: %w", err)
	}

	// Output only run ID for shell scripting
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", runInfo.RunID)

	return nil
}

// applyTimeFlags overrides the configured history settings with any flags given
func applyTimeFlags(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetString("time-resolution"); v != "" {
		cfg.TimeResolution = v
	}
	if v, _ := cmd.Flags().GetString("time-alignment"); v != "" {
		cfg.TimeAlignment = v
	}
	if v, _ := cmd.Flags().GetString("step-mode"); v != "" {
		cfg.StepMode = v
	}
}

// buildRunConfig constructs RunConfig from command flags and configuration
func buildRunConfig(cmd *cobra.Command, cfg *config.Config) (*models.RunConfig, error) {
	experimentID, _ := cmd.Flags().GetString("experiment-id")
	runName, _ := cmd.Flags().GetString("run-name")
	tags, _ := cmd.Flags().GetStringArray("tag")
	description, _ := cmd.Flags().GetString("description")

	if experimentID == "" {
		experimentID = cfg.ExperimentID
	}

	if experimentID == "" {
		return nil, fmt.Errorf("experiment ID must be specified via --experiment-id flag or MLFLOW_EXPERIMENT_ID environment variable")
	}

	tagMap, err := parseTags(tags)
	if err != nil {
		return nil, err
	}
	tagMap["nnresults.source"] = cfg.Source

	return &models.RunConfig{
		ExperimentID: experimentID,
		RunName:      runName,
		Tags:         tagMap,
		Description:  processEscapeSequences(description),
	}, nil
}

// parseTags parses tag strings in key=value format
func parseTags(tags []string) (map[string]string, error) {
	tagMap := make(map[string]string)
	for _, tag := range tags {
		parts := strings.SplitN(tag, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid tag format: %s (expected key=value)", tag)
		}
		tagMap[parts[0]] = parts[1]
	}
	return tagMap, nil
}

// processEscapeSequences processes common escape sequences in strings
func processEscapeSequences(s string) string {
	s = strings.ReplaceAll(s, "\\n", "\n")
	s = strings.ReplaceAll(s, "\\t", "\t")
	s = strings.ReplaceAll(s, "\\r", "\r")
	s = strings.ReplaceAll(s, "\\\\", "\\")
	return s
}
