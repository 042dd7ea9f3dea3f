package cmd

import (
	"github.com/spf13/cobra"

	"github.com/imishinist/nnresults/internal/config"
	"github.com/imishinist/nnresults/internal/format"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the average of every metric",
	Long:  "Show the average of accuracy, precision, recall, loss and training time across all records",
	Example: `  # Summarize a local file
  nnresults summary --source datos.csv

  # Summarize an MLflow run artifact as JSON
  nnresults summary --source runs:/<run-id>/datos.csv -o json`,
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	cfg := config.New()
	report, err := loadReport(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if reportEmpty(out, cfg, report) {
		return nil
	}

	if cfg.Output != format.OutputTable {
		return format.Encode(out, cfg.Output, format.SummaryViews(report.Summary, cfg.Precision))
	}

	table := &format.Table{
		Headers:    []string{"METRIC", "AVERAGE"},
		RightAlign: map[int]bool{1: true},
	}
	for _, e := range report.Summary {
		table.Append(string(e.Metric), format.MeanString(e.Mean, cfg.Precision))
	}
	return table.Render(out)
}
