package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/imishinist/nnresults/internal/config"
	"github.com/imishinist/nnresults/internal/format"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Compare models by the average of one metric",
	Long: `Group records by model and show the average of one metric per model,
in the order each model first appears in the source.`,
	Example: `  # Average accuracy per model
  nnresults models --source datos.csv

  # Average loss per model
  nnresults models --source datos.csv --metric loss`,
	RunE: runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
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
		return format.Encode(out, cfg.Output, format.ModelViews(report.Grouped, cfg.Precision))
	}

	table := &format.Table{
		Headers:    []string{"MODEL", fmt.Sprintf("AVG %s", report.Metric), "RUNS"},
		RightAlign: map[int]bool{1: true, 2: true},
	}
	for _, g := range report.Grouped {
		table.Append(g.Model, format.MeanString(g.Mean, cfg.Precision), strconv.Itoa(g.Mean.Count))
	}
	return table.Render(out)
}
