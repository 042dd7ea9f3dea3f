package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/imishinist/nnresults/internal/config"
	"github.com/imishinist/nnresults/internal/format"
	"github.com/imishinist/nnresults/internal/loader"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List the loaded records",
	Long:  "List every record loaded from the source, or the loss over time with --series",
	RunE:  runRecords,
}

func init() {
	rootCmd.AddCommand(recordsCmd)

	recordsCmd.Flags().Bool("series", false, "Show only the date and loss of each record")
}

func runRecords(cmd *cobra.Command, args []string) error {
	cfg := config.New()
	series, _ := cmd.Flags().GetBool("series")

	report, err := loadReport(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if reportEmpty(out, cfg, report) {
		return nil
	}

	if series {
		if cfg.Output != format.OutputTable {
			return format.Encode(out, cfg.Output, format.SeriesViews(report.Series))
		}
		table := &format.Table{
			Headers:    []string{loader.ColumnDate, "loss"},
			RightAlign: map[int]bool{1: true},
		}
		for _, p := range report.Series {
			table.Append(p.Date, strconv.FormatFloat(p.Value, 'f', -1, 64))
		}
		return table.Render(out)
	}

	records := report.Dataset.Records()
	if cfg.Output != format.OutputTable {
		return format.Encode(out, cfg.Output, records)
	}

	table := &format.Table{
		Headers:    loader.RequiredColumns,
		RightAlign: map[int]bool{4: true, 5: true, 6: true, 7: true, 8: true},
	}
	for _, r := range records {
		table.Append(
			r.ID.String(),
			r.Date,
			r.Model,
			r.Dataset,
			r.Accuracy.String(),
			r.Precision.String(),
			r.Recall.String(),
			r.Loss.String(),
			r.TrainingTime.String(),
		)
	}
	return table.Render(out)
}
