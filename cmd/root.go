package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "nnresults",
	Short: "Neural network training results summary tool",
	Long: `A command line tool that loads neural network training run results
(id, fecha, modelo, dataset, accuracy, precision, recall, loss, tiempo_entrenamiento)
and reports averages per metric and per model.

The source can be a local file, an http(s) URL, or an MLflow run artifact
given as runs:/<run_id>/<path>.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if viper.GetBool("debug") {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("source", "", "Results file, URL or runs:/<run_id>/<path> (overrides NNRESULTS_SOURCE)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (table/json/yaml)")
	rootCmd.PersistentFlags().Int("precision", 3, "Decimals shown for averages")
	rootCmd.PersistentFlags().String("metric", "", "Metric averaged per model (accuracy/precision/recall/loss/trainingTime)")
	rootCmd.PersistentFlags().String("tracking-uri", "", "MLflow tracking URI (overrides MLFLOW_TRACKING_URI)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	viper.BindPFlag("source", rootCmd.PersistentFlags().Lookup("source"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("precision", rootCmd.PersistentFlags().Lookup("precision"))
	viper.BindPFlag("metric", rootCmd.PersistentFlags().Lookup("metric"))
	viper.BindPFlag("tracking_uri", rootCmd.PersistentFlags().Lookup("tracking-uri"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() {
	// Environment variables
	viper.SetEnvPrefix("NNRESULTS")
	viper.AutomaticEnv()

	viper.BindEnv("tracking_uri", "NNRESULTS_TRACKING_URI", "MLFLOW_TRACKING_URI")
	viper.BindEnv("experiment_id", "NNRESULTS_EXPERIMENT_ID", "MLFLOW_EXPERIMENT_ID")
	viper.BindEnv("databricks_host", "DATABRICKS_HOST")
	viper.BindEnv("databricks_token", "DATABRICKS_TOKEN")

	// Set defaults
	viper.SetDefault("source", "datos.csv")
	viper.SetDefault("output", "table")
	viper.SetDefault("precision", 3)
	viper.SetDefault("metric", "accuracy")
	viper.SetDefault("tracking_uri", "http://localhost:5000")
	viper.SetDefault("time_resolution", "1d")
	viper.SetDefault("time_alignment", "floor")
	viper.SetDefault("step_mode", "auto")
}
