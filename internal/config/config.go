package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/imishinist/nnresults/internal/format"
	"github.com/imishinist/nnresults/internal/models"
)

// Databricks domain suffixes for URL detection
var databricksDomains = []string{
	".cloud.databricks.com",
	".azuredatabricks.net",
	".gcp.databricks.com",
}

// Valid configuration values
var (
	validOutputs = map[string]bool{
		format.OutputTable: true, format.OutputJSON: true, format.OutputYAML: true,
	}
	validTimeResolutions = map[string]bool{
		"1m": true, "5m": true, "1h": true, "1d": true,
	}
	validTimeAlignments = map[string]bool{
		"floor": true, "ceil": true, "round": true,
	}
	validStepModes = map[string]bool{
		"auto": true, "timestamp": true, "sequence": true,
	}
)

const maxPrecision = 10

type Config struct {
	Source          string
	Output          string
	Precision       int
	Metric          string
	TrackingURI     string
	ExperimentID    string
	TimeResolution  string
	TimeAlignment   string
	StepMode        string
	DatabricksHost  string
	DatabricksToken string
}

func New() *Config {
	return &Config{
		Source:          viper.GetString("source"),
		Output:          viper.GetString("output"),
		Precision:       viper.GetInt("precision"),
		Metric:          viper.GetString("metric"),
		TrackingURI:     viper.GetString("tracking_uri"),
		ExperimentID:    viper.GetString("experiment_id"),
		TimeResolution:  viper.GetString("time_resolution"),
		TimeAlignment:   viper.GetString("time_alignment"),
		StepMode:        viper.GetString("step_mode"),
		DatabricksHost:  viper.GetString("databricks_host"),
		DatabricksToken: viper.GetString("databricks_token"),
	}
}

// Validate checks the settings every command depends on.
func (c *Config) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("source is required (--source or NNRESULTS_SOURCE)")
	}

	if !validOutputs[c.Output] {
		return fmt.Errorf("invalid output format: %s (valid: table, json, yaml)", c.Output)
	}

	if c.Precision < 0 || c.Precision > maxPrecision {
		return fmt.Errorf("invalid precision: %d (valid: 0-%d)", c.Precision, maxPrecision)
	}

	if _, err := models.ParseMetricName(c.Metric); err != nil {
		return err
	}

	return nil
}

// ValidateTracking checks the settings needed to talk to MLflow.
func (c *Config) ValidateTracking() error {
	if c.TrackingURI == "" {
		return fmt.Errorf("tracking URI is required")
	}

	// Validate time resolution
	if !validTimeResolutions[c.TimeResolution] {
		return fmt.Errorf("invalid time resolution: %s (valid: 1m, 5m, 1h, 1d)", c.TimeResolution)
	}

	// Validate time alignment
	if !validTimeAlignments[c.TimeAlignment] {
		return fmt.Errorf("invalid time alignment: %s (valid: floor, ceil, round)", c.TimeAlignment)
	}

	// Validate step mode
	if !validStepModes[c.StepMode] {
		return fmt.Errorf("invalid step mode: %s (valid: auto, timestamp, sequence)", c.StepMode)
	}

	return nil
}

// MetricName returns the configured grouping metric.
func (c *Config) MetricName() models.MetricName {
	m, err := models.ParseMetricName(c.Metric)
	if err != nil {
		return models.MetricAccuracy
	}
	return m
}

// TimeConfig returns the time settings used when publishing metric history.
func (c *Config) TimeConfig() models.TimeConfig {
	return models.TimeConfig{
		Resolution: c.TimeResolution,
		Alignment:  c.TimeAlignment,
		StepMode:   c.StepMode,
	}
}

// NeedsTracking reports whether reading the source requires an MLflow client.
func (c *Config) NeedsTracking() bool {
	return strings.HasPrefix(c.Source, "runs:/")
}

// IsDatabricks checks if the tracking URI points to Databricks
func (c *Config) IsDatabricks() bool {
	if c.TrackingURI == "databricks" {
		return true
	}

	if strings.HasPrefix(c.TrackingURI, "databricks://") {
		return true
	}

	if strings.HasPrefix(c.TrackingURI, "https://") {
		return isDatabricksHost(extractHostFromURL(c.TrackingURI))
	}

	return false
}

func extractHostFromURL(url string) string {
	host := strings.TrimPrefix(url, "https://")
	if idx := strings.Index(host, "/"); idx != -1 {
		host = host[:idx]
	}
	return host
}

func isDatabricksHost(host string) bool {
	for _, domain := range databricksDomains {
		if strings.HasSuffix(host, domain) {
			return true
		}
	}
	return false
}

// GetDatabricksProfile extracts the profile name from databricks://{profile} URI
func (c *Config) GetDatabricksProfile() string {
	if !strings.HasPrefix(c.TrackingURI, "databricks://") {
		return ""
	}

	profile := strings.TrimPrefix(c.TrackingURI, "databricks://")
	if idx := strings.Index(profile, "/"); idx != -1 {
		profile = profile[:idx]
	}
	return profile
}
