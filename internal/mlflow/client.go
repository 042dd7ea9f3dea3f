package mlflow

import (
	"fmt"
	"net/http"

	"github.com/databricks/databricks-sdk-go"

	"github.com/imishinist/nnresults/internal/config"
)

type Client struct {
	client     *databricks.WorkspaceClient
	config     *config.Config
	httpClient *http.Client
}

func NewClient(cfg *config.Config) (*Client, error) {
	if err := cfg.ValidateTracking(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var databricksConfig *databricks.Config

	if cfg.IsDatabricks() {
		databricksConfig = &databricks.Config{}

		if cfg.TrackingURI == "databricks" {
			if cfg.DatabricksHost != "" {
				databricksConfig.Host = cfg.DatabricksHost
			}
		} else if profile := cfg.GetDatabricksProfile(); profile != "" {
			databricksConfig.Profile = profile
		} else {
			databricksConfig.Host = cfg.TrackingURI
		}

		if cfg.DatabricksToken != "" {
			databricksConfig.Token = cfg.DatabricksToken
		}

		if databricksConfig.Host == "" && databricksConfig.Profile == "" {
			return nil, fmt.Errorf("Databricks host or profile is required when using Databricks MLflow. Set DATABRICKS_HOST environment variable, use a full Databricks URL as tracking URI, or specify a profile with databricks://{profile}")
		}
	} else {
		// Plain MLflow servers do not authenticate; the SDK still wants a token.
		databricksConfig = &databricks.Config{
			Host:  cfg.TrackingURI,
			Token: "dummy-token-for-regular-mlflow",
		}
	}

	client, err := databricks.NewWorkspaceClient(databricksConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create MLflow client: %w", err)
	}

	return &Client{
		client:     client,
		config:     cfg,
		httpClient: &http.Client{},
	}, nil
}

// NewHTTPClient returns a client that talks to a plain MLflow server through
// its REST API only. It can read artifacts but not log to runs.
func NewHTTPClient(cfg *config.Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{config: cfg, httpClient: httpClient}
}
