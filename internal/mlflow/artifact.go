package mlflow

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/databricks/databricks-sdk-go/service/ml"
)

// CredentialsForReadResponse represents the response from credentials-for-read API
type CredentialsForReadResponse struct {
	CredentialInfos []ArtifactCredentialInfo `json:"credential_infos"`
}

// ArtifactCredentialInfo represents artifact credential information
type ArtifactCredentialInfo struct {
	RunID     string       `json:"run_id"`
	Path      string       `json:"path"`
	SignedURI string       `json:"signed_uri"`
	Headers   []HTTPHeader `json:"headers"`
	Type      string       `json:"type"`
}

// HTTPHeader represents HTTP header
type HTTPHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// OpenArtifact downloads an artifact of the given run. The caller closes the
// returned reader.
func (c *Client) OpenArtifact(ctx context.Context, runID, artifactPath string) (io.ReadCloser, error) {
	artifactURI, err := c.getArtifactURI(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get artifact URI: %w", err)
	}

	artifactPath = strings.TrimPrefix(artifactPath, "/")

	switch {
	case strings.HasPrefix(artifactURI, "mlflow-artifacts:/"):
		return c.downloadFromMLflowArtifacts(ctx, artifactURI, artifactPath)
	case strings.HasPrefix(artifactURI, "dbfs:/"):
		return c.downloadFromDBFS(ctx, artifactURI, artifactPath)
	case strings.HasPrefix(artifactURI, "file://"), strings.HasPrefix(artifactURI, "/"):
		return c.openFromLocalFS(artifactURI, artifactPath)
	default:
		return nil, fmt.Errorf("unsupported artifact URI scheme: %s", artifactURI)
	}
}

// getArtifactURI retrieves the artifact URI for a given run
func (c *Client) getArtifactURI(ctx context.Context, runID string) (string, error) {
	if c.client != nil {
		resp, err := c.client.Experiments.GetRun(ctx, ml.GetRunRequest{
			RunId: runID,
		})
		if err != nil {
			return "", fmt.Errorf("failed to get run: %w", err)
		}

		if resp.Run.Info.ArtifactUri == "" {
			return "", fmt.Errorf("artifact URI not found for run %s", runID)
		}

		return resp.Run.Info.ArtifactUri, nil
	}

	return c.getArtifactURIFromHTTP(ctx, runID)
}

// getArtifactURIFromHTTP retrieves artifact URI using HTTP API for regular MLflow server
func (c *Client) getArtifactURIFromHTTP(ctx context.Context, runID string) (string, error) {
	endpoint := fmt.Sprintf("%s/api/2.0/mlflow/runs/get?run_id=%s", c.baseURL(), url.QueryEscape(runID))

	resp, err := c.get(ctx, endpoint, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var runResponse struct {
		Run struct {
			Info struct {
				ArtifactURI string `json:"artifact_uri"`
			} `json:"info"`
		} `json:"run"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&runResponse); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if runResponse.Run.Info.ArtifactURI == "" {
		return "", fmt.Errorf("artifact URI not found for run %s", runID)
	}

	return runResponse.Run.Info.ArtifactURI, nil
}

// downloadFromMLflowArtifacts reads through the MLflow Artifacts Service
func (c *Client) downloadFromMLflowArtifacts(ctx context.Context, artifactURI, artifactPath string) (io.ReadCloser, error) {
	experimentID, runID, err := extractIDsFromArtifactURI(artifactURI)
	if err != nil {
		return nil, fmt.Errorf("failed to extract IDs from artifact URI: %w", err)
	}

	// /api/2.0/mlflow-artifacts/artifacts/{experiment_id}/{run_id}/artifacts/{artifact_path}
	endpoint := fmt.Sprintf("%s/api/2.0/mlflow-artifacts/artifacts/%s/%s/artifacts/%s", c.baseURL(), experimentID, runID, artifactPath)

	resp, err := c.get(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download from MLflow Artifacts Service: %w", err)
	}
	return resp.Body, nil
}

// downloadFromDBFS reads a Databricks-managed artifact through a signed URI
func (c *Client) downloadFromDBFS(ctx context.Context, artifactURI, artifactPath string) (io.ReadCloser, error) {
	runID, err := extractRunIDFromDBFSURI(artifactURI)
	if err != nil {
		return nil, fmt.Errorf("failed to extract run ID from DBFS URI: %w", err)
	}

	credentials, err := c.getCredentialsForRead(ctx, runID, artifactPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get read credentials: %w", err)
	}

	if len(credentials) == 0 {
		return nil, fmt.Errorf("no credentials returned for path: %s", artifactPath)
	}

	credential := credentials[0]
	headers := make(map[string]string, len(credential.Headers))
	for _, header := range credential.Headers {
		headers[header.Name] = header.Value
	}

	resp, err := c.do(ctx, credential.SignedURI, headers, false)
	if err != nil {
		return nil, fmt.Errorf("failed to download from %s signed URI: %w", credential.Type, err)
	}
	return resp.Body, nil
}

// getCredentialsForRead asks the Databricks Artifacts API for a signed read URI
func (c *Client) getCredentialsForRead(ctx context.Context, runID, artifactPath string) ([]ArtifactCredentialInfo, error) {
	if !c.config.IsDatabricks() {
		return nil, fmt.Errorf("non-Databricks MLflow servers not supported for DBFS artifacts")
	}

	query := url.Values{}
	query.Set("run_id", runID)
	query.Add("path", artifactPath)
	endpoint := fmt.Sprintf("%s/api/2.0/mlflow/artifacts/credentials-for-read?%s", c.baseURL(), query.Encode())

	resp, err := c.get(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("credentials-for-read request failed: %w", err)
	}
	defer resp.Body.Close()

	var response CredentialsForReadResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return response.CredentialInfos, nil
}

// openFromLocalFS opens an artifact stored on the local filesystem
func (c *Client) openFromLocalFS(artifactURI, artifactPath string) (io.ReadCloser, error) {
	localPath := filepath.Join(strings.TrimPrefix(artifactURI, "file://"), filepath.FromSlash(artifactPath))

	file, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact: %w", err)
	}
	return file, nil
}

// extractIDsFromArtifactURI extracts experiment ID and run ID from mlflow-artifacts URI
func extractIDsFromArtifactURI(artifactURI string) (string, string, error) {
	// mlflow-artifacts:/0/47485d6a0b734e37aaddc60be04b7371/artifacts
	parts := strings.Split(strings.TrimPrefix(artifactURI, "mlflow-artifacts:"), "/")

	if len(parts) > 0 && parts[0] == "" {
		parts = parts[1:]
	}

	if len(parts) < 3 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid mlflow-artifacts URI format: %s", artifactURI)
	}

	return parts[0], parts[1], nil
}

// extractRunIDFromDBFSURI extracts run ID from DBFS artifact URI
func extractRunIDFromDBFSURI(artifactURI string) (string, error) {
	// dbfs:/databricks/mlflow-tracking/{experiment_id}/{run_id}/artifacts
	if !strings.HasPrefix(artifactURI, "dbfs:/databricks/mlflow-tracking/") {
		return "", fmt.Errorf("invalid DBFS artifact URI format: %s", artifactURI)
	}

	path := strings.TrimPrefix(artifactURI, "dbfs:/databricks/mlflow-tracking/")
	parts := strings.Split(path, "/")

	if len(parts) < 2 || parts[1] == "" {
		return "", fmt.Errorf("run ID not found in DBFS URI: %s", artifactURI)
	}

	return parts[1], nil
}

func (c *Client) baseURL() string {
	if c.config.IsDatabricks() && c.client != nil && c.client.Config != nil && c.client.Config.Host != "" {
		return strings.TrimSuffix(c.client.Config.Host, "/")
	}
	return strings.TrimSuffix(c.config.TrackingURI, "/")
}

// get sends an authenticated GET request to the tracking server.
func (c *Client) get(ctx context.Context, endpoint string, headers map[string]string) (*http.Response, error) {
	return c.do(ctx, endpoint, headers, true)
}

// do sends a GET request and fails on non-2xx responses. The caller closes
// the body of a successful response.
func (c *Client) do(ctx context.Context, endpoint string, headers map[string]string, authenticate bool) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for name, value := range headers {
		req.Header.Set(name, value)
	}

	if authenticate {
		if err := c.addAuthHeaders(req); err != nil {
			return nil, err
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	return resp, nil
}

// addAuthHeaders adds appropriate authentication headers to the request
func (c *Client) addAuthHeaders(req *http.Request) error {
	if !c.config.IsDatabricks() {
		return nil
	}

	if c.client != nil && c.client.Config != nil {
		if err := c.client.Config.Authenticate(req); err != nil {
			return fmt.Errorf("failed to authenticate request: %w", err)
		}
		return nil
	}

	if c.config.DatabricksToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.DatabricksToken)
	}
	return nil
}
