package mlflow

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imishinist/nnresults/internal/config"
	"github.com/imishinist/nnresults/internal/loader"
)

const content = "id,fecha,modelo,dataset,accuracy,precision,recall,loss,tiempo_entrenamiento\n" +
	"1,2024-01-01,CNN,MNIST,0.9,0.8,0.85,0.2,120\n"

func newTrackingServer(t *testing.T, artifactURI string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/2.0/mlflow/runs/get", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("run_id") != "abc" {
			http.Error(w, `{"error_code":"RESOURCE_DOES_NOT_EXIST"}`, http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"run": map[string]interface{}{
				"info": map[string]interface{}{"artifact_uri": artifactURI},
			},
		})
	})
	mux.HandleFunc("/api/2.0/mlflow-artifacts/artifacts/1/abc/artifacts/results/datos.csv", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(content))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestOpenArtifact_MLflowArtifacts(t *testing.T) {
	server := newTrackingServer(t, "mlflow-artifacts:/1/abc/artifacts")
	client := NewHTTPClient(&config.Config{TrackingURI: server.URL + "/"}, server.Client())

	rc, err := client.OpenArtifact(context.Background(), "abc", "results/datos.csv")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestOpenArtifact_ThroughLoader(t *testing.T) {
	server := newTrackingServer(t, "mlflow-artifacts:/1/abc/artifacts")
	client := NewHTTPClient(&config.Config{TrackingURI: server.URL}, server.Client())

	src, err := loader.NewSource("runs:/abc/results/datos.csv", client)
	require.NoError(t, err)

	dataset, err := loader.Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 1, dataset.Len())

	missing, err := loader.NewSource("runs:/zzz/results/datos.csv", client)
	require.NoError(t, err)

	_, err = loader.Load(context.Background(), missing)
	assert.ErrorIs(t, err, loader.ErrSourceUnavailable)
}

func TestOpenArtifact_MissingArtifact(t *testing.T) {
	server := newTrackingServer(t, "mlflow-artifacts:/1/abc/artifacts")
	client := NewHTTPClient(&config.Config{TrackingURI: server.URL}, server.Client())

	_, err := client.OpenArtifact(context.Background(), "abc", "other.csv")
	assert.ErrorContains(t, err, "status 404")
}

func TestOpenArtifact_LocalFS(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "results"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "results", "datos.csv"), []byte(content), 0644))

	server := newTrackingServer(t, "file://"+dir)
	client := NewHTTPClient(&config.Config{TrackingURI: server.URL}, server.Client())

	rc, err := client.OpenArtifact(context.Background(), "abc", "/results/datos.csv")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestOpenArtifact_UnsupportedScheme(t *testing.T) {
	server := newTrackingServer(t, "s3://bucket/1/abc/artifacts")
	client := NewHTTPClient(&config.Config{TrackingURI: server.URL}, server.Client())

	_, err := client.OpenArtifact(context.Background(), "abc", "datos.csv")
	assert.ErrorContains(t, err, "unsupported artifact URI scheme")
}

func TestExtractIDsFromArtifactURI(t *testing.T) {
	experimentID, runID, err := extractIDsFromArtifactURI("mlflow-artifacts:/0/47485d6a0b734e37aaddc60be04b7371/artifacts")
	require.NoError(t, err)
	assert.Equal(t, "0", experimentID)
	assert.Equal(t, "47485d6a0b734e37aaddc60be04b7371", runID)

	_, _, err = extractIDsFromArtifactURI("mlflow-artifacts:/0")
	assert.Error(t, err)
}

func TestExtractRunIDFromDBFSURI(t *testing.T) {
	runID, err := extractRunIDFromDBFSURI("dbfs:/databricks/mlflow-tracking/123/abc/artifacts")
	require.NoError(t, err)
	assert.Equal(t, "abc", runID)

	_, err = extractRunIDFromDBFSURI("dbfs:/other/123/abc")
	assert.Error(t, err)

	_, err = extractRunIDFromDBFSURI("dbfs:/databricks/mlflow-tracking/123")
	assert.Error(t, err)
}
