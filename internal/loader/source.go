package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// Source is somewhere a results file can be read from.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

// ArtifactOpener downloads a run artifact from a tracking server.
type ArtifactOpener interface {
	OpenArtifact(ctx context.Context, runID, artifactPath string) (io.ReadCloser, error)
}

// FileSource reads a local file.
type FileSource struct {
	Path string
}

func (s FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	return os.Open(s.Path)
}

func (s FileSource) String() string {
	return s.Path
}

// HTTPSource fetches the file with a GET request.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	return resp.Body, nil
}

func (s HTTPSource) String() string {
	return s.URL
}

// ArtifactSource reads an artifact logged to an MLflow run.
type ArtifactSource struct {
	RunID        string
	ArtifactPath string
	Opener       ArtifactOpener
}

func (s ArtifactSource) Open(ctx context.Context) (io.ReadCloser, error) {
	return s.Opener.OpenArtifact(ctx, s.RunID, s.ArtifactPath)
}

func (s ArtifactSource) String() string {
	return "runs:/" + s.RunID + "/" + s.ArtifactPath
}

// ParseRunsURI splits a runs:/<run_id>/<path> URI.
func ParseRunsURI(uri string) (string, string, error) {
	if !strings.HasPrefix(uri, "runs:/") {
		return "", "", fmt.Errorf("invalid runs URI: %s", uri)
	}

	rest := strings.TrimLeft(strings.TrimPrefix(uri, "runs:/"), "/")
	runID, artifactPath, found := strings.Cut(rest, "/")
	if !found || runID == "" || artifactPath == "" {
		return "", "", fmt.Errorf("invalid runs URI format: %s (expected runs:/<run_id>/<path>)", uri)
	}

	return runID, artifactPath, nil
}

// NewSource picks a Source from the shape of uri. opener is only needed for
// runs:/ URIs.
func NewSource(uri string, opener ArtifactOpener) (Source, error) {
	switch {
	case uri == "":
		return nil, fmt.Errorf("source must be specified")
	case strings.HasPrefix(uri, "runs:/"):
		runID, artifactPath, err := ParseRunsURI(uri)
		if err != nil {
			return nil, err
		}
		if opener == nil {
			return nil, fmt.Errorf("an MLflow client is required to read %s", uri)
		}
		return ArtifactSource{RunID: runID, ArtifactPath: artifactPath, Opener: opener}, nil
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return HTTPSource{URL: uri}, nil
	case strings.HasPrefix(uri, "file://"):
		return FileSource{Path: strings.TrimPrefix(uri, "file://")}, nil
	default:
		return FileSource{Path: uri}, nil
	}
}
