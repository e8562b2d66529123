package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"tableview/internal/models"
	"tableview/internal/util"
)

// Source reads one manifest.
type Source interface {
	Fetch(ctx context.Context) (models.Manifest, error)
	Name() string
}

// HTTPSource issues a single GET with no timeout and no retry.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{URL: url, Client: &http.Client{}}
}

func (s *HTTPSource) Name() string { return "http:" + s.URL }

func (s *HTTPSource) Fetch(ctx context.Context) (models.Manifest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return models.Manifest{}, fmt.Errorf("build manifest request: %w", err)
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return models.Manifest{}, fmt.Errorf("fetch manifest: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.Manifest{}, fmt.Errorf("%w: status %d", util.ErrManifestStatus, resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Manifest{}, fmt.Errorf("read manifest body: %w", err)
	}
	return decodeManifest(b)
}

type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file:" + s.Path }

func (s FileSource) Fetch(ctx context.Context) (models.Manifest, error) {
	_ = ctx
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return models.Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	return decodeManifest(b)
}

// decodeManifest requires the whole body to be one JSON object.
func decodeManifest(b []byte) (models.Manifest, error) {
	var m models.Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return models.Manifest{}, fmt.Errorf("%w: %w", util.ErrManifestParse, err)
	}
	return m, nil
}

// SourceFor picks an HTTP source for http(s) locations and a file source otherwise.
func SourceFor(location string) Source {
	low := strings.ToLower(location)
	if strings.HasPrefix(low, "http://") || strings.HasPrefix(low, "https://") {
		return NewHTTPSource(location)
	}
	return FileSource{Path: location}
}
