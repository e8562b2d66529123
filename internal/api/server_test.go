package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tableview/internal/config"
	"tableview/internal/models"
	"tableview/internal/viewer"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, store *viewer.Store) (*httptest.Server, string) {
	t.Helper()
	public := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(public, "images", "pratham"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(public, "images", "pratham", "Image.jpeg"), []byte("jpeg-bytes"), 0o644))

	srv, err := NewServer(config.Config{PublicDir: public, TablePolicy: "trusted"}, store, nil, nil)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts, public
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func sampleStore() *viewer.Store {
	m := models.NewManifest()
	m.Add("doc1", models.FileEntry{Filename: "Report.pdf", Tables: []models.TableEntry{}})
	m.Add("Image_jpeg", models.FileEntry{Filename: "Image.jpeg", Tables: []models.TableEntry{
		{ID: "t1", Title: "Marks", HTML: "<table><tr><td>1</td></tr><tr><td>2</td></tr></table>"},
		{ID: "t2", Title: "Totals", HTML: "<table><tr><td>3</td></tr></table>"},
	}})
	s := viewer.NewStore()
	s.Complete(m)
	return s
}

func TestViewerDefaultsToFirstDocument(t *testing.T) {
	ts, _ := newTestServer(t, sampleStore())
	code, body := get(t, ts.URL+"/")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, "<h2>Report.pdf</h2>")
	require.Contains(t, body, "0 extracted tables")
	require.Contains(t, body, `<option value="doc1" selected>Report.pdf</option>`)
	require.Contains(t, body, "<iframe")
}

func TestViewerSelectsImageDocument(t *testing.T) {
	ts, _ := newTestServer(t, sampleStore())
	code, body := get(t, ts.URL+"/?file=Image_jpeg")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, `<img src="/images/pratham/Image.jpeg"`)
	require.NotContains(t, body, "<iframe")
	require.Contains(t, body, "Table 1: Marks")
	require.Contains(t, body, "Table 2: Totals")
	require.Less(t, strings.Index(body, "Table 1: Marks"), strings.Index(body, "Table 2: Totals"))
}

func TestViewerEmptySelectionAndUnknownKey(t *testing.T) {
	ts, _ := newTestServer(t, sampleStore())
	code, body := get(t, ts.URL+"/?file=")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, "Select a document to view extracted tables")

	code, body = get(t, ts.URL+"/?file=nope")
	require.Equal(t, http.StatusNotFound, code)
	require.Contains(t, body, "Unknown document: nope")
	require.Contains(t, body, "Select a document to view extracted tables")
}

func TestViewerLoadingAndFailedLoad(t *testing.T) {
	loading := viewer.NewStore()
	ts, _ := newTestServer(t, loading)
	code, body := get(t, ts.URL+"/?file=doc1")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, "Loading Pratham data...")

	loading.Fail()
	code, body = get(t, ts.URL+"/")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, "Select a document to view extracted tables")
	require.NotContains(t, body, "Loading Pratham data...")
}

func TestManifestAPIKeepsOrder(t *testing.T) {
	ts, _ := newTestServer(t, sampleStore())
	code, body := get(t, ts.URL+"/api/manifest")
	require.Equal(t, http.StatusOK, code)

	var out struct {
		Loading         bool                     `json:"loading"`
		DefaultDocument string                   `json:"default_document"`
		Documents       []models.DocumentSummary `json:"documents"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	require.False(t, out.Loading)
	require.Equal(t, "doc1", out.DefaultDocument)
	require.Len(t, out.Documents, 2)
	require.Equal(t, "Image_jpeg", out.Documents[1].Key)
	require.Equal(t, 2, out.Documents[1].TableCount)
}

func TestDocumentAPI(t *testing.T) {
	ts, _ := newTestServer(t, sampleStore())
	code, body := get(t, ts.URL+"/api/documents/Image_jpeg")
	require.Equal(t, http.StatusOK, code)

	var doc documentResponse
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	require.Equal(t, "image", doc.Kind)
	require.Equal(t, "/images/pratham/Image.jpeg", doc.ViewerURL)
	require.True(t, doc.Asset.Exists)
	require.Equal(t, "2 extracted tables", doc.CountLabel)
	require.Equal(t, 2, doc.Tables[0].Rows)

	code, body = get(t, ts.URL+"/api/documents/doc1")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	require.Equal(t, "document", doc.Kind)
	require.Equal(t, "", doc.Path)
	require.Equal(t, "#toolbar=0&navpanes=0", doc.ViewerURL)
	require.False(t, doc.Asset.Exists)

	code, body = get(t, ts.URL+"/api/documents/missing")
	require.Equal(t, http.StatusNotFound, code)
	require.Contains(t, body, "TV-API-4041")
}

func TestStaticAssetsAndHealth(t *testing.T) {
	ts, _ := newTestServer(t, sampleStore())
	code, body := get(t, ts.URL+"/images/pratham/Image.jpeg")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "jpeg-bytes", body)

	code, _ = get(t, ts.URL+"/pdfs/pratham/missing.pdf")
	require.Equal(t, http.StatusNotFound, code)

	for _, dir := range []string{"/images/pratham/", "/images", "/images/../images/"} {
		code, body = get(t, ts.URL+dir)
		require.Equal(t, http.StatusNotFound, code, dir)
		require.NotContains(t, body, "Image.jpeg", dir)
		require.Contains(t, body, "TV-API-4004", dir)
	}

	code, body = get(t, ts.URL+"/healthz")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, `"documents":2`)

	code, body = get(t, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, "tableview_http_requests_total")
}

func TestNewServerRejectsUnknownPolicy(t *testing.T) {
	_, err := NewServer(config.Config{TablePolicy: "strict"}, viewer.NewStore(), nil, nil)
	require.Error(t, err)
}
