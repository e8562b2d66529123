package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"tableview/internal/models"
	"tableview/internal/util"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingSink struct {
	mu        sync.Mutex
	manifest  models.Manifest
	completed int
	failed    int
}

func (s *recordingSink) Complete(m models.Manifest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manifest = m
	s.completed++
}

func (s *recordingSink) Fail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed++
}

func manifestServer(t *testing.T, status int, body string, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoaderSuccessSelectsOrder(t *testing.T) {
	var hits int32
	srv := manifestServer(t, http.StatusOK, `{"doc1": {"filename": "Report.pdf", "tables": []}, "doc2": {"filename": "B.pdf", "tables": []}}`, &hits)
	sink := &recordingSink{}
	l := New(NewHTTPSource(srv.URL), sink, zap.NewNop())

	l.Run(context.Background())
	l.Run(context.Background())
	<-l.Done()

	require.EqualValues(t, 1, atomic.LoadInt32(&hits))
	require.Equal(t, 1, sink.completed)
	require.Zero(t, sink.failed)
	first, ok := sink.manifest.First()
	require.True(t, ok)
	require.Equal(t, "doc1", first)
}

func TestLoaderNotFoundIsLoggedAndSoft(t *testing.T) {
	srv := manifestServer(t, http.StatusNotFound, "not found", nil)
	core, logs := observer.New(zapcore.InfoLevel)
	sink := &recordingSink{}
	l := New(NewHTTPSource(srv.URL), sink, zap.New(core))

	l.Start(context.Background())
	<-l.Done()

	require.Equal(t, 1, sink.failed)
	require.Zero(t, sink.completed)
	entries := logs.FilterMessage("error loading manifest").All()
	require.Len(t, entries, 1)
	require.Equal(t, zapcore.ErrorLevel, entries[0].Level)
}

func TestHTTPSourceErrors(t *testing.T) {
	notFound := manifestServer(t, http.StatusNotFound, "", nil)
	_, err := NewHTTPSource(notFound.URL).Fetch(context.Background())
	require.True(t, errors.Is(err, util.ErrManifestStatus))
	require.Contains(t, err.Error(), "404")

	garbage := manifestServer(t, http.StatusOK, `[1,2,3]`, nil)
	_, err = NewHTTPSource(garbage.URL).Fetch(context.Background())
	require.True(t, errors.Is(err, util.ErrManifestParse))

	trailing := manifestServer(t, http.StatusOK, `{"doc1": {"filename": "Report.pdf", "tables": []}} <html>oops`, nil)
	_, err = NewHTTPSource(trailing.URL).Fetch(context.Background())
	require.True(t, errors.Is(err, util.ErrManifestParse))

	empty := manifestServer(t, http.StatusOK, `{}`, nil)
	m, err := NewHTTPSource(empty.URL).Fetch(context.Background())
	require.NoError(t, err)
	require.Zero(t, m.Len())
}

func TestFileSourceAndSourceFor(t *testing.T) {
	file := filepath.Join(t.TempDir(), "m.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"Image_jpeg": {"filename": "Image.jpeg", "tables": [{"id": "t1", "title": "A", "html": "<table/>"}]}}`), 0o644))

	src := SourceFor(file)
	require.IsType(t, FileSource{}, src)
	m, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"Image_jpeg"}, m.Keys())

	require.IsType(t, &HTTPSource{}, SourceFor("HTTPS://example.com/m.json"))

	_, err = FileSource{Path: filepath.Join(t.TempDir(), "nope.json")}.Fetch(context.Background())
	require.Error(t, err)
}
