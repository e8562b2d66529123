package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"tableview/internal/assets"
	"tableview/internal/config"
	"tableview/internal/metrics"
	"tableview/internal/models"
	"tableview/internal/util"
	"tableview/internal/viewer"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Server struct {
	cfg     config.Config
	store   *viewer.Store
	builder viewer.Builder
	logger  *zap.Logger
}

type documentResponse struct {
	Key        string          `json:"key"`
	Filename   string          `json:"filename"`
	Kind       string          `json:"kind"`
	Path       string          `json:"path"`
	ViewerURL  string          `json:"viewer_url"`
	CountLabel string          `json:"count_label"`
	Asset      assets.Info     `json:"asset"`
	Tables     []tableResponse `json:"tables"`
}

type tableResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Rows  int    `json:"rows"`
	HTML  string `json:"html"`
}

func NewServer(cfg config.Config, store *viewer.Store, paths assets.PathTable, logger *zap.Logger) (*Server, error) {
	policy, err := viewer.ParseTablePolicy(cfg.TablePolicy)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if paths == nil {
		paths = assets.DefaultPathTable
	}
	return &Server{
		cfg:     cfg,
		store:   store,
		builder: viewer.Builder{Paths: paths, Policy: policy, Logger: logger},
		logger:  logger,
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/healthz", instrument("healthz", http.HandlerFunc(s.handleHealthz)))
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/api/manifest", instrument("manifest", http.HandlerFunc(s.handleManifest)))
	mux.Handle("/api/documents/", instrument("document", http.HandlerFunc(s.handleDocument)))
	mux.Handle("/", instrument("viewer", http.HandlerFunc(s.handleRoot)))
	return withCORS(mux)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "loading": snap.Loading, "documents": snap.Manifest.Len()})
}

// handleRoot serves the viewer page at "/" and static assets everywhere else.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.serveAsset(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}

	session := viewer.NewSession(s.store.Snapshot())
	status := http.StatusOK
	notice := ""
	if q := r.URL.Query(); q.Has("file") {
		err := session.Select(q.Get("file"))
		switch {
		case err == nil, errors.Is(err, util.ErrLoading):
		case errors.Is(err, util.ErrUnknownDocument):
			_ = session.Select("")
			status = http.StatusNotFound
			notice = "Unknown document: " + q.Get("file")
		default:
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
	}

	page := s.builder.Build(session)
	page.Notice = notice
	metrics.PageRenders.WithLabelValues(page.State).Inc()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := viewer.Render(w, page); err != nil {
		s.logger.Error("render viewer page", zap.Error(err))
	}
}

func (s *Server) serveAsset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	local := assets.LocalPath(s.cfg.PublicDir, r.URL.Path)
	if st, err := os.Stat(local); err != nil || st.IsDir() {
		writeErr(w, http.StatusNotFound, fmt.Errorf("asset not found"))
		return
	}
	http.ServeFile(w, r, local)
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	snap := s.store.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"loading":          snap.Loading,
		"default_document": snap.DefaultKey,
		"documents":        snap.Manifest.Summaries(),
	})
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	key := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/documents/"), "/")
	if key == "" {
		writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
		return
	}
	snap := s.store.Snapshot()
	if snap.Loading {
		writeErr(w, http.StatusServiceUnavailable, util.ErrLoading)
		return
	}
	entry, ok := snap.Manifest.Get(key)
	if !ok {
		writeErr(w, http.StatusNotFound, fmt.Errorf("%w: %q", util.ErrUnknownDocument, key))
		return
	}
	writeJSON(w, http.StatusOK, s.describe(key, entry))
}

func (s *Server) describe(key string, entry models.FileEntry) documentResponse {
	path := s.builder.Paths.ResolvePath(key)
	resp := documentResponse{
		Key:        key,
		Filename:   entry.Filename,
		Kind:       assets.Kind(key),
		Path:       path,
		ViewerURL:  path,
		CountLabel: entry.TableCountLabel(),
		Tables:     make([]tableResponse, 0, len(entry.Tables)),
	}
	if !assets.IsImage(key) {
		resp.ViewerURL = assets.DocumentURL(path)
	}
	info, err := assets.Inspect(s.cfg.PublicDir, path)
	if err != nil {
		s.logger.Warn("inspect asset", zap.String("document", key), zap.String("path", path), zap.Error(err))
	}
	resp.Asset = info
	for _, t := range entry.Tables {
		resp.Tables = append(resp.Tables, tableResponse{ID: t.ID, Title: t.Title, Rows: viewer.CountRows(t.HTML), HTML: t.HTML})
	}
	return resp
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	apiErr := toAPIError(code, err)
	writeJSON(w, code, map[string]any{
		"error": map[string]any{
			"code":    apiErr.Code,
			"message": apiErr.Message,
		},
	})
}

type apiError struct {
	Code    string
	Message string
}

func toAPIError(status int, err error) apiError {
	switch {
	case errors.Is(err, util.ErrLoading):
		return apiError{Code: "TV-API-5030", Message: "Manifest is still loading. Retry shortly."}
	case errors.Is(err, util.ErrUnknownDocument):
		return apiError{Code: "TV-API-4041", Message: "Document is not in the manifest."}
	}
	switch {
	case status >= 500:
		return apiError{Code: "TV-API-5000", Message: "Internal server error. Please retry or check service logs."}
	case status == http.StatusNotFound:
		return apiError{Code: "TV-API-4004", Message: "Requested resource was not found."}
	case status == http.StatusMethodNotAllowed:
		return apiError{Code: "TV-API-4005", Message: "This endpoint does not support the requested method."}
	default:
		return apiError{Code: "TV-API-4000", Message: "Request failed."}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.code)).Inc()
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
