// Package metrics holds the Prometheus collectors shared by the viewer.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ManifestLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tableview_manifest_loads_total",
			Help: "Manifest load attempts by outcome",
		},
		[]string{"status"},
	)

	ManifestLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tableview_manifest_load_duration_seconds",
			Help:    "Time taken to fetch and parse the manifest",
			Buckets: prometheus.DefBuckets,
		},
	)

	ManifestDocuments = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tableview_manifest_documents",
			Help: "Documents in the loaded manifest",
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tableview_http_requests_total",
			Help: "HTTP requests by route and status code",
		},
		[]string{"route", "code"},
	)

	PageRenders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tableview_page_renders_total",
			Help: "Viewer pages rendered by state",
		},
		[]string{"state"},
	)
)

func RecordLoad(status string, documents int, d time.Duration) {
	ManifestLoads.WithLabelValues(status).Inc()
	ManifestLoadDuration.Observe(d.Seconds())
	ManifestDocuments.Set(float64(documents))
}
