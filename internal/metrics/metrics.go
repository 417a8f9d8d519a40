// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled requests by route template and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// FavoriteChangesTotal counts ledger writes that changed a row.
	FavoriteChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_favorites_changes_total",
			Help: "Favorites added or removed",
		},
		[]string{"action"},
	)

	CatalogCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_requests_total",
			Help: "Catalog list cache lookups by result",
		},
		[]string{"result"},
	)

	MediaUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_uploads_total",
			Help: "Image uploads by folder and outcome",
		},
		[]string{"folder", "outcome"},
	)
)

// RecordFavoriteChange increments the ledger counter for "add" or "remove".
func RecordFavoriteChange(action string) {
	FavoriteChangesTotal.WithLabelValues(action).Inc()
}

// RecordCacheResult increments the catalog cache counter ("hit", "miss", "error").
func RecordCacheResult(result string) {
	CatalogCacheTotal.WithLabelValues(result).Inc()
}

func RecordUpload(folder string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	MediaUploadsTotal.WithLabelValues(folder, outcome).Inc()
}
