package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/MKhiriev/go-repo-sync/models"
)

var (
	syncResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reposync",
		Subsystem: "sync",
		Name:      "results_total",
		Help:      "Finished repository syncs by result.",
	}, []string{"result"})

	syncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "reposync",
		Subsystem: "sync",
		Name:      "duration_seconds",
		Help:      "Duration of single repository syncs.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	})

	syncInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "reposync",
		Subsystem: "sync",
		Name:      "in_flight",
		Help:      "Repository syncs currently running.",
	})

	syncAllSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "reposync",
		Subsystem: "sync",
		Name:      "all_skipped_total",
		Help:      "Sync-all requests skipped by the minimum interval.",
	})
)

func resultLabel(res models.SyncResult) string {
	switch res.(type) {
	case models.SyncUnchanged:
		return "unchanged"
	case models.SyncProcessed:
		return "processed"
	case models.SyncNotFound:
		return "not_found"
	default:
		return "error"
	}
}
