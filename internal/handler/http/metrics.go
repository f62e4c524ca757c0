package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "reposync",
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "API request latency by route and status.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route", "status"})

var eventClients = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "reposync",
	Subsystem: "http",
	Name:      "event_clients",
	Help:      "Connected /api/events WebSocket clients.",
})
