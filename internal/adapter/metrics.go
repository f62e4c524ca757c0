package adapter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mirrorAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reposync",
		Subsystem: "mirror",
		Name:      "attempts_total",
		Help:      "Mirror requests by method and outcome.",
	}, []string{"method", "result"})

	downloadedBytes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "reposync",
		Subsystem: "mirror",
		Name:      "downloaded_bytes_total",
		Help:      "Bytes written to download files.",
	})
)

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return "error"
}
