package workers

import (
	"context"

	"github.com/MKhiriev/go-repo-sync/internal/config"
	"github.com/MKhiriev/go-repo-sync/internal/logger"
	"github.com/MKhiriev/go-repo-sync/internal/service"
)

type Workers struct {
	workers []Worker
}

// NewWorkers builds the periodic sync worker. It does nothing until Run.
func NewWorkers(ctx context.Context, services *service.Services, cfg config.ClientWorkers, log *logger.Logger) *Workers {
	return &Workers{workers: []Worker{
		newSyncWorker(ctx, services.SyncJob, cfg.SyncInterval, log),
	}}
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}

// Stop stops the workers in reverse start order.
func (w *Workers) Stop() {
	for i := len(w.workers) - 1; i >= 0; i-- {
		w.workers[i].Stop()
	}
}
