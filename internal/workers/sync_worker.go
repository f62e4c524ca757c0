package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-repo-sync/internal/logger"
	"github.com/MKhiriev/go-repo-sync/internal/service"
)

// syncWorker syncs every enabled repository on a fixed interval.
type syncWorker struct {
	ctx      context.Context
	job      service.SyncJob
	interval time.Duration
	logger   *logger.Logger
}

func newSyncWorker(ctx context.Context, job service.SyncJob, interval time.Duration, log *logger.Logger) *syncWorker {
	return &syncWorker{ctx: ctx, job: job, interval: interval, logger: log}
}

func (w *syncWorker) Run() {
	w.logger.Info().Str("func", "syncWorker.Run").Dur("interval", w.interval).Msg("starting periodic sync")
	w.job.Start(w.ctx, w.interval)
}

func (w *syncWorker) Stop() {
	w.job.Stop()
	w.logger.Info().Str("func", "syncWorker.Stop").Msg("periodic sync stopped")
}
