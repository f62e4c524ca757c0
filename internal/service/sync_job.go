package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MKhiriev/go-repo-sync/internal/logger"
)

// DefaultSyncInterval is used when Start gets a non-positive interval.
const DefaultSyncInterval = time.Hour

type syncJob struct {
	manager SyncManager
	logger  *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncJob creates a job that calls manager.SyncAll on a ticker. The job is
// idle until Start is called.
func NewSyncJob(manager SyncManager, log *logger.Logger) SyncJob {
	return &syncJob{manager: manager, logger: log}
}

// Start implements SyncJob. The first sync runs right away, then every
// interval until ctx is cancelled or Stop is called.
func (j *syncJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		j.syncAll(jobCtx)
		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.syncAll(jobCtx)
			}
		}
	}()
}

func (j *syncJob) syncAll(ctx context.Context) {
	results, err := j.manager.SyncAll(ctx)
	switch {
	case errors.Is(err, ErrSyncTooSoon):
		j.logger.Debug().Str("func", "syncJob.syncAll").Msg("skipped, synced recently")
	case err != nil && ctx.Err() == nil:
		j.logger.Err(err).Str("func", "syncJob.syncAll").Msg("sync of all repositories failed")
	case err == nil:
		j.logger.Info().Str("func", "syncJob.syncAll").Int("repositories", len(results)).Msg("all repositories synced")
	}
}

// Stop implements SyncJob. Safe to call when the job is not running.
func (j *syncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
