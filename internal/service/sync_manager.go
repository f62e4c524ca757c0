package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-repo-sync/internal/logger"
	"github.com/MKhiriev/go-repo-sync/internal/store"
	"github.com/MKhiriev/go-repo-sync/models"
)

// MinSyncAllInterval is the minimum time between two runs of SyncAll.
const MinSyncAllInterval = 15 * time.Second

type syncManager struct {
	store       store.RepositoryStore
	updater     Updater
	concurrency int
	minInterval time.Duration
	locks       *keyedMutex
	events      *broadcaster[models.SyncEvent]

	mu          sync.Mutex
	lastSyncAll time.Time
	now         func() time.Time

	logger *logger.Logger
}

// NewSyncManager returns a [SyncManager] running at most concurrency updates
// at once.
func NewSyncManager(st store.RepositoryStore, updater Updater, concurrency int, log *logger.Logger) SyncManager {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &syncManager{
		store:       st,
		updater:     updater,
		concurrency: concurrency,
		minInterval: MinSyncAllInterval,
		locks:       newKeyedMutex(),
		events:      newBroadcaster[models.SyncEvent](),
		now:         time.Now,
		logger:      log,
	}
}

func (m *syncManager) SyncRepository(ctx context.Context, repoID int64) (models.SyncResult, error) {
	unlock := m.locks.Lock(repoID)
	defer unlock()

	// read under the lock so the timestamp reflects the previous sync
	repo, err := m.store.GetRepository(ctx, repoID)
	if err != nil {
		return nil, err
	}
	if !repo.Enabled {
		return nil, fmt.Errorf("%w: %d", ErrRepositoryDisabled, repoID)
	}

	return m.run(ctx, repo, m.updater.Update), nil
}

func (m *syncManager) SyncNewRepository(ctx context.Context, repoID int64, first NewRepoSync) (models.SyncResult, error) {
	unlock := m.locks.Lock(repoID)
	defer unlock()

	repo, err := m.store.GetRepository(ctx, repoID)
	if err != nil {
		return nil, err
	}

	return m.run(ctx, repo, func(ctx context.Context, repo models.Repository) models.SyncResult {
		return m.updater.UpdateNewRepo(ctx, repo, first)
	}), nil
}

func (m *syncManager) run(ctx context.Context, repo models.Repository,
	update func(context.Context, models.Repository) models.SyncResult) models.SyncResult {
	ctx = logger.WithRepo(ctx, m.logger, repo.RepoID, repo.Address)

	syncInFlight.Inc()
	defer syncInFlight.Dec()

	start := m.now()
	res := update(ctx, repo)

	syncDuration.Observe(time.Since(start).Seconds())
	syncResults.WithLabelValues(resultLabel(res)).Inc()
	m.events.publish(models.NewSyncEvent(repo.RepoID, res))

	logger.FromContext(ctx).Info().Str("func", "syncManager.run").Str("result", res.String()).Msg("repository synced")
	return res
}

func (m *syncManager) SyncAll(ctx context.Context) (map[int64]models.SyncResult, error) {
	if !m.claimSyncAll() {
		syncAllSkipped.Inc()
		return nil, ErrSyncTooSoon
	}

	repos, err := m.store.ListRepositories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list repositories: %w", err)
	}

	var (
		mu      sync.Mutex
		results = make(map[int64]models.SyncResult, len(repos))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)

	for _, repo := range repos {
		if !repo.Enabled {
			continue
		}
		repoID := repo.RepoID

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			res, err := m.SyncRepository(gctx, repoID)
			switch {
			case errors.Is(err, ErrRepositoryDisabled), errors.Is(err, store.ErrRepositoryNotFound):
				// changed since the listing
				return nil
			case err != nil:
				res = models.SyncError{Err: err}
			}

			mu.Lock()
			results[repoID] = res
			mu.Unlock()
			return nil
		})
	}

	if err = g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// claimSyncAll records a SyncAll start unless the previous one is too recent.
func (m *syncManager) claimSyncAll() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if !m.lastSyncAll.IsZero() && now.Sub(m.lastSyncAll) < m.minInterval {
		return false
	}
	m.lastSyncAll = now
	return true
}

func (m *syncManager) Subscribe() (<-chan models.SyncEvent, func()) {
	return m.events.subscribe()
}
