package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-repo-sync/internal/logger"
	"github.com/MKhiriev/go-repo-sync/internal/store"
	"github.com/MKhiriev/go-repo-sync/models"
)

// RepoCache keeps an in-memory snapshot of all stored repositories.
//
// Readers block until the initial load succeeded; a failed load is retried
// with backoff. Afterwards the snapshot is replaced whenever the store reports
// a change. Readers get copies and never share memory with the snapshot.
type RepoCache struct {
	store    store.RepositoryStore
	ready    chan struct{}
	snapshot atomic.Pointer[[]models.Repository]
	updates  *broadcaster[[]models.Repository]
	logger   *logger.Logger

	retryDelay    time.Duration
	maxRetryDelay time.Duration
}

// NewRepoCache starts loading the repositories in the background. The cache
// follows the store until ctx is done.
func NewRepoCache(ctx context.Context, st store.RepositoryStore, log *logger.Logger) *RepoCache {
	c := &RepoCache{
		store:   st,
		ready:   make(chan struct{}),
		updates: newBroadcaster[[]models.Repository](),
		logger:  log,

		retryDelay:    100 * time.Millisecond,
		maxRetryDelay: 5 * time.Second,
	}

	// subscribed before the load so no change in between is missed
	events, release := st.Subscribe()
	go c.run(ctx, events, release)

	return c
}

func (c *RepoCache) run(ctx context.Context, events <-chan store.ChangeEvent, release func()) {
	defer release()

	loaded := c.initialLoad(ctx)
	close(c.ready)
	if !loaded {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			drain(events)
			if err := c.reload(ctx); err != nil {
				c.logger.Err(err).Str("func", "RepoCache.run").Msg("repository reload failed")
			}
		}
	}
}

// initialLoad loads the snapshot, retrying with a doubling delay until it
// succeeds. It returns false when ctx ended first.
func (c *RepoCache) initialLoad(ctx context.Context) bool {
	delay := c.retryDelay
	for {
		err := c.reload(ctx)
		if err == nil {
			return true
		}
		if ctx.Err() != nil {
			return false
		}
		c.logger.Err(err).Str("func", "RepoCache.initialLoad").Dur("retry_in", delay).Msg("initial repository load failed")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
		delay = min(delay*2, c.maxRetryDelay)
	}
}

// drain drops queued events; one reload covers all of them.
func drain(events <-chan store.ChangeEvent) {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

func (c *RepoCache) reload(ctx context.Context) error {
	repos, err := c.store.ListRepositories(ctx)
	if err != nil {
		return err
	}
	c.snapshot.Store(&repos)
	c.updates.publish(cloneRepositories(repos))
	return nil
}

func cloneRepositories(repos []models.Repository) []models.Repository {
	out := make([]models.Repository, len(repos))
	for i, repo := range repos {
		out[i] = repo.Clone()
	}
	return out
}

func (c *RepoCache) load(ctx context.Context) ([]models.Repository, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.ready:
	}

	snap := c.snapshot.Load()
	if snap == nil {
		return nil, ErrCacheNotReady
	}
	return *snap, nil
}

// Repositories returns all repositories ordered by weight.
func (c *RepoCache) Repositories(ctx context.Context) ([]models.Repository, error) {
	repos, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	return cloneRepositories(repos), nil
}

// Repository returns the repository with repoID.
func (c *RepoCache) Repository(ctx context.Context, repoID int64) (models.Repository, error) {
	repos, err := c.load(ctx)
	if err != nil {
		return models.Repository{}, err
	}

	for _, repo := range repos {
		if repo.RepoID == repoID {
			return repo.Clone(), nil
		}
	}
	return models.Repository{}, fmt.Errorf("%w: %d", store.ErrRepositoryNotFound, repoID)
}

// Subscribe streams snapshots, starting with the current one when loaded.
func (c *RepoCache) Subscribe() (<-chan []models.Repository, func()) {
	if snap := c.snapshot.Load(); snap != nil {
		return c.updates.subscribe(cloneRepositories(*snap))
	}
	return c.updates.subscribe()
}

// Ready is closed once the initial load succeeded or ctx ended before it.
func (c *RepoCache) Ready() <-chan struct{} {
	return c.ready
}
