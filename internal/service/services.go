package service

import (
	"context"
	"os"
	"path/filepath"

	"github.com/MKhiriev/go-repo-sync/internal/adapter"
	"github.com/MKhiriev/go-repo-sync/internal/config"
	"github.com/MKhiriev/go-repo-sync/internal/logger"
	"github.com/MKhiriev/go-repo-sync/internal/store"
	"github.com/MKhiriev/go-repo-sync/internal/verifier"
)

// Services aggregates the client services.
type Services struct {
	Cache       *RepoCache
	Repos       RepoService
	Updater     Updater
	SyncManager SyncManager
	SyncJob     SyncJob
	RepoAdder   RepoAdder
}

// NewServices wires the services on top of storages. The repository cache
// follows the store until ctx is done.
func NewServices(ctx context.Context, storages *store.Storages, downloader adapter.Downloader,
	cfg *config.ClientConfig, log *logger.Logger) *Services {
	tempDir := cfg.App.TempDir
	if tempDir == "" {
		tempDir = filepath.Join(os.TempDir(), "repo-sync")
	}

	v := verifier.NewJarVerifier(log)
	cache := NewRepoCache(ctx, storages.Repositories, log)

	updater := NewRepoUpdater(
		NewIndexV2Updater(storages.Repositories, downloader, v, tempDir, log),
		NewIndexV1Updater(storages.Repositories, downloader, v, tempDir, log),
		downloader,
		storages.Repositories,
		log,
	)
	manager := NewSyncManager(storages.Repositories, updater, cfg.Workers.SyncConcurrency, log)

	return &Services{
		Cache:       cache,
		Repos:       NewRepoService(cache, storages.Repositories, storages.Packages, log),
		Updater:     updater,
		SyncManager: manager,
		SyncJob:     NewSyncJob(manager, log),
		RepoAdder:   NewRepoAdder(cache, storages.Repositories, manager, downloader, v, tempDir, log),
	}
}
