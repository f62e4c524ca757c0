package service

import (
	"context"

	"github.com/MKhiriev/go-repo-sync/internal/adapter"
	"github.com/MKhiriev/go-repo-sync/internal/logger"
	"github.com/MKhiriev/go-repo-sync/internal/store"
	"github.com/MKhiriev/go-repo-sync/models"
)

// indexV2Updater applies entry.jar based indexes and their diffs.
type indexV2Updater struct {
	*indexUpdater
}

// NewIndexV2Updater returns an [Updater] for the current index format.
func NewIndexV2Updater(st store.RepositoryStore, downloader adapter.Downloader, v Verifier, tempDir string, log *logger.Logger) Updater {
	return &indexV2Updater{indexUpdater: newIndexUpdater(st, downloader, v, tempDir, log)}
}

func (u *indexV2Updater) Update(ctx context.Context, repo models.Repository) models.SyncResult {
	return u.update(ctx, repo, nil, u.fetcher.fetchV2)
}

func (u *indexV2Updater) UpdateNewRepo(ctx context.Context, repo models.Repository, first NewRepoSync) models.SyncResult {
	return u.update(ctx, repo, &first, u.fetcher.fetchV2)
}

func (u *indexV2Updater) FormatVersion() models.FormatVersion {
	return models.FormatVersionV2
}
