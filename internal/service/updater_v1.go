package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-repo-sync/internal/adapter"
	"github.com/MKhiriev/go-repo-sync/internal/logger"
	"github.com/MKhiriev/go-repo-sync/internal/store"
	"github.com/MKhiriev/go-repo-sync/models"
)

// indexV1Updater applies legacy index-v1.jar indexes. It refuses repositories
// that already moved to the current format.
type indexV1Updater struct {
	*indexUpdater
}

// NewIndexV1Updater returns an [Updater] for the legacy index format.
func NewIndexV1Updater(st store.RepositoryStore, downloader adapter.Downloader, v Verifier, tempDir string, log *logger.Logger) Updater {
	return &indexV1Updater{indexUpdater: newIndexUpdater(st, downloader, v, tempDir, log)}
}

func (u *indexV1Updater) Update(ctx context.Context, repo models.Repository) models.SyncResult {
	if err := u.checkFormat(ctx, repo); err != nil {
		return models.SyncError{Err: err}
	}
	return u.update(ctx, repo, nil, u.fetcher.fetchV1)
}

func (u *indexV1Updater) UpdateNewRepo(ctx context.Context, repo models.Repository, first NewRepoSync) models.SyncResult {
	if err := u.checkFormat(ctx, repo); err != nil {
		return models.SyncError{Err: err}
	}
	return u.update(ctx, repo, &first, u.fetcher.fetchV1)
}

func (u *indexV1Updater) FormatVersion() models.FormatVersion {
	return models.FormatVersionV1
}

func (u *indexV1Updater) checkFormat(ctx context.Context, repo models.Repository) error {
	if repo.FormatVersion != models.FormatVersionV2 {
		return nil
	}
	logger.FromContext(ctx).Warn().Str("func", "indexV1Updater.checkFormat").
		Int64("repo_id", repo.RepoID).Str("address", repo.Address).
		Msg("refusing legacy index for a repository on the current format")
	return fmt.Errorf("%w: repository %d", ErrFormatDowngrade, repo.RepoID)
}
