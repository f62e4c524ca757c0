package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-repo-sync/internal/adapter"
	"github.com/MKhiriev/go-repo-sync/internal/logger"
	"github.com/MKhiriev/go-repo-sync/internal/store"
	"github.com/MKhiriev/go-repo-sync/models"
)

const msgIndexNotFound = "index not found on any mirror"

// repoUpdater tries the current format first and falls back to the legacy
// one when the repository has no entry.jar. A repository already on the
// current format is never downgraded. It keeps the per-repository error state.
type repoUpdater struct {
	v2         Updater
	v1         Updater
	downloader adapter.Downloader
	store      store.RepositoryStore
	logger     *logger.Logger
}

// NewRepoUpdater combines a current and a legacy format [Updater].
// downloader is used to tell a vanished index from a downgraded one.
func NewRepoUpdater(v2, v1 Updater, downloader adapter.Downloader, st store.RepositoryStore, log *logger.Logger) Updater {
	return &repoUpdater{v2: v2, v1: v1, downloader: downloader, store: st, logger: log}
}

func (u *repoUpdater) Update(ctx context.Context, repo models.Repository) models.SyncResult {
	res := u.v2.Update(ctx, repo)
	if u.fallback(ctx, repo, res) {
		res = u.v1.Update(ctx, repo)
	}
	res = u.checkDowngrade(ctx, repo, res)
	u.recordResult(ctx, repo, res)
	return res
}

func (u *repoUpdater) UpdateNewRepo(ctx context.Context, repo models.Repository, first NewRepoSync) models.SyncResult {
	res := u.v2.UpdateNewRepo(ctx, repo, first)
	if u.fallback(ctx, repo, res) {
		res = u.v1.UpdateNewRepo(ctx, repo, first)
	}
	u.recordResult(ctx, repo, res)
	return res
}

func (u *repoUpdater) FormatVersion() models.FormatVersion {
	return u.v2.FormatVersion()
}

func (u *repoUpdater) fallback(ctx context.Context, repo models.Repository, res models.SyncResult) bool {
	_, notFound := res.(models.SyncNotFound)
	return notFound && repo.FormatVersion != models.FormatVersionV2 && ctx.Err() == nil
}

// checkDowngrade turns a missing entry of a repository on the current format
// into an error when the repository serves a legacy index instead.
func (u *repoUpdater) checkDowngrade(ctx context.Context, repo models.Repository, res models.SyncResult) models.SyncResult {
	if _, notFound := res.(models.SyncNotFound); !notFound || repo.FormatVersion != models.FormatVersionV2 {
		return res
	}

	_, err := u.downloader.Head(ctx, adapter.DownloadRequest{
		IndexFile: indexV1Container,
		Mirrors:   repo.EffectiveMirrors(),
		Username:  repo.Username,
		Password:  repo.Password,
	})
	if err != nil {
		return res
	}

	logger.FromContext(ctx).Warn().Str("func", "repoUpdater.checkDowngrade").
		Int64("repo_id", repo.RepoID).Msg("entry is gone but a legacy index is served")
	return models.SyncError{Err: fmt.Errorf("%w: repository %d serves only %s", ErrFormatDowngrade, repo.RepoID, indexV1Container)}
}

func (u *repoUpdater) recordResult(ctx context.Context, repo models.Repository, res models.SyncResult) {
	var msg string
	switch r := res.(type) {
	case models.SyncProcessed:
		// cleared together with the committed index
		return
	case models.SyncUnchanged:
		if repo.LastError == "" {
			return
		}
	case models.SyncNotFound:
		msg = msgIndexNotFound
	case models.SyncError:
		msg = r.String()
	}

	if err := u.store.SetLastError(ctx, repo.RepoID, msg); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "repoUpdater.recordResult").
			Int64("repo_id", repo.RepoID).Msg("failed to store sync error")
	}
}
