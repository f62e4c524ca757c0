// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service keeps the local repositories in sync with their remotes.
//
// An update downloads the signed entry container of a repository, verifies it
// against the stored certificate, and applies either the full index or the
// diff from the stored timestamp inside a single store transaction. Results
// are reported as [models.SyncResult]; only this package classifies errors
// into results.
package service

import (
	"context"
	"io"
	"time"

	"github.com/MKhiriev/go-repo-sync/internal/store"
	"github.com/MKhiriev/go-repo-sync/internal/verifier"
	"github.com/MKhiriev/go-repo-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/servicemock/service_mock.go -package=servicemock

// Updater brings a single repository up to date.
type Updater interface {
	// Update syncs a known repository, trusting its stored certificate.
	Update(ctx context.Context, repo models.Repository) models.SyncResult
	// UpdateNewRepo syncs a repository for the first time. The signing
	// certificate must match first.Fingerprint when it is set; the
	// certificate found is adopted.
	UpdateNewRepo(ctx context.Context, repo models.Repository, first NewRepoSync) models.SyncResult
	FormatVersion() models.FormatVersion
}

// NewRepoSync describes the first sync of a repository.
type NewRepoSync struct {
	// Fingerprint is the expected SHA-256 of the signing certificate.
	Fingerprint string
	// Staged is an index already downloaded by the add-repository preview.
	Staged StagedIndex
}

// StagedIndex is a downloaded index file together with the hash it was
// verified against. The first sync reads it instead of downloading the index
// again when the entry still names the same hash.
type StagedIndex struct {
	Path   string
	SHA256 string
}

// Verifier opens a signed container and streams one of its entries.
type Verifier interface {
	Open(file, entryName string, expected verifier.Trust, fn func(io.Reader) error) (string, error)
}

// SyncManager runs updates, one at a time per repository.
type SyncManager interface {
	SyncRepository(ctx context.Context, repoID int64) (models.SyncResult, error)
	// SyncNewRepository runs the first sync of a just inserted repository
	// under the same per-repository lock as SyncRepository.
	SyncNewRepository(ctx context.Context, repoID int64, first NewRepoSync) (models.SyncResult, error)
	// SyncAll updates every enabled repository. Calls closer together than
	// the minimum interval return [ErrSyncTooSoon].
	SyncAll(ctx context.Context) (map[int64]models.SyncResult, error)
	// Subscribe streams the result of every finished sync.
	Subscribe() (<-chan models.SyncEvent, func())
}

// RepositoryReader is the read side of the repository cache.
type RepositoryReader interface {
	Repositories(ctx context.Context) ([]models.Repository, error)
	Repository(ctx context.Context, repoID int64) (models.Repository, error)
}

// RepoService manages stored repositories.
type RepoService interface {
	RepositoryReader
	SetEnabled(ctx context.Context, repoID int64, enabled bool) error
	DeleteRepository(ctx context.Context, repoID int64) error
	SetUserMirrors(ctx context.Context, repoID int64, mirrors []string) error
	SetDisabledMirrors(ctx context.Context, repoID int64, mirrors []string) error
	SetCredentials(ctx context.Context, repoID int64, username, password string) error
	ListPackages(ctx context.Context, filter store.PackageFilter) ([]models.PackageEntry, error)
}

// RepoAdder drives the add-repository flow. Only one flow is active at a time.
type RepoAdder interface {
	// FetchRepository starts a preview fetch of url in the background and
	// returns the session id. A running session is aborted first.
	FetchRepository(ctx context.Context, url, proxy string) string
	// AddFetchedRepository commits the preview. It is valid only once the
	// fetch is done and the result allows adding. A new repository is synced
	// once; the outcome is in [models.Added].Result.
	AddFetchedRepository(ctx context.Context) (models.Added, error)
	// Abort cancels the session without writing anything.
	Abort()
	State() models.AddRepoState
	Subscribe() (<-chan models.AddRepoState, func())
}

// SyncJob runs SyncAll periodically in the background.
type SyncJob interface {
	// Start stops a running job and starts a new one ticking every interval.
	Start(ctx context.Context, interval time.Duration)
	// Stop cancels the job and waits until it has exited.
	Stop()
}
