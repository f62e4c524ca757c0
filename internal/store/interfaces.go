// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store persists repositories and their packages.
//
// SQLite is the default backend; a postgres:// DSN switches to PostgreSQL
// through the pgx stdlib driver. Index writes go through [IndexTx], which
// wraps a single database transaction: either the whole index (or diff) is
// applied, or nothing is. Every committed change is announced on the
// [RepositoryStore.Subscribe] stream.
package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-repo-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// RepositoryStore manages repository rows and hands out index transactions.
type RepositoryStore interface {
	ListRepositories(ctx context.Context) ([]models.Repository, error)
	GetRepository(ctx context.Context, repoID int64) (models.Repository, error)
	// InsertRepository stores a new repository and returns its id.
	// An address that is already known yields [ErrRepositoryExists].
	InsertRepository(ctx context.Context, repo models.Repository) (int64, error)
	UpdateRepoMirrors(ctx context.Context, repoID int64, userMirrors, disabledMirrors []string) error
	SetEnabled(ctx context.Context, repoID int64, enabled bool) error
	SetCredentials(ctx context.Context, repoID int64, username, password string) error
	DeleteRepository(ctx context.Context, repoID int64) error
	// SetLastError records the error of the last sync; an empty msg clears it.
	SetLastError(ctx context.Context, repoID int64, msg string) error

	// BeginIndexTx opens the transaction an index or diff is applied in.
	BeginIndexTx(ctx context.Context, repoID int64) (IndexTx, error)

	// Subscribe returns a stream of change events and a function that
	// releases it.
	Subscribe() (<-chan ChangeEvent, func())
}

// PackageStore reads packages outside of index transactions.
type PackageStore interface {
	ListPackages(ctx context.Context, filter PackageFilter) ([]models.PackageEntry, error)
	CountPackages(ctx context.Context, repoID int64) (int, error)
}

// IndexTx applies one index or diff. Nothing is visible to other readers
// before Commit; Rollback after Commit is a no-op.
type IndexTx interface {
	UpsertRepoMetadata(ctx context.Context, repo models.RepoMetadata) error
	UpsertPackage(ctx context.Context, packageID string, pkg models.Package) error
	// GetPackage returns the stored package; ok is false when it is absent.
	GetPackage(ctx context.Context, packageID string) (pkg models.Package, ok bool, err error)
	DeletePackage(ctx context.Context, packageID string) error
	ClearPackages(ctx context.Context) error
	UpdateRepoTrust(ctx context.Context, trust RepoTrust) error
	Commit() error
	Rollback() error
}

// RepoTrust is written together with a successfully applied index.
type RepoTrust struct {
	Timestamp     int64
	LastUpdated   time.Time
	Certificate   string
	FormatVersion models.FormatVersion
}

// PackageFilter narrows [PackageStore.ListPackages].
type PackageFilter struct {
	RepoID int64
	// Prefix matches the beginning of the package id.
	Prefix string
	Limit  uint64
	Offset uint64
}

// ChangeKind tells subscribers what happened to a repository.
type ChangeKind string

const (
	ChangeInserted ChangeKind = "inserted"
	ChangeUpdated  ChangeKind = "updated"
	ChangeDeleted  ChangeKind = "deleted"
	ChangeIndex    ChangeKind = "index"
)

// ChangeEvent is published after a committed change.
type ChangeEvent struct {
	Kind   ChangeKind `json:"kind"`
	RepoID int64      `json:"repo_id"`
}
