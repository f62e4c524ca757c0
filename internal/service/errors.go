package service

import (
	"errors"

	"github.com/MKhiriev/go-repo-sync/internal/verifier"
)

var (
	// ErrInvalidArgument is shared with the verifier so that both a bad call
	// and a bad trust expectation match the same sentinel.
	ErrInvalidArgument = verifier.ErrInvalidArgument

	// ErrFormatDowngrade is returned when the legacy format is requested for a
	// repository that already uses the current one.
	ErrFormatDowngrade = errors.New("index format downgrade refused")

	ErrRepositoryDisabled = errors.New("repository is disabled")

	// ErrSyncTooSoon is returned by SyncAll calls inside the minimum interval.
	ErrSyncTooSoon = errors.New("sync of all repositories ran too recently")

	// ErrNoRepoReceived is returned when an index stream ended without a
	// repository object.
	ErrNoRepoReceived = errors.New("index contained no repository")

	ErrCacheNotReady = errors.New("repository cache failed to load")

	ErrInvalidAddRepoState = errors.New("invalid add repository state")
)
