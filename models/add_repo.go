// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// FetchResult classifies a fetched repository against the known ones.
type FetchResult interface {
	fetchResult()
	// CanAdd reports whether committing this fetch would change anything.
	CanAdd() bool
	Kind() string
}

// IsNewRepository is a repository with an unknown certificate.
type IsNewRepository struct{}

// IsNewRepoAndNewMirror is a new repository fetched from an address that is
// not its canonical one; the fetch address becomes a user mirror.
type IsNewRepoAndNewMirror struct{}

// IsNewMirror is a known repository fetched from an unknown address.
type IsNewMirror struct{ ExistingRepoID int64 }

// IsExistingRepository is a known repository fetched from its own address.
type IsExistingRepository struct{ ExistingRepoID int64 }

// IsExistingMirror is a known repository fetched from one of its mirrors.
type IsExistingMirror struct{ ExistingRepoID int64 }

func (IsNewRepository) fetchResult()       {}
func (IsNewRepoAndNewMirror) fetchResult() {}
func (IsNewMirror) fetchResult()           {}
func (IsExistingRepository) fetchResult()  {}
func (IsExistingMirror) fetchResult()      {}

func (IsNewRepository) CanAdd() bool       { return true }
func (IsNewRepoAndNewMirror) CanAdd() bool { return true }
func (IsNewMirror) CanAdd() bool           { return true }
func (IsExistingRepository) CanAdd() bool  { return false }
func (IsExistingMirror) CanAdd() bool      { return false }

func (IsNewRepository) Kind() string       { return "new_repository" }
func (IsNewRepoAndNewMirror) Kind() string { return "new_repository_and_mirror" }
func (IsNewMirror) Kind() string           { return "new_mirror" }
func (IsExistingRepository) Kind() string  { return "existing_repository" }
func (IsExistingMirror) Kind() string      { return "existing_mirror" }

// AddRepoErrorKind names the reason an add-repository flow failed.
type AddRepoErrorKind string

const (
	AddRepoInvalidFingerprint AddRepoErrorKind = "invalid_fingerprint"
	AddRepoIOError            AddRepoErrorKind = "io_error"
	AddRepoInvalidIndex       AddRepoErrorKind = "invalid_index"
	AddRepoIsArchiveRepo      AddRepoErrorKind = "is_archive_repo"
	AddRepoUnknownSource      AddRepoErrorKind = "unknown_source"
)

// AddRepoState is the observable state of the add-repository flow. The
// concrete types are AddRepoNone, Fetching, Adding, Added and AddRepoError.
type AddRepoState interface {
	addRepoState()
	Name() string
}

// AddRepoNone means no flow is in progress.
type AddRepoNone struct{}

// Fetching holds the preview collected so far.
type Fetching struct {
	SessionID string             `json:"session_id"`
	FetchURL  string             `json:"fetch_url"`
	Repo      *Repository        `json:"repo,omitempty"`
	Packages  map[string]Package `json:"-"`
	// PackageCount is len(Packages), kept for JSON consumers.
	PackageCount int         `json:"package_count"`
	Result       FetchResult `json:"-"`
	Done         bool        `json:"done"`
}

// CanAdd reports whether the preview is complete and committing is allowed.
func (f Fetching) CanAdd() bool {
	return f.Done && f.Result != nil && f.Result.CanAdd()
}

// Adding means the fetched repository is being committed.
type Adding struct {
	SessionID string `json:"session_id"`
}

// Added is the terminal success state. Result is the outcome of the first
// sync of a new repository; it is nil when only a mirror was added.
type Added struct {
	SessionID string     `json:"session_id"`
	RepoID    int64      `json:"repo_id"`
	Result    SyncResult `json:"-"`
}

// AddRepoError is the terminal failure state.
type AddRepoError struct {
	SessionID string           `json:"session_id"`
	Kind      AddRepoErrorKind `json:"kind"`
	Err       error            `json:"-"`
}

func (AddRepoNone) addRepoState()  {}
func (Fetching) addRepoState()     {}
func (Adding) addRepoState()       {}
func (Added) addRepoState()        {}
func (AddRepoError) addRepoState() {}

func (AddRepoNone) Name() string  { return "none" }
func (Fetching) Name() string     { return "fetching" }
func (Adding) Name() string       { return "adding" }
func (Added) Name() string        { return "added" }
func (AddRepoError) Name() string { return "error" }

func (e AddRepoError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Err.Error()
}

func (e AddRepoError) Unwrap() error { return e.Err }
