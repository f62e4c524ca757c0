package models

import "fmt"

// SyncResult is the terminal outcome of one sync attempt. The concrete types
// are SyncUnchanged, SyncProcessed, SyncNotFound and SyncError.
type SyncResult interface {
	syncResult()
	String() string
}

// SyncUnchanged means the remote index was not newer than the stored one.
type SyncUnchanged struct{}

// SyncProcessed means a full index or a diff was applied.
type SyncProcessed struct{}

// SyncNotFound means the index was missing on every mirror.
type SyncNotFound struct{}

// SyncError carries the cause of a failed sync.
type SyncError struct {
	Err error
}

func (SyncUnchanged) syncResult() {}
func (SyncProcessed) syncResult() {}
func (SyncNotFound) syncResult()  {}
func (SyncError) syncResult()     {}

func (SyncUnchanged) String() string { return "unchanged" }
func (SyncProcessed) String() string { return "processed" }
func (SyncNotFound) String() string  { return "not_found" }
func (e SyncError) String() string   { return fmt.Sprintf("error: %v", e.Err) }

// Unwrap exposes the cause to errors.Is / errors.As.
func (e SyncError) Unwrap() error { return e.Err }

func (e SyncError) Error() string { return e.String() }

// SyncEvent reports a finished sync of one repository.
type SyncEvent struct {
	RepoID int64  `json:"repo_id"`
	Result string `json:"result"`
	Error  string `json:"error,omitempty"`
}

// NewSyncEvent builds the event for result.
func NewSyncEvent(repoID int64, result SyncResult) SyncEvent {
	ev := SyncEvent{RepoID: repoID, Result: "error"}
	switch r := result.(type) {
	case SyncUnchanged:
		ev.Result = r.String()
	case SyncProcessed:
		ev.Result = r.String()
	case SyncNotFound:
		ev.Result = r.String()
	case SyncError:
		if r.Err != nil {
			ev.Error = r.Err.Error()
		}
	}
	return ev
}
