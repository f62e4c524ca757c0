package models

// RepositoriesResponse lists the known repositories.
type RepositoriesResponse struct {
	Repositories []Repository `json:"repositories"`
	Length       int          `json:"length"`
}

// PackagesResponse is one page of stored packages.
type PackagesResponse struct {
	Packages []PackageEntry `json:"packages"`
	Length   int            `json:"length"`
}

// SyncAllResponse holds one event per repository that was synced.
type SyncAllResponse struct {
	Results []SyncEvent `json:"results"`
}

// AddedResponse is returned once a fetched repository was committed.
type AddedResponse struct {
	RepoID int64 `json:"repo_id"`
	// SyncResult is the outcome of the first sync, empty for a new mirror.
	SyncResult string `json:"sync_result,omitempty"`
}

func NewAddedResponse(a Added) AddedResponse {
	resp := AddedResponse{RepoID: a.RepoID}
	if a.Result != nil {
		resp.SyncResult = a.Result.String()
	}
	return resp
}

// AddRepoStateResponse is the wire form of an AddRepoState.
type AddRepoStateResponse struct {
	State        string      `json:"state"`
	SessionID    string      `json:"session_id,omitempty"`
	FetchURL     string      `json:"fetch_url,omitempty"`
	Repo         *Repository `json:"repo,omitempty"`
	PackageCount int         `json:"package_count,omitempty"`
	Done         bool        `json:"done,omitempty"`
	Result       string      `json:"result,omitempty"`
	// ExistingRepoID is set for results that refer to a stored repository.
	ExistingRepoID int64  `json:"existing_repo_id,omitempty"`
	CanAdd         bool   `json:"can_add"`
	RepoID         int64  `json:"repo_id,omitempty"`
	SyncResult     string `json:"sync_result,omitempty"`
	ErrorKind      string `json:"error_kind,omitempty"`
	Error          string `json:"error,omitempty"`
}

// NewAddRepoStateResponse flattens state for JSON consumers.
func NewAddRepoStateResponse(state AddRepoState) AddRepoStateResponse {
	if state == nil {
		state = AddRepoNone{}
	}
	resp := AddRepoStateResponse{State: state.Name()}

	switch s := state.(type) {
	case Fetching:
		resp.SessionID = s.SessionID
		resp.FetchURL = s.FetchURL
		resp.Repo = s.Repo
		resp.PackageCount = s.PackageCount
		resp.Done = s.Done
		resp.CanAdd = s.CanAdd()
		if s.Result != nil {
			resp.Result = s.Result.Kind()
			resp.ExistingRepoID = existingRepoID(s.Result)
		}
	case Adding:
		resp.SessionID = s.SessionID
	case Added:
		resp.SessionID = s.SessionID
		resp.RepoID = s.RepoID
		if s.Result != nil {
			resp.SyncResult = s.Result.String()
		}
	case AddRepoError:
		resp.SessionID = s.SessionID
		resp.ErrorKind = string(s.Kind)
		if s.Err != nil {
			resp.Error = s.Err.Error()
		}
	}
	return resp
}

func existingRepoID(r FetchResult) int64 {
	switch v := r.(type) {
	case IsNewMirror:
		return v.ExistingRepoID
	case IsExistingRepository:
		return v.ExistingRepoID
	case IsExistingMirror:
		return v.ExistingRepoID
	}
	return 0
}

// EventType names the payload of an Event.
type EventType string

const (
	EventSync         EventType = "sync"
	EventAddRepo      EventType = "add_repo"
	EventRepositories EventType = "repositories"
)

// Event is one message of the live event stream.
type Event struct {
	Type         EventType             `json:"type"`
	Sync         *SyncEvent            `json:"sync,omitempty"`
	AddRepo      *AddRepoStateResponse `json:"add_repo,omitempty"`
	Repositories []Repository          `json:"repositories,omitempty"`
}

// VersionResponse describes the running build.
type VersionResponse struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Commit  string `json:"commit"`
}
