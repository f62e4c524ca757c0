package http

import (
	"net/http"

	"github.com/MKhiriev/go-repo-sync/internal/utils"
	"github.com/MKhiriev/go-repo-sync/models"
)

func (h *Handler) getAddRepo(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, models.NewAddRepoStateResponse(h.services.RepoAdder.State()), http.StatusOK)
}

// startAddRepo starts a preview fetch. The fetch keeps running after the
// request returns; progress is polled on GET or streamed on /api/events.
func (h *Handler) startAddRepo(w http.ResponseWriter, r *http.Request) {
	var req models.AddRepoRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(w, r, "*Handler.startAddRepo", err)
		return
	}

	session := h.services.RepoAdder.FetchRepository(r.Context(), req.URL, req.Proxy)

	utils.WriteJSON(w, models.NewAddRepoStateResponse(models.Fetching{SessionID: session}), http.StatusAccepted)
}

func (h *Handler) commitAddRepo(w http.ResponseWriter, r *http.Request) {
	added, err := h.services.RepoAdder.AddFetchedRepository(r.Context())
	if err != nil {
		writeError(w, r, "*Handler.commitAddRepo", err)
		return
	}

	utils.WriteJSON(w, models.NewAddedResponse(added), http.StatusCreated)
}

func (h *Handler) abortAddRepo(w http.ResponseWriter, r *http.Request) {
	h.services.RepoAdder.Abort()
	w.WriteHeader(http.StatusNoContent)
}
