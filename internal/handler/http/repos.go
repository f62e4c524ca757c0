package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-repo-sync/internal/store"
	"github.com/MKhiriev/go-repo-sync/internal/utils"
	"github.com/MKhiriev/go-repo-sync/models"
)

const (
	defaultPageSize = 100
	maxPageSize     = 1000
)

func repoIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRepoID, raw)
	}
	return id, nil
}

// decodeBody decodes the JSON body into v and validates it.
func (h *Handler) decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if err := h.validator.Validate(r.Context(), v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	return nil
}

func (h *Handler) listRepos(w http.ResponseWriter, r *http.Request) {
	repos, err := h.services.Repos.Repositories(r.Context())
	if err != nil {
		writeError(w, r, "*Handler.listRepos", err)
		return
	}

	utils.WriteJSON(w, models.RepositoriesResponse{Repositories: repos, Length: len(repos)}, http.StatusOK)
}

func (h *Handler) getRepo(w http.ResponseWriter, r *http.Request) {
	repoID, err := repoIDParam(r)
	if err != nil {
		writeError(w, r, "*Handler.getRepo", err)
		return
	}

	repo, err := h.services.Repos.Repository(r.Context(), repoID)
	if err != nil {
		writeError(w, r, "*Handler.getRepo", err)
		return
	}

	utils.WriteJSON(w, repo, http.StatusOK)
}

func (h *Handler) patchRepo(w http.ResponseWriter, r *http.Request) {
	repoID, err := repoIDParam(r)
	if err != nil {
		writeError(w, r, "*Handler.patchRepo", err)
		return
	}

	var req models.RepoPatchRequest
	if err = h.decodeBody(r, &req); err != nil {
		writeError(w, r, "*Handler.patchRepo", err)
		return
	}

	if err = h.services.Repos.SetEnabled(r.Context(), repoID, *req.Enabled); err != nil {
		writeError(w, r, "*Handler.patchRepo", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteRepo(w http.ResponseWriter, r *http.Request) {
	repoID, err := repoIDParam(r)
	if err != nil {
		writeError(w, r, "*Handler.deleteRepo", err)
		return
	}

	if err = h.services.Repos.DeleteRepository(r.Context(), repoID); err != nil {
		writeError(w, r, "*Handler.deleteRepo", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) syncRepo(w http.ResponseWriter, r *http.Request) {
	repoID, err := repoIDParam(r)
	if err != nil {
		writeError(w, r, "*Handler.syncRepo", err)
		return
	}

	result, err := h.services.SyncManager.SyncRepository(r.Context(), repoID)
	if err != nil {
		writeError(w, r, "*Handler.syncRepo", err)
		return
	}

	utils.WriteJSON(w, models.NewSyncEvent(repoID, result), http.StatusOK)
}

func (h *Handler) syncAll(w http.ResponseWriter, r *http.Request) {
	results, err := h.services.SyncManager.SyncAll(r.Context())
	if err != nil {
		writeError(w, r, "*Handler.syncAll", err)
		return
	}

	ids := make([]int64, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	resp := models.SyncAllResponse{Results: make([]models.SyncEvent, 0, len(ids))}
	for _, id := range ids {
		resp.Results = append(resp.Results, models.NewSyncEvent(id, results[id]))
	}
	utils.WriteJSON(w, resp, http.StatusOK)
}

func (h *Handler) listPackages(w http.ResponseWriter, r *http.Request) {
	repoID, err := repoIDParam(r)
	if err != nil {
		writeError(w, r, "*Handler.listPackages", err)
		return
	}

	filter, err := packageFilter(r, repoID)
	if err != nil {
		writeError(w, r, "*Handler.listPackages", err)
		return
	}

	packages, err := h.services.Repos.ListPackages(r.Context(), filter)
	if err != nil {
		writeError(w, r, "*Handler.listPackages", err)
		return
	}

	utils.WriteJSON(w, models.PackagesResponse{Packages: packages, Length: len(packages)}, http.StatusOK)
}

// packageFilter reads ?prefix=&limit=&offset= into a store filter.
func packageFilter(r *http.Request, repoID int64) (store.PackageFilter, error) {
	q := r.URL.Query()
	filter := store.PackageFilter{
		RepoID: repoID,
		Prefix: q.Get("prefix"),
		Limit:  defaultPageSize,
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || limit == 0 || limit > maxPageSize {
			return store.PackageFilter{}, fmt.Errorf("%w: limit must be within 1..%d", ErrInvalidQuery, maxPageSize)
		}
		filter.Limit = limit
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return store.PackageFilter{}, fmt.Errorf("%w: offset %q", ErrInvalidQuery, raw)
		}
		filter.Offset = offset
	}

	return filter, nil
}

func (h *Handler) setUserMirrors(w http.ResponseWriter, r *http.Request) {
	h.updateMirrors(w, r, "*Handler.setUserMirrors", h.services.Repos.SetUserMirrors)
}

func (h *Handler) setDisabledMirrors(w http.ResponseWriter, r *http.Request) {
	h.updateMirrors(w, r, "*Handler.setDisabledMirrors", h.services.Repos.SetDisabledMirrors)
}

func (h *Handler) updateMirrors(w http.ResponseWriter, r *http.Request, fn string,
	set func(ctx context.Context, repoID int64, mirrors []string) error) {
	repoID, err := repoIDParam(r)
	if err != nil {
		writeError(w, r, fn, err)
		return
	}

	var req models.MirrorsRequest
	if err = h.decodeBody(r, &req); err != nil {
		writeError(w, r, fn, err)
		return
	}

	if err = set(r.Context(), repoID, req.Mirrors); err != nil {
		writeError(w, r, fn, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setCredentials(w http.ResponseWriter, r *http.Request) {
	repoID, err := repoIDParam(r)
	if err != nil {
		writeError(w, r, "*Handler.setCredentials", err)
		return
	}

	var req models.CredentialsRequest
	if err = h.decodeBody(r, &req); err != nil {
		writeError(w, r, "*Handler.setCredentials", err)
		return
	}

	if err = h.services.Repos.SetCredentials(r.Context(), repoID, req.Username, req.Password); err != nil {
		writeError(w, r, "*Handler.setCredentials", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
