package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-repo-sync/internal/logger"
	"github.com/MKhiriev/go-repo-sync/internal/service"
	"github.com/MKhiriev/go-repo-sync/internal/store"
)

var errorStatusMap = map[error]int{
	ErrInvalidRepoID: http.StatusBadRequest,
	ErrInvalidBody:   http.StatusBadRequest,
	ErrInvalidQuery:  http.StatusBadRequest,

	service.ErrInvalidArgument:     http.StatusBadRequest,
	service.ErrRepositoryDisabled:  http.StatusConflict,
	service.ErrSyncTooSoon:         http.StatusTooManyRequests,
	service.ErrInvalidAddRepoState: http.StatusConflict,
	service.ErrCacheNotReady:       http.StatusServiceUnavailable,
	service.ErrFormatDowngrade:     http.StatusConflict,

	store.ErrRepositoryNotFound: http.StatusNotFound,
	store.ErrRepositoryExists:   http.StatusConflict,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
	store.ErrEncoding:             http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError logs err and answers with the mapped status. Server errors do
// not leak their cause to the client.
func writeError(w http.ResponseWriter, r *http.Request, fn string, err error) {
	status := statusFromError(err)
	log := logger.FromRequest(r)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		log.Err(err).Str("func", fn).Msg("request failed")
		msg = http.StatusText(status)
	} else {
		log.Debug().Err(err).Str("func", fn).Int("status", status).Msg("request rejected")
	}
	http.Error(w, msg, status)
}
