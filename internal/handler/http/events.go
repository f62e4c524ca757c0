package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MKhiriev/go-repo-sync/internal/logger"
	"github.com/MKhiriev/go-repo-sync/models"
)

const (
	eventWriteWait    = 10 * time.Second
	eventPingInterval = 30 * time.Second
)

// events streams sync results, add-repository states and repository list
// snapshots to a WebSocket client until it disconnects.
func (h *Handler) events(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader already answered with an error status
		log.Err(err).Str("func", "*Handler.events").Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	eventClients.Inc()
	defer eventClients.Dec()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// incoming messages are ignored, reading only notices the close
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	syncEvents, releaseSync := h.services.SyncManager.Subscribe()
	defer releaseSync()
	addStates, releaseAdd := h.services.RepoAdder.Subscribe()
	defer releaseAdd()

	var snapshots <-chan []models.Repository
	if h.services.Cache != nil {
		ch, release := h.services.Cache.Subscribe()
		defer release()
		snapshots = ch
	}

	ping := time.NewTicker(eventPingInterval)
	defer ping.Stop()

	for {
		var ev models.Event
		select {
		case <-ctx.Done():
			return
		case <-ping.C:
			if err = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(eventWriteWait)); err != nil {
				return
			}
			continue
		case event, ok := <-syncEvents:
			if !ok {
				return
			}
			ev = models.Event{Type: models.EventSync, Sync: &event}
		case state, ok := <-addStates:
			if !ok {
				return
			}
			resp := models.NewAddRepoStateResponse(state)
			ev = models.Event{Type: models.EventAddRepo, AddRepo: &resp}
		case repos, ok := <-snapshots:
			if !ok {
				return
			}
			ev = models.Event{Type: models.EventRepositories, Repositories: repos}
		}

		_ = conn.SetWriteDeadline(time.Now().Add(eventWriteWait))
		if err = conn.WriteJSON(ev); err != nil {
			log.Debug().Err(err).Str("func", "*Handler.events").Msg("event client gone")
			return
		}
	}
}
