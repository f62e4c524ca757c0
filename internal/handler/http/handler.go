package http

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/MKhiriev/go-repo-sync/internal/logger"
	"github.com/MKhiriev/go-repo-sync/internal/service"
	"github.com/MKhiriev/go-repo-sync/internal/validators"
	"github.com/MKhiriev/go-repo-sync/models"
)

type Handler struct {
	services  *service.Services
	buildInfo models.AppBuildInfo
	upgrader  websocket.Upgrader
	validator validators.Validator

	logger *logger.Logger
}

func NewHandler(services *service.Services, buildInfo models.AppBuildInfo, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:  services,
		buildInfo: buildInfo,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the API listens on a local address and carries no credentials
			CheckOrigin: func(*http.Request) bool { return true },
		},
		validator: validators.NewRequestValidator(),
		logger:    logger,
	}
}
