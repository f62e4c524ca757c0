package handler

import (
	"github.com/MKhiriev/go-repo-sync/internal/config"
	"github.com/MKhiriev/go-repo-sync/internal/handler/http"
	"github.com/MKhiriev/go-repo-sync/internal/logger"
	"github.com/MKhiriev/go-repo-sync/internal/service"
	"github.com/MKhiriev/go-repo-sync/models"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, buildInfo models.AppBuildInfo, cfg config.ClientServer, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	return &Handlers{HTTP: http.NewHandler(services, buildInfo, logger)}, nil
}
