package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-repo-sync/internal/adapter"
	"github.com/MKhiriev/go-repo-sync/internal/config"
	"github.com/MKhiriev/go-repo-sync/internal/logger"
	"github.com/MKhiriev/go-repo-sync/internal/service"
	"github.com/MKhiriev/go-repo-sync/internal/store"
)

const (
	clientRole = "repo-sync"
	serverRole = "repo-sync-server"
)

// engine is the wired sync engine a command works on.
type engine struct {
	cfg      *config.ClientConfig
	services *service.Services
	log      *logger.Logger
	close    func() error
}

func (c *cli) openEngine(cmd *cobra.Command, role string) (*engine, error) {
	cfg, err := config.GetClientConfig(c.flags)
	if err != nil {
		return nil, fmt.Errorf("error getting configs: %w", err)
	}
	if cfg.Adapter.UserAgent == config.DefaultUserAgent {
		cfg.Adapter.UserAgent = c.buildInfo.UserAgent(config.DefaultUserAgent)
	}

	log := logger.NewClientLogger(role)
	if role == serverRole {
		// the server runs in the foreground, its log belongs on the terminal
		log = logger.NewLogger(role)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("create storage: %w", err)
	}

	downloader := adapter.NewMirrorDownloader(cfg.Adapter, log)
	services := service.NewServices(ctx, storages, downloader, cfg, log)

	return &engine{
		cfg:      cfg,
		services: services,
		log:      log,
		close: func() error {
			services.RepoAdder.Abort()
			cancel()
			return storages.Close()
		},
	}, nil
}
