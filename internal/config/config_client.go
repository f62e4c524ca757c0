package config

import (
	"fmt"
	"time"
)

// ClientApp holds application settings of the sync client.
type ClientApp struct {
	// Version is reported by the version command and endpoint.
	Version string
	// TempDir is where downloads are staged.
	TempDir string
}

// ClientAdapter holds the mirror download settings.
type ClientAdapter struct {
	// RequestTimeout bounds a single mirror attempt.
	RequestTimeout time.Duration
	// UserAgent is sent with every mirror request.
	UserAgent string
	// Proxy is the optional HTTP proxy URL.
	Proxy string
}

// ClientDB contains local database connection settings.
type ClientDB struct {
	// DSN is the SQLite/PostgreSQL connection string.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
	// CredentialsKey seals repository passwords at rest.
	CredentialsKey string
}

// ClientServer holds the control API settings.
type ClientServer struct {
	// HTTPAddress is the listen address of the control API.
	HTTPAddress string
	// RequestTimeout bounds a single API request.
	RequestTimeout time.Duration
}

// ClientWorkers contains background sync settings.
type ClientWorkers struct {
	// SyncInterval defines how often all repositories are synced.
	SyncInterval time.Duration
	// SyncConcurrency caps parallel repository syncs.
	SyncConcurrency int
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// App contains application-level client settings.
	App ClientApp
	// Adapter contains mirror download settings.
	Adapter ClientAdapter
	// Storage contains client storage settings.
	Storage ClientStorage
	// Server contains control API settings.
	Server ClientServer
	// Workers contains background job settings.
	Workers ClientWorkers
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, and validates the resulting [ClientConfig].
func GetClientConfig(flags *Flags) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(flags)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		App: ClientApp{
			Version: cfg.App.Version,
			TempDir: cfg.App.TempDir,
		},
		Adapter: ClientAdapter{
			RequestTimeout: cfg.Adapter.RequestTimeout,
			UserAgent:      cfg.Adapter.UserAgent,
			Proxy:          cfg.Adapter.Proxy,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN: cfg.Storage.DB.DSN,
			},
			CredentialsKey: cfg.Storage.CredentialsKey,
		},
		Server: ClientServer{
			HTTPAddress:    cfg.Server.HTTPAddress,
			RequestTimeout: cfg.Server.RequestTimeout,
		},
		Workers: ClientWorkers{
			SyncInterval:    cfg.Workers.SyncInterval,
			SyncConcurrency: cfg.Workers.SyncConcurrency,
		},
	}
}
