// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// repository sync client. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line flags,
// an optional JSON file and built-in defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env      : direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings.
	App App `envPrefix:"APP_"`

	// Storage holds the local database settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the settings of the local HTTP control API.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the settings used to talk to repository mirrors.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds configuration for the background sync job.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the --config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// Version is the version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// TempDir is where downloads are staged before verification.
	// Env: APP_TEMP_DIR
	TempDir string `env:"TEMP_DIR"`
}

// Storage groups the configuration for the storage backend.
type Storage struct {
	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`

	// CredentialsKey seals repository passwords before they are written to
	// the database. Empty stores them as given.
	// Env: STORAGE_CREDENTIALS_KEY
	CredentialsKey string `env:"CREDENTIALS_KEY"`
}

// DB holds connection settings for the relational database backend.
type DB struct {
	// DSN selects the driver by its form: "postgres://" and "postgresql://"
	// open PostgreSQL, anything else is handed to SQLite
	// (e.g. "file:repos.db?_foreign_keys=on").
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Server holds network and timeout settings for the control API.
type Server struct {
	// HTTPAddress is the TCP address the HTTP API listens on, in "host:port"
	// format.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single inbound request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Adapter holds the mirror download settings.
type Adapter struct {
	// RequestTimeout bounds a single attempt against one mirror. A timed out
	// attempt moves on to the next mirror.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// UserAgent is sent with every mirror request.
	// Env: ADAPTER_USER_AGENT
	UserAgent string `env:"USER_AGENT"`

	// Proxy is an optional HTTP proxy URL. It is never used for mirrors on
	// the local network.
	// Env: ADAPTER_PROXY
	Proxy string `env:"PROXY"`
}

// Workers holds configuration for the background sync job.
type Workers struct {
	// SyncInterval is how often all enabled repositories are synced.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`

	// SyncConcurrency caps how many repositories sync at the same time.
	// Env: WORKERS_SYNC_CONCURRENCY
	SyncConcurrency int `env:"SYNC_CONCURRENCY"`
}

// GetStructuredConfig loads and merges the configuration from all available
// sources. Earlier sources win for every field they set:
//  1. Environment variables
//  2. Command-line flags bound with [BindFlags]
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Defaults
func GetStructuredConfig(flags *Flags) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(flags).
		withJSON().
		withDefaults().
		build()
}
