// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"net/url"
	"strings"
)

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Currently a no-op; [ClientConfig.validate] holds the client rules.
func (cfg *StructuredConfig) validate() error {
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, ":memory:") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.RequestTimeout <= 0 || cfg.Adapter.UserAgent == "" {
		return ErrInvalidAdapterConfigs
	}
	if cfg.Adapter.Proxy != "" {
		u, err := url.Parse(cfg.Adapter.Proxy)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return ErrInvalidAdapterConfigs
		}
	}

	if cfg.Workers.SyncInterval <= 0 || cfg.Workers.SyncConcurrency < 1 {
		return ErrInvalidWorkerConfigs
	}

	if cfg.App.TempDir == "" {
		return ErrInvalidAppConfigs
	}

	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	return nil
}
