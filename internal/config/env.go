// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"maps"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix namespaces the environment variables: REPO_SYNC_SERVER_ADDRESS
// is read as SERVER_ADDRESS and wins over it.
const EnvPrefix = "REPO_SYNC_"

func parseEnv(cfg *StructuredConfig) error {
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ(os.Environ())}); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}
	return nil
}

func environ(pairs []string) map[string]string {
	vars := make(map[string]string, len(pairs))
	prefixed := make(map[string]string)
	for _, kv := range pairs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if name, found := strings.CutPrefix(k, EnvPrefix); found && name != "" {
			prefixed[name] = v
			continue
		}
		vars[k] = v
	}
	maps.Copy(vars, prefixed)
	return vars
}
