// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

// errNoServersAreCreated is returned when no listener address is configured.
var errNoServersAreCreated = errors.New("server: no listener address configured")
