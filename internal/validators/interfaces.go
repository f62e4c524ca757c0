// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks the shape of control API request bodies before
// they reach the services.
//
// A Validator accepts a value and an optional list of field names; with no
// names every rule for the type is applied. Semantic checks that need state,
// such as whether a mirror belongs to a repository, stay in the services.
package validators

import "context"

// Validator validates request values.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}
