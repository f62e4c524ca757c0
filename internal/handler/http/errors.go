// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

var (
	// ErrInvalidRepoID is returned when the {id} path parameter is not a
	// positive integer.
	ErrInvalidRepoID = errors.New("invalid repository id")

	// ErrInvalidBody is returned when a request body is not the expected JSON.
	ErrInvalidBody = errors.New("invalid request body")

	// ErrInvalidQuery is returned for malformed paging parameters.
	ErrInvalidQuery = errors.New("invalid query parameter")
)
