// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package index decodes repository index documents.
//
// Documents are streamed: the decoders never hold a full index in memory and
// report what they read through receiver callbacks. The top-level key order of
// a document is not guaranteed, so packages read before the repository object
// are buffered and delivered right after it.
package index

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/go-repo-sync/models"
)

// Receiver consumes a full index. ReceiveRepo is called exactly once per
// document: before the packages for the current format, after them for the
// legacy one. StreamEnded is called last on success.
type Receiver interface {
	ReceiveRepo(ctx context.Context, repo models.RepoMetadata) error
	ReceivePackage(ctx context.Context, packageID string, pkg models.Package) error
	StreamEnded(ctx context.Context) error
}

// DiffReceiver consumes a diff document. Values are raw JSON objects or the
// literal null; the repo diff is optional.
type DiffReceiver interface {
	ReceiveRepoDiff(ctx context.Context, raw json.RawMessage) error
	ReceivePackageDiff(ctx context.Context, packageID string, raw json.RawMessage) error
	StreamEnded(ctx context.Context) error
}
