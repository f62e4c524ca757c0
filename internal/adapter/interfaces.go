// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter downloads repository files from a list of mirrors.
//
// Mirrors are tried in order. A mirror is skipped after a transport error, a
// redirect, a 5xx answer or a timed out attempt; the download continues on the
// next mirror, resuming a partial file with a range request. Errors are mapped
// to the sentinels in errors.go so callers can classify them with [errors.Is]
// ([ErrNotFound] when every mirror answered 404, [ErrNetwork] otherwise).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-repo-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/downloader_mock.go -package=mock

// Downloader fetches repository files from mirrors.
type Downloader interface {
	// Download writes the file named by req to dest. Existing bytes in dest
	// are resumed. On a size or hash violation dest is removed.
	Download(ctx context.Context, req DownloadRequest, dest string) error

	// Head asks the mirrors for the current ETag and length of the file.
	Head(ctx context.Context, req DownloadRequest) (HeadInfo, error)
}

// DownloadRequest names a file in a repository and how to fetch it.
type DownloadRequest struct {
	// IndexFile is the path of the file relative to the repository root,
	// e.g. "/entry.jar".
	IndexFile string
	Mirrors   []models.Mirror
	// Proxy is an optional proxy URL overriding the configured one.
	Proxy    string
	Username string
	Password string
	// ExpectedSize caps the download; zero means unknown.
	ExpectedSize int64
	// ExpectedSHA256 is the hex digest of the complete file; empty skips the
	// check.
	ExpectedSHA256 string
	// ETag is the cached ETag compared by Head.
	ETag string
	// TryFirstMirror moves the mirror with this URL to the front.
	TryFirstMirror string
}

// HeadInfo is the answer to a HEAD request.
type HeadInfo struct {
	// ETagChanged is true unless both the cached and the current ETag are
	// known and equal.
	ETagChanged   bool
	ETag          string
	ContentLength int64
}
