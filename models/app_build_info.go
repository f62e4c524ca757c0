// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

const unknownBuildValue = "N/A"

// AppBuildInfo holds the values injected with -ldflags at build time. Empty
// values read back as "N/A".
type AppBuildInfo struct {
	version string
	date    string
	commit  string
}

func NewAppBuildInfo(version, date, commit string) AppBuildInfo {
	return AppBuildInfo{version: version, date: date, commit: commit}
}

func (a AppBuildInfo) BuildVersion() string { return orUnknown(a.version) }

func (a AppBuildInfo) BuildDate() string { return orUnknown(a.date) }

func (a AppBuildInfo) BuildCommit() string { return orUnknown(a.commit) }

// Response is the body of GET /version.
func (a AppBuildInfo) Response() VersionResponse {
	return VersionResponse{
		Version: a.BuildVersion(),
		Date:    a.BuildDate(),
		Commit:  a.BuildCommit(),
	}
}

// UserAgent appends the build version to product, e.g. "go-repo-sync/1.4.0".
// Development builds without a version return product unchanged.
func (a AppBuildInfo) UserAgent(product string) string {
	if a.version == "" {
		return product
	}
	return product + "/" + a.version
}

func orUnknown(s string) string {
	if s == "" {
		return unknownBuildValue
	}
	return s
}
