// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"maps"
	"net"
	"net/url"
	"slices"
	"strings"
	"time"
)

// FormatVersion is the index schema generation a repository has committed to.
type FormatVersion int

const (
	// FormatVersionNone marks a repository that was never synced successfully.
	FormatVersionNone FormatVersion = iota
	// FormatVersionV1 is the legacy single-document index (index-v1.jar).
	FormatVersionV1
	// FormatVersionV2 is the entry + index + diffs layout (entry.jar).
	FormatVersionV2
)

func (v FormatVersion) String() string {
	switch v {
	case FormatVersionV1:
		return "ONE"
	case FormatVersionV2:
		return "TWO"
	default:
		return "NONE"
	}
}

// Mirror is an alternate base URL serving the same repository content.
type Mirror struct {
	URL         string `json:"url"`
	CountryCode string `json:"countryCode,omitempty"`
}

// IsLocal reports whether the mirror points at a LAN or loopback host.
// Proxies are never applied to such mirrors.
func (m Mirror) IsLocal() bool {
	u, err := url.Parse(m.URL)
	if err != nil {
		return false
	}
	host := u.Hostname()

	if host == "localhost" || strings.HasSuffix(host, ".local") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && (ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast())
}

// Repository is the locally stored identity and trust state of a remote
// repository together with its last synced metadata.
type Repository struct {
	RepoID        int64         `json:"repo_id"`
	Address       string        `json:"address"`
	FormatVersion FormatVersion `json:"format_version"`
	// Timestamp is the index timestamp (ms) of the last applied index.
	Timestamp int64 `json:"timestamp"`
	// LastUpdated is the wall clock of the last successful sync.
	LastUpdated *time.Time `json:"last_updated,omitempty"`
	// Certificate is the hex encoded signing certificate, empty until the
	// first verified fetch.
	Certificate string `json:"certificate,omitempty"`
	// Fingerprint is an optional trust anchor used before Certificate is known.
	Fingerprint string `json:"fingerprint,omitempty"`

	Mirrors         []Mirror `json:"mirrors,omitempty"`
	UserMirrors     []string `json:"user_mirrors,omitempty"`
	DisabledMirrors []string `json:"disabled_mirrors,omitempty"`

	Username string `json:"username,omitempty"`
	Password string `json:"-"`

	Enabled bool `json:"enabled"`
	Weight  int  `json:"weight"`

	Name        LocalizedText `json:"name,omitempty"`
	Description LocalizedText `json:"description,omitempty"`
	Icon        LocalizedFile `json:"icon,omitempty"`
	WebBaseURL  string        `json:"web_base_url,omitempty"`

	AntiFeatures    map[string]CatalogEntry `json:"anti_features,omitempty"`
	Categories      map[string]CatalogEntry `json:"categories,omitempty"`
	ReleaseChannels map[string]CatalogEntry `json:"release_channels,omitempty"`

	// LastError holds the persistent per-repository error state, empty when
	// the last sync succeeded.
	LastError string `json:"last_error,omitempty"`
}

// Metadata rebuilds the repository object of the last applied index. Diffs
// are merged on top of it.
func (r Repository) Metadata() RepoMetadata {
	return RepoMetadata{
		Name:            r.Name,
		Icon:            r.Icon,
		Address:         r.Address,
		WebBaseURL:      r.WebBaseURL,
		Description:     r.Description,
		Mirrors:         r.Mirrors,
		Timestamp:       r.Timestamp,
		AntiFeatures:    r.AntiFeatures,
		Categories:      r.Categories,
		ReleaseChannels: r.ReleaseChannels,
	}
}

// WithMetadata copies the index owned fields of meta into r. The address and
// the timestamp are left alone: the former is the identity the user added,
// the latter only moves with a committed index.
func (r Repository) WithMetadata(meta RepoMetadata) Repository {
	r.Name = meta.Name
	r.Icon = meta.Icon
	r.WebBaseURL = meta.WebBaseURL
	r.Description = meta.Description
	r.Mirrors = meta.Mirrors
	r.AntiFeatures = meta.AntiFeatures
	r.Categories = meta.Categories
	r.ReleaseChannels = meta.ReleaseChannels
	return r
}

// Clone returns a copy of r that shares no slices or maps with it.
func (r Repository) Clone() Repository {
	if r.LastUpdated != nil {
		t := *r.LastUpdated
		r.LastUpdated = &t
	}
	r.Mirrors = slices.Clone(r.Mirrors)
	r.UserMirrors = slices.Clone(r.UserMirrors)
	r.DisabledMirrors = slices.Clone(r.DisabledMirrors)
	r.Name = maps.Clone(r.Name)
	r.Description = maps.Clone(r.Description)
	r.Icon = maps.Clone(r.Icon)
	r.AntiFeatures = cloneCatalog(r.AntiFeatures)
	r.Categories = cloneCatalog(r.Categories)
	r.ReleaseChannels = cloneCatalog(r.ReleaseChannels)
	return r
}

func cloneCatalog(c map[string]CatalogEntry) map[string]CatalogEntry {
	if c == nil {
		return nil
	}
	out := make(map[string]CatalogEntry, len(c))
	for k, e := range c {
		out[k] = CatalogEntry{
			Name:        maps.Clone(e.Name),
			Description: maps.Clone(e.Description),
			Icon:        maps.Clone(e.Icon),
		}
	}
	return out
}

// EffectiveMirrors returns the ordered list of mirrors to try: the canonical
// address first, then declared mirrors and user mirrors, minus disabled ones.
func (r Repository) EffectiveMirrors() []Mirror {
	disabled := make(map[string]struct{}, len(r.DisabledMirrors))
	for _, d := range r.DisabledMirrors {
		disabled[NormalizeURL(d)] = struct{}{}
	}

	seen := make(map[string]struct{})
	mirrors := make([]Mirror, 0, 1+len(r.Mirrors)+len(r.UserMirrors))
	add := func(m Mirror) {
		key := NormalizeURL(m.URL)
		if key == "" {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		if _, ok := disabled[key]; ok {
			return
		}
		seen[key] = struct{}{}
		mirrors = append(mirrors, m)
	}

	add(Mirror{URL: r.Address})
	for _, m := range r.Mirrors {
		add(m)
	}
	for _, u := range r.UserMirrors {
		add(Mirror{URL: u})
	}

	// everything disabled: fall back to the canonical address
	if len(mirrors) == 0 && r.Address != "" {
		mirrors = append(mirrors, Mirror{URL: r.Address})
	}

	return mirrors
}

// AllMirrorURLs returns the normalized canonical address, declared mirrors and
// user mirrors regardless of whether they are disabled.
func (r Repository) AllMirrorURLs() []string {
	urls := []string{NormalizeURL(r.Address)}
	for _, m := range r.Mirrors {
		urls = append(urls, NormalizeURL(m.URL))
	}
	for _, u := range r.UserMirrors {
		urls = append(urls, NormalizeURL(u))
	}
	return urls
}

// NormalizeURL trims whitespace and trailing slashes so that addresses can be
// compared.
func NormalizeURL(u string) string {
	return strings.TrimRight(strings.TrimSpace(u), "/")
}
