package models

import (
	"maps"
	"slices"
	"strconv"
)

// LocalizedText maps a locale tag (e.g. "en-US") to a string.
type LocalizedText map[string]string

// Best returns the text for locale, falling back to en-US, then to the
// alphabetically first locale.
func (t LocalizedText) Best(locale string) string {
	for _, l := range []string{locale, "en-US", "en"} {
		if v, ok := t[l]; ok && l != "" {
			return v
		}
	}
	if len(t) == 0 {
		return ""
	}
	return t[slices.Sorted(maps.Keys(t))[0]]
}

// LocalizedFile maps a locale tag to a file reference.
type LocalizedFile map[string]FileRef

// LocalizedFileList maps a locale tag to an ordered list of files.
type LocalizedFileList map[string][]FileRef

// FileRef points at a file relative to the repository root.
type FileRef struct {
	Name   string `json:"name"`
	SHA256 string `json:"sha256,omitempty"`
	Size   int64  `json:"size,omitempty"`
}

// IndexFileRef describes an index artifact named by the entry manifest.
type IndexFileRef struct {
	Name        string `json:"name"`
	SHA256      string `json:"sha256"`
	Size        int64  `json:"size"`
	NumPackages int    `json:"numPackages"`
}

// EntryManifest is the small signed document naming the full index and the
// diffs available from prior timestamps.
type EntryManifest struct {
	Timestamp int64                   `json:"timestamp"`
	Version   int64                   `json:"version"`
	MaxAge    int                     `json:"maxAge,omitempty"`
	Index     IndexFileRef            `json:"index"`
	Diffs     map[string]IndexFileRef `json:"diffs,omitempty"`
}

// DiffFor returns the diff that applies on top of an index with the given
// timestamp, if the repository published one.
func (e EntryManifest) DiffFor(timestamp int64) (IndexFileRef, bool) {
	ref, ok := e.Diffs[strconv.FormatInt(timestamp, 10)]
	return ref, ok
}

// CatalogEntry is an anti-feature, category or release channel definition.
type CatalogEntry struct {
	Name        LocalizedText `json:"name,omitempty"`
	Description LocalizedText `json:"description,omitempty"`
	Icon        LocalizedFile `json:"icon,omitempty"`
}

// RepoMetadata is the repository object of an index document.
type RepoMetadata struct {
	Name            LocalizedText           `json:"name,omitempty"`
	Icon            LocalizedFile           `json:"icon,omitempty"`
	Address         string                  `json:"address"`
	WebBaseURL      string                  `json:"webBaseUrl,omitempty"`
	Description     LocalizedText           `json:"description,omitempty"`
	Mirrors         []Mirror                `json:"mirrors,omitempty"`
	Timestamp       int64                   `json:"timestamp"`
	AntiFeatures    map[string]CatalogEntry `json:"antiFeatures,omitempty"`
	Categories      map[string]CatalogEntry `json:"categories,omitempty"`
	ReleaseChannels map[string]CatalogEntry `json:"releaseChannels,omitempty"`
}

// Screenshots groups per-device screenshot lists.
type Screenshots struct {
	Phone     LocalizedFileList `json:"phone,omitempty"`
	SevenInch LocalizedFileList `json:"sevenInch,omitempty"`
	TenInch   LocalizedFileList `json:"tenInch,omitempty"`
	Wear      LocalizedFileList `json:"wear,omitempty"`
	TV        LocalizedFileList `json:"tv,omitempty"`
}

// Metadata is the version independent description of a package.
type Metadata struct {
	Added           int64         `json:"added"`
	LastUpdated     int64         `json:"lastUpdated"`
	Name            LocalizedText `json:"name,omitempty"`
	Summary         LocalizedText `json:"summary,omitempty"`
	Description     LocalizedText `json:"description,omitempty"`
	WebSite         string        `json:"webSite,omitempty"`
	SourceCode      string        `json:"sourceCode,omitempty"`
	IssueTracker    string        `json:"issueTracker,omitempty"`
	Changelog       string        `json:"changelog,omitempty"`
	Donate          []string      `json:"donate,omitempty"`
	License         string        `json:"license,omitempty"`
	AuthorName      string        `json:"authorName,omitempty"`
	AuthorEmail     string        `json:"authorEmail,omitempty"`
	Categories      []string      `json:"categories,omitempty"`
	Icon            LocalizedFile `json:"icon,omitempty"`
	FeatureGraphic  LocalizedFile `json:"featureGraphic,omitempty"`
	Screenshots     *Screenshots  `json:"screenshots,omitempty"`
	PreferredSigner string        `json:"preferredSigner,omitempty"`
}

// UsesSdk is the SDK range declared by a version's manifest.
type UsesSdk struct {
	MinSdkVersion    int `json:"minSdkVersion"`
	TargetSdkVersion int `json:"targetSdkVersion"`
}

// Signer lists the SHA-256 fingerprints of the APK signing certificates.
type Signer struct {
	SHA256 []string `json:"sha256"`
}

// Manifest is the subset of the APK manifest published in the index.
type Manifest struct {
	VersionName string   `json:"versionName"`
	VersionCode int64    `json:"versionCode"`
	UsesSdk     *UsesSdk `json:"usesSdk,omitempty"`
	Signer      *Signer  `json:"signer,omitempty"`
	NativeCode  []string `json:"nativecode,omitempty"`
	Features    []string `json:"features,omitempty"`
}

// PackageVersion is a single published build of a package.
type PackageVersion struct {
	Added           int64                    `json:"added"`
	File            FileRef                  `json:"file"`
	Src             *FileRef                 `json:"src,omitempty"`
	Manifest        Manifest                 `json:"manifest"`
	ReleaseChannels []string                 `json:"releaseChannels,omitempty"`
	AntiFeatures    map[string]LocalizedText `json:"antiFeatures,omitempty"`
	WhatsNew        LocalizedText            `json:"whatsNew,omitempty"`
}

// Package bundles metadata with all versions keyed by version id.
type Package struct {
	Metadata Metadata                  `json:"metadata"`
	Versions map[string]PackageVersion `json:"versions,omitempty"`
}

// IndexDocument is a fully materialized repository index.
type IndexDocument struct {
	Repo     RepoMetadata       `json:"repo"`
	Packages map[string]Package `json:"packages"`
}

// PackageEntry is a stored package together with its identity.
type PackageEntry struct {
	RepoID    int64   `json:"repo_id"`
	PackageID string  `json:"package_id"`
	Package   Package `json:"package"`
}
