package index

import (
	"context"
	"encoding/json"
	"io"
	"path"
	"sort"
	"strconv"

	"github.com/MKhiriev/go-repo-sync/models"
)

const (
	// DefaultLocale is used for legacy fields that carry no locale.
	DefaultLocale = "en-US"
	// ReleaseChannelBeta is the only release channel the legacy format knows.
	ReleaseChannelBeta = "Beta"
)

type repoV1 struct {
	Timestamp   int64    `json:"timestamp"`
	Version     int64    `json:"version"`
	Name        string   `json:"name"`
	Icon        string   `json:"icon"`
	Address     string   `json:"address"`
	Description string   `json:"description"`
	Mirrors     []string `json:"mirrors"`
}

type localizedV1 struct {
	Name             string   `json:"name"`
	Summary          string   `json:"summary"`
	Description      string   `json:"description"`
	WhatsNew         string   `json:"whatsNew"`
	Icon             string   `json:"icon"`
	FeatureGraphic   string   `json:"featureGraphic"`
	PhoneScreenshots []string `json:"phoneScreenshots"`
}

type appV1 struct {
	PackageName          string                 `json:"packageName"`
	Categories           []string               `json:"categories"`
	AntiFeatures         []string               `json:"antiFeatures"`
	SuggestedVersionCode string                 `json:"suggestedVersionCode"`
	Name                 string                 `json:"name"`
	Summary              string                 `json:"summary"`
	Description          string                 `json:"description"`
	License              string                 `json:"license"`
	WebSite              string                 `json:"webSite"`
	SourceCode           string                 `json:"sourceCode"`
	IssueTracker         string                 `json:"issueTracker"`
	Changelog            string                 `json:"changelog"`
	Donate               string                 `json:"donate"`
	AuthorName           string                 `json:"authorName"`
	AuthorEmail          string                 `json:"authorEmail"`
	Added                int64                  `json:"added"`
	LastUpdated          int64                  `json:"lastUpdated"`
	Icon                 string                 `json:"icon"`
	Localized            map[string]localizedV1 `json:"localized"`
}

type packageV1 struct {
	Added            int64    `json:"added"`
	ApkName          string   `json:"apkName"`
	Hash             string   `json:"hash"`
	HashType         string   `json:"hashType"`
	MinSdkVersion    int      `json:"minSdkVersion"`
	TargetSdkVersion int      `json:"targetSdkVersion"`
	Signer           string   `json:"signer"`
	Size             int64    `json:"size"`
	SrcName          string   `json:"srcname"`
	VersionCode      int64    `json:"versionCode"`
	VersionName      string   `json:"versionName"`
	NativeCode       []string `json:"nativecode"`
	Features         []string `json:"features"`
	AntiFeatures     []string `json:"antiFeatures"`
}

// appData is what the legacy decoder keeps per app until the app's versions
// arrive.
type appData struct {
	metadata             models.Metadata
	antiFeatures         []string
	whatsNew             models.LocalizedText
	suggestedVersionCode int64
}

// V1Decoder streams the legacy index-v1.json format and converts it to the
// current model.
type V1Decoder struct{}

// NewV1Decoder returns a decoder for the legacy index format.
func NewV1Decoder() *V1Decoder {
	return &V1Decoder{}
}

// Decode reads a legacy index from r. The repository timestamp must be newer
// than lastTimestamp, otherwise a *StaleIndexError is returned before any
// callback. ReceiveRepo is called once, after all apps were read, because the
// anti-feature and category catalogs are collected from the apps.
// Packages are emitted as soon as both their app entry and their version list
// were read.
func (d *V1Decoder) Decode(ctx context.Context, r io.Reader, lastTimestamp int64, recv Receiver) error {
	t := newTokenReader(r)
	if err := t.openObject("$"); err != nil {
		return err
	}

	var (
		repo     *models.RepoMetadata
		apps     = make(map[string]*appData)
		versions = make(map[string]map[string]models.PackageVersion)
		emitted  = make(map[string]struct{})
		ready    []string
	)

	flush := func() error {
		if repo == nil {
			return nil
		}
		for _, id := range ready {
			if err := ctx.Err(); err != nil {
				return err
			}
			app := apps[id]
			pkg := models.Package{Metadata: app.metadata, Versions: versions[id]}
			if err := recv.ReceivePackage(ctx, id, pkg); err != nil {
				return err
			}
			// keep the app for the catalogs, drop its versions
			delete(versions, id)
			emitted[id] = struct{}{}
		}
		ready = ready[:0]
		return nil
	}

	for t.more() {
		key, err := t.key("$")
		if err != nil {
			return err
		}

		switch key {
		case "repo":
			raw, err := t.raw("repo")
			if err != nil {
				return err
			}
			if err = checkRepoHeader(raw); err != nil {
				return err
			}
			var r1 repoV1
			if err = json.Unmarshal(raw, &r1); err != nil {
				return malformed("repo", "%v", err)
			}
			if err = CheckTimestamp(r1.Timestamp, lastTimestamp); err != nil {
				return err
			}
			converted := r1.toRepoMetadata()
			repo = &converted

		case "apps":
			if err = t.openArray("apps"); err != nil {
				return err
			}
			for t.more() {
				var a appV1
				if err = t.decode("apps", &a); err != nil {
					return err
				}
				if a.PackageName == "" {
					return malformed("apps.packageName", "missing")
				}
				data := a.toAppData()
				apps[a.PackageName] = data
				if _, ok := versions[a.PackageName]; ok {
					assignVersionDetails(data, versions[a.PackageName])
					ready = append(ready, a.PackageName)
				}
			}
			if err = t.closeDelim("apps"); err != nil {
				return err
			}

		case "packages":
			if err = t.openObject("packages"); err != nil {
				return err
			}
			for t.more() {
				id, err := t.key("packages")
				if err != nil {
					return err
				}
				var list []packageV1
				if err = t.decode("packages."+id, &list); err != nil {
					return err
				}
				pv := make(map[string]models.PackageVersion, len(list))
				for _, p := range list {
					v := p.toPackageVersion()
					pv[v.File.SHA256] = v
				}
				versions[id] = pv
				if data, ok := apps[id]; ok {
					assignVersionDetails(data, pv)
					ready = append(ready, id)
				}
				if err = flush(); err != nil {
					return err
				}
			}
			if err = t.closeDelim("packages"); err != nil {
				return err
			}

		default:
			// "requests" and unknown keys are not acted upon
			if _, err = t.raw(key); err != nil {
				return err
			}
		}

		if err = flush(); err != nil {
			return err
		}
	}

	if err := t.closeDelim("$"); err != nil {
		return err
	}
	if err := t.end(); err != nil {
		return err
	}
	if repo == nil {
		return malformed("repo", "missing")
	}

	// apps without any version entry still get their metadata stored
	ids := make([]string, 0, len(apps))
	for id := range apps {
		if _, ok := emitted[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	ready = append(ready, ids...)
	if err := flush(); err != nil {
		return err
	}

	repo.AntiFeatures, repo.Categories = collectCatalogs(apps)
	if err := recv.ReceiveRepo(ctx, *repo); err != nil {
		return err
	}

	return recv.StreamEnded(ctx)
}

func (r repoV1) toRepoMetadata() models.RepoMetadata {
	repo := models.RepoMetadata{
		Address:   r.Address,
		Timestamp: r.Timestamp,
		ReleaseChannels: map[string]models.CatalogEntry{
			ReleaseChannelBeta: {Name: models.LocalizedText{DefaultLocale: ReleaseChannelBeta}},
		},
	}
	if r.Name != "" {
		repo.Name = models.LocalizedText{DefaultLocale: r.Name}
	}
	if r.Description != "" {
		repo.Description = models.LocalizedText{DefaultLocale: r.Description}
	}
	if r.Icon != "" {
		repo.Icon = models.LocalizedFile{DefaultLocale: {Name: "/icons/" + r.Icon}}
	}
	for _, m := range r.Mirrors {
		repo.Mirrors = append(repo.Mirrors, models.Mirror{URL: m})
	}
	return repo
}

func (a appV1) toAppData() *appData {
	m := models.Metadata{
		Added:        a.Added,
		LastUpdated:  a.LastUpdated,
		WebSite:      a.WebSite,
		SourceCode:   a.SourceCode,
		IssueTracker: a.IssueTracker,
		Changelog:    a.Changelog,
		License:      a.License,
		AuthorName:   a.AuthorName,
		AuthorEmail:  a.AuthorEmail,
		Categories:   a.Categories,
	}
	if a.Donate != "" {
		m.Donate = []string{a.Donate}
	}

	setText := func(dst *models.LocalizedText, locale, value string) {
		if value == "" {
			return
		}
		if *dst == nil {
			*dst = models.LocalizedText{}
		}
		(*dst)[locale] = value
	}
	setText(&m.Name, DefaultLocale, a.Name)
	setText(&m.Summary, DefaultLocale, a.Summary)
	setText(&m.Description, DefaultLocale, a.Description)
	if a.Icon != "" {
		m.Icon = models.LocalizedFile{DefaultLocale: {Name: "/icons/" + a.Icon}}
	}

	var whatsNew models.LocalizedText
	for locale, l := range a.Localized {
		setText(&m.Name, locale, l.Name)
		setText(&m.Summary, locale, l.Summary)
		setText(&m.Description, locale, l.Description)
		setText(&whatsNew, locale, l.WhatsNew)
		if l.Icon != "" {
			if m.Icon == nil {
				m.Icon = models.LocalizedFile{}
			}
			m.Icon[locale] = models.FileRef{Name: path.Join("/", a.PackageName, locale, l.Icon)}
		}
		if l.FeatureGraphic != "" {
			if m.FeatureGraphic == nil {
				m.FeatureGraphic = models.LocalizedFile{}
			}
			m.FeatureGraphic[locale] = models.FileRef{Name: path.Join("/", a.PackageName, locale, l.FeatureGraphic)}
		}
		if len(l.PhoneScreenshots) > 0 {
			if m.Screenshots == nil {
				m.Screenshots = &models.Screenshots{Phone: models.LocalizedFileList{}}
			}
			files := make([]models.FileRef, 0, len(l.PhoneScreenshots))
			for _, s := range l.PhoneScreenshots {
				files = append(files, models.FileRef{Name: path.Join("/", a.PackageName, locale, "phoneScreenshots", s)})
			}
			m.Screenshots.Phone[locale] = files
		}
	}

	suggested, _ := strconv.ParseInt(a.SuggestedVersionCode, 10, 64)
	return &appData{
		metadata:             m,
		antiFeatures:         a.AntiFeatures,
		whatsNew:             whatsNew,
		suggestedVersionCode: suggested,
	}
}

func (p packageV1) toPackageVersion() models.PackageVersion {
	v := models.PackageVersion{
		Added: p.Added,
		File: models.FileRef{
			Name:   "/" + p.ApkName,
			SHA256: p.Hash,
			Size:   p.Size,
		},
		Manifest: models.Manifest{
			VersionName: p.VersionName,
			VersionCode: p.VersionCode,
			NativeCode:  p.NativeCode,
			Features:    p.Features,
		},
	}
	if p.MinSdkVersion != 0 || p.TargetSdkVersion != 0 {
		v.Manifest.UsesSdk = &models.UsesSdk{MinSdkVersion: p.MinSdkVersion, TargetSdkVersion: p.TargetSdkVersion}
	}
	if p.Signer != "" {
		v.Manifest.Signer = &models.Signer{SHA256: []string{p.Signer}}
	}
	if p.SrcName != "" {
		v.Src = &models.FileRef{Name: "/" + p.SrcName}
	}
	for _, af := range p.AntiFeatures {
		if v.AntiFeatures == nil {
			v.AntiFeatures = map[string]models.LocalizedText{}
		}
		v.AntiFeatures[af] = nil
	}
	return v
}

// assignVersionDetails adds the app level data the legacy format keeps
// outside the version objects: beta channel, anti-features and what's new.
func assignVersionDetails(app *appData, versions map[string]models.PackageVersion) {
	for id, v := range versions {
		if app.suggestedVersionCode > 0 && v.Manifest.VersionCode > app.suggestedVersionCode {
			v.ReleaseChannels = []string{ReleaseChannelBeta}
		}
		if v.Manifest.VersionCode == app.suggestedVersionCode && len(app.whatsNew) > 0 {
			v.WhatsNew = app.whatsNew
		}
		for _, af := range app.antiFeatures {
			if v.AntiFeatures == nil {
				v.AntiFeatures = map[string]models.LocalizedText{}
			}
			v.AntiFeatures[af] = nil
		}
		versions[id] = v
	}
}

func collectCatalogs(apps map[string]*appData) (antiFeatures, categories map[string]models.CatalogEntry) {
	for _, app := range apps {
		for _, af := range app.antiFeatures {
			if antiFeatures == nil {
				antiFeatures = map[string]models.CatalogEntry{}
			}
			antiFeatures[af] = models.CatalogEntry{Name: models.LocalizedText{DefaultLocale: af}}
		}
		for _, c := range app.metadata.Categories {
			if categories == nil {
				categories = map[string]models.CatalogEntry{}
			}
			categories[c] = models.CatalogEntry{Name: models.LocalizedText{DefaultLocale: c}}
		}
	}
	return antiFeatures, categories
}
