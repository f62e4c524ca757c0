package diff

import (
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-repo-sync/models"
)

// ApplyMetadata applies a package metadata diff to prev.
func ApplyMetadata(prev models.Metadata, raw json.RawMessage) (models.Metadata, error) {
	obj, err := parseObject("metadata", raw)
	if err != nil {
		return prev, err
	}
	if err = denyKeys("metadata", obj, "repoId", "packageName"); err != nil {
		return prev, err
	}

	out := prev
	for key, value := range obj {
		switch key {
		case "added":
			err = scalar("metadata.added", &out.Added, value)
		case "lastUpdated":
			err = scalar("metadata.lastUpdated", &out.LastUpdated, value)
		case "name":
			out.Name, err = LocalizedText("metadata.name", out.Name, value)
		case "summary":
			out.Summary, err = LocalizedText("metadata.summary", out.Summary, value)
		case "description":
			out.Description, err = LocalizedText("metadata.description", out.Description, value)
		case "webSite":
			err = scalar("metadata.webSite", &out.WebSite, value)
		case "sourceCode":
			err = scalar("metadata.sourceCode", &out.SourceCode, value)
		case "issueTracker":
			err = scalar("metadata.issueTracker", &out.IssueTracker, value)
		case "changelog":
			err = scalar("metadata.changelog", &out.Changelog, value)
		case "donate":
			err = scalar("metadata.donate", &out.Donate, value)
		case "license":
			err = scalar("metadata.license", &out.License, value)
		case "authorName":
			err = scalar("metadata.authorName", &out.AuthorName, value)
		case "authorEmail":
			err = scalar("metadata.authorEmail", &out.AuthorEmail, value)
		case "categories":
			err = scalar("metadata.categories", &out.Categories, value)
		case "icon":
			out.Icon, err = LocalizedFile("metadata.icon", out.Icon, value)
		case "featureGraphic":
			out.FeatureGraphic, err = LocalizedFile("metadata.featureGraphic", out.FeatureGraphic, value)
		case "screenshots":
			out.Screenshots, err = applyScreenshots(out.Screenshots, value)
		case "preferredSigner":
			err = scalar("metadata.preferredSigner", &out.PreferredSigner, value)
		}
		if err != nil {
			return prev, err
		}
	}

	return out, nil
}

func applyScreenshots(prev *models.Screenshots, raw json.RawMessage) (*models.Screenshots, error) {
	if isNull(raw) {
		return nil, nil
	}
	obj, err := parseObject("metadata.screenshots", raw)
	if err != nil {
		return prev, err
	}

	var out models.Screenshots
	if prev != nil {
		out = *prev
	}
	for key, value := range obj {
		switch key {
		case "phone":
			out.Phone, err = localizedFileList("screenshots.phone", out.Phone, value)
		case "sevenInch":
			out.SevenInch, err = localizedFileList("screenshots.sevenInch", out.SevenInch, value)
		case "tenInch":
			out.TenInch, err = localizedFileList("screenshots.tenInch", out.TenInch, value)
		case "wear":
			out.Wear, err = localizedFileList("screenshots.wear", out.Wear, value)
		case "tv":
			out.TV, err = localizedFileList("screenshots.tv", out.TV, value)
		}
		if err != nil {
			return prev, err
		}
	}

	return &out, nil
}

// ApplyVersions applies a versions map diff. A null entry deletes the version
// id, a present entry replaces the stored version wholesale.
func ApplyVersions(prev map[string]models.PackageVersion, raw json.RawMessage) (map[string]models.PackageVersion, error) {
	return mergeMap("versions", prev, raw, func(field string, _ models.PackageVersion, _ bool, raw json.RawMessage) (models.PackageVersion, error) {
		obj, err := parseObject(field, raw)
		if err != nil {
			return models.PackageVersion{}, err
		}
		if err = denyKeys(field, obj, "packageName", "repoId", "versionId"); err != nil {
			return models.PackageVersion{}, err
		}

		var v models.PackageVersion
		if err = json.Unmarshal(raw, &v); err != nil {
			return models.PackageVersion{}, fmt.Errorf("%w: %s: %w", ErrInvalidDiff, field, err)
		}
		return v, nil
	})
}

// ApplyPackage applies a package diff to prev. prev is nil for a package that
// is not stored yet. deleted is true when the diff removes the package, either
// with a null package value or with "metadata": null.
func ApplyPackage(prev *models.Package, raw json.RawMessage) (pkg models.Package, deleted bool, err error) {
	if isNull(raw) {
		return models.Package{}, true, nil
	}
	obj, err := parseObject("package", raw)
	if err != nil {
		return models.Package{}, false, err
	}
	if m, ok := obj["metadata"]; ok && isNull(m) {
		return models.Package{}, true, nil
	}

	if prev != nil {
		pkg = *prev
	}
	if m, ok := obj["metadata"]; ok {
		if pkg.Metadata, err = ApplyMetadata(pkg.Metadata, m); err != nil {
			return models.Package{}, false, err
		}
	}
	if v, ok := obj["versions"]; ok {
		if pkg.Versions, err = ApplyVersions(pkg.Versions, v); err != nil {
			return models.Package{}, false, err
		}
	}

	return pkg, false, nil
}
