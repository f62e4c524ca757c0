package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-repo-sync/models"
)

// repoMetadataColumn is the JSON stored in repositories.metadata: the index
// owned fields that have no column of their own.
type repoMetadataColumn struct {
	Name            models.LocalizedText           `json:"name,omitempty"`
	Description     models.LocalizedText           `json:"description,omitempty"`
	Icon            models.LocalizedFile           `json:"icon,omitempty"`
	WebBaseURL      string                         `json:"webBaseUrl,omitempty"`
	AntiFeatures    map[string]models.CatalogEntry `json:"antiFeatures,omitempty"`
	Categories      map[string]models.CatalogEntry `json:"categories,omitempty"`
	ReleaseChannels map[string]models.CatalogEntry `json:"releaseChannels,omitempty"`
}

func metadataColumn(meta models.RepoMetadata) repoMetadataColumn {
	return repoMetadataColumn{
		Name:            meta.Name,
		Description:     meta.Description,
		Icon:            meta.Icon,
		WebBaseURL:      meta.WebBaseURL,
		AntiFeatures:    meta.AntiFeatures,
		Categories:      meta.Categories,
		ReleaseChannels: meta.ReleaseChannels,
	}
}

func encodeColumn(name string, v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrEncoding, name, err)
	}
	return string(b), nil
}

func decodeColumn(name, raw string, v any) error {
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("%w %s: %w", ErrEncoding, name, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanRepository reads one row selected with repositoryColumns.
func scanRepository(row rowScanner) (models.Repository, error) {
	var (
		repo                                     models.Repository
		lastUpdated                              sql.NullTime
		mirrors, userMirrors, disabled, metadata string
	)

	err := row.Scan(
		&repo.RepoID,
		&repo.Address,
		&repo.FormatVersion,
		&repo.Timestamp,
		&lastUpdated,
		&repo.Certificate,
		&repo.Fingerprint,
		&mirrors,
		&userMirrors,
		&disabled,
		&repo.Username,
		&repo.Password,
		&repo.Enabled,
		&repo.Weight,
		&metadata,
		&repo.LastError,
	)
	if err != nil {
		return models.Repository{}, err
	}

	if lastUpdated.Valid {
		t := lastUpdated.Time
		repo.LastUpdated = &t
	}

	var meta repoMetadataColumn
	for _, col := range []struct {
		name string
		raw  string
		dst  any
	}{
		{"mirrors", mirrors, &repo.Mirrors},
		{"user_mirrors", userMirrors, &repo.UserMirrors},
		{"disabled_mirrors", disabled, &repo.DisabledMirrors},
		{"metadata", metadata, &meta},
	} {
		if err = decodeColumn(col.name, col.raw, col.dst); err != nil {
			return models.Repository{}, err
		}
	}

	repo.Name = meta.Name
	repo.Description = meta.Description
	repo.Icon = meta.Icon
	repo.WebBaseURL = meta.WebBaseURL
	repo.AntiFeatures = meta.AntiFeatures
	repo.Categories = meta.Categories
	repo.ReleaseChannels = meta.ReleaseChannels

	return repo, nil
}

func encodePackage(pkg models.Package) (metadata, versions string, err error) {
	if metadata, err = encodeColumn("package metadata", pkg.Metadata); err != nil {
		return "", "", err
	}
	if pkg.Versions == nil {
		return metadata, "{}", nil
	}
	if versions, err = encodeColumn("package versions", pkg.Versions); err != nil {
		return "", "", err
	}
	return metadata, versions, nil
}

func decodePackage(metadata, versions string) (models.Package, error) {
	var pkg models.Package
	if err := decodeColumn("package metadata", metadata, &pkg.Metadata); err != nil {
		return models.Package{}, err
	}
	if err := decodeColumn("package versions", versions, &pkg.Versions); err != nil {
		return models.Package{}, err
	}
	if len(pkg.Versions) == 0 {
		pkg.Versions = nil
	}
	return pkg, nil
}
