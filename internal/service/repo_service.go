package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-repo-sync/internal/logger"
	"github.com/MKhiriev/go-repo-sync/internal/store"
	"github.com/MKhiriev/go-repo-sync/models"
)

// repoService reads repositories from the cache and writes through the
// store; the cache picks the writes up from the store change stream.
type repoService struct {
	RepositoryReader
	repos    store.RepositoryStore
	packages store.PackageStore
	logger   *logger.Logger
}

// NewRepoService returns a [RepoService].
func NewRepoService(reader RepositoryReader, repos store.RepositoryStore, packages store.PackageStore, log *logger.Logger) RepoService {
	return &repoService{
		RepositoryReader: reader,
		repos:            repos,
		packages:         packages,
		logger:           log,
	}
}

func (s *repoService) SetEnabled(ctx context.Context, repoID int64, enabled bool) error {
	return s.repos.SetEnabled(ctx, repoID, enabled)
}

func (s *repoService) DeleteRepository(ctx context.Context, repoID int64) error {
	return s.repos.DeleteRepository(ctx, repoID)
}

func (s *repoService) SetUserMirrors(ctx context.Context, repoID int64, mirrors []string) error {
	repo, err := s.repos.GetRepository(ctx, repoID)
	if err != nil {
		return err
	}
	normalized, err := normalizeMirrors(mirrors)
	if err != nil {
		return err
	}
	return s.repos.UpdateRepoMirrors(ctx, repoID, normalized, repo.DisabledMirrors)
}

func (s *repoService) SetDisabledMirrors(ctx context.Context, repoID int64, mirrors []string) error {
	repo, err := s.repos.GetRepository(ctx, repoID)
	if err != nil {
		return err
	}

	known := make(map[string]struct{})
	for _, u := range repo.AllMirrorURLs() {
		known[u] = struct{}{}
	}
	disabled := make([]string, 0, len(mirrors))
	for _, m := range mirrors {
		u := models.NormalizeURL(m)
		if _, ok := known[u]; !ok {
			return fmt.Errorf("%w: %s is not a mirror of repository %d", ErrInvalidArgument, m, repoID)
		}
		disabled = append(disabled, u)
	}

	return s.repos.UpdateRepoMirrors(ctx, repoID, repo.UserMirrors, disabled)
}

func (s *repoService) SetCredentials(ctx context.Context, repoID int64, username, password string) error {
	return s.repos.SetCredentials(ctx, repoID, username, password)
}

func (s *repoService) ListPackages(ctx context.Context, filter store.PackageFilter) ([]models.PackageEntry, error) {
	if filter.RepoID != 0 {
		if _, err := s.Repository(ctx, filter.RepoID); err != nil {
			return nil, err
		}
	}
	return s.packages.ListPackages(ctx, filter)
}

// normalizeMirrors parses user supplied mirror addresses the same way as
// repository addresses.
func normalizeMirrors(mirrors []string) ([]string, error) {
	res := make([]string, 0, len(mirrors))
	seen := make(map[string]struct{}, len(mirrors))
	for _, m := range mirrors {
		uri, err := ParseRepoURI(m)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[uri.Address]; ok {
			continue
		}
		seen[uri.Address] = struct{}{}
		res = append(res, uri.Address)
	}
	return res, nil
}
