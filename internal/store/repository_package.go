package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-repo-sync/internal/logger"
	"github.com/MKhiriev/go-repo-sync/models"
)

// packageRepository is the database/sql implementation of [PackageStore].
type packageRepository struct {
	*DB
	logger *logger.Logger
}

// NewPackageStore constructs a [PackageStore] backed by db.
func NewPackageStore(db *DB, log *logger.Logger) PackageStore {
	return &packageRepository{DB: db, logger: log}
}

func (p *packageRepository) ListPackages(ctx context.Context, filter PackageFilter) ([]models.PackageEntry, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListPackagesQuery(filter)
	if err != nil {
		log.Err(err).Str("func", "packageRepository.ListPackages").Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := p.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "packageRepository.ListPackages").Int64("repo_id", filter.RepoID).Msg("failed to query packages")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	entries := make([]models.PackageEntry, 0, 50)
	for rows.Next() {
		var (
			entry              models.PackageEntry
			metadata, versions string
		)
		if err = rows.Scan(&entry.RepoID, &entry.PackageID, &metadata, &versions); err != nil {
			log.Err(err).Str("func", "packageRepository.ListPackages").Msg("failed to scan package row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		if entry.Package, err = decodePackage(metadata, versions); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return entries, nil
}

func (p *packageRepository) CountPackages(ctx context.Context, repoID int64) (int, error) {
	query, args, err := buildCountPackagesQuery(repoID)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var n int
	if err = p.DB.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "packageRepository.CountPackages").
			Int64("repo_id", repoID).Msg("failed to count packages")
		return 0, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return n, nil
}
