package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-repo-sync/internal/logger"
	"github.com/MKhiriev/go-repo-sync/models"
)

// indexTx implements [IndexTx] on a database transaction.
type indexTx struct {
	tx       *sql.Tx
	repoID   int64
	notifier *changeNotifier
	done     bool
}

func (t *indexTx) UpsertRepoMetadata(ctx context.Context, repo models.RepoMetadata) error {
	mirrors, err := encodeColumn("mirrors", nonNil(repo.Mirrors))
	if err != nil {
		return err
	}
	metadata, err := encodeColumn("metadata", metadataColumn(repo))
	if err != nil {
		return err
	}
	return t.exec(ctx, "indexTx.UpsertRepoMetadata", upsertRepoMetadata, mirrors, metadata, t.repoID)
}

func (t *indexTx) UpsertPackage(ctx context.Context, packageID string, pkg models.Package) error {
	metadata, versions, err := encodePackage(pkg)
	if err != nil {
		return err
	}
	return t.exec(ctx, "indexTx.UpsertPackage", upsertPackage, t.repoID, packageID, metadata, versions)
}

func (t *indexTx) GetPackage(ctx context.Context, packageID string) (models.Package, bool, error) {
	if t.done {
		return models.Package{}, false, ErrTxDone
	}

	var metadata, versions string
	err := t.tx.QueryRowContext(ctx, getPackage, t.repoID, packageID).Scan(&metadata, &versions)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Package{}, false, nil
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "indexTx.GetPackage").
			Str("package_id", packageID).Msg("failed to scan package")
		return models.Package{}, false, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	pkg, err := decodePackage(metadata, versions)
	if err != nil {
		return models.Package{}, false, err
	}
	return pkg, true, nil
}

func (t *indexTx) DeletePackage(ctx context.Context, packageID string) error {
	return t.exec(ctx, "indexTx.DeletePackage", deletePackage, t.repoID, packageID)
}

func (t *indexTx) ClearPackages(ctx context.Context) error {
	query, args, err := buildDeletePackagesQuery(t.repoID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return t.exec(ctx, "indexTx.ClearPackages", query, args...)
}

func (t *indexTx) UpdateRepoTrust(ctx context.Context, trust RepoTrust) error {
	return t.exec(ctx, "indexTx.UpdateRepoTrust", updateRepoTrust,
		trust.Timestamp, trust.LastUpdated.UTC(), trust.Certificate, trust.FormatVersion, t.repoID)
}

func (t *indexTx) Commit() error {
	if t.done {
		return ErrTxDone
	}
	t.done = true

	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	t.notifier.publish(ChangeEvent{Kind: ChangeIndex, RepoID: t.repoID})
	return nil
}

func (t *indexTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	return t.tx.Rollback()
}

func (t *indexTx) exec(ctx context.Context, fn, query string, args ...any) error {
	if t.done {
		return ErrTxDone
	}

	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", fn).Int64("repo_id", t.repoID).Msg("failed to execute statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}
