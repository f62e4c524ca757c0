package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-repo-sync/internal/crypto"
	"github.com/MKhiriev/go-repo-sync/internal/logger"
	"github.com/MKhiriev/go-repo-sync/models"
)

// repoRepository is the database/sql implementation of [RepositoryStore].
type repoRepository struct {
	*DB
	credentials crypto.CredentialSealer
	notifier    *changeNotifier
	logger      *logger.Logger
}

// NewRepositoryStore constructs a [RepositoryStore] backed by db. Passwords
// are sealed with credentials on write and opened on read.
func NewRepositoryStore(db *DB, credentials crypto.CredentialSealer, log *logger.Logger) RepositoryStore {
	log.Debug().Msg("creating repository store")
	return &repoRepository{
		DB:          db,
		credentials: credentials,
		notifier:    newChangeNotifier(),
		logger:      log,
	}
}

func (r *repoRepository) ListRepositories(ctx context.Context) ([]models.Repository, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, listRepositories)
	if err != nil {
		log.Err(err).Str("func", "repoRepository.ListRepositories").Msg("failed to query repositories")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	repos := make([]models.Repository, 0, 8)
	for rows.Next() {
		repo, scanErr := scanRepository(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "repoRepository.ListRepositories").Msg("failed to scan repository row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}
		if err = r.openPassword(&repo); err != nil {
			log.Err(err).Str("func", "repoRepository.ListRepositories").Int64("repo_id", repo.RepoID).Msg("failed to open password")
			return nil, err
		}
		repos = append(repos, repo)
	}
	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "repoRepository.ListRepositories").Msg("rows iteration failed")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return repos, nil
}

func (r *repoRepository) GetRepository(ctx context.Context, repoID int64) (models.Repository, error) {
	log := logger.FromContext(ctx)

	repo, err := scanRepository(r.DB.QueryRowContext(ctx, getRepository, repoID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Repository{}, fmt.Errorf("%w: id %d", ErrRepositoryNotFound, repoID)
	}
	if err != nil {
		log.Err(err).Str("func", "repoRepository.GetRepository").Int64("repo_id", repoID).Msg("failed to scan repository")
		return models.Repository{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	if err = r.openPassword(&repo); err != nil {
		log.Err(err).Str("func", "repoRepository.GetRepository").Int64("repo_id", repoID).Msg("failed to open password")
		return models.Repository{}, err
	}

	return repo, nil
}

func (r *repoRepository) InsertRepository(ctx context.Context, repo models.Repository) (int64, error) {
	log := logger.FromContext(ctx)

	sealed, err := r.credentials.Seal(repo.Password)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSealingCredentials, err)
	}
	repo.Password = sealed

	args, err := insertArgs(repo)
	if err != nil {
		return 0, err
	}

	var repoID int64
	err = r.DB.QueryRowContext(ctx, insertRepository, args...).Scan(&repoID)
	if err != nil {
		if r.classify(err) == UniqueViolation {
			return 0, fmt.Errorf("%w: %s", ErrRepositoryExists, repo.Address)
		}
		log.Err(err).Str("func", "repoRepository.InsertRepository").Str("address", repo.Address).Msg("failed to insert repository")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	r.notifier.publish(ChangeEvent{Kind: ChangeInserted, RepoID: repoID})
	return repoID, nil
}

func insertArgs(repo models.Repository) ([]any, error) {
	mirrors, err := encodeColumn("mirrors", nonNil(repo.Mirrors))
	if err != nil {
		return nil, err
	}
	userMirrors, err := encodeColumn("user_mirrors", nonNil(repo.UserMirrors))
	if err != nil {
		return nil, err
	}
	disabled, err := encodeColumn("disabled_mirrors", nonNil(repo.DisabledMirrors))
	if err != nil {
		return nil, err
	}
	metadata, err := encodeColumn("metadata", metadataColumn(repo.Metadata()))
	if err != nil {
		return nil, err
	}

	return []any{
		models.NormalizeURL(repo.Address),
		repo.FormatVersion,
		repo.Timestamp,
		repo.Certificate,
		repo.Fingerprint,
		mirrors,
		userMirrors,
		disabled,
		repo.Username,
		repo.Password,
		repo.Enabled,
		metadata,
	}, nil
}

func (r *repoRepository) UpdateRepoMirrors(ctx context.Context, repoID int64, userMirrors, disabledMirrors []string) error {
	user, err := encodeColumn("user_mirrors", nonNil(userMirrors))
	if err != nil {
		return err
	}
	disabled, err := encodeColumn("disabled_mirrors", nonNil(disabledMirrors))
	if err != nil {
		return err
	}
	return r.execUpdate(ctx, "repoRepository.UpdateRepoMirrors", repoID, updateRepoMirrors, user, disabled, repoID)
}

func (r *repoRepository) SetEnabled(ctx context.Context, repoID int64, enabled bool) error {
	return r.execUpdate(ctx, "repoRepository.SetEnabled", repoID, setEnabled, enabled, repoID)
}

func (r *repoRepository) SetCredentials(ctx context.Context, repoID int64, username, password string) error {
	sealed, err := r.credentials.Seal(password)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSealingCredentials, err)
	}
	return r.execUpdate(ctx, "repoRepository.SetCredentials", repoID, setCredentials, username, sealed, repoID)
}

func (r *repoRepository) openPassword(repo *models.Repository) error {
	plain, err := r.credentials.Open(repo.Password)
	if err != nil {
		return fmt.Errorf("%w: repository %d: %w", ErrSealingCredentials, repo.RepoID, err)
	}
	repo.Password = plain
	return nil
}

func (r *repoRepository) SetLastError(ctx context.Context, repoID int64, msg string) error {
	return r.execUpdate(ctx, "repoRepository.SetLastError", repoID, setLastError, msg, repoID)
}

func (r *repoRepository) DeleteRepository(ctx context.Context, repoID int64) error {
	log := logger.FromContext(ctx)

	// packages are removed explicitly: SQLite only cascades with foreign keys on
	query, args, err := buildDeletePackagesQuery(repoID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "repoRepository.DeleteRepository").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "repoRepository.DeleteRepository").Int64("repo_id", repoID).Msg("failed to delete packages")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	res, err := tx.ExecContext(ctx, deleteRepository, repoID)
	if err != nil {
		log.Err(err).Str("func", "repoRepository.DeleteRepository").Int64("repo_id", repoID).Msg("failed to delete repository")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if err = expectAffected(res, repoID); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "repoRepository.DeleteRepository").Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	r.notifier.publish(ChangeEvent{Kind: ChangeDeleted, RepoID: repoID})
	return nil
}

func (r *repoRepository) BeginIndexTx(ctx context.Context, repoID int64) (IndexTx, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "repoRepository.BeginIndexTx").
			Int64("repo_id", repoID).Msg("failed to begin transaction")
		return nil, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}

	return &indexTx{tx: tx, repoID: repoID, notifier: r.notifier}, nil
}

func (r *repoRepository) Subscribe() (<-chan ChangeEvent, func()) {
	return r.notifier.subscribe()
}

func (r *repoRepository) execUpdate(ctx context.Context, fn string, repoID int64, query string, args ...any) error {
	log := logger.FromContext(ctx)

	res, err := r.execRetrying(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", fn).Int64("repo_id", repoID).Msg("failed to execute update")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if err = expectAffected(res, repoID); err != nil {
		return err
	}

	r.notifier.publish(ChangeEvent{Kind: ChangeUpdated, RepoID: repoID})
	return nil
}

func expectAffected(res sql.Result, repoID int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", ErrRepositoryNotFound, repoID)
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
