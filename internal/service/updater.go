package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-repo-sync/internal/adapter"
	"github.com/MKhiriev/go-repo-sync/internal/diff"
	"github.com/MKhiriev/go-repo-sync/internal/index"
	"github.com/MKhiriev/go-repo-sync/internal/logger"
	"github.com/MKhiriev/go-repo-sync/internal/store"
	"github.com/MKhiriev/go-repo-sync/internal/verifier"
	"github.com/MKhiriev/go-repo-sync/models"
)

// indexUpdater holds the flow shared by both index formats.
type indexUpdater struct {
	fetcher *indexFetcher
	store   store.RepositoryStore
	now     func() time.Time
	logger  *logger.Logger
}

func newIndexUpdater(st store.RepositoryStore, downloader adapter.Downloader, v Verifier, tempDir string, log *logger.Logger) *indexUpdater {
	return &indexUpdater{
		fetcher: newIndexFetcher(downloader, v, tempDir, log),
		store:   st,
		now:     time.Now,
		logger:  log,
	}
}

// update fetches with fetch and applies the result in one transaction. For
// a first sync the signer is checked against first.Fingerprint (or trusted on
// first use) instead of the stored certificate.
func (u *indexUpdater) update(ctx context.Context, repo models.Repository, first *NewRepoSync,
	fetch fetchFunc) models.SyncResult {
	req := fetchRequest{repo: repo, trust: verifier.Trust{CertificateHex: repo.Certificate}, allowDiff: first == nil}
	if first != nil {
		req.trust = verifier.Trust{Fingerprint: first.Fingerprint}
		req.staged = first.Staged
	} else if repo.Certificate == "" {
		return models.SyncError{Err: fmt.Errorf("%w: repository %d has no certificate", ErrInvalidArgument, repo.RepoID)}
	}

	sink := newTxSink(u.store, repo)
	defer sink.rollback()

	res, err := fetch(ctx, req, sink)
	if err == nil {
		err = sink.commit(ctx, res, u.now())
	}

	return u.classify(ctx, repo, err)
}

func (u *indexUpdater) classify(ctx context.Context, repo models.Repository, err error) models.SyncResult {
	log := logger.FromContext(ctx)

	switch {
	case err == nil:
		log.Info().Str("func", "indexUpdater.classify").Int64("repo_id", repo.RepoID).Msg("index applied")
		return models.SyncProcessed{}
	case errors.Is(err, adapter.ErrNotFound):
		return models.SyncNotFound{}
	case errors.Is(err, index.ErrStaleIndex):
		log.Debug().Str("func", "indexUpdater.classify").Int64("repo_id", repo.RepoID).Msg(err.Error())
		return models.SyncUnchanged{}
	default:
		log.Err(err).Str("func", "indexUpdater.classify").Int64("repo_id", repo.RepoID).Msg("update failed")
		return models.SyncError{Err: err}
	}
}

// txSink writes what a fetch decoded into a lazily opened index
// transaction. Nothing is written before the first callback.
type txSink struct {
	store store.RepositoryStore
	repo  models.Repository

	tx      store.IndexTx
	cleared bool
	gotRepo bool
}

func newTxSink(st store.RepositoryStore, repo models.Repository) *txSink {
	return &txSink{store: st, repo: repo}
}

func (s *txSink) begin(ctx context.Context) (store.IndexTx, error) {
	if s.tx != nil {
		return s.tx, nil
	}
	tx, err := s.store.BeginIndexTx(ctx, s.repo.RepoID)
	if err != nil {
		return nil, err
	}
	s.tx = tx
	return tx, nil
}

// full opens the transaction for a full index, dropping the stored packages
// first.
func (s *txSink) full(ctx context.Context) (store.IndexTx, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	if !s.cleared {
		if err = tx.ClearPackages(ctx); err != nil {
			return nil, err
		}
		s.cleared = true
	}
	return tx, nil
}

func (s *txSink) ReceiveRepo(ctx context.Context, repo models.RepoMetadata) error {
	tx, err := s.full(ctx)
	if err != nil {
		return err
	}
	s.gotRepo = true
	return tx.UpsertRepoMetadata(ctx, repo)
}

func (s *txSink) ReceivePackage(ctx context.Context, packageID string, pkg models.Package) error {
	tx, err := s.full(ctx)
	if err != nil {
		return err
	}
	return tx.UpsertPackage(ctx, packageID, pkg)
}

func (s *txSink) ReceiveRepoDiff(ctx context.Context, raw json.RawMessage) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}

	meta, err := diff.ApplyRepo(s.repo.Metadata(), raw)
	if err != nil {
		return err
	}
	return tx.UpsertRepoMetadata(ctx, meta)
}

func (s *txSink) ReceivePackageDiff(ctx context.Context, packageID string, raw json.RawMessage) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}

	prev, ok, err := tx.GetPackage(ctx, packageID)
	if err != nil {
		return err
	}
	var base *models.Package
	if ok {
		base = &prev
	}

	pkg, deleted, err := diff.ApplyPackage(base, raw)
	if err != nil {
		return err
	}
	if deleted {
		if !ok {
			return nil
		}
		return tx.DeletePackage(ctx, packageID)
	}
	return tx.UpsertPackage(ctx, packageID, pkg)
}

func (s *txSink) StreamEnded(context.Context) error {
	return nil
}

func (s *txSink) commit(ctx context.Context, res fetchResult, now time.Time) error {
	// a full index clears the packages on its first callback
	if s.cleared && !s.gotRepo {
		return ErrNoRepoReceived
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}

	err = tx.UpdateRepoTrust(ctx, store.RepoTrust{
		Timestamp:     res.timestamp,
		LastUpdated:   now,
		Certificate:   res.certificate,
		FormatVersion: res.format,
	})
	if err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	s.tx = nil
	return nil
}

func (s *txSink) rollback() {
	if s.tx != nil {
		_ = s.tx.Rollback()
		s.tx = nil
	}
}
