package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/MKhiriev/go-repo-sync/internal/adapter"
	"github.com/MKhiriev/go-repo-sync/internal/index"
	"github.com/MKhiriev/go-repo-sync/internal/logger"
	"github.com/MKhiriev/go-repo-sync/internal/store"
	"github.com/MKhiriev/go-repo-sync/internal/utils"
	"github.com/MKhiriev/go-repo-sync/internal/verifier"
	"github.com/MKhiriev/go-repo-sync/models"
)

// previewBatch is the number of packages received between two published
// preview states.
const previewBatch = 50

type repoAdder struct {
	reader  RepositoryReader
	store   store.RepositoryStore
	syncs   SyncManager
	fetcher *indexFetcher
	ids     *utils.UUIDGenerator
	states  *broadcaster[models.AddRepoState]
	logger  *logger.Logger

	mu      sync.Mutex
	state   models.AddRepoState
	session string
	cancel  context.CancelFunc
	done    chan struct{}
	staged  StagedIndex
}

// NewRepoAdder returns a [RepoAdder]. Known repositories are looked up in
// reader; the first sync of a new repository runs through syncs and reads the
// index staged by the preview instead of downloading it again.
func NewRepoAdder(reader RepositoryReader, st store.RepositoryStore, syncs SyncManager,
	downloader adapter.Downloader, v Verifier, tempDir string, log *logger.Logger) RepoAdder {
	return &repoAdder{
		reader:  reader,
		store:   st,
		syncs:   syncs,
		fetcher: newIndexFetcher(downloader, v, tempDir, log),
		ids:     utils.NewUUIDGenerator(),
		states:  newBroadcaster[models.AddRepoState](),
		logger:  log,
		state:   models.AddRepoNone{},
	}
}

func (a *repoAdder) FetchRepository(ctx context.Context, rawURL, proxy string) string {
	a.mu.Lock()
	prev := a.abortLocked()
	a.mu.Unlock()
	if prev != nil {
		<-prev
	}

	session := a.ids.Generate()
	// the fetch outlives the request that started it
	fetchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	l := a.logger.With().Str("session_id", session).Logger()
	fetchCtx = l.WithContext(fetchCtx)
	done := make(chan struct{})

	a.mu.Lock()
	a.session, a.cancel, a.done = session, cancel, done
	a.mu.Unlock()

	go func() {
		defer close(done)
		defer cancel()
		a.fetch(fetchCtx, session, rawURL, proxy)
	}()

	return session
}

func (a *repoAdder) fetch(ctx context.Context, session, rawURL, proxy string) {
	log := logger.FromContext(ctx)

	uri, err := ParseRepoURI(rawURL)
	if err != nil {
		a.fail(ctx, session, models.AddRepoInvalidIndex, err)
		return
	}
	if uri.IsArchive() {
		a.fail(ctx, session, models.AddRepoIsArchiveRepo, nil)
		return
	}
	log.Info().Str("func", "repoAdder.fetch").Str("address", uri.Address).Msg("fetching repository preview")

	base := models.Repository{
		Address:  uri.Address,
		Username: uri.Username,
		Password: uri.Password,
		Enabled:  true,
	}
	sink := newPreviewSink(a, session, uri.Address, base)
	if !a.setState(session, sink.state(nil)) {
		return
	}

	req := fetchRequest{
		repo:      models.Repository{Address: uri.Address, Timestamp: -1, Username: uri.Username, Password: uri.Password},
		trust:     verifier.Trust{Fingerprint: uri.Fingerprint},
		proxy:     proxy,
		keepIndex: true,
	}
	res, err := a.fetcher.fetchV2(ctx, req, sink)
	if errors.Is(err, adapter.ErrNotFound) && sink.repo == nil {
		log.Warn().Err(err).Str("func", "repoAdder.fetch").Msg("no entry found, trying the legacy index")
		res, err = a.fetcher.fetchV1(ctx, req, sink)
	}
	if err == nil && sink.repo == nil {
		err = ErrNoRepoReceived
	}
	if ctx.Err() != nil {
		removeFile(res.staged.Path)
		return
	}
	if err != nil {
		removeFile(res.staged.Path)
		a.fail(ctx, session, addErrorKind(err), err)
		return
	}

	sink.repo.Certificate = res.certificate
	sink.repo.FormatVersion = res.format

	repos, err := a.reader.Repositories(ctx)
	if err != nil {
		removeFile(res.staged.Path)
		a.fail(ctx, session, models.AddRepoIOError, err)
		return
	}
	result := fetchResultFor(repos, uri.Address, *sink.repo)

	final := sink.state(result)
	final.Done = true

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session != session {
		removeFile(res.staged.Path)
		return
	}
	a.staged = res.staged
	a.setStateLocked(final)
	log.Info().Str("func", "repoAdder.fetch").Str("result", result.Kind()).
		Int("packages", final.PackageCount).Msg("repository preview fetched")
}

// fetchResultFor classifies a fetched repository against the stored ones,
// first by certificate, then by the address it was fetched from.
func fetchResultFor(repos []models.Repository, fetchURL string, fetched models.Repository) models.FetchResult {
	fetchURL = models.NormalizeURL(fetchURL)

	idx := slices.IndexFunc(repos, func(r models.Repository) bool {
		return r.Certificate != "" && strings.EqualFold(r.Certificate, fetched.Certificate)
	})
	if idx < 0 {
		isAddress := fetchURL == models.NormalizeURL(fetched.Address)
		isMirror := slices.ContainsFunc(fetched.Mirrors, func(m models.Mirror) bool {
			return fetchURL == models.NormalizeURL(m.URL)
		})
		if isAddress || isMirror {
			return models.IsNewRepository{}
		}
		return models.IsNewRepoAndNewMirror{}
	}

	existing := repos[idx]
	if fetchURL == models.NormalizeURL(existing.Address) {
		return models.IsExistingRepository{ExistingRepoID: existing.RepoID}
	}
	if slices.Contains(existing.AllMirrorURLs(), fetchURL) {
		return models.IsExistingMirror{ExistingRepoID: existing.RepoID}
	}
	return models.IsNewMirror{ExistingRepoID: existing.RepoID}
}

func (a *repoAdder) AddFetchedRepository(ctx context.Context) (models.Added, error) {
	a.mu.Lock()
	st, ok := a.state.(models.Fetching)
	if !ok || !st.CanAdd() {
		name := a.state.Name()
		a.mu.Unlock()
		return models.Added{}, fmt.Errorf("%w: cannot add in state %s", ErrInvalidAddRepoState, name)
	}
	if a.cancel != nil {
		a.cancel()
	}
	session, staged := a.session, a.staged
	a.staged = StagedIndex{}
	a.setStateLocked(models.Adding{SessionID: session})
	a.mu.Unlock()

	log := logger.FromContext(ctx)

	added, err := a.commit(ctx, st, staged)
	removeFile(staged.Path)
	if err != nil {
		log.Err(err).Str("func", "repoAdder.AddFetchedRepository").Str("address", st.FetchURL).Msg("failed to add repository")
		a.setState(session, models.AddRepoError{SessionID: session, Kind: addErrorKind(err), Err: err})
		return models.Added{}, err
	}

	added.SessionID = session
	log.Info().Str("func", "repoAdder.AddFetchedRepository").Int64("repo_id", added.RepoID).Msg("repository added")
	a.setState(session, added)
	return added, nil
}

func (a *repoAdder) commit(ctx context.Context, st models.Fetching, staged StagedIndex) (models.Added, error) {
	fetched := *st.Repo

	switch r := st.Result.(type) {
	case models.IsNewRepository, models.IsNewRepoAndNewMirror:
		// checked before anything is written
		fingerprint, err := verifier.FingerprintFromHex(fetched.Certificate)
		if err != nil {
			return models.Added{}, err
		}

		newRepo := models.Repository{
			Address:     fetched.Address,
			Timestamp:   -1,
			Certificate: fetched.Certificate,
			Fingerprint: fingerprint,
			Username:    fetched.Username,
			Password:    fetched.Password,
			Enabled:     true,
		}.WithMetadata(fetched.Metadata())
		if _, ok := r.(models.IsNewRepoAndNewMirror); ok {
			newRepo.UserMirrors = []string{st.FetchURL}
		}

		repoID, err := a.store.InsertRepository(ctx, newRepo)
		if err != nil {
			return models.Added{}, err
		}

		res, err := a.syncs.SyncNewRepository(ctx, repoID, NewRepoSync{Fingerprint: fingerprint, Staged: staged})
		if err != nil {
			res = models.SyncError{Err: err}
		}
		logger.FromContext(ctx).Info().Str("func", "repoAdder.commit").Int64("repo_id", repoID).
			Str("result", res.String()).Msg("initial update finished")
		return models.Added{RepoID: repoID, Result: res}, nil

	case models.IsNewMirror:
		existing, err := a.store.GetRepository(ctx, r.ExistingRepoID)
		if err != nil {
			return models.Added{}, err
		}
		mirrors := append(slices.Clone(existing.UserMirrors), st.FetchURL)
		if err = a.store.UpdateRepoMirrors(ctx, existing.RepoID, mirrors, existing.DisabledMirrors); err != nil {
			return models.Added{}, err
		}
		return models.Added{RepoID: existing.RepoID}, nil

	default:
		return models.Added{}, fmt.Errorf("%w: nothing to add for %s", ErrInvalidAddRepoState, st.Result.Kind())
	}
}

// Abort cancels the current session. A commit in progress is not
// interrupted.
func (a *repoAdder) Abort() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.abortLocked()
}

// abortLocked resets the session and returns the channel closed by the
// fetch of the aborted session, if any.
func (a *repoAdder) abortLocked() chan struct{} {
	if _, adding := a.state.(models.Adding); adding {
		a.logger.Warn().Str("func", "repoAdder.abortLocked").Msg("repository is being added, not aborting")
		return nil
	}

	if a.cancel != nil {
		a.cancel()
	}
	removeFile(a.staged.Path)

	done := a.done
	a.session, a.staged, a.cancel, a.done = "", StagedIndex{}, nil, nil
	if _, none := a.state.(models.AddRepoNone); !none {
		a.setStateLocked(models.AddRepoNone{})
	}
	return done
}

func (a *repoAdder) State() models.AddRepoState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *repoAdder) Subscribe() (<-chan models.AddRepoState, func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.states.subscribe(a.state)
}

func (a *repoAdder) fail(ctx context.Context, session string, kind models.AddRepoErrorKind, err error) {
	logger.FromContext(ctx).Err(err).Str("func", "repoAdder.fail").Str("kind", string(kind)).Msg("repository preview failed")
	a.setState(session, models.AddRepoError{SessionID: session, Kind: kind, Err: err})
}

// setState publishes state unless session is no longer the current one.
func (a *repoAdder) setState(session string, state models.AddRepoState) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session != session {
		return false
	}
	a.setStateLocked(state)
	return true
}

func (a *repoAdder) setStateLocked(state models.AddRepoState) {
	a.state = state
	a.states.publish(state)
}

// addErrorKind maps a fetch or commit failure to what the user is told.
func addErrorKind(err error) models.AddRepoErrorKind {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.Is(err, verifier.ErrSigning):
		return models.AddRepoInvalidFingerprint
	case errors.Is(err, adapter.ErrNotFound),
		errors.Is(err, index.ErrMalformedIndex),
		errors.Is(err, ErrNoRepoReceived),
		errors.Is(err, ErrInvalidArgument),
		errors.As(err, &syntaxErr),
		errors.As(err, &typeErr):
		return models.AddRepoInvalidIndex
	default:
		return models.AddRepoIOError
	}
}

func removeFile(path string) {
	if path != "" {
		_ = os.Remove(path)
	}
}

// previewSink collects a fetched index in memory and publishes it as
// Fetching states while it arrives.
type previewSink struct {
	adder    *repoAdder
	session  string
	fetchURL string
	base     models.Repository

	repo     *models.Repository
	packages map[string]models.Package
	pending  int
}

func newPreviewSink(a *repoAdder, session, fetchURL string, base models.Repository) *previewSink {
	return &previewSink{
		adder:    a,
		session:  session,
		fetchURL: fetchURL,
		base:     base,
		packages: make(map[string]models.Package),
	}
}

func (s *previewSink) state(result models.FetchResult) models.Fetching {
	var repo *models.Repository
	if s.repo != nil {
		r := *s.repo
		repo = &r
	}
	return models.Fetching{
		SessionID:    s.session,
		FetchURL:     s.fetchURL,
		Repo:         repo,
		Packages:     maps.Clone(s.packages),
		PackageCount: len(s.packages),
		Result:       result,
	}
}

func (s *previewSink) publish(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.pending = 0
	if !s.adder.setState(s.session, s.state(nil)) {
		return context.Canceled
	}
	return nil
}

func (s *previewSink) ReceiveRepo(ctx context.Context, meta models.RepoMetadata) error {
	repo := s.base.WithMetadata(meta)
	if addr := models.NormalizeURL(meta.Address); addr != "" {
		repo.Address = addr
	}
	repo.Timestamp = meta.Timestamp
	s.repo = &repo
	return s.publish(ctx)
}

func (s *previewSink) ReceivePackage(ctx context.Context, packageID string, pkg models.Package) error {
	s.packages[packageID] = pkg
	s.pending++
	if s.pending < previewBatch {
		return ctx.Err()
	}
	return s.publish(ctx)
}

func (s *previewSink) ReceiveRepoDiff(context.Context, json.RawMessage) error {
	return fmt.Errorf("%w: diff received for a preview", ErrInvalidArgument)
}

func (s *previewSink) ReceivePackageDiff(context.Context, string, json.RawMessage) error {
	return fmt.Errorf("%w: diff received for a preview", ErrInvalidArgument)
}

func (s *previewSink) StreamEnded(ctx context.Context) error {
	if s.pending == 0 {
		return nil
	}
	return s.publish(ctx)
}
