package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-repo-sync/internal/adapter"
	"github.com/MKhiriev/go-repo-sync/internal/config"
	"github.com/MKhiriev/go-repo-sync/internal/logger"
	"github.com/MKhiriev/go-repo-sync/internal/store"
	"github.com/MKhiriev/go-repo-sync/internal/verifier"
	"github.com/MKhiriev/go-repo-sync/internal/verifier/jartest"
	"github.com/MKhiriev/go-repo-sync/models"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// ── memStore ─────────────────────────────────────────────────────────────────

// memStore is an in-memory RepositoryStore. Every write, inside or outside of
// a transaction, is counted.
type memStore struct {
	mu       sync.Mutex
	nextID   int64
	repos    map[int64]models.Repository
	packages map[int64]map[string]models.Package
	writes   int
	begins   int
	events   *broadcaster[store.ChangeEvent]

	listErr error
}

func newMemStore() *memStore {
	return &memStore{
		repos:    make(map[int64]models.Repository),
		packages: make(map[int64]map[string]models.Package),
		events:   newBroadcaster[store.ChangeEvent](),
	}
}

func (s *memStore) add(repo models.Repository) models.Repository {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	repo.RepoID = s.nextID
	s.repos[repo.RepoID] = repo
	return repo
}

func (s *memStore) repo(t *testing.T, id int64) models.Repository {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	repo, ok := s.repos[id]
	require.True(t, ok, "repository %d", id)
	return repo
}

func (s *memStore) packagesOf(id int64) map[string]models.Package {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.packages[id])
}

func (s *memStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *memStore) beginCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.begins
}

func (s *memStore) ListRepositories(context.Context) ([]models.Repository, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	repos := make([]models.Repository, 0, len(s.repos))
	for id := int64(1); id <= s.nextID; id++ {
		if r, ok := s.repos[id]; ok {
			repos = append(repos, r)
		}
	}
	return repos, nil
}

func (s *memStore) GetRepository(_ context.Context, repoID int64) (models.Repository, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	repo, ok := s.repos[repoID]
	if !ok {
		return models.Repository{}, fmt.Errorf("%w: %d", store.ErrRepositoryNotFound, repoID)
	}
	return repo, nil
}

func (s *memStore) InsertRepository(_ context.Context, repo models.Repository) (int64, error) {
	s.mu.Lock()
	for _, r := range s.repos {
		if r.Address == models.NormalizeURL(repo.Address) {
			s.mu.Unlock()
			return 0, store.ErrRepositoryExists
		}
	}
	s.nextID++
	s.writes++
	repo.RepoID = s.nextID
	repo.Address = models.NormalizeURL(repo.Address)
	s.repos[repo.RepoID] = repo
	s.mu.Unlock()

	s.events.publish(store.ChangeEvent{Kind: store.ChangeInserted, RepoID: repo.RepoID})
	return repo.RepoID, nil
}

func (s *memStore) update(repoID int64, fn func(*models.Repository)) error {
	s.mu.Lock()
	repo, ok := s.repos[repoID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", store.ErrRepositoryNotFound, repoID)
	}
	fn(&repo)
	s.repos[repoID] = repo
	s.writes++
	s.mu.Unlock()

	s.events.publish(store.ChangeEvent{Kind: store.ChangeUpdated, RepoID: repoID})
	return nil
}

func (s *memStore) UpdateRepoMirrors(_ context.Context, repoID int64, userMirrors, disabledMirrors []string) error {
	return s.update(repoID, func(r *models.Repository) {
		r.UserMirrors, r.DisabledMirrors = userMirrors, disabledMirrors
	})
}

func (s *memStore) SetEnabled(_ context.Context, repoID int64, enabled bool) error {
	return s.update(repoID, func(r *models.Repository) { r.Enabled = enabled })
}

func (s *memStore) SetCredentials(_ context.Context, repoID int64, username, password string) error {
	return s.update(repoID, func(r *models.Repository) { r.Username, r.Password = username, password })
}

func (s *memStore) SetLastError(_ context.Context, repoID int64, msg string) error {
	return s.update(repoID, func(r *models.Repository) { r.LastError = msg })
}

func (s *memStore) DeleteRepository(_ context.Context, repoID int64) error {
	s.mu.Lock()
	if _, ok := s.repos[repoID]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", store.ErrRepositoryNotFound, repoID)
	}
	delete(s.repos, repoID)
	delete(s.packages, repoID)
	s.writes++
	s.mu.Unlock()

	s.events.publish(store.ChangeEvent{Kind: store.ChangeDeleted, RepoID: repoID})
	return nil
}

func (s *memStore) BeginIndexTx(_ context.Context, repoID int64) (store.IndexTx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	repo, ok := s.repos[repoID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", store.ErrRepositoryNotFound, repoID)
	}
	s.begins++
	return &memTx{
		store:    s,
		repo:     repo,
		packages: maps.Clone(s.packages[repoID]),
	}, nil
}

func (s *memStore) Subscribe() (<-chan store.ChangeEvent, func()) {
	return s.events.subscribe()
}

// memTx works on copies and swaps them in on Commit.
type memTx struct {
	store    *memStore
	repo     models.Repository
	packages map[string]models.Package
	done     bool
}

func (tx *memTx) write() error {
	if tx.done {
		return store.ErrTxDone
	}
	tx.store.mu.Lock()
	tx.store.writes++
	tx.store.mu.Unlock()
	if tx.packages == nil {
		tx.packages = make(map[string]models.Package)
	}
	return nil
}

func (tx *memTx) UpsertRepoMetadata(_ context.Context, meta models.RepoMetadata) error {
	if err := tx.write(); err != nil {
		return err
	}
	tx.repo = tx.repo.WithMetadata(meta)
	return nil
}

func (tx *memTx) UpsertPackage(_ context.Context, packageID string, pkg models.Package) error {
	if err := tx.write(); err != nil {
		return err
	}
	tx.packages[packageID] = pkg
	return nil
}

func (tx *memTx) GetPackage(_ context.Context, packageID string) (models.Package, bool, error) {
	if tx.done {
		return models.Package{}, false, store.ErrTxDone
	}
	pkg, ok := tx.packages[packageID]
	return pkg, ok, nil
}

func (tx *memTx) DeletePackage(_ context.Context, packageID string) error {
	if err := tx.write(); err != nil {
		return err
	}
	delete(tx.packages, packageID)
	return nil
}

func (tx *memTx) ClearPackages(context.Context) error {
	if err := tx.write(); err != nil {
		return err
	}
	tx.packages = make(map[string]models.Package)
	return nil
}

func (tx *memTx) UpdateRepoTrust(_ context.Context, trust store.RepoTrust) error {
	if err := tx.write(); err != nil {
		return err
	}
	lastUpdated := trust.LastUpdated
	tx.repo.Timestamp = trust.Timestamp
	tx.repo.LastUpdated = &lastUpdated
	tx.repo.Certificate = trust.Certificate
	tx.repo.FormatVersion = trust.FormatVersion
	tx.repo.LastError = ""
	return nil
}

func (tx *memTx) Commit() error {
	if tx.done {
		return store.ErrTxDone
	}
	tx.done = true

	tx.store.mu.Lock()
	tx.store.repos[tx.repo.RepoID] = tx.repo
	tx.store.packages[tx.repo.RepoID] = tx.packages
	tx.store.mu.Unlock()

	tx.store.events.publish(store.ChangeEvent{Kind: store.ChangeIndex, RepoID: tx.repo.RepoID})
	return nil
}

func (tx *memTx) Rollback() error {
	tx.done = true
	return nil
}

// ── repoServer ───────────────────────────────────────────────────────────────

// repoServer serves repository files below /repo.
type repoServer struct {
	*httptest.Server

	mu    sync.Mutex
	files map[string][]byte
	hits  map[string]int
}

func newRepoServer(t *testing.T) *repoServer {
	t.Helper()
	s := &repoServer{files: make(map[string][]byte), hits: make(map[string]int)}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/repo")

		s.mu.Lock()
		data, ok := s.files[path]
		s.hits[path]++
		s.mu.Unlock()

		if !ok {
			http.NotFound(w, r)
			return
		}
		http.ServeContent(w, r, path, time.Time{}, strings.NewReader(string(data)))
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *repoServer) address() string {
	return s.URL + "/repo"
}

func (s *repoServer) put(path string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = data
}

func (s *repoServer) remove(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
}

func (s *repoServer) hitCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// ── fixtures ─────────────────────────────────────────────────────────────────

type fileRef struct {
	Name        string `json:"name"`
	SHA256      string `json:"sha256"`
	Size        int64  `json:"size"`
	NumPackages int    `json:"numPackages"`
}

func refOf(name string, content []byte) fileRef {
	sum := sha256.Sum256(content)
	return fileRef{Name: name, SHA256: hex.EncodeToString(sum[:]), Size: int64(len(content))}
}

// publishV2 signs an entry for doc (and the given diffs keyed by the
// timestamp they apply to) and serves it.
func publishV2(t *testing.T, srv *repoServer, signer *jartest.Signer, ts int64, doc string, diffs map[int64]string) {
	t.Helper()

	srv.put("/index-v2.json", []byte(doc))
	entry := map[string]any{
		"timestamp": ts,
		"version":   20001,
		"index":     refOf("/index-v2.json", []byte(doc)),
	}

	refs := make(map[string]fileRef, len(diffs))
	for from, d := range diffs {
		name := fmt.Sprintf("/diff/%d.json", from)
		srv.put(name, []byte(d))
		refs[strconv.FormatInt(from, 10)] = refOf(name, []byte(d))
	}
	entry["diffs"] = refs

	raw, err := json.Marshal(entry)
	require.NoError(t, err)
	srv.put(entryContainer, signer.Build(t, map[string][]byte{entryFileName: raw}))
}

func publishV1(t *testing.T, srv *repoServer, signer *jartest.Signer, doc string) {
	t.Helper()
	srv.put(indexV1Container, signer.Build(t, map[string][]byte{indexV1FileName: []byte(doc)}))
}

func newTestDownloader() adapter.Downloader {
	return adapter.NewMirrorDownloader(config.ClientAdapter{RequestTimeout: 5 * time.Second}, logger.Nop())
}

// newTestUpdater wires the real updaters against st with a fixed clock.
func newTestUpdater(t *testing.T, st store.RepositoryStore, tempDir string) *repoUpdater {
	t.Helper()

	dl := newTestDownloader()
	v := verifier.NewJarVerifier(logger.Nop())

	v2 := NewIndexV2Updater(st, dl, v, tempDir, logger.Nop()).(*indexV2Updater)
	v2.now = func() time.Time { return fixedNow }
	v1 := NewIndexV1Updater(st, dl, v, tempDir, logger.Nop()).(*indexV1Updater)
	v1.now = func() time.Time { return fixedNow }

	return NewRepoUpdater(v2, v1, dl, st, logger.Nop()).(*repoUpdater)
}
