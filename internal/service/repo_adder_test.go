// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-repo-sync/internal/logger"
	"github.com/MKhiriev/go-repo-sync/internal/verifier"
	"github.com/MKhiriev/go-repo-sync/internal/verifier/jartest"
	"github.com/MKhiriev/go-repo-sync/models"
)

type adderEnv struct {
	srv     *repoServer
	signer  *jartest.Signer
	store   *memStore
	tempDir string
	syncs   SyncManager
	adder   *repoAdder
}

func newAdderEnv(t *testing.T) *adderEnv {
	t.Helper()
	return &adderEnv{
		srv:     newRepoServer(t),
		signer:  jartest.NewSigner(t),
		store:   newMemStore(),
		tempDir: t.TempDir(),
	}
}

// start builds the adder once the store is seeded.
func (e *adderEnv) start(t *testing.T) *repoAdder {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cache := NewRepoCache(ctx, e.store, logger.Nop())
	e.syncs = NewSyncManager(e.store, newTestUpdater(t, e.store, e.tempDir), 1, logger.Nop())
	e.adder = NewRepoAdder(cache, e.store, e.syncs, newTestDownloader(),
		verifier.NewJarVerifier(logger.Nop()), e.tempDir, logger.Nop()).(*repoAdder)
	t.Cleanup(e.adder.Abort)
	return e.adder
}

func (e *adderEnv) urlWithFingerprint() string {
	return e.srv.address() + "?fingerprint=" + e.signer.Fingerprint()
}

func settled(s models.AddRepoState) bool {
	switch st := s.(type) {
	case models.Fetching:
		return st.Done
	case models.AddRepoError:
		return true
	}
	return false
}

func waitState(t *testing.T, a *repoAdder, cond func(models.AddRepoState) bool) models.AddRepoState {
	t.Helper()
	var state models.AddRepoState
	require.Eventually(t, func() bool {
		state = a.State()
		return cond(state)
	}, 5*time.Second, 5*time.Millisecond, "state never reached")
	return state
}

// withoutMirrors drops the declared mirrors so updates only reach the test
// server.
func withoutMirrors(doc string) string {
	return strings.Replace(doc, `,
		"mirrors": [{"url": "https://mirror.example.org/repo"}]`, "", 1)
}

func stagedIndexFiles(t *testing.T, dir string) []string {
	t.Helper()
	files, err := filepath.Glob(filepath.Join(dir, "index-*.json"))
	require.NoError(t, err)
	return files
}

// ── Fetch ────────────────────────────────────────────────────────────────────

func TestRepoAdder_Fetch_NewRepository(t *testing.T) {
	env := newAdderEnv(t)
	publishV2(t, env.srv, env.signer, ts1, indexT1(env.srv.address()), nil)
	a := env.start(t)

	states, release := a.Subscribe()
	defer release()

	session := a.FetchRepository(context.Background(), env.urlWithFingerprint(), "")
	require.NotEmpty(t, session)

	state := waitState(t, a, settled)
	fetching, ok := state.(models.Fetching)
	require.True(t, ok, "got %s", state.Name())

	assert.Equal(t, session, fetching.SessionID)
	assert.Equal(t, env.srv.address(), fetching.FetchURL)
	assert.Equal(t, models.IsNewRepository{}, fetching.Result)
	assert.True(t, fetching.CanAdd())
	require.NotNil(t, fetching.Repo)
	assert.Equal(t, env.signer.CertificateHex(), fetching.Repo.Certificate)
	assert.Equal(t, models.FormatVersionV2, fetching.Repo.FormatVersion)
	assert.Equal(t, 2, fetching.PackageCount)
	assert.Len(t, fetching.Packages, 2)
	assert.Len(t, stagedIndexFiles(t, env.tempDir), 1)
	assert.Zero(t, env.store.writeCount(), "a preview never writes")

	// the repository arrives before its packages, completion comes last
	var seen []models.Fetching
	for len(seen) == 0 || !seen[len(seen)-1].Done {
		select {
		case s := <-states:
			if f, ok := s.(models.Fetching); ok {
				seen = append(seen, f)
			}
		case <-time.After(time.Second):
			t.Fatal("missing states")
		}
	}
	require.GreaterOrEqual(t, len(seen), 3)
	assert.Nil(t, seen[0].Repo)
	assert.NotNil(t, seen[1].Repo)
	assert.Zero(t, seen[1].PackageCount)
	assert.Nil(t, seen[1].Result)
}

func TestRepoAdder_Fetch_LegacyIndex(t *testing.T) {
	env := newAdderEnv(t)
	publishV1(t, env.srv, env.signer, indexV1Doc(env.srv.address(), 1500000000000))
	a := env.start(t)

	a.FetchRepository(context.Background(), env.srv.address(), "")

	fetching, ok := waitState(t, a, settled).(models.Fetching)
	require.True(t, ok)
	assert.Equal(t, models.FormatVersionV1, fetching.Repo.FormatVersion)
	assert.Equal(t, 1, fetching.PackageCount)
	assert.Empty(t, stagedIndexFiles(t, env.tempDir))
}

func TestRepoAdder_Fetch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		publish bool
		url     func(env *adderEnv) string
		want    models.AddRepoErrorKind
	}{
		{
			name:    "wrong fingerprint",
			publish: true,
			url: func(env *adderEnv) string {
				return env.srv.address() + "?fingerprint=" + strings.Repeat("ab", 32)
			},
			want: models.AddRepoInvalidFingerprint,
		},
		{
			name:    "archive repository",
			publish: true,
			url:     func(env *adderEnv) string { return env.srv.URL + "/fdroid/archive" },
			want:    models.AddRepoIsArchiveRepo,
		},
		{
			name: "nothing published",
			url:  func(env *adderEnv) string { return env.srv.address() },
			want: models.AddRepoInvalidIndex,
		},
		{
			name: "unsupported address",
			url:  func(*adderEnv) string { return "ftp://example.org/repo" },
			want: models.AddRepoInvalidIndex,
		},
		{
			name: "unreachable",
			url:  func(*adderEnv) string { return "http://127.0.0.1:1/repo" },
			want: models.AddRepoIOError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newAdderEnv(t)
			if tt.publish {
				publishV2(t, env.srv, env.signer, ts1, indexT1(env.srv.address()), nil)
			}
			a := env.start(t)

			a.FetchRepository(context.Background(), tt.url(env), "")

			state := waitState(t, a, settled)
			addErr, ok := state.(models.AddRepoError)
			require.True(t, ok, "got %s", state.Name())
			assert.Equal(t, tt.want, addErr.Kind)
			assert.Empty(t, stagedIndexFiles(t, env.tempDir))
			assert.Zero(t, env.store.writeCount())

			_, err := a.AddFetchedRepository(context.Background())
			assert.ErrorIs(t, err, ErrInvalidAddRepoState)
		})
	}
}

// ── Classification ───────────────────────────────────────────────────────────

func TestFetchResultFor(t *testing.T) {
	fetched := models.Repository{
		Address:     "https://example.org/repo",
		Certificate: "cafe",
		Mirrors:     []models.Mirror{{URL: "https://mirror.example.org/repo/"}},
	}
	existing := models.Repository{
		RepoID:      7,
		Address:     "https://example.org/repo",
		Certificate: "CAFE",
		Mirrors:     []models.Mirror{{URL: "https://mirror.example.org/repo"}},
		UserMirrors: []string{"https://user.example.org/repo"},
	}
	other := models.Repository{RepoID: 3, Address: "https://other.example.org/repo", Certificate: "beef"}

	tests := []struct {
		name     string
		repos    []models.Repository
		fetchURL string
		want     models.FetchResult
	}{
		{"new from address", []models.Repository{other}, "https://example.org/repo/", models.IsNewRepository{}},
		{"new from declared mirror", nil, "https://mirror.example.org/repo", models.IsNewRepository{}},
		{"new from unknown address", nil, "https://elsewhere.example.org/repo", models.IsNewRepoAndNewMirror{}},
		{"existing", []models.Repository{other, existing}, "https://example.org/repo", models.IsExistingRepository{ExistingRepoID: 7}},
		{"existing declared mirror", []models.Repository{existing}, "https://mirror.example.org/repo", models.IsExistingMirror{ExistingRepoID: 7}},
		{"existing user mirror", []models.Repository{existing}, "https://user.example.org/repo", models.IsExistingMirror{ExistingRepoID: 7}},
		{"new mirror", []models.Repository{existing}, "https://elsewhere.example.org/repo", models.IsNewMirror{ExistingRepoID: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fetchResultFor(tt.repos, tt.fetchURL, fetched))
		})
	}
}

// ── AddFetchedRepository ─────────────────────────────────────────────────────

func TestRepoAdder_Add_NewRepository(t *testing.T) {
	env := newAdderEnv(t)
	publishV2(t, env.srv, env.signer, ts1, indexT1(env.srv.address()), nil)
	a := env.start(t)

	events, release := env.syncs.Subscribe()
	defer release()

	a.FetchRepository(context.Background(), env.urlWithFingerprint(), "")
	waitState(t, a, settled)

	added, err := a.AddFetchedRepository(context.Background())
	require.NoError(t, err)
	repoID := added.RepoID
	assert.Equal(t, models.SyncProcessed{}, added.Result)

	state, ok := a.State().(models.Added)
	require.True(t, ok, "got %s", a.State().Name())
	assert.Equal(t, added, state)

	// the first sync ran through the sync manager
	select {
	case ev := <-events:
		assert.Equal(t, models.SyncEvent{RepoID: repoID, Result: "processed"}, ev)
	case <-time.After(time.Second):
		t.Fatal("no sync event for the first sync")
	}

	repo := env.store.repo(t, repoID)
	assert.Equal(t, env.srv.address(), repo.Address)
	assert.Equal(t, env.signer.CertificateHex(), repo.Certificate)
	assert.Equal(t, ts1, repo.Timestamp)
	assert.Equal(t, models.FormatVersionV2, repo.FormatVersion)
	assert.True(t, repo.Enabled)
	assert.Len(t, env.store.packagesOf(repoID), 2)

	assert.Equal(t, 1, env.srv.hitCount("/index-v2.json"), "the previewed index is reused")
	assert.Empty(t, stagedIndexFiles(t, env.tempDir))

	_, err = a.AddFetchedRepository(context.Background())
	assert.ErrorIs(t, err, ErrInvalidAddRepoState)
}

func TestRepoAdder_Add_NewRepositoryAndMirror(t *testing.T) {
	env := newAdderEnv(t)
	// the canonical address refuses connections, only the mirror answers
	canonical := "http://127.0.0.1:1/repo"
	publishV2(t, env.srv, env.signer, ts1, withoutMirrors(indexT1(canonical)), nil)
	a := env.start(t)

	a.FetchRepository(context.Background(), env.srv.address(), "")
	fetching := waitState(t, a, settled).(models.Fetching)
	require.Equal(t, models.IsNewRepoAndNewMirror{}, fetching.Result)

	added, err := a.AddFetchedRepository(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SyncProcessed{}, added.Result)

	repo := env.store.repo(t, added.RepoID)
	assert.Equal(t, canonical, repo.Address)
	assert.Equal(t, []string{env.srv.address()}, repo.UserMirrors)
	assert.Equal(t, ts1, repo.Timestamp)
}

func TestRepoAdder_Add_FirstSyncFails(t *testing.T) {
	env := newAdderEnv(t)
	publishV2(t, env.srv, env.signer, ts1, indexT1(env.srv.address()), nil)
	a := env.start(t)

	a.FetchRepository(context.Background(), env.urlWithFingerprint(), "")
	waitState(t, a, settled)

	// re-signed by another key between preview and commit
	publishV2(t, env.srv, jartest.NewSigner(t), ts1, indexT1(env.srv.address()), nil)

	added, err := a.AddFetchedRepository(context.Background())
	require.NoError(t, err)
	syncErr := requireSyncError(t, added.Result)
	assert.ErrorIs(t, syncErr, verifier.ErrSigning)

	state, ok := a.State().(models.Added)
	require.True(t, ok, "got %s", a.State().Name())
	assert.Equal(t, added.Result, state.Result)
	assert.Equal(t, "added", models.NewAddRepoStateResponse(state).State)
	assert.Contains(t, models.NewAddRepoStateResponse(state).SyncResult, "signing error")

	repo := env.store.repo(t, added.RepoID)
	assert.Equal(t, int64(-1), repo.Timestamp)
	assert.Contains(t, repo.LastError, "signing error")
	assert.Empty(t, env.store.packagesOf(added.RepoID))
	assert.Empty(t, stagedIndexFiles(t, env.tempDir))
}

func TestRepoAdder_Add_BadCertificateWritesNothing(t *testing.T) {
	env := newAdderEnv(t)
	a := env.start(t)

	a.mu.Lock()
	a.session = "s1"
	a.state = models.Fetching{
		SessionID: "s1",
		FetchURL:  "https://example.org/repo",
		Repo:      &models.Repository{Address: "https://example.org/repo", Certificate: "not hex"},
		Done:      true,
		Result:    models.IsNewRepository{},
	}
	a.mu.Unlock()

	_, err := a.AddFetchedRepository(context.Background())
	require.Error(t, err)

	assert.Zero(t, env.store.writeCount())
	repos, err := env.store.ListRepositories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, repos)
	_, isErr := a.State().(models.AddRepoError)
	assert.True(t, isErr, "got %s", a.State().Name())
}

func TestRepoAdder_Add_NewMirror(t *testing.T) {
	env := newAdderEnv(t)
	publishV2(t, env.srv, env.signer, ts1, indexT1("https://example.org/repo"), nil)
	existing := env.store.add(models.Repository{
		Address:     "https://example.org/repo",
		Certificate: env.signer.CertificateHex(),
		UserMirrors: []string{"https://user.example.org/repo"},
		Enabled:     true,
	})
	a := env.start(t)

	a.FetchRepository(context.Background(), env.srv.address(), "")
	fetching := waitState(t, a, settled).(models.Fetching)
	require.Equal(t, models.IsNewMirror{ExistingRepoID: existing.RepoID}, fetching.Result)

	added, err := a.AddFetchedRepository(context.Background())
	require.NoError(t, err)
	assert.Equal(t, existing.RepoID, added.RepoID)
	assert.Nil(t, added.Result)

	repo := env.store.repo(t, added.RepoID)
	assert.Equal(t, []string{"https://user.example.org/repo", env.srv.address()}, repo.UserMirrors)
	assert.Empty(t, env.store.packagesOf(added.RepoID), "adding a mirror does not sync")
	assert.Empty(t, stagedIndexFiles(t, env.tempDir))
}

func TestRepoAdder_Add_ExistingRepository(t *testing.T) {
	env := newAdderEnv(t)
	publishV2(t, env.srv, env.signer, ts1, indexT1(env.srv.address()), nil)
	existing := env.store.add(models.Repository{
		Address:     env.srv.address(),
		Certificate: env.signer.CertificateHex(),
		Enabled:     true,
	})
	a := env.start(t)

	a.FetchRepository(context.Background(), env.srv.address(), "")
	fetching := waitState(t, a, settled).(models.Fetching)
	assert.Equal(t, models.IsExistingRepository{ExistingRepoID: existing.RepoID}, fetching.Result)
	assert.False(t, fetching.CanAdd())

	_, err := a.AddFetchedRepository(context.Background())
	assert.ErrorIs(t, err, ErrInvalidAddRepoState)
	assert.Zero(t, env.store.writeCount())
}

// ── Abort ────────────────────────────────────────────────────────────────────

func TestRepoAdder_Abort_DuringFetch(t *testing.T) {
	env := newAdderEnv(t)
	started := make(chan struct{}, 1)
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-r.Context().Done()
	}))
	defer slow.Close()
	a := env.start(t)

	a.FetchRepository(context.Background(), slow.URL+"/repo", "")
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("fetch never reached the server")
	}

	a.Abort()
	assert.Equal(t, models.AddRepoNone{}, a.State())

	// the cancelled fetch must not publish anything afterwards
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, models.AddRepoNone{}, a.State())
	assert.Zero(t, env.store.writeCount())

	_, err := a.AddFetchedRepository(context.Background())
	assert.ErrorIs(t, err, ErrInvalidAddRepoState)
}

func TestRepoAdder_Abort_AfterFetch(t *testing.T) {
	env := newAdderEnv(t)
	publishV2(t, env.srv, env.signer, ts1, indexT1(env.srv.address()), nil)
	a := env.start(t)

	a.FetchRepository(context.Background(), env.srv.address(), "")
	waitState(t, a, settled)
	require.Len(t, stagedIndexFiles(t, env.tempDir), 1)

	a.Abort()

	assert.Equal(t, models.AddRepoNone{}, a.State())
	assert.Empty(t, stagedIndexFiles(t, env.tempDir))
	assert.Zero(t, env.store.writeCount())
}

func TestRepoAdder_Fetch_ReplacesSession(t *testing.T) {
	env := newAdderEnv(t)
	publishV2(t, env.srv, env.signer, ts1, indexT1(env.srv.address()), nil)
	a := env.start(t)

	first := a.FetchRepository(context.Background(), env.srv.address(), "")
	waitState(t, a, settled)
	second := a.FetchRepository(context.Background(), env.srv.address(), "")
	require.NotEqual(t, first, second)

	fetching := waitState(t, a, settled).(models.Fetching)
	assert.Equal(t, second, fetching.SessionID)
}

func TestRemoveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	removeFile(path)
	removeFile("")

	_, err := os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
