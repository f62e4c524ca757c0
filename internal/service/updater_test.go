// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-repo-sync/internal/adapter"
	"github.com/MKhiriev/go-repo-sync/internal/index"
	"github.com/MKhiriev/go-repo-sync/internal/verifier"
	"github.com/MKhiriev/go-repo-sync/internal/verifier/jartest"
	"github.com/MKhiriev/go-repo-sync/models"
)

const (
	ts1 int64 = 1700000000000
	ts2 int64 = 1700000100000
)

func indexT1(address string) string {
	return fmt.Sprintf(`{
	"repo": {
		"name": {"en-US": "Example"},
		"address": %q,
		"timestamp": %d,
		"mirrors": [{"url": "https://mirror.example.org/repo"}]
	},
	"packages": {
		"org.example.a": {
			"metadata": {"added": 1, "lastUpdated": 10, "license": "MIT", "name": {"en-US": "A"}},
			"versions": {
				"a1": {"added": 1, "file": {"name": "/a_1.apk", "sha256": "a1", "size": 10}, "manifest": {"versionName": "1.0", "versionCode": 1}}
			}
		},
		"org.example.b": {
			"metadata": {"added": 2, "lastUpdated": 2, "license": "GPL-3.0-only"}
		}
	}
}`, address, ts1)
}

func indexT2(address string) string {
	return fmt.Sprintf(`{
	"repo": {
		"name": {"en-US": "Example 2"},
		"address": %q,
		"timestamp": %d,
		"mirrors": [{"url": "https://mirror.example.org/repo"}]
	},
	"packages": {
		"org.example.a": {
			"metadata": {"added": 1, "lastUpdated": 20, "license": "Apache-2.0", "name": {"en-US": "A"}},
			"versions": {
				"a1": {"added": 1, "file": {"name": "/a_1.apk", "sha256": "a1", "size": 10}, "manifest": {"versionName": "1.0", "versionCode": 1}},
				"a2": {"added": 20, "file": {"name": "/a_2.apk", "sha256": "a2", "size": 20}, "manifest": {"versionName": "2.0", "versionCode": 2}}
			}
		},
		"org.example.c": {
			"metadata": {"added": 20, "lastUpdated": 20, "license": "MIT", "summary": {"en-US": "new"}},
			"versions": {
				"c1": {"added": 20, "file": {"name": "/c_1.apk", "sha256": "c1", "size": 5}, "manifest": {"versionName": "1", "versionCode": 1}}
			}
		}
	}
}`, address, ts2)
}

var diffT1T2 = fmt.Sprintf(`{
	"repo": {"timestamp": %d, "name": {"en-US": "Example 2"}},
	"packages": {
		"org.example.a": {
			"metadata": {"lastUpdated": 20, "license": "Apache-2.0"},
			"versions": {
				"a2": {"added": 20, "file": {"name": "/a_2.apk", "sha256": "a2", "size": 20}, "manifest": {"versionName": "2.0", "versionCode": 2}}
			}
		},
		"org.example.b": null,
		"org.example.c": {
			"metadata": {"added": 20, "lastUpdated": 20, "license": "MIT", "summary": {"en-US": "new"}},
			"versions": {
				"c1": {"added": 20, "file": {"name": "/c_1.apk", "sha256": "c1", "size": 5}, "manifest": {"versionName": "1", "versionCode": 1}}
			}
		},
		"org.example.gone": null
	}
}`, ts2)

func indexV1Doc(address string, ts int64) string {
	return fmt.Sprintf(`{
	"repo": {"timestamp": %d, "version": 21, "name": "Legacy", "icon": "legacy.png", "address": %q, "description": "old"},
	"requests": {"install": [], "uninstall": []},
	"apps": [
		{"packageName": "org.example.legacy", "license": "MIT", "added": 1, "lastUpdated": 2, "name": "Legacy App"}
	],
	"packages": {
		"org.example.legacy": [
			{"added": 1, "apkName": "legacy_1.apk", "hash": "l1", "hashType": "sha256", "size": 3, "versionCode": 1, "versionName": "1"}
		]
	}
}`, ts, address)
}

type updaterEnv struct {
	srv     *repoServer
	signer  *jartest.Signer
	store   *memStore
	updater *repoUpdater
}

func newUpdaterEnv(t *testing.T) *updaterEnv {
	t.Helper()
	st := newMemStore()
	return &updaterEnv{
		srv:     newRepoServer(t),
		signer:  jartest.NewSigner(t),
		store:   st,
		updater: newTestUpdater(t, st, t.TempDir()),
	}
}

func (e *updaterEnv) addTrusted() models.Repository {
	return e.store.add(models.Repository{
		Address:     e.srv.address(),
		Timestamp:   -1,
		Certificate: e.signer.CertificateHex(),
		Enabled:     true,
	})
}

func (e *updaterEnv) sync(t *testing.T, repoID int64) models.SyncResult {
	t.Helper()
	return e.updater.Update(context.Background(), e.store.repo(t, repoID))
}

// snapshot is what two equivalent syncs must agree on.
type snapshot struct {
	Repo     models.Repository
	Packages map[string]models.Package
}

func (e *updaterEnv) snapshot(t *testing.T, repoID int64) snapshot {
	t.Helper()
	repo := e.store.repo(t, repoID)
	repo.Address = ""
	return snapshot{Repo: repo, Packages: e.store.packagesOf(repoID)}
}

func requireSyncError(t *testing.T, res models.SyncResult) models.SyncError {
	t.Helper()
	syncErr, ok := res.(models.SyncError)
	require.True(t, ok, "expected an error result, got %s", res)
	return syncErr
}

// ── Full index ───────────────────────────────────────────────────────────────

func TestRepoUpdater_Update_FullIndex(t *testing.T) {
	env := newUpdaterEnv(t)
	publishV2(t, env.srv, env.signer, ts1, indexT1(env.srv.address()), nil)
	repo := env.addTrusted()

	res := env.sync(t, repo.RepoID)
	require.Equal(t, models.SyncProcessed{}, res)

	got := env.store.repo(t, repo.RepoID)
	assert.Equal(t, ts1, got.Timestamp)
	assert.Equal(t, models.FormatVersionV2, got.FormatVersion)
	assert.Equal(t, env.signer.CertificateHex(), got.Certificate)
	require.NotNil(t, got.LastUpdated)
	assert.True(t, fixedNow.Equal(*got.LastUpdated))
	assert.Equal(t, models.LocalizedText{"en-US": "Example"}, got.Name)
	assert.Equal(t, []models.Mirror{{URL: "https://mirror.example.org/repo"}}, got.Mirrors)
	assert.Empty(t, got.LastError)

	pkgs := env.store.packagesOf(repo.RepoID)
	require.Len(t, pkgs, 2)
	assert.Equal(t, "MIT", pkgs["org.example.a"].Metadata.License)
	assert.Contains(t, pkgs["org.example.a"].Versions, "a1")
}

func TestRepoUpdater_Update_Idempotent(t *testing.T) {
	env := newUpdaterEnv(t)
	publishV2(t, env.srv, env.signer, ts1, indexT1(env.srv.address()), nil)
	repo := env.addTrusted()

	require.Equal(t, models.SyncProcessed{}, env.sync(t, repo.RepoID))
	before := env.snapshot(t, repo.RepoID)
	writes, begins := env.store.writeCount(), env.store.beginCount()

	res := env.sync(t, repo.RepoID)

	assert.Equal(t, models.SyncUnchanged{}, res)
	assert.Equal(t, writes, env.store.writeCount(), "an unchanged index must not write")
	assert.Equal(t, begins, env.store.beginCount(), "an unchanged index must not open a transaction")
	assert.Empty(t, cmp.Diff(before, env.snapshot(t, repo.RepoID)))
	assert.Equal(t, 1, env.srv.hitCount("/index-v2.json"), "the index is not downloaded again")
}

func TestRepoUpdater_Update_OlderIndexUnchanged(t *testing.T) {
	env := newUpdaterEnv(t)
	publishV2(t, env.srv, env.signer, ts1, indexT1(env.srv.address()), nil)
	repo := env.store.add(models.Repository{
		Address:       env.srv.address(),
		Timestamp:     ts2,
		FormatVersion: models.FormatVersionV2,
		Certificate:   env.signer.CertificateHex(),
		Enabled:       true,
	})

	res := env.sync(t, repo.RepoID)

	assert.Equal(t, models.SyncUnchanged{}, res)
	assert.Zero(t, env.store.writeCount())
	assert.Equal(t, ts2, env.store.repo(t, repo.RepoID).Timestamp)
}

// ── Diffs ────────────────────────────────────────────────────────────────────

func TestRepoUpdater_Update_DiffEquivalence(t *testing.T) {
	// full T1 followed by the T1 -> T2 diff
	diffed := newUpdaterEnv(t)
	publishV2(t, diffed.srv, diffed.signer, ts1, indexT1(diffed.srv.address()), nil)
	repo := diffed.addTrusted()
	require.Equal(t, models.SyncProcessed{}, diffed.sync(t, repo.RepoID))

	publishV2(t, diffed.srv, diffed.signer, ts2, indexT2(diffed.srv.address()), map[int64]string{ts1: diffT1T2})
	require.Equal(t, models.SyncProcessed{}, diffed.sync(t, repo.RepoID))
	assert.Equal(t, 1, diffed.srv.hitCount(fmt.Sprintf("/diff/%d.json", ts1)))
	assert.Equal(t, 1, diffed.srv.hitCount("/index-v2.json"), "the full index is not fetched when a diff applies")

	// full T2 only
	full := newUpdaterEnv(t)
	full.signer = diffed.signer
	publishV2(t, full.srv, full.signer, ts2, indexT2(full.srv.address()), nil)
	fullRepo := full.addTrusted()
	require.Equal(t, models.SyncProcessed{}, full.sync(t, fullRepo.RepoID))

	diff := cmp.Diff(full.snapshot(t, fullRepo.RepoID), diffed.snapshot(t, repo.RepoID), cmpopts.EquateEmpty())
	assert.Empty(t, diff)
	assert.NotContains(t, diffed.store.packagesOf(repo.RepoID), "org.example.b")
}

// withMirror points the declared mirror of an index fixture at url.
func withMirror(doc, url string) string {
	return strings.Replace(doc, "https://mirror.example.org/repo", url, 1)
}

// newBrokenMirror serves 500 for every file.
func newBrokenMirror(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unavailable", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/repo"
}

func TestRepoUpdater_Update_MissingDiffFallsBackToFull(t *testing.T) {
	env := newUpdaterEnv(t)
	mirror := newBrokenMirror(t)
	publishV2(t, env.srv, env.signer, ts1, withMirror(indexT1(env.srv.address()), mirror), nil)
	repo := env.addTrusted()
	require.Equal(t, models.SyncProcessed{}, env.sync(t, repo.RepoID))

	// the address answers 404 for the pruned diff, the mirror 500
	publishV2(t, env.srv, env.signer, ts2, withMirror(indexT2(env.srv.address()), mirror), map[int64]string{ts1: diffT1T2})
	env.srv.remove(fmt.Sprintf("/diff/%d.json", ts1))

	require.Equal(t, models.SyncProcessed{}, env.sync(t, repo.RepoID))

	pkgs := env.store.packagesOf(repo.RepoID)
	assert.Len(t, pkgs, 2)
	assert.Contains(t, pkgs, "org.example.c")
	assert.Equal(t, ts2, env.store.repo(t, repo.RepoID).Timestamp)
	assert.Equal(t, 2, env.srv.hitCount("/index-v2.json"))
}

func TestRepoUpdater_Update_TamperedDiffFallsBackToFull(t *testing.T) {
	env := newUpdaterEnv(t)
	publishV2(t, env.srv, env.signer, ts1, indexT1(env.srv.address()), nil)
	repo := env.addTrusted()
	require.Equal(t, models.SyncProcessed{}, env.sync(t, repo.RepoID))

	diffName := fmt.Sprintf("/diff/%d.json", ts1)
	publishV2(t, env.srv, env.signer, ts2, indexT2(env.srv.address()), map[int64]string{ts1: diffT1T2})
	env.srv.put(diffName, []byte(strings.Replace(diffT1T2, `"MIT"`, `"BSD"`, 1)))

	require.Equal(t, models.SyncProcessed{}, env.sync(t, repo.RepoID))
	assert.Equal(t, "MIT", env.store.packagesOf(repo.RepoID)["org.example.c"].Metadata.License)
}

func TestRepoUpdater_Update_MalformedDiffIsFatal(t *testing.T) {
	env := newUpdaterEnv(t)
	publishV2(t, env.srv, env.signer, ts1, indexT1(env.srv.address()), nil)
	repo := env.addTrusted()
	require.Equal(t, models.SyncProcessed{}, env.sync(t, repo.RepoID))
	before := env.snapshot(t, repo.RepoID)

	publishV2(t, env.srv, env.signer, ts2, indexT2(env.srv.address()), map[int64]string{ts1: `{"repo": `})

	requireSyncError(t, env.sync(t, repo.RepoID))
	assert.Equal(t, 1, env.srv.hitCount("/index-v2.json"), "a diff that was read is not replaced by the full index")
	after := env.snapshot(t, repo.RepoID)
	after.Repo.LastError = ""
	assert.Empty(t, cmp.Diff(before, after))
}

func TestRepoUpdater_Update_DiffOnlyForV2Repos(t *testing.T) {
	env := newUpdaterEnv(t)
	publishV2(t, env.srv, env.signer, ts2, indexT2(env.srv.address()), map[int64]string{ts1: diffT1T2})
	repo := env.store.add(models.Repository{
		Address:       env.srv.address(),
		Timestamp:     ts1,
		FormatVersion: models.FormatVersionV1,
		Certificate:   env.signer.CertificateHex(),
		Enabled:       true,
	})

	require.Equal(t, models.SyncProcessed{}, env.sync(t, repo.RepoID))

	assert.Zero(t, env.srv.hitCount(fmt.Sprintf("/diff/%d.json", ts1)))
	assert.Equal(t, 1, env.srv.hitCount("/index-v2.json"))
	assert.Equal(t, models.FormatVersionV2, env.store.repo(t, repo.RepoID).FormatVersion)
}

// ── Failures ─────────────────────────────────────────────────────────────────

func TestRepoUpdater_Update_WrongCertificate(t *testing.T) {
	env := newUpdaterEnv(t)
	publishV2(t, env.srv, env.signer, ts1, indexT1(env.srv.address()), nil)
	other := jartest.NewSigner(t)
	repo := env.store.add(models.Repository{
		Address:     env.srv.address(),
		Timestamp:   -1,
		Certificate: other.CertificateHex(),
		Enabled:     true,
	})

	res := env.sync(t, repo.RepoID)

	syncErr := requireSyncError(t, res)
	assert.ErrorIs(t, syncErr, verifier.ErrSigning)
	assert.Zero(t, env.store.beginCount())
	assert.Empty(t, env.store.packagesOf(repo.RepoID))

	got := env.store.repo(t, repo.RepoID)
	assert.Equal(t, int64(-1), got.Timestamp)
	assert.Equal(t, other.CertificateHex(), got.Certificate)
	assert.Contains(t, got.LastError, "signing error")
}

func TestRepoUpdater_Update_NoCertificate(t *testing.T) {
	env := newUpdaterEnv(t)
	publishV2(t, env.srv, env.signer, ts1, indexT1(env.srv.address()), nil)
	repo := env.store.add(models.Repository{Address: env.srv.address(), Timestamp: -1, Enabled: true})

	res := env.sync(t, repo.RepoID)

	assert.ErrorIs(t, requireSyncError(t, res), ErrInvalidArgument)
	assert.Zero(t, env.srv.hitCount(entryContainer))
}

func TestRepoUpdater_Update_TamperedIndexRollsBack(t *testing.T) {
	env := newUpdaterEnv(t)
	doc := indexT1(env.srv.address())
	publishV2(t, env.srv, env.signer, ts1, doc, nil)
	// same length, different content
	env.srv.put("/index-v2.json", []byte(strings.Replace(doc, `"MIT"`, `"BSD"`, 1)))
	repo := env.addTrusted()

	res := env.sync(t, repo.RepoID)

	assert.ErrorIs(t, requireSyncError(t, res), adapter.ErrHashMismatch)
	assert.Empty(t, env.store.packagesOf(repo.RepoID))
	assert.Equal(t, int64(-1), env.store.repo(t, repo.RepoID).Timestamp)
}

func TestRepoUpdater_Update_MalformedIndexRollsBack(t *testing.T) {
	env := newUpdaterEnv(t)
	publishV2(t, env.srv, env.signer, ts1, indexT1(env.srv.address()), nil)
	repo := env.addTrusted()
	require.Equal(t, models.SyncProcessed{}, env.sync(t, repo.RepoID))
	before := env.snapshot(t, repo.RepoID)

	// valid repo object, broken package: the repo callback already wrote
	broken := fmt.Sprintf(`{"repo": {"address": %q, "timestamp": %d}, "packages": {"org.example.a": []}}`,
		env.srv.address(), ts2)
	publishV2(t, env.srv, env.signer, ts2, broken, nil)

	res := env.sync(t, repo.RepoID)

	assert.ErrorIs(t, requireSyncError(t, res), index.ErrMalformedIndex)
	after := env.snapshot(t, repo.RepoID)
	after.Repo.LastError = ""
	assert.Empty(t, cmp.Diff(before, after))
}

func TestRepoUpdater_Update_NotFound(t *testing.T) {
	env := newUpdaterEnv(t)
	repo := env.addTrusted()

	res := env.sync(t, repo.RepoID)

	assert.Equal(t, models.SyncNotFound{}, res)
	assert.Equal(t, 1, env.srv.hitCount(entryContainer))
	assert.Equal(t, 1, env.srv.hitCount(indexV1Container))
	assert.Equal(t, msgIndexNotFound, env.store.repo(t, repo.RepoID).LastError)
}

func TestRepoUpdater_Update_ErrorClearedByNextSync(t *testing.T) {
	env := newUpdaterEnv(t)
	repo := env.addTrusted()
	require.Equal(t, models.SyncNotFound{}, env.sync(t, repo.RepoID))

	publishV2(t, env.srv, env.signer, ts1, indexT1(env.srv.address()), nil)
	require.Equal(t, models.SyncProcessed{}, env.sync(t, repo.RepoID))
	assert.Empty(t, env.store.repo(t, repo.RepoID).LastError)
}

func TestRepoUpdater_Update_UnchangedClearsError(t *testing.T) {
	env := newUpdaterEnv(t)
	publishV2(t, env.srv, env.signer, ts1, indexT1(env.srv.address()), nil)
	repo := env.store.add(models.Repository{
		Address:       env.srv.address(),
		Timestamp:     ts1,
		FormatVersion: models.FormatVersionV2,
		Certificate:   env.signer.CertificateHex(),
		Enabled:       true,
		LastError:     "network error",
	})

	require.Equal(t, models.SyncUnchanged{}, env.sync(t, repo.RepoID))
	assert.Empty(t, env.store.repo(t, repo.RepoID).LastError)
}

// ── Legacy format ────────────────────────────────────────────────────────────

func TestRepoUpdater_Update_LegacyFallback(t *testing.T) {
	env := newUpdaterEnv(t)
	publishV1(t, env.srv, env.signer, indexV1Doc(env.srv.address(), 1500000000000))
	repo := env.addTrusted()

	res := env.sync(t, repo.RepoID)

	require.Equal(t, models.SyncProcessed{}, res)
	got := env.store.repo(t, repo.RepoID)
	assert.Equal(t, models.FormatVersionV1, got.FormatVersion)
	assert.Equal(t, int64(1500000000000), got.Timestamp)
	assert.Contains(t, env.store.packagesOf(repo.RepoID), "org.example.legacy")

	// same legacy index again
	writes := env.store.writeCount()
	assert.Equal(t, models.SyncUnchanged{}, env.sync(t, repo.RepoID))
	assert.Equal(t, writes, env.store.writeCount())
}

func TestRepoUpdater_Update_NoDowngrade(t *testing.T) {
	env := newUpdaterEnv(t)
	publishV1(t, env.srv, env.signer, indexV1Doc(env.srv.address(), ts2))
	repo := env.store.add(models.Repository{
		Address:       env.srv.address(),
		Timestamp:     ts1,
		FormatVersion: models.FormatVersionV2,
		Certificate:   env.signer.CertificateHex(),
		Enabled:       true,
	})

	res := env.sync(t, repo.RepoID)

	assert.ErrorIs(t, requireSyncError(t, res), ErrFormatDowngrade)
	assert.Equal(t, 1, env.srv.hitCount(indexV1Container), "only asked for, never applied")
	got := env.store.repo(t, repo.RepoID)
	assert.Equal(t, ts1, got.Timestamp)
	assert.Equal(t, models.FormatVersionV2, got.FormatVersion)
	assert.Empty(t, env.store.packagesOf(repo.RepoID))
	assert.Contains(t, got.LastError, ErrFormatDowngrade.Error())

	direct := env.updater.v1.Update(context.Background(), got)
	assert.ErrorIs(t, requireSyncError(t, direct), ErrFormatDowngrade)
}

func TestRepoUpdater_Update_V2RepoNotFound(t *testing.T) {
	env := newUpdaterEnv(t)
	repo := env.store.add(models.Repository{
		Address:       env.srv.address(),
		Timestamp:     ts1,
		FormatVersion: models.FormatVersionV2,
		Certificate:   env.signer.CertificateHex(),
		Enabled:       true,
	})

	res := env.sync(t, repo.RepoID)

	assert.Equal(t, models.SyncNotFound{}, res)
	assert.Equal(t, msgIndexNotFound, env.store.repo(t, repo.RepoID).LastError)
}

// ── New repositories ─────────────────────────────────────────────────────────

func TestRepoUpdater_UpdateNewRepo(t *testing.T) {
	tests := []struct {
		name        string
		fingerprint func(env *updaterEnv) string
		wantErr     error
	}{
		{
			name:        "matching fingerprint",
			fingerprint: func(env *updaterEnv) string { return env.signer.Fingerprint() },
		},
		{
			name:        "trust on first use",
			fingerprint: func(*updaterEnv) string { return "" },
		},
		{
			name:        "wrong fingerprint",
			fingerprint: func(*updaterEnv) string { return strings.Repeat("ab", 32) },
			wantErr:     verifier.ErrSigning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newUpdaterEnv(t)
			publishV2(t, env.srv, env.signer, ts1, indexT1(env.srv.address()), nil)
			repo := env.store.add(models.Repository{Address: env.srv.address(), Timestamp: -1, Enabled: true})

			res := env.updater.UpdateNewRepo(context.Background(), repo, NewRepoSync{Fingerprint: tt.fingerprint(env)})

			got := env.store.repo(t, repo.RepoID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, requireSyncError(t, res), tt.wantErr)
				assert.Empty(t, got.Certificate)
				return
			}
			require.Equal(t, models.SyncProcessed{}, res)
			assert.Equal(t, env.signer.CertificateHex(), got.Certificate)
		})
	}
}

// ── classify ─────────────────────────────────────────────────────────────────

func TestIndexUpdater_Classify(t *testing.T) {
	u := &indexUpdater{}
	repo := models.Repository{RepoID: 1}
	ctx := context.Background()

	assert.Equal(t, models.SyncProcessed{}, u.classify(ctx, repo, nil))
	assert.Equal(t, models.SyncNotFound{}, u.classify(ctx, repo, fmt.Errorf("download entry: %w", adapter.ErrNotFound)))
	assert.Equal(t, models.SyncUnchanged{}, u.classify(ctx, repo, index.CheckTimestamp(1, 1)))
	assert.Equal(t, models.SyncUnchanged{}, u.classify(ctx, repo, index.CheckTimestamp(1, 2)))

	cause := errors.New("boom")
	assert.Equal(t, models.SyncError{Err: cause}, u.classify(ctx, repo, cause))
}
