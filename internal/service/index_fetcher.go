package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MKhiriev/go-repo-sync/internal/adapter"
	"github.com/MKhiriev/go-repo-sync/internal/index"
	"github.com/MKhiriev/go-repo-sync/internal/logger"
	"github.com/MKhiriev/go-repo-sync/internal/verifier"
	"github.com/MKhiriev/go-repo-sync/models"
)

const (
	entryContainer   = "/entry.jar"
	entryFileName    = "entry.json"
	indexV1Container = "/index-v1.jar"
	indexV1FileName  = "index-v1.json"
)

// indexSink receives a decoded full index or diff.
type indexSink interface {
	index.Receiver
	ReceiveRepoDiff(ctx context.Context, raw json.RawMessage) error
	ReceivePackageDiff(ctx context.Context, packageID string, raw json.RawMessage) error
}

type fetchRequest struct {
	repo  models.Repository
	trust verifier.Trust
	proxy string
	// allowDiff lets a diff from repo.Timestamp replace the full index.
	allowDiff bool
	// keepIndex leaves the downloaded index file in place for a later update.
	keepIndex bool
	// staged is read instead of downloading the index when the hash matches.
	staged StagedIndex
}

type fetchResult struct {
	certificate string
	timestamp   int64
	format      models.FormatVersion
	// staged is the kept index file, see fetchRequest.keepIndex.
	staged StagedIndex
}

type fetchFunc func(ctx context.Context, req fetchRequest, sink indexSink) (fetchResult, error)

// indexFetcher downloads, verifies and decodes repository indexes. It never
// writes to the store itself: everything it reads goes to an indexSink.
type indexFetcher struct {
	downloader adapter.Downloader
	verifier   Verifier
	v1         *index.V1Decoder
	v2         *index.V2Decoder
	tempDir    string
	logger     *logger.Logger
}

func newIndexFetcher(downloader adapter.Downloader, v Verifier, tempDir string, log *logger.Logger) *indexFetcher {
	return &indexFetcher{
		downloader: downloader,
		verifier:   v,
		v1:         index.NewV1Decoder(),
		v2:         index.NewV2Decoder(),
		tempDir:    tempDir,
		logger:     log,
	}
}

// fetchV2 reads entry.jar, then the full index or the diff it names.
func (f *indexFetcher) fetchV2(ctx context.Context, req fetchRequest, sink indexSink) (fetchResult, error) {
	jar, err := f.tempFile("entry-*.jar")
	if err != nil {
		return fetchResult{}, err
	}
	defer os.Remove(jar)

	if err = f.downloader.Download(ctx, f.downloadRequest(req, entryContainer), jar); err != nil {
		return fetchResult{}, fmt.Errorf("download entry: %w", err)
	}

	var entry models.EntryManifest
	cert, err := f.verifier.Open(jar, entryFileName, req.trust, func(r io.Reader) error {
		var parseErr error
		entry, parseErr = index.ParseEntry(r)
		return parseErr
	})
	if err != nil {
		return fetchResult{}, fmt.Errorf("open entry: %w", err)
	}

	if err = index.CheckTimestamp(entry.Timestamp, req.repo.Timestamp); err != nil {
		return fetchResult{}, err
	}

	res := fetchResult{certificate: cert, timestamp: entry.Timestamp, format: models.FormatVersionV2}

	if req.allowDiff && req.repo.FormatVersion == models.FormatVersionV2 {
		if ref, ok := entry.DiffFor(req.repo.Timestamp); ok {
			_, err = f.readArtifact(ctx, req, ref, false, func(r io.Reader) error {
				return f.v2.DecodeDiff(ctx, r, sink)
			})
			var dlErr *artifactDownloadError
			if err == nil || ctx.Err() != nil || !errors.As(err, &dlErr) {
				return res, err
			}
			// the diff never reached the sink, so the full index can still
			// be applied
			f.logger.Warn().Err(err).Str("func", "indexFetcher.fetchV2").
				Str("diff", ref.Name).Msg("diff unavailable, falling back to full index")
		}
	}

	path, err := f.readArtifact(ctx, req, entry.Index, req.keepIndex, func(r io.Reader) error {
		return f.v2.Decode(ctx, r, sink)
	})
	if err == nil && req.keepIndex {
		res.staged = StagedIndex{Path: path, SHA256: strings.ToLower(entry.Index.SHA256)}
	}
	return res, err
}

// fetchV1 reads index-v1.jar and streams the embedded index while the
// container is being verified.
func (f *indexFetcher) fetchV1(ctx context.Context, req fetchRequest, sink indexSink) (fetchResult, error) {
	jar, err := f.tempFile("index-v1-*.jar")
	if err != nil {
		return fetchResult{}, err
	}
	defer os.Remove(jar)

	if err = f.downloader.Download(ctx, f.downloadRequest(req, indexV1Container), jar); err != nil {
		return fetchResult{}, fmt.Errorf("download legacy index: %w", err)
	}

	recv := &timestampReceiver{Receiver: sink}
	cert, err := f.verifier.Open(jar, indexV1FileName, req.trust, func(r io.Reader) error {
		return f.v1.Decode(ctx, r, req.repo.Timestamp, recv)
	})
	if err != nil {
		return fetchResult{}, err
	}

	return fetchResult{certificate: cert, timestamp: recv.timestamp, format: models.FormatVersionV1}, nil
}

// artifactDownloadError is a failure to download an index file. The file was
// never decoded.
type artifactDownloadError struct {
	name string
	err  error
}

func (e *artifactDownloadError) Error() string {
	return fmt.Sprintf("download %s: %v", e.name, e.err)
}

func (e *artifactDownloadError) Unwrap() error {
	return e.err
}

// readArtifact downloads an index file named by the entry manifest, bound to
// its size and hash, and hands it to decode. With keep the file stays in
// place and its path is returned.
func (f *indexFetcher) readArtifact(ctx context.Context, req fetchRequest, ref models.IndexFileRef,
	keep bool, decode func(io.Reader) error) (string, error) {
	path, err := f.artifactPath(req.staged, ref)
	if err != nil {
		return "", err
	}
	if err = f.decodeArtifact(ctx, req, ref, path, decode); err != nil || !keep {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

func (f *indexFetcher) decodeArtifact(ctx context.Context, req fetchRequest, ref models.IndexFileRef,
	path string, decode func(io.Reader) error) error {
	dl := f.downloadRequest(req, ref.Name)
	dl.ExpectedSize = ref.Size
	dl.ExpectedSHA256 = ref.SHA256
	if err := f.downloader.Download(ctx, dl, path); err != nil {
		return &artifactDownloadError{name: ref.Name, err: err}
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", ref.Name, err)
	}
	defer file.Close()

	return decode(file)
}

func (f *indexFetcher) downloadRequest(req fetchRequest, file string) adapter.DownloadRequest {
	return adapter.DownloadRequest{
		IndexFile: file,
		Mirrors:   req.repo.EffectiveMirrors(),
		Proxy:     req.proxy,
		Username:  req.repo.Username,
		Password:  req.repo.Password,
	}
}

func (f *indexFetcher) tempFile(pattern string) (string, error) {
	if err := os.MkdirAll(f.tempDir, 0o700); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	file, err := os.CreateTemp(f.tempDir, pattern)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	name := file.Name()
	if err = file.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return name, nil
}

// artifactPath returns the staged file when it was verified against the hash
// ref names, and a new file otherwise. The downloader only reads the staged
// file again if it is complete and matches.
func (f *indexFetcher) artifactPath(staged StagedIndex, ref models.IndexFileRef) (string, error) {
	sum, err := hex.DecodeString(ref.SHA256)
	if err != nil || len(sum) != sha256.Size {
		return "", &index.MalformedIndexError{Field: "sha256", Reason: "not a SHA-256 hex digest: " + ref.Name}
	}
	if staged.Path != "" && strings.EqualFold(staged.SHA256, ref.SHA256) {
		return staged.Path, nil
	}
	return f.tempFile("index-*.json")
}

// timestampReceiver remembers the timestamp of the repository it forwards.
type timestampReceiver struct {
	index.Receiver
	timestamp int64
}

func (r *timestampReceiver) ReceiveRepo(ctx context.Context, repo models.RepoMetadata) error {
	r.timestamp = repo.Timestamp
	return r.Receiver.ReceiveRepo(ctx, repo)
}
