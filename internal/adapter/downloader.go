package adapter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-repo-sync/internal/config"
	"github.com/MKhiriev/go-repo-sync/internal/logger"
	"github.com/MKhiriev/go-repo-sync/internal/utils"
	"github.com/MKhiriev/go-repo-sync/models"
	"github.com/go-resty/resty/v2"
)

// MirrorDownloader implements [Downloader] on top of resty.
type MirrorDownloader struct {
	direct    *utils.HTTPClient
	timeout   time.Duration
	userAgent string
	proxy     string

	mu      sync.Mutex
	proxied map[string]*utils.HTTPClient

	logger *logger.Logger
}

// NewMirrorDownloader constructs a [MirrorDownloader]. Redirects are never
// followed; cfg.RequestTimeout bounds every single mirror attempt.
func NewMirrorDownloader(cfg config.ClientAdapter, log *logger.Logger) *MirrorDownloader {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = config.DefaultRequestTimeout
	}

	return &MirrorDownloader{
		direct:    newMirrorClient(cfg.UserAgent, ""),
		timeout:   timeout,
		userAgent: cfg.UserAgent,
		proxy:     cfg.Proxy,
		proxied:   make(map[string]*utils.HTTPClient),
		logger:    log,
	}
}

func newMirrorClient(userAgent, proxy string) *utils.HTTPClient {
	return utils.NewHTTPClient(utils.WithoutRedirects(), utils.WithUserAgent(userAgent), utils.WithProxy(proxy))
}

// Download implements [Downloader].
func (d *MirrorDownloader) Download(ctx context.Context, req DownloadRequest, dest string) error {
	return d.eachMirror(ctx, req, http.MethodGet, func(ctx context.Context, mirror models.Mirror) error {
		return d.download(ctx, mirror, req, dest)
	})
}

// Head implements [Downloader]. It never sends If-None-Match; the ETag
// comparison happens locally.
func (d *MirrorDownloader) Head(ctx context.Context, req DownloadRequest) (HeadInfo, error) {
	var info HeadInfo
	err := d.eachMirror(ctx, req, http.MethodHead, func(ctx context.Context, mirror models.Mirror) error {
		ctx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()

		resp, err := d.request(ctx, mirror, req).Head(fileURL(mirror.URL, req.IndexFile))
		if resp != nil && resp.RawBody() != nil {
			resp.RawBody().Close()
		}
		if err != nil {
			return err
		}
		if err = mapHTTPError(resp); err != nil {
			return err
		}

		etag := resp.Header().Get("ETag")
		info = HeadInfo{
			ETagChanged:   req.ETag == "" || etag == "" || etag != req.ETag,
			ETag:          etag,
			ContentLength: resp.RawResponse.ContentLength,
		}
		return nil
	})
	return info, err
}

// eachMirror runs attempt against the mirrors in order until one succeeds.
func (d *MirrorDownloader) eachMirror(ctx context.Context, req DownloadRequest, method string,
	attempt func(context.Context, models.Mirror) error) error {
	mirrors := orderMirrors(req.Mirrors, req.TryFirstMirror)
	if len(mirrors) == 0 {
		return fmt.Errorf("%w: %s", ErrNoMirrors, req.IndexFile)
	}

	var (
		lastErr  error
		notFound int
	)
	for _, mirror := range mirrors {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := attempt(ctx, mirror)
		mirrorAttempts.WithLabelValues(method, resultLabel(err)).Inc()
		if err == nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if isFatal(err) {
			d.logger.Err(err).Str("func", "MirrorDownloader.eachMirror").
				Str("mirror", mirror.URL).Str("file", req.IndexFile).Msg("download rejected")
			return err
		}
		if errors.Is(err, ErrNotFound) {
			notFound++
		}

		d.logger.Warn().Err(err).Str("func", "MirrorDownloader.eachMirror").
			Str("mirror", mirror.URL).Str("file", req.IndexFile).Msg("mirror failed, trying next")
		lastErr = err
	}

	if notFound == len(mirrors) {
		return fmt.Errorf("%w: %s", ErrNotFound, req.IndexFile)
	}
	// lastErr is formatted with %v so a 404 from one mirror does not turn
	// the whole attempt into ErrNotFound
	return fmt.Errorf("%w: %s: %v", ErrNetwork, req.IndexFile, lastErr)
}

func isFatal(err error) bool {
	return errors.Is(err, ErrNoResume) || errors.Is(err, ErrTooLarge) || errors.Is(err, ErrHashMismatch)
}

func (d *MirrorDownloader) download(ctx context.Context, mirror models.Mirror, req DownloadRequest, dest string) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	offset, err := d.resumeOffset(req, dest)
	if err != nil {
		return err
	}
	if offset < 0 {
		// already complete and verified
		return nil
	}

	r := d.request(ctx, mirror, req)
	if offset > 0 {
		r.SetHeader("Range", fmt.Sprintf("bytes=%d-", offset))
	}
	resp, err := r.Get(fileURL(mirror.URL, req.IndexFile))
	if resp != nil && resp.RawBody() != nil {
		defer resp.RawBody().Close()
	}
	if err != nil {
		return err
	}

	switch code := resp.StatusCode(); {
	case offset > 0 && code == http.StatusOK:
		return fmt.Errorf("%w: %s answered 200 to a range request", ErrNoResume, mirror.URL)
	case offset > 0 && code == http.StatusPartialContent, offset == 0 && code == http.StatusOK:
	default:
		if err = mapHTTPError(resp); err != nil {
			return err
		}
		return fmt.Errorf("unexpected status %d from %s", code, mirror.URL)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if offset > 0 {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	f, err := os.OpenFile(dest, flags, 0o600)
	if err != nil {
		return fmt.Errorf("open download file: %w", err)
	}

	var body io.Reader = resp.RawBody()
	remaining := int64(-1)
	if req.ExpectedSize > 0 {
		remaining = req.ExpectedSize - offset
		body = io.LimitReader(body, remaining+1)
	}
	n, copyErr := io.Copy(f, body)
	downloadedBytes.Add(float64(n))
	closeErr := f.Close()

	if remaining >= 0 && n > remaining {
		_ = os.Remove(dest)
		return fmt.Errorf("%w: more than %d bytes", ErrTooLarge, req.ExpectedSize)
	}
	// a partial file stays in place and is resumed on the next mirror
	if copyErr != nil {
		return fmt.Errorf("read from %s: %w", mirror.URL, copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close download file: %w", closeErr)
	}
	if remaining >= 0 && n < remaining {
		return fmt.Errorf("short read from %s: %d of %d bytes", mirror.URL, offset+n, req.ExpectedSize)
	}

	if req.ExpectedSHA256 != "" {
		if err = checkHash(dest, req.ExpectedSHA256); err != nil {
			_ = os.Remove(dest)
			return err
		}
	}
	return nil
}

// resumeOffset returns how many bytes of dest can be kept, or -1 when dest
// already holds the complete expected file.
func (d *MirrorDownloader) resumeOffset(req DownloadRequest, dest string) (int64, error) {
	st, err := os.Stat(dest)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("stat download file: %w", err)
	}

	size := st.Size()
	if req.ExpectedSize <= 0 || size < req.ExpectedSize {
		return size, nil
	}
	if size == req.ExpectedSize && req.ExpectedSHA256 != "" && checkHash(dest, req.ExpectedSHA256) == nil {
		return -1, nil
	}
	if err = os.Remove(dest); err != nil {
		return 0, fmt.Errorf("remove stale download file: %w", err)
	}
	return 0, nil
}

func (d *MirrorDownloader) request(ctx context.Context, mirror models.Mirror, req DownloadRequest) *resty.Request {
	proxy := req.Proxy
	if proxy == "" {
		proxy = d.proxy
	}

	client := d.direct
	if proxy != "" && !mirror.IsLocal() {
		client = d.proxiedClient(proxy)
	}

	r := client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true)
	if req.Username != "" {
		r.SetBasicAuth(req.Username, req.Password)
	}
	return r
}

func (d *MirrorDownloader) proxiedClient(proxy string) *utils.HTTPClient {
	d.mu.Lock()
	defer d.mu.Unlock()

	client, ok := d.proxied[proxy]
	if !ok {
		client = newMirrorClient(d.userAgent, proxy)
		d.proxied[proxy] = client
	}
	return client
}

func checkHash(path, expected string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open download file: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err = io.Copy(h, f); err != nil {
		return fmt.Errorf("hash download file: %w", err)
	}
	if got := hex.EncodeToString(h.Sum(nil)); !strings.EqualFold(got, expected) {
		return fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, expected, got)
	}
	return nil
}

func orderMirrors(mirrors []models.Mirror, first string) []models.Mirror {
	ordered := make([]models.Mirror, 0, len(mirrors))
	first = models.NormalizeURL(first)
	for _, m := range mirrors {
		if first != "" && models.NormalizeURL(m.URL) == first {
			ordered = append([]models.Mirror{m}, ordered...)
			continue
		}
		ordered = append(ordered, m)
	}
	return ordered
}

func fileURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
