package update

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/localcc/autoupdater/internal/log"
)

// DefaultUserAgent is sent with every download request.
const DefaultUserAgent = "autoupdater"

const chunkSize = 32 * 1024

// Downloader fetches release assets into fresh temporary directories.
type Downloader struct {
	client    *http.Client
	userAgent string
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithHTTPClient sets the HTTP client used for downloads.
func WithHTTPClient(c *http.Client) DownloaderOption {
	return func(d *Downloader) {
		if c != nil {
			d.client = c
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) DownloaderOption {
	return func(d *Downloader) {
		if ua != "" {
			d.userAgent = ua
		}
	}
}

// NewDownloader creates a new downloader.
func NewDownloader(opts ...DownloaderOption) *Downloader {
	d := &Downloader{
		client:    http.DefaultClient,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// get requests the asset body. Caller headers are sent first; User-Agent and
// Accept always win. Any status other than 200 is an error.
func (d *Downloader) get(ctx context.Context, a Asset, headers http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.DownloadURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", ErrDownloadFailed, err)
	}
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "application/octet-stream")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()

		return nil, fmt.Errorf("%w: %s: %w", ErrDownloadFailed, a.Name, &StatusError{Code: resp.StatusCode})
	}

	return resp, nil
}

// Download streams the asset to <tmp>/<name>_dl*/<name> and returns the file path.
// Caller headers are sent first; User-Agent and Accept are always overwritten.
// progress, when non-nil, receives the completed fraction after every chunk and a
// final 1.0 once the body is fully written. With an unknown length every
// intermediate value is 0.
//
// The caller owns the returned file; Cleanup removes it along with its directory.
// On error nothing is left on disk.
func (d *Downloader) Download(ctx context.Context, a Asset, headers http.Header, progress ProgressFunc) (path string, err error) {
	if progress == nil {
		progress = func(float64) {}
	}

	resp, err := d.get(ctx, a, headers)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	name := filepath.Base(a.Name)
	if !filepath.IsLocal(name) {
		name = "asset"
	}

	dir, err := os.MkdirTemp("", name+"_dl*")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownloadFailed, fsError("mkdir", os.TempDir(), err))
	}
	defer func() {
		if err != nil {
			_ = os.RemoveAll(dir)
		}
	}()

	path = filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownloadFailed, fsError("create", path, err))
	}

	total := resp.ContentLength
	if total < 0 {
		total = 0
	}

	log.DebugContext(ctx, "downloading asset", log.Asset(a.Name), "bytes", total)

	written, err := copyWithProgress(f, resp.Body, total, progress)
	closeErr := f.Close()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	if closeErr != nil {
		return "", fmt.Errorf("%w: %w", ErrDownloadFailed, fsError("close", path, closeErr))
	}

	progress(1)

	log.DebugContext(ctx, "asset downloaded", log.Asset(a.Name), log.Path(path), "bytes", written)

	return path, nil
}

// copyWithProgress copies src into dst chunk by chunk, reporting after each write.
func copyWithProgress(dst *os.File, src io.Reader, total int64, progress ProgressFunc) (int64, error) {
	buf := make([]byte, chunkSize)
	var done int64
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, err := dst.Write(buf[:n]); err != nil {
				return done, fsError("write", dst.Name(), err)
			}
			done += int64(n)
			progress(fraction(done, total))
		}
		if errors.Is(readErr, io.EOF) {
			return done, nil
		}
		if readErr != nil {
			return done, readErr
		}
	}
}

func fraction(done, total int64) float64 {
	if total <= 0 {
		return 0
	}

	return min(float64(done)/float64(total), 1)
}

// Cleanup removes a file returned by Download together with its temporary directory.
func Cleanup(path string) error {
	if path == "" {
		return nil
	}

	dir := filepath.Dir(path)
	if !strings.Contains(filepath.Base(dir), "_dl") {
		return os.Remove(path)
	}

	return os.RemoveAll(dir)
}
