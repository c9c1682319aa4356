// Package fetch implements the Downloader port on net/http.
package fetch

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"

	"claudeport/internal/core/domain"
)

// Downloader fetches URLs to local files. It makes exactly one attempt per
// fetch; failures are fatal to the pipeline and never retried here.
type Downloader struct {
	httpClient *http.Client
}

// NewDownloader creates a Downloader with the default client.
// Vendor installers are large, so no client-side timeout is imposed beyond
// what the transport enforces natively.
func NewDownloader() *Downloader {
	return &Downloader{httpClient: &http.Client{}}
}

// NewDownloaderWithClient creates a Downloader with a custom client (used for testing).
func NewDownloaderWithClient(client *http.Client) *Downloader {
	return &Downloader{httpClient: client}
}

// Fetch downloads url into dest, creating parent directories as needed.
// The file is written to a temporary name and renamed into place so a
// failed download never leaves a truncated file behind.
func (d *Downloader) Fetch(ctx context.Context, url, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrDownloadFailed.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return zerr.Wrap(err, domain.ErrDownloadFailed.Error())
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrDownloadFailed.Error()), "url", url)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		failed := zerr.With(domain.ErrDownloadFailed, "url", url)
		return zerr.With(failed, "status_code", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".partial-*")
	if err != nil {
		return zerr.Wrap(err, domain.ErrDownloadFailed.Error())
	}
	tmpName := tmp.Name()
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(err, domain.ErrDownloadFailed.Error()), "url", url)
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrDownloadFailed.Error())
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrDownloadFailed.Error())
	}

	return os.Rename(tmpName, dest)
}
