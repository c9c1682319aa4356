package fetch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claudeport/internal/adapters/fetch"
	"claudeport/internal/core/domain"
)

func TestDownloader_Fetch(t *testing.T) {
	payload := []byte("MZ\x90\x00installer bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "nested", "Claude-Setup-x64.exe")

	d := fetch.NewDownloaderWithClient(server.Client())
	require.NoError(t, d.Fetch(context.Background(), server.URL, dest))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	// No partial files left behind.
	entries, err := os.ReadDir(filepath.Dir(dest))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestDownloader_Fetch_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "installer.exe")

	d := fetch.NewDownloaderWithClient(server.Client())
	err := d.Fetch(context.Background(), server.URL, dest)

	require.ErrorIs(t, err, domain.ErrDownloadFailed)
	assert.NoFileExists(t, dest)
}

func TestDownloader_Fetch_ConnectionRefused(t *testing.T) {
	// Bind and immediately close so the port is known dead.
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	dest := filepath.Join(t.TempDir(), "installer.exe")

	d := fetch.NewDownloaderWithClient(&http.Client{})
	err := d.Fetch(context.Background(), url, dest)

	require.Error(t, err)
	assert.NoFileExists(t, dest)
}

func TestDownloader_Fetch_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dest := filepath.Join(t.TempDir(), "installer.exe")

	d := fetch.NewDownloaderWithClient(server.Client())
	err := d.Fetch(ctx, server.URL, dest)

	require.Error(t, err)
	assert.NoFileExists(t, dest)
}
