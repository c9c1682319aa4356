package ports

import "context"

// Downloader fetches a URL to a local file. Implementations make exactly one
// attempt; the pipeline has no retry or fallback mirror anywhere.
//
//go:generate mockgen -source=downloader.go -destination=mocks/mock_downloader.go -package=mocks
type Downloader interface {
	// Fetch downloads url into dest, creating parent directories as needed.
	Fetch(ctx context.Context, url, dest string) error
}
