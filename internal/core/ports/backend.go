package ports

import (
	"context"

	"claudeport/internal/core/domain"
)

// BuildRequest carries everything a packaging back-end needs: a finished
// staging directory plus build metadata.
type BuildRequest struct {
	Version    string
	Arch       domain.Architecture
	WorkTree   domain.WorkTree
	StagingDir string
	// Icons are extracted raster paths, sorted from smallest to largest.
	Icons []string
	// OutDir is the invocation directory artifacts are placed in,
	// never inside the working tree.
	OutDir string
}

// Backend turns a staging directory into one distributable artifact.
type Backend interface {
	// Format reports which artifact format the back-end produces.
	Format() domain.Format
	// Build produces the artifact and returns its path. A missing output
	// file after a clean tool exit is reported via domain.ArtifactNotFound,
	// not as an error.
	Build(ctx context.Context, req BuildRequest) (domain.PackageArtifact, error)
}
