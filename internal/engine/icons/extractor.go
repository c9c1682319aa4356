// Package icons recovers the application icon rasters from the vendor's
// Windows executable, since the Linux artifacts cannot read PE resources.
package icons

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.trai.ch/zerr"

	"claudeport/internal/core/domain"
	"claudeport/internal/core/ports"
)

// resource type 14 is RT_GROUP_ICON in the PE resource table.
const iconResourceType = "14"

// Extractor pulls icon rasters out of a PE executable with the icoutils
// tool pair (wrestool + icotool).
type Extractor struct {
	runner ports.CommandRunner
	logger ports.Logger
}

// New creates an Extractor.
func New(runner ports.CommandRunner, logger ports.Logger) *Extractor {
	return &Extractor{runner: runner, logger: logger}
}

// Extract writes the PNG rasters found in exePath into destDir and returns
// their paths ordered by raster size, largest last. An executable without
// icon resources is an error; every packaging back-end needs at least one
// raster.
func (x *Extractor) Extract(ctx context.Context, exePath, destDir string) ([]string, error) {
	if err := os.MkdirAll(destDir, domain.DirPerm); err != nil {
		return nil, zerr.Wrap(err, domain.ErrIconExtractFailed.Error())
	}

	icoPath := filepath.Join(destDir, "claude.ico")
	if err := x.runner.Run(ctx, ports.Command{
		Name: "wrestool",
		Args: []string{"-x", "-t", iconResourceType, "-o", icoPath, exePath},
	}); err != nil {
		return nil, zerr.Wrap(err, domain.ErrIconExtractFailed.Error())
	}

	if err := x.runner.Run(ctx, ports.Command{
		Name: "icotool",
		Args: []string{"-x", "-o", destDir, icoPath},
	}); err != nil {
		return nil, zerr.Wrap(err, domain.ErrIconExtractFailed.Error())
	}

	rasters, err := filepath.Glob(filepath.Join(destDir, "*.png"))
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrIconExtractFailed.Error())
	}
	if len(rasters) == 0 {
		return nil, zerr.With(domain.ErrIconExtractFailed, "exe", exePath)
	}

	sort.Slice(rasters, func(i, j int) bool {
		return fileSize(rasters[i]) < fileSize(rasters[j])
	})

	x.logger.Info(fmt.Sprintf("extracted %d icon rasters", len(rasters)))
	return rasters, nil
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
