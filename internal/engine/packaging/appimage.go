package packaging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"

	"claudeport/internal/adapters/fs"
	"claudeport/internal/core/domain"
	"claudeport/internal/core/ports"
)

// appRunScript is the AppImage entry point. Unlike the installed launchers
// it resolves everything relative to the mounted AppDir.
const appRunScript = `#!/bin/bash
set -u

HERE="$(dirname "$(readlink -f "$0")")"

FLAGS=("--no-sandbox" "--disable-features=CustomTitlebar")

if [ -n "${WAYLAND_DISPLAY:-}" ]; then
    FLAGS+=("--ozone-platform=wayland")
    FLAGS+=("--enable-features=WaylandWindowDecorations")
    FLAGS+=("--enable-wayland-ime")
    FLAGS+=("--wayland-text-input-version=3")
else
    FLAGS+=("--ozone-platform-hint=auto")
fi

exec "$HERE/electron" "$HERE/resources/app.asar" "${FLAGS[@]}" "$@"
`

// AppImage builds a portable bundle with appimagetool.
type AppImage struct {
	runner ports.CommandRunner
	logger ports.Logger
}

// NewAppImage creates the appimage back-end.
func NewAppImage(runner ports.CommandRunner, logger ports.Logger) *AppImage {
	return &AppImage{runner: runner, logger: logger}
}

// Format implements ports.Backend.
func (a *AppImage) Format() domain.Format { return domain.FormatAppImage }

// Build assembles an AppDir and runs appimagetool over it. AppImages carry
// no desktop integration of their own, so the desktop entry is additionally
// written next to the artifact for users who want to install it manually.
func (a *AppImage) Build(ctx context.Context, req ports.BuildRequest) (domain.PackageArtifact, error) {
	appDir := filepath.Join(req.WorkTree.Root, "appimage", "AppDir")
	if err := os.RemoveAll(appDir); err != nil {
		return domain.PackageArtifact{}, zerr.Wrap(err, domain.ErrPackagingFailed.Error())
	}
	if err := a.assembleAppDir(appDir, req); err != nil {
		return domain.PackageArtifact{}, zerr.Wrap(err, domain.ErrPackagingFailed.Error())
	}

	outPath := filepath.Join(req.OutDir, domain.ArtifactFileName(domain.PackageName, req.Version, req.Arch, domain.FormatAppImage))
	if err := a.runner.Run(ctx, ports.Command{
		Name: "appimagetool",
		Args: []string{appDir, outPath},
	}); err != nil {
		return domain.PackageArtifact{}, zerr.Wrap(err, domain.ErrPackagingFailed.Error())
	}

	if _, err := os.Stat(outPath); err != nil {
		a.logger.Warn(fmt.Sprintf("appimagetool finished but %s is missing", outPath))
		return domain.PackageArtifact{
			Path: domain.ArtifactNotFound, Format: domain.FormatAppImage,
			Version: req.Version, Arch: req.Arch,
		}, nil
	}

	entryPath := filepath.Join(req.OutDir, domain.PackageName+".desktop")
	if err := writeDesktopEntry(entryPath, outPath, domain.PackageName); err != nil {
		return domain.PackageArtifact{}, zerr.Wrap(err, domain.ErrPackagingFailed.Error())
	}

	return domain.PackageArtifact{
		Path: outPath, Format: domain.FormatAppImage,
		Version: req.Version, Arch: req.Arch,
	}, nil
}

func (a *AppImage) assembleAppDir(appDir string, req ports.BuildRequest) error {
	if err := fs.CopyTree(req.StagingDir, appDir); err != nil {
		return err
	}

	if err := fs.WriteFileAtomic(filepath.Join(appDir, "AppRun"), []byte(appRunScript), domain.ExecPerm); err != nil {
		return err
	}

	if err := writeDesktopEntry(
		filepath.Join(appDir, domain.PackageName+".desktop"),
		"AppRun", domain.PackageName,
	); err != nil {
		return err
	}

	if len(req.Icons) > 0 {
		largest := req.Icons[len(req.Icons)-1]
		if err := fs.CopyFile(largest, filepath.Join(appDir, domain.PackageName+".png"), domain.FilePerm); err != nil {
			return err
		}
	}
	return nil
}
