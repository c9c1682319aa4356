// Package acquire downloads the vendor installer and extracts its payload.
package acquire

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"

	"claudeport/internal/core/domain"
	"claudeport/internal/core/ports"
)

// Relative locations inside the extracted installer payload.
const (
	archiveRelPath   = "lib/net45/resources/app.asar"
	unpackedRelPath  = "lib/net45/resources/app.asar.unpacked"
	resourcesRelPath = "lib/net45/resources"
	exeRelPath       = "lib/net45/claude.exe"
)

// Acquirer fetches and unpacks the vendor release.
type Acquirer struct {
	runner     ports.CommandRunner
	downloader ports.Downloader
	logger     ports.Logger
}

// New creates an Acquirer.
func New(runner ports.CommandRunner, downloader ports.Downloader, logger ports.Logger) *Acquirer {
	return &Acquirer{runner: runner, downloader: downloader, logger: logger}
}

// Acquire downloads the installer for the target, extracts it, locates the
// single inner versioned package, derives the release version from its
// filename and extracts its contents. Zero or multiple package matches and
// an unparseable version are all fatal.
func (a *Acquirer) Acquire(ctx context.Context, work domain.WorkTree, target domain.Target) (domain.VendorPackage, error) {
	installerPath := filepath.Join(work.Downloads(), target.InstallerName)

	a.logger.Info(fmt.Sprintf("downloading %s", target.DownloadURL))
	if err := a.downloader.Fetch(ctx, target.DownloadURL, installerPath); err != nil {
		return domain.VendorPackage{}, err
	}

	extractDir := filepath.Join(work.Extract(), "installer")
	if err := a.extract(ctx, installerPath, extractDir); err != nil {
		return domain.VendorPackage{}, err
	}

	innerPkg, err := locateInnerPackage(extractDir)
	if err != nil {
		return domain.VendorPackage{}, err
	}

	version, err := domain.ExtractVersion(innerPkg)
	if err != nil {
		return domain.VendorPackage{}, err
	}
	a.logger.Info(fmt.Sprintf("found release %s", version))

	if err := a.extract(ctx, innerPkg, extractDir); err != nil {
		return domain.VendorPackage{}, err
	}

	archivePath := filepath.Join(extractDir, filepath.FromSlash(archiveRelPath))
	if _, err := os.Stat(archivePath); err != nil {
		return domain.VendorPackage{}, zerr.With(domain.ErrArchiveMissing, "path", archivePath)
	}

	return domain.VendorPackage{
		Version:      version,
		Arch:         target.Arch,
		DownloadURL:  target.DownloadURL,
		ArchivePath:  archivePath,
		UnpackedPath: filepath.Join(extractDir, filepath.FromSlash(unpackedRelPath)),
		ResourcesDir: filepath.Join(extractDir, filepath.FromSlash(resourcesRelPath)),
		ExePath:      filepath.Join(extractDir, filepath.FromSlash(exeRelPath)),
	}, nil
}

// extract unpacks an archive with the generic extractor. The installer is a
// self-extracting archive, the inner package a plain zip; 7z handles both.
func (a *Acquirer) extract(ctx context.Context, archive, dest string) error {
	if err := os.MkdirAll(dest, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrExtractFailed.Error())
	}

	if err := a.runner.Run(ctx, ports.Command{
		Name: "7z",
		Args: []string{"x", "-y", "-o" + dest, archive},
	}); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrExtractFailed.Error()), "archive", filepath.Base(archive))
	}
	return nil
}

// locateInnerPackage finds the single versioned package in the payload.
func locateInnerPackage(extractDir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(extractDir, domain.InnerPackageGlob))
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrInstallerPackageNotFound.Error())
	}

	switch len(matches) {
	case 0:
		return "", zerr.With(domain.ErrInstallerPackageNotFound, "glob", domain.InnerPackageGlob)
	case 1:
		return matches[0], nil
	default:
		return "", zerr.With(domain.ErrInstallerPackageAmbiguous, "matches", len(matches))
	}
}
